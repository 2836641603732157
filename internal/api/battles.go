package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/service"
)

type CreateBattleRequest struct {
	BattleID  string `json:"battle_id"`
	MatchID   string `json:"match_id"`
	PlayerAID string `json:"player_a_id"`
	PlayerBID string `json:"player_b_id"`
}

// CreateBattle provisions a new battle for a confirmed match. Retried
// requests with the same battle id return the existing battle unchanged.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	battleID := normalizeBattleID(req.BattleID)
	if battleID == "" {
		// Upstream matchmaking normally assigns the id; generate one when the
		// caller leaves it out.
		battleID = uuid.NewString()
	}
	if !battleIDRegex.MatchString(battleID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}

	s, err := h.orc.CreateBattle(service.CreateBattleCommand{
		BattleID:  battleID,
		MatchID:   req.MatchID,
		PlayerAID: req.PlayerAID,
		PlayerBID: req.PlayerBID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCommand):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateBattle})
		}
		return
	}
	c.JSON(http.StatusCreated, service.BuildSnapshot(s))
}

// GetBattle returns the authoritative snapshot for a battle.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	battleID := normalizeBattleID(c.Param("battleID"))
	if !battleIDRegex.MatchString(battleID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	snap, err := h.orc.GetSnapshot(battleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBattleNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		}
		return
	}
	c.JSON(http.StatusOK, snap)
}

type EndBattleRequest struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
}

// EndBattle force-terminates a battle on behalf of an external authority.
// Ending an already-ended battle is a success no-op.
func (h *BattleHandler) EndBattle(c *gin.Context) {
	battleID := normalizeBattleID(c.Param("battleID"))
	if !battleIDRegex.MatchString(battleID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	var req EndBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	s, err := h.orc.EndBattle(service.EndBattleCommand{
		BattleID: battleID,
		MatchID:  req.MatchID,
		Reason:   battle.EndReason(req.Reason),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBattleNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case errors.Is(err, service.ErrConcurrentUpdate):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrFailedEndBattle})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEndBattle})
		}
		return
	}
	c.JSON(http.StatusOK, service.BuildSnapshot(s))
}
