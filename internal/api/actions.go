package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/service"
)

type ActionRequest struct {
	TurnIndex int `json:"turn_index"`
	// Payload carries the attack/block declaration verbatim; the engine's
	// normalizer owns its interpretation.
	Payload json.RawMessage `json:"payload"`
}

// SubmitAction records the authenticated player's action for the current
// turn. Submissions that fail normalization are accepted and downgraded to
// no-action rather than rejected.
func (h *BattleHandler) SubmitAction(c *gin.Context) {
	battleID := normalizeBattleID(c.Param("battleID"))
	if !battleIDRegex.MatchString(battleID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	playerID := sessionPlayerID(c)
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}

	s, resolved, err := h.orc.SubmitAction(service.SubmitActionCommand{
		BattleID:   battleID,
		PlayerID:   playerID,
		TurnIndex:  req.TurnIndex,
		RawPayload: string(req.Payload),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBattleNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case errors.Is(err, service.ErrPlayerNotInBattle):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInBattle})
		case errors.Is(err, service.ErrConcurrentUpdate):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrFailedStoreAction})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreAction})
		}
		return
	}

	if resolved {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Turn resolved", "turn_index": s.LastResolvedTurnIndex})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Action stored. Waiting for opponent."})
}
