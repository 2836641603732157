package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// ProfileHandler exposes the combat attribute projection. The profile
// service upstream pushes updates here; battle creation reads them.
type ProfileHandler struct {
	repo storage.Repository
}

func NewProfileHandler(repo storage.Repository) *ProfileHandler {
	return &ProfileHandler{repo: repo}
}

type profilePayload struct {
	PlayerID  string `json:"player_id"`
	Strength  int    `json:"strength"`
	Stamina   int    `json:"stamina"`
	Agility   int    `json:"agility"`
	Intuition int    `json:"intuition"`
}

// GetProfile returns a player's attribute line. Unknown players resolve to
// the default line, mirroring what battle creation would use for them.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	playerID := normalizeBattleID(c.Param("playerID"))
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	stats, err := h.repo.GetProfile(playerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			stats = combat.DefaultStats()
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	c.JSON(http.StatusOK, profilePayload{
		PlayerID:  playerID,
		Strength:  stats.Strength,
		Stamina:   stats.Stamina,
		Agility:   stats.Agility,
		Intuition: stats.Intuition,
	})
}

// PutProfile upserts a player's attribute line.
func (h *ProfileHandler) PutProfile(c *gin.Context) {
	playerID := normalizeBattleID(c.Param("playerID"))
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	var req profilePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Strength < 0 || req.Stamina < 0 || req.Agility < 0 || req.Intuition < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	stats := combat.PlayerStats{
		Strength:  req.Strength,
		Stamina:   req.Stamina,
		Agility:   req.Agility,
		Intuition: req.Intuition,
	}
	if err := h.repo.UpsertProfile(playerID, stats); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}
