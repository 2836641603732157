package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/realtime"
	"github.com/sorokinArtemV/kombats-sub002/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth already gates the route; the origin check would only block
	// non-browser clients.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler serves the per-battle realtime stream.
type WSHandler struct {
	hub *realtime.Hub
	orc *service.Orchestrator
}

func NewWSHandler(hub *realtime.Hub, orc *service.Orchestrator) *WSHandler {
	return &WSHandler{hub: hub, orc: orc}
}

// Subscribe upgrades the connection and streams battle messages until the
// client disconnects. The stream is one-way; client frames are drained and
// discarded.
func (h *WSHandler) Subscribe(c *gin.Context) {
	battleID := normalizeBattleID(c.Param("battleID"))
	if !battleIDRegex.MatchString(battleID) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	snap, err := h.orc.GetSnapshot(battleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldBattleID: battleID})
		return
	}
	sub := h.hub.Subscribe(battleID, conn)
	defer func() {
		h.hub.Unsubscribe(battleID, sub)
		conn.Close()
	}()

	// Seed the client with the current authoritative state so it never has
	// to stitch the snapshot from a separate fetch.
	h.hub.SendSnapshot(sub, snap)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
