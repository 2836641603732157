// Package realtime fans battle notifications out to websocket subscribers.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/service"
)

const writeWait = 5 * time.Second

// Subscriber wraps one websocket connection. Writes are serialized through
// mu because gorilla connections allow only one concurrent writer.
type Subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *Subscriber) send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks subscribers per battle and broadcasts messages to them. It
// implements the orchestrator's notification port; delivery is best-effort
// and a subscriber whose write fails is dropped.
type Hub struct {
	mu      sync.Mutex
	battles map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{battles: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe registers a connection for a battle's message stream. The
// returned handle must be passed to Unsubscribe when the connection closes.
func (h *Hub) Subscribe(battleID string, conn *websocket.Conn) *Subscriber {
	sub := &Subscriber{conn: conn}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.battles[battleID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.battles[battleID] = set
	}
	set[sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(battleID string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.battles[battleID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.battles, battleID)
	}
}

func (h *Hub) broadcast(battleID string, msgType string, payload any) {
	data, err := json.Marshal(message{Type: msgType, Payload: payload})
	if err != nil {
		logging.Error("broadcast marshal failed", err, logging.Fields{constants.LogFieldBattleID: battleID})
		return
	}

	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.battles[battleID]))
	for sub := range h.battles[battleID] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(data); err != nil {
			h.Unsubscribe(battleID, sub)
			sub.conn.Close()
		}
	}
}

// message is the wire envelope pushed to clients.
type message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	msgBattleReady   = "battle_ready"
	msgTurnOpened    = "turn_opened"
	msgTurnResolved  = "turn_resolved"
	msgPlayerDamaged = "player_damaged"
	msgStateUpdated  = "state_updated"
	msgBattleEnded   = "battle_ended"
)

type battleReadyPayload struct {
	BattleID  string `json:"battle_id"`
	PlayerAID string `json:"player_a_id"`
	PlayerBID string `json:"player_b_id"`
}

type turnOpenedPayload struct {
	BattleID    string `json:"battle_id"`
	TurnIndex   int    `json:"turn_index"`
	DeadlineUTC string `json:"deadline_utc"`
}

// SendSnapshot pushes the current state to a single subscriber. Used to
// seed a fresh connection without waking the rest of the battle's audience.
func (h *Hub) SendSnapshot(sub *Subscriber, snap service.Snapshot) {
	data, err := json.Marshal(message{Type: msgStateUpdated, Payload: snap})
	if err != nil {
		logging.Error("snapshot marshal failed", err, logging.Fields{constants.LogFieldBattleID: snap.BattleID})
		return
	}
	if err := sub.send(data); err != nil {
		h.Unsubscribe(snap.BattleID, sub)
		sub.conn.Close()
	}
}

func (h *Hub) NotifyBattleReady(battleID, playerAID, playerBID string) {
	h.broadcast(battleID, msgBattleReady, battleReadyPayload{
		BattleID:  battleID,
		PlayerAID: playerAID,
		PlayerBID: playerBID,
	})
}

func (h *Hub) NotifyTurnOpened(battleID string, turnIndex int, deadlineUTC time.Time) {
	h.broadcast(battleID, msgTurnOpened, turnOpenedPayload{
		BattleID:    battleID,
		TurnIndex:   turnIndex,
		DeadlineUTC: deadlineUTC.UTC().Format(time.RFC3339),
	})
}

func (h *Hub) NotifyTurnResolved(evt battle.TurnResolved) {
	h.broadcast(evt.BattleID, msgTurnResolved, evt)
}

func (h *Hub) NotifyPlayerDamaged(evt battle.PlayerDamaged) {
	h.broadcast(evt.BattleID, msgPlayerDamaged, evt)
}

func (h *Hub) NotifyStateUpdated(snap service.Snapshot) {
	h.broadcast(snap.BattleID, msgStateUpdated, snap)
}

func (h *Hub) NotifyBattleEnded(evt battle.BattleEnded) {
	h.broadcast(evt.BattleID, msgBattleEnded, evt)
}
