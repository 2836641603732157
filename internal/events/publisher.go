// Package events delivers integration events out of the battle outbox.
//
// The orchestrator appends termination events to the outbox in the same
// transaction as the terminal state write; the dispatcher here drains the
// outbox and hands events to a Sink. Delivery is at-least-once: a row is
// marked delivered only after the sink accepts it, and an expired claim puts
// the row back into circulation. Downstream consumers deduplicate on
// battle id.
package events

import (
	"encoding/json"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// Sink receives integration events for onward transport. The broker
// plumbing behind it is an external collaborator.
type Sink interface {
	PublishBattleEnded(evt battle.BattleEnded) error
}

// LogSink is the in-process default sink: it writes the event to the
// structured log. Useful for local runs and as a template for real
// transport adapters.
type LogSink struct{}

func (LogSink) PublishBattleEnded(evt battle.BattleEnded) error {
	winner := ""
	if evt.WinnerPlayerID != nil {
		winner = *evt.WinnerPlayerID
	}
	logging.Info("battle ended event published", logging.Fields{
		constants.LogFieldBattleID: evt.BattleID,
		constants.LogFieldMatchID:  evt.MatchID,
		constants.LogFieldReason:   string(evt.Reason),
		"winner_id":                winner,
		"final_turn_index":         evt.FinalTurnIndex,
	})
	return nil
}

// Outbox is the slice of the storage surface the dispatcher drains.
type Outbox interface {
	ClaimOutboxEvents(now time.Time, limit int, claimTTL time.Duration, workerID string) ([]storage.OutboxEvent, error)
	MarkOutboxDelivered(id uint) error
}

// Dispatcher periodically claims undelivered outbox rows and pushes them to
// the sink.
type Dispatcher struct {
	outbox   Outbox
	sink     Sink
	workerID string
	interval time.Duration
	claimTTL time.Duration
	batch    int
}

// NewDispatcher builds a dispatcher with the given drain cadence.
func NewDispatcher(outbox Outbox, sink Sink, workerID string, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		outbox:   outbox,
		sink:     sink,
		workerID: workerID,
		interval: interval,
		claimTTL: 2 * time.Minute,
		batch:    50,
	}
}

// Run drains the outbox until stop is closed. Blocking; callers run it on
// its own goroutine.
func (d *Dispatcher) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.drainOnce()
		}
	}
}

func (d *Dispatcher) drainOnce() {
	now := time.Now().UTC()
	rows, err := d.outbox.ClaimOutboxEvents(now, d.batch, d.claimTTL, d.workerID)
	if err != nil {
		logging.Error("outbox claim failed", err, nil)
		return
	}
	for _, row := range rows {
		if err := d.deliver(row); err != nil {
			// Leave the row claimed; the claim TTL returns it for redelivery.
			logging.Error("outbox delivery failed", err, logging.Fields{
				constants.LogFieldBattleID: row.BattleID,
				"outbox_id":                row.ID,
			})
			continue
		}
		if err := d.outbox.MarkOutboxDelivered(row.ID); err != nil {
			logging.Error("outbox mark delivered failed", err, logging.Fields{"outbox_id": row.ID})
		}
	}
}

func (d *Dispatcher) deliver(row storage.OutboxEvent) error {
	switch row.EventType {
	case "battle_ended":
		var evt battle.BattleEnded
		if err := json.Unmarshal(row.Payload, &evt); err != nil {
			return err
		}
		return d.sink.PublishBattleEnded(evt)
	default:
		// Unknown rows are logged and marked delivered so they cannot wedge
		// the queue.
		logging.Warn("unknown outbox event type", logging.Fields{"event_type": row.EventType, "outbox_id": row.ID})
		return nil
	}
}
