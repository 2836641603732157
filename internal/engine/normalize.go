package engine

import (
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
)

// LatencyBuffer is the grace period after the turn deadline during which a
// submission is still accepted, absorbing client/network latency.
const LatencyBuffer = time.Second

// Normalize validates a raw action submission against the current battle
// state and converts anything invalid into the no-action sentinel. Protocol
// violations are never errors: they are logged at warn level and absorbed,
// so a misbehaving client simply has no effect on the turn.
func Normalize(s *battle.State, clientTurnIndex int, rawPayload, playerID string, now time.Time) battle.Action {
	fields := logging.Fields{
		constants.LogFieldBattleID:  s.BattleID,
		constants.LogFieldPlayerID:  playerID,
		constants.LogFieldTurnIndex: clientTurnIndex,
	}
	if s.Phase != battle.PhaseTurnOpen {
		fields["phase"] = string(s.Phase)
		logging.Warn("action rejected: turn not open", fields)
		return battle.NoAction()
	}
	if clientTurnIndex != s.TurnIndex {
		fields["server_turn_index"] = s.TurnIndex
		logging.Warn("action rejected: stale turn index", fields)
		return battle.NoAction()
	}
	if now.After(s.DeadlineUTC.Add(LatencyBuffer)) {
		fields["deadline_utc"] = s.DeadlineUTC
		logging.Warn("action rejected: deadline expired", fields)
		return battle.NoAction()
	}
	action, err := battle.ParseAction(rawPayload)
	if err != nil {
		logging.Warn("action rejected: unparseable payload", fields)
		return battle.NoAction()
	}
	return action
}
