package engine

import (
	"testing"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
)

func TestNormalize(t *testing.T) {
	deadline := time.Date(2026, 8, 30, 12, 0, 30, 0, time.UTC)
	base := func() *battle.State {
		s := newTestState(t, quietBalance())
		s.DeadlineUTC = deadline
		return s
	}
	valid := `{"attack_zone":"head","block_zones":["chest","belly"]}`

	tests := []struct {
		name       string
		mutate     func(*battle.State)
		turnIndex  int
		payload    string
		now        time.Time
		wantAction bool
	}{
		{
			name:       "valid submission",
			turnIndex:  0,
			payload:    valid,
			now:        deadline.Add(-time.Second),
			wantAction: true,
		},
		{
			name:       "inside latency buffer",
			turnIndex:  0,
			payload:    valid,
			now:        deadline.Add(LatencyBuffer),
			wantAction: true,
		},
		{
			name:      "past latency buffer",
			turnIndex: 0,
			payload:   valid,
			now:       deadline.Add(LatencyBuffer + time.Millisecond),
		},
		{
			name:      "stale turn index",
			turnIndex: 1,
			payload:   valid,
			now:       deadline.Add(-time.Second),
		},
		{
			name:      "turn not open",
			mutate:    func(s *battle.State) { s.Phase = battle.PhaseResolving },
			turnIndex: 0,
			payload:   valid,
			now:       deadline.Add(-time.Second),
		},
		{
			name:      "unparseable payload",
			turnIndex: 0,
			payload:   `{"attack_zone":"elbow"}`,
			now:       deadline.Add(-time.Second),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			if tc.mutate != nil {
				tc.mutate(s)
			}
			action := Normalize(s, tc.turnIndex, tc.payload, "alice", tc.now)
			if tc.wantAction && action.IsNoAction() {
				t.Fatalf("expected accepted action, got no-action")
			}
			if !tc.wantAction && !action.IsNoAction() {
				t.Fatalf("expected downgrade to no-action, got %+v", action)
			}
		})
	}
}

func TestShouldResolve(t *testing.T) {
	deadline := time.Date(2026, 8, 30, 12, 0, 30, 0, time.UTC)
	skew := 250 * time.Millisecond

	if ShouldResolve(deadline, deadline, skew) {
		t.Fatalf("must not resolve before the skew allowance elapses")
	}
	if !ShouldResolve(deadline.Add(skew), deadline, skew) {
		t.Fatalf("must resolve exactly at deadline+skew")
	}
	if !ShouldResolve(deadline.Add(time.Minute), deadline, skew) {
		t.Fatalf("must resolve after the deadline")
	}
}
