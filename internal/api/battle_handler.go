package api

import (
	"regexp"
	"strings"

	"github.com/sorokinArtemV/kombats-sub002/internal/service"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	orc *service.Orchestrator
}

// NewBattleHandler creates a new BattleHandler over the lifecycle
// orchestrator.
func NewBattleHandler(orc *service.Orchestrator) *BattleHandler {
	return &BattleHandler{orc: orc}
}

// Battle ids are caller-assigned opaque tokens; the router only enforces a
// sane shape so garbage never reaches the store.
var battleIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func normalizeBattleID(s string) string {
	return strings.TrimSpace(s)
}
