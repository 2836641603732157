// Package config assembles runtime configuration from environment variables
// and the optional balance file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
)

// Config carries everything the server binary needs at startup. Balance
// numbers come from the file named by KOMBATS_BALANCE; everything else is
// plain environment.
type Config struct {
	ServerAddress string `env:"KOMBATS_ADDR" envDefault:":8080"`
	DBPath        string `env:"KOMBATS_DB" envDefault:"data/kombats.db"`
	BalancePath   string `env:"KOMBATS_BALANCE"`

	RulesetVersion int `env:"KOMBATS_RULESET_VERSION" envDefault:"1"`
	TurnSeconds    int `env:"KOMBATS_TURN_SECONDS" envDefault:"30"`
	MinTurnSeconds int `env:"KOMBATS_MIN_TURN_SECONDS" envDefault:"5"`
	MaxTurnSeconds int `env:"KOMBATS_MAX_TURN_SECONDS" envDefault:"300"`
	NoActionLimit  int `env:"KOMBATS_NO_ACTION_LIMIT" envDefault:"3"`

	// ResolveSkew is the clock-drift allowance added to a turn deadline
	// before the timeout policy fires.
	ResolveSkew     time.Duration `env:"KOMBATS_RESOLVE_SKEW" envDefault:"250ms"`
	ScanInterval    time.Duration `env:"KOMBATS_SCAN_INTERVAL" envDefault:"1s"`
	ScanBatch       int           `env:"KOMBATS_SCAN_BATCH" envDefault:"50"`
	ScanClaimTTL    time.Duration `env:"KOMBATS_SCAN_CLAIM_TTL" envDefault:"30s"`
	OutboxInterval  time.Duration `env:"KOMBATS_OUTBOX_INTERVAL" envDefault:"2s"`
	SessionTokenTTL time.Duration `env:"KOMBATS_SESSION_TTL" envDefault:"24h"`

	Balance combat.CombatBalance `env:"-"`
}

// Load parses the environment and resolves the combat balance.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	balance, err := LoadBalance(cfg.BalancePath)
	if err != nil {
		return nil, err
	}
	cfg.Balance = balance

	if cfg.MinTurnSeconds > 0 && cfg.MaxTurnSeconds > 0 && cfg.MinTurnSeconds > cfg.MaxTurnSeconds {
		return nil, fmt.Errorf("turn length bounds inverted: min %d > max %d", cfg.MinTurnSeconds, cfg.MaxTurnSeconds)
	}
	return cfg, nil
}

type rawBalance struct {
	Balance *combat.CombatBalance `json:"balance"`
}

// LoadBalance reads the balance file at path. Values are layered over the
// default balance so a partial file only overrides what it names; an empty
// path means defaults. A file that fails validation is a startup error, not
// a fallback, so a typo never silently reverts tuning to defaults.
func LoadBalance(path string) (combat.CombatBalance, error) {
	balance := combat.DefaultBalance()
	if path == "" {
		return balance, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return balance, fmt.Errorf("failed to read balance file %s: %w", path, err)
	}
	// The file is either the balance object itself or wrapped under a
	// "balance" key. Unmarshalling into the preset struct layers either form
	// over the defaults.
	if err := json.Unmarshal(b, &balance); err != nil {
		return balance, fmt.Errorf("failed to parse balance file %s: %w", path, err)
	}
	wrapper := rawBalance{Balance: &balance}
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return balance, fmt.Errorf("failed to parse balance file %s: %w", path, err)
	}
	if err := balance.Validate(); err != nil {
		return balance, fmt.Errorf("balance file %s: %w", path, err)
	}
	return balance, nil
}
