package combat

import "fmt"

// PlayerStats are the base attributes a battle participant brings into the
// arena. They come from the player profile projection and are never mutated
// by the engine.
type PlayerStats struct {
	Strength  int `json:"strength"`
	Stamina   int `json:"stamina"`
	Agility   int `json:"agility"`
	Intuition int `json:"intuition"`
}

// DefaultStats returns the fallback attribute line used when a profile
// lookup comes back empty.
func DefaultStats() PlayerStats {
	return PlayerStats{Strength: 10, Stamina: 10, Agility: 0, Intuition: 0}
}

// HPCurve maps stamina to maximum hit points.
type HPCurve struct {
	Base       int `json:"base"`
	PerStamina int `json:"per_stamina"`
}

// DamageCurve maps strength to a [min,max] damage range. SpreadMin and
// SpreadMax widen the range around the strength-derived midpoint.
type DamageCurve struct {
	Base        int `json:"base"`
	PerStrength int `json:"per_strength"`
	SpreadMin   int `json:"spread_min"`
	SpreadMax   int `json:"spread_max"`
}

// MagicCurve maps agility and intuition to the four magic factors used to
// bias the dodge and crit rolls.
type MagicCurve struct {
	DodgePerAgility      float64 `json:"dodge_per_agility"`
	AntiDodgePerAgility  float64 `json:"anti_dodge_per_agility"`
	CritPerIntuition     float64 `json:"crit_per_intuition"`
	AntiCritPerIntuition float64 `json:"anti_crit_per_intuition"`
}

// ChanceCurve parameterizes a monotonic saturating probability curve.
// Chance(d) = clamp(Base + Scale*d/(|d|+KBase), Min, Max), so the chance
// approaches Base±Scale asymptotically as the magic-factor difference d
// grows, and never leaves [Min, Max].
type ChanceCurve struct {
	Base  float64 `json:"base"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Scale float64 `json:"scale"`
	KBase float64 `json:"k_base"`
}

// CritEffectMode selects how a critical hit interacts with a successful block.
type CritEffectMode string

const (
	// CritBypass: a crit ignores the block entirely and deals full crit damage.
	CritBypass CritEffectMode = "bypass"
	// CritHybrid: a crit against a block deals partial damage instead of zero.
	CritHybrid CritEffectMode = "hybrid"
)

// CritEffect configures crit damage and the crit-versus-block interaction.
type CritEffect struct {
	Mode             CritEffectMode `json:"mode"`
	Multiplier       float64        `json:"multiplier"`
	HybridMultiplier float64        `json:"hybrid_multiplier"`
}

// CombatBalance is the tunable balance table for one ruleset version. It is
// loaded from the balance config file once at startup and treated as
// immutable afterwards.
type CombatBalance struct {
	HP         HPCurve     `json:"hp"`
	Damage     DamageCurve `json:"damage"`
	Magic      MagicCurve  `json:"magic"`
	Dodge      ChanceCurve `json:"dodge"`
	Crit       ChanceCurve `json:"crit"`
	CritEffect CritEffect  `json:"crit_effect"`
}

// Validate checks the structural invariants of the balance table. A
// malformed table is a configuration error and must abort startup; the
// engine assumes a validated balance everywhere else.
func (b CombatBalance) Validate() error {
	if b.HP.Base < 0 || b.HP.PerStamina < 0 {
		return fmt.Errorf("balance: hp curve must be non-negative (base=%d per_stamina=%d)", b.HP.Base, b.HP.PerStamina)
	}
	if b.Damage.Base < 0 || b.Damage.PerStrength < 0 {
		return fmt.Errorf("balance: damage curve must be non-negative (base=%d per_strength=%d)", b.Damage.Base, b.Damage.PerStrength)
	}
	if b.Damage.SpreadMin > b.Damage.SpreadMax {
		return fmt.Errorf("balance: damage spread min %d exceeds max %d", b.Damage.SpreadMin, b.Damage.SpreadMax)
	}
	if b.Magic.DodgePerAgility < 0 || b.Magic.AntiDodgePerAgility < 0 ||
		b.Magic.CritPerIntuition < 0 || b.Magic.AntiCritPerIntuition < 0 {
		return fmt.Errorf("balance: magic factors must be non-negative")
	}
	if err := b.Dodge.validate("dodge"); err != nil {
		return err
	}
	if err := b.Crit.validate("crit"); err != nil {
		return err
	}
	switch b.CritEffect.Mode {
	case CritBypass, CritHybrid:
	default:
		return fmt.Errorf("balance: unknown crit effect mode %q", b.CritEffect.Mode)
	}
	if b.CritEffect.Multiplier < 1 {
		return fmt.Errorf("balance: crit multiplier %v must be >= 1", b.CritEffect.Multiplier)
	}
	if b.CritEffect.HybridMultiplier < 0 || b.CritEffect.HybridMultiplier > 1 {
		return fmt.Errorf("balance: hybrid crit multiplier %v must be in [0,1]", b.CritEffect.HybridMultiplier)
	}
	return nil
}

func (c ChanceCurve) validate(name string) error {
	if c.Min < 0 || c.Min > c.Max || c.Max > 1 {
		return fmt.Errorf("balance: %s curve requires 0 <= min <= max <= 1 (min=%v max=%v)", name, c.Min, c.Max)
	}
	if c.KBase <= 0 {
		return fmt.Errorf("balance: %s curve k_base must be positive, got %v", name, c.KBase)
	}
	if c.Scale < 0 {
		return fmt.Errorf("balance: %s curve scale must be non-negative, got %v", name, c.Scale)
	}
	return nil
}

// DefaultBalance is the built-in balance table used when the balance config
// file does not override it. Numbers follow the classic zone-combat tuning:
// roughly 6 HP per stamina point and a dodge/crit chance that starts around
// 10% and saturates near 50%.
func DefaultBalance() CombatBalance {
	return CombatBalance{
		HP:     HPCurve{Base: 30, PerStamina: 6},
		Damage: DamageCurve{Base: 2, PerStrength: 1, SpreadMin: 0, SpreadMax: 4},
		Magic: MagicCurve{
			DodgePerAgility:      2,
			AntiDodgePerAgility:  1.5,
			CritPerIntuition:     2,
			AntiCritPerIntuition: 1.5,
		},
		Dodge: ChanceCurve{Base: 0.10, Min: 0.01, Max: 0.50, Scale: 0.40, KBase: 25},
		Crit:  ChanceCurve{Base: 0.10, Min: 0.01, Max: 0.50, Scale: 0.40, KBase: 25},
		CritEffect: CritEffect{
			Mode:             CritHybrid,
			Multiplier:       2,
			HybridMultiplier: 0.5,
		},
	}
}
