package combat

import "fmt"

// DerivedCombatStats are the per-battle capabilities computed once from a
// player's base attributes and the balance table. Immutable after creation.
type DerivedCombatStats struct {
	HPMax       int     `json:"hp_max"`
	DamageMin   int     `json:"damage_min"`
	DamageMax   int     `json:"damage_max"`
	MfDodge     float64 `json:"mf_dodge"`
	MfAntiDodge float64 `json:"mf_anti_dodge"`
	MfCrit      float64 `json:"mf_crit"`
	MfAntiCrit  float64 `json:"mf_anti_crit"`
}

// ComputeDerived derives combat capabilities from base attributes. Pure and
// deterministic: no RNG is involved, the damage spread only fixes the range
// later rolls draw from.
func ComputeDerived(stats PlayerStats, balance CombatBalance) (DerivedCombatStats, error) {
	if err := balance.Validate(); err != nil {
		return DerivedCombatStats{}, err
	}
	if stats.Strength < 0 || stats.Stamina < 0 || stats.Agility < 0 || stats.Intuition < 0 {
		return DerivedCombatStats{}, fmt.Errorf("combat: negative player stats %+v", stats)
	}

	mid := balance.Damage.Base + balance.Damage.PerStrength*stats.Strength
	d := DerivedCombatStats{
		HPMax:       balance.HP.Base + balance.HP.PerStamina*stats.Stamina,
		DamageMin:   mid + balance.Damage.SpreadMin,
		DamageMax:   mid + balance.Damage.SpreadMax,
		MfDodge:     balance.Magic.DodgePerAgility * float64(stats.Agility),
		MfAntiDodge: balance.Magic.AntiDodgePerAgility * float64(stats.Agility),
		MfCrit:      balance.Magic.CritPerIntuition * float64(stats.Intuition),
		MfAntiCrit:  balance.Magic.AntiCritPerIntuition * float64(stats.Intuition),
	}
	if d.DamageMin < 0 {
		d.DamageMin = 0
	}
	if d.DamageMax < d.DamageMin {
		d.DamageMax = d.DamageMin
	}
	return d, nil
}

// Chance evaluates the saturating probability curve at the given magic-factor
// difference. Monotonic in diff and always within [Min, Max].
func (c ChanceCurve) Chance(diff float64) float64 {
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	p := c.Base + c.Scale*diff/(abs+c.KBase)
	if p < c.Min {
		return c.Min
	}
	if p > c.Max {
		return c.Max
	}
	return p
}
