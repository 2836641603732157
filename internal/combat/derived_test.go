package combat

import "testing"

func TestComputeDerived_DefaultLine(t *testing.T) {
	d, err := ComputeDerived(DefaultStats(), DefaultBalance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.HPMax != 90 {
		t.Fatalf("expected HPMax=90 for default line, got %d", d.HPMax)
	}
	if d.DamageMin != 12 || d.DamageMax != 16 {
		t.Fatalf("expected damage range [12,16], got [%d,%d]", d.DamageMin, d.DamageMax)
	}
	if d.MfDodge != 0 || d.MfAntiDodge != 0 || d.MfCrit != 0 || d.MfAntiCrit != 0 {
		t.Fatalf("expected zero magic factors for zero agility/intuition, got %+v", d)
	}
}

func TestComputeDerived_MagicFactors(t *testing.T) {
	stats := PlayerStats{Strength: 10, Stamina: 10, Agility: 4, Intuition: 6}
	d, err := ComputeDerived(stats, DefaultBalance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MfDodge != 8 || d.MfAntiDodge != 6 {
		t.Fatalf("expected dodge factors 8/6, got %v/%v", d.MfDodge, d.MfAntiDodge)
	}
	if d.MfCrit != 12 || d.MfAntiCrit != 9 {
		t.Fatalf("expected crit factors 12/9, got %v/%v", d.MfCrit, d.MfAntiCrit)
	}
}

func TestComputeDerived_NegativeStatsRejected(t *testing.T) {
	if _, err := ComputeDerived(PlayerStats{Strength: -1}, DefaultBalance()); err == nil {
		t.Fatalf("expected error for negative strength")
	}
}

func TestComputeDerived_DamageClampedNonNegative(t *testing.T) {
	balance := DefaultBalance()
	balance.Damage = DamageCurve{Base: 0, PerStrength: 0, SpreadMin: -5, SpreadMax: -3}
	d, err := ComputeDerived(PlayerStats{}, balance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DamageMin != 0 {
		t.Fatalf("expected DamageMin clamped to 0, got %d", d.DamageMin)
	}
	if d.DamageMax < d.DamageMin {
		t.Fatalf("expected DamageMax >= DamageMin, got [%d,%d]", d.DamageMin, d.DamageMax)
	}
}

func TestComputeDerived_InvalidBalanceRejected(t *testing.T) {
	balance := DefaultBalance()
	balance.Dodge.KBase = 0
	if _, err := ComputeDerived(DefaultStats(), balance); err == nil {
		t.Fatalf("expected error for invalid balance")
	}
}
