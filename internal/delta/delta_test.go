package delta

import (
	"testing"

	"github.com/shopspring/decimal"

	"ricecast/internal/pricing"
)

func TestComputeIncrease(t *testing.T) {
	res := Compute(decimal.NewFromInt(110), decimal.NewFromInt(100))
	if !res.Absolute.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected absolute 10, got %s", res.Absolute)
	}
	if res.Percentage.StringFixed(2) != "10.00" {
		t.Fatalf("expected 10.00, got %s", res.Percentage.StringFixed(2))
	}
	if res.Direction != Increase || !res.PercentDefined {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Badge() != "↑ 10.00%" {
		t.Fatalf("unexpected badge %q", res.Badge())
	}
}

func TestComputeDecrease(t *testing.T) {
	res := Compute(decimal.NewFromInt(90), decimal.NewFromInt(100))
	if !res.Absolute.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("expected absolute -10, got %s", res.Absolute)
	}
	if res.Percentage.StringFixed(2) != "-10.00" {
		t.Fatalf("expected -10.00, got %s", res.Percentage.StringFixed(2))
	}
	if res.Direction != Decrease {
		t.Fatalf("expected decrease, got %s", res.Direction)
	}
	if res.Badge() != "↓ 10.00%" {
		t.Fatalf("unexpected badge %q", res.Badge())
	}
}

func TestComputeUnchangedIsDecrease(t *testing.T) {
	res := Compute(decimal.NewFromInt(100), decimal.NewFromInt(100))
	if res.Direction != Decrease {
		t.Fatalf("zero change should classify as decrease, got %s", res.Direction)
	}
	if !res.Percentage.IsZero() || !res.PercentDefined {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestComputeZeroPrevious(t *testing.T) {
	res := Compute(decimal.NewFromInt(12500), decimal.Zero)
	if res.PercentDefined {
		t.Fatal("percentage must be undefined for a zero previous price")
	}
	if !res.Percentage.IsZero() {
		t.Fatalf("undefined percentage should be zero, got %s", res.Percentage)
	}
	if !res.Absolute.Equal(decimal.NewFromInt(12500)) {
		t.Fatalf("absolute delta still computed, got %s", res.Absolute)
	}
	if res.Direction != Increase {
		t.Fatalf("expected increase, got %s", res.Direction)
	}
	if res.PercentString() != "N/A" || res.Badge() != "↑ N/A" {
		t.Fatalf("unexpected rendering %q / %q", res.PercentString(), res.Badge())
	}
}

func TestComputeRoundsToTwoPlaces(t *testing.T) {
	res := Compute(decimal.NewFromInt(13000), decimal.NewFromInt(12345))
	// 655 / 12345 * 100 = 5.3058...
	if res.Percentage.String() != "5.31" {
		t.Fatalf("expected 5.31, got %s", res.Percentage)
	}
}

func TestComputeNegativePrevious(t *testing.T) {
	res := Compute(decimal.NewFromInt(10), decimal.NewFromInt(-10))
	if res.Percentage.StringFixed(2) != "-200.00" {
		t.Fatalf("expected -200.00, got %s", res.Percentage.StringFixed(2))
	}
}

func TestForPrediction(t *testing.T) {
	p := pricing.Prediction{
		Period: pricing.Period{Year: 2024, Month: 5},
		Entries: map[pricing.Tier]pricing.PredictionEntry{
			pricing.TierPremium: {Tier: pricing.TierPremium, EstimatedPrice: decimal.NewFromInt(110), PreviousPrice: decimal.NewFromInt(100)},
			pricing.TierLow:     {Tier: pricing.TierLow, EstimatedPrice: decimal.NewFromInt(90), PreviousPrice: decimal.NewFromInt(100)},
		},
	}

	results := ForPrediction(p)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[pricing.TierPremium].Direction != Increase {
		t.Fatal("premium should increase")
	}
	if results[pricing.TierLow].Direction != Decrease {
		t.Fatal("low should decrease")
	}
}
