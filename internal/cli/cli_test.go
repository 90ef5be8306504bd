package cli

import (
	"errors"
	"testing"
	"time"

	"ricecast/internal/pricing"
)

func TestPeriodFromFlagsDefaultsToNow(t *testing.T) {
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	got, err := periodFromFlags(0, 0, now)
	if err != nil || got != (pricing.Period{Year: 2026, Month: 10}) {
		t.Fatalf("unexpected %v %v", got, err)
	}

	got, err = periodFromFlags(2025, 0, now)
	if err != nil || got != (pricing.Period{Year: 2025, Month: 10}) {
		t.Fatalf("unexpected %v %v", got, err)
	}

	if _, err := periodFromFlags(2025, 13, now); !errors.Is(err, pricing.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
