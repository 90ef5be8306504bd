package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is returned when a tier key is not one of the tracked grades.
var ErrUnknownTier = errors.New("pricing: unknown quality tier")

// Tier identifies a rice quality grade.
type Tier int

const (
	TierPremium Tier = iota
	TierMedium
	TierLow
)

var tierOrder = []Tier{TierPremium, TierMedium, TierLow}

// Tiers returns the tracked tiers in display order.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// ParseTier maps a wire key onto a Tier.
func ParseTier(raw string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "premium":
		return TierPremium, nil
	case "medium":
		return TierMedium, nil
	case "low_quality", "low":
		return TierLow, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, raw)
	}
}

// Key returns the wire key used by the forecasting service.
func (t Tier) Key() string {
	switch t {
	case TierPremium:
		return "premium"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low_quality"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// DisplayName returns the label shown on cards and chart legends.
func (t Tier) DisplayName() string {
	switch t {
	case TierPremium:
		return "Premium"
	case TierMedium:
		return "Medium"
	case TierLow:
		return "Kualitas Rendah"
	default:
		return t.Key()
	}
}

func (t Tier) String() string {
	return t.Key()
}
