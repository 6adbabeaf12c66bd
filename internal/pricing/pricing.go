// Package pricing finalizes converted prices. Matched catalog prices pass
// through verbatim; unmatched ones are estimated by a fixed factor with a
// quoting-convention rounding rule.
package pricing

import (
	"fmt"
	"math"
)

// Defaults for the CHF to EUR campaign conversion.
const (
	DefaultFactor     = 1.08
	DefaultRoundAbove = 300.0
)

// Converter applies the fallback factor and rounding policy. Large sums
// are quoted in round increments per business convention; both knobs are
// overridable.
type Converter struct {
	Factor     float64 `yaml:"factor" mapstructure:"factor"`
	RoundAbove float64 `yaml:"round_above" mapstructure:"round_above"`
}

// NewConverter returns a Converter with the default factor and threshold.
func NewConverter() Converter {
	return Converter{Factor: DefaultFactor, RoundAbove: DefaultRoundAbove}
}

// Convert produces the final target price. A matched catalog price is
// returned verbatim; otherwise sourcePrice*Factor, rounded up to the
// nearest trailing 5 or 0 above the threshold, else to 2 decimals.
func (c Converter) Convert(sourcePrice float64, matched *float64) float64 {
	if matched != nil {
		return *matched
	}
	est := sourcePrice * c.Factor
	if sourcePrice > c.RoundAbove {
		return RoundTo5(est)
	}
	return math.Round(est*100) / 100
}

// RoundTo5 rounds a value up to the nearest number ending in 5 or 0:
// 1162 -> 1165, 1167 -> 1170, 334.8 -> 335. Values whose integer part
// already ends in 5 or 0 are returned unchanged.
func RoundTo5(v float64) float64 {
	last := int64(v) % 10
	switch {
	case last == 0 || last == 5:
		return v
	case last < 5:
		return float64(int64(v) + (5 - last))
	default:
		return float64(int64(v) + (10 - last))
	}
}

// FormatAmount renders a price for reports. Currency symbols and locale
// formatting are the caller's concern.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
