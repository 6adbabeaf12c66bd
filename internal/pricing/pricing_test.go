package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTo5(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"ends in zero unchanged", 330, 330},
		{"ends in five unchanged", 335, 335},
		{"fraction with round tail unchanged", 330.48, 330.48},
		{"rounds up to five", 334.8, 335},
		{"rounds up to ten", 337.2, 340},
		{"below five boundary", 1162, 1165},
		{"above five boundary", 1167, 1170},
		{"one", 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundTo5(tt.in), 1e-9)
		})
	}
}

func TestConvertMatched(t *testing.T) {
	c := NewConverter()
	eur := 123.45
	// A catalog price passes through verbatim, whatever the source was.
	assert.InDelta(t, 123.45, c.Convert(999.99, &eur), 1e-9)
}

func TestConvertFallbackBelowThreshold(t *testing.T) {
	c := NewConverter()
	// 99 * 1.08 = 106.92, kept to the cent.
	assert.InDelta(t, 106.92, c.Convert(99, nil), 1e-9)
	// Exactly at the threshold there is no quoting rounding.
	assert.InDelta(t, 324.0, c.Convert(300, nil), 1e-9)
}

func TestConvertFallbackAboveThreshold(t *testing.T) {
	c := NewConverter()
	// 310 * 1.08 = 334.8, quoted as 335.
	assert.InDelta(t, 335.0, c.Convert(310, nil), 1e-9)
	// 720 * 1.08 = 777.6 -> 780.
	assert.InDelta(t, 780.0, c.Convert(720, nil), 1e-9)
}

func TestConvertCustomFactor(t *testing.T) {
	c := Converter{Factor: 1.10, RoundAbove: 1000}
	assert.InDelta(t, 550.0, c.Convert(500, nil), 1e-9)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "106.92", FormatAmount(106.92))
	assert.Equal(t, "335.00", FormatAmount(335))
}
