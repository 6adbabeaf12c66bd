// Package model defines the shared types flowing between the extraction,
// resolution and reporting layers.
package model

import "strconv"

// Vintage is a wine vintage year. Zero means non-vintage (NV).
type Vintage int

// VintageNV marks a non-vintage mention or catalog row.
const VintageNV Vintage = 0

// ParseVintage converts external vintage text ("2005", "NV", "N/A", "")
// into a canonical Vintage. Anything non-numeric maps to NV.
func ParseVintage(s string) Vintage {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1900 || n > 2099 {
		return VintageNV
	}
	return Vintage(n)
}

func (v Vintage) String() string {
	if v == VintageNV {
		return "NV"
	}
	return strconv.Itoa(int(v))
}

// Bottle sizes in centiliters.
const (
	SizeStandard = 75.0
	SizeMagnum   = 150.0
)

// Mention is a text-derived observation of a catalog item: a name fragment,
// optional identity hints, and a source-currency price. Produced by the
// extraction layer; immutable once created.
type Mention struct {
	SequenceIndex int     `json:"sequence_index"`
	NameFragment  string  `json:"name_fragment"`
	Vintage       Vintage `json:"vintage"`
	Size          float64 `json:"size,omitempty"` // cl; 0 = no size hint
	Bulk          bool    `json:"bulk,omitempty"` // bulk-quantity price (e.g. 36+ bottles)
	ItemID        int64   `json:"item_id,omitempty"` // explicit identifier, 0 = none
	SourcePrice   string  `json:"source_price"` // raw price text as extracted
}
