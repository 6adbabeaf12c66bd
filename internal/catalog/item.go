// Package catalog holds the read-only reference catalog and the in-memory
// indices the resolution cascade queries.
package catalog

import (
	"time"

	"github.com/Antagata/Month-recap-AVU/internal/model"
)

// Campaign field values that make a row eligible for matching.
const (
	CampaignStatusSent    = "Sent"
	CampaignTypePrivate   = "PRIVATE"
	CampaignSubTypeNormal = "Normal"
)

// Item is one catalog row: a sellable item keyed by identifier, carrying
// source and target prices plus campaign context. Identifiers and vintages
// are parsed to canonical types at load time; nothing downstream compares
// strings to numbers.
type Item struct {
	ItemID         int64         `json:"item_id"`
	Name           string        `json:"name"`
	Producer       string        `json:"producer,omitempty"`
	Vintage        model.Vintage `json:"vintage"`
	Size           float64       `json:"size"`         // cl
	MinQuantity    int           `json:"min_quantity"` // 0 or bulk tier (36)
	SourcePrice    float64       `json:"source_price"` // CHF
	TargetPrice    float64       `json:"target_price"` // EUR
	CampaignTime   time.Time     `json:"campaign_time"`
	CampaignStatus string        `json:"campaign_status"`
	CampaignType   string        `json:"campaign_type"`
	CampaignSub    string        `json:"campaign_sub_type"`
	CompetitorFlag bool          `json:"competitor_flag"`
}

// Eligible reports whether the row may be offered: campaign sent, private,
// normal sub-type, and no competitor code.
func (it Item) Eligible() bool {
	return it.CampaignStatus == CampaignStatusSent &&
		it.CampaignType == CampaignTypePrivate &&
		it.CampaignSub == CampaignSubTypeNormal &&
		!it.CompetitorFlag
}
