package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/model"
	"github.com/Antagata/Month-recap-AVU/internal/normalize"
)

// Columns maps the catalog spreadsheet's header names to item fields.
// Defaults match the offer-list export this tool was built around.
type Columns struct {
	ItemID       string `yaml:"item_id" mapstructure:"item_id"`
	Name         string `yaml:"name" mapstructure:"name"`
	Producer     string `yaml:"producer" mapstructure:"producer"`
	Vintage      string `yaml:"vintage" mapstructure:"vintage"`
	Size         string `yaml:"size" mapstructure:"size"`
	MinQuantity  string `yaml:"min_quantity" mapstructure:"min_quantity"`
	SourcePrice  string `yaml:"source_price" mapstructure:"source_price"`
	TargetPrice  string `yaml:"target_price" mapstructure:"target_price"`
	CampaignTime string `yaml:"campaign_time" mapstructure:"campaign_time"`
	Status       string `yaml:"status" mapstructure:"status"`
	Type         string `yaml:"type" mapstructure:"type"`
	SubType      string `yaml:"sub_type" mapstructure:"sub_type"`
	Competitor   string `yaml:"competitor" mapstructure:"competitor"`
}

// DefaultColumns returns the header names of the standard offer list.
func DefaultColumns() Columns {
	return Columns{
		ItemID:       "Item No.",
		Name:         "Wine Name",
		Producer:     "Producer Name",
		Vintage:      "Vintage Code",
		Size:         "Size",
		MinQuantity:  "Minimum Quantity",
		SourcePrice:  "Unit Price",
		TargetPrice:  "Unit Price (EUR)",
		CampaignTime: "Schedule DateTime",
		Status:       "Campaign Status",
		Type:         "Campaign Type",
		SubType:      "Campaign Sub-Type",
		Competitor:   "Competitor Code",
	}
}

// campaignTimeLayouts are tried in order when parsing the schedule column.
var campaignTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06 15:04:05",
	"1/2/06 15:04",
}

// LoadXLSX reads catalog rows from a spreadsheet. Rows missing an item id
// or a parseable source price are skipped with a warning; an unreadable
// file or missing required headers is an error the caller surfaces before
// any resolution runs.
func LoadXLSX(path string, cols Columns) ([]Item, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("catalog: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("catalog: %s sheet is empty", path)
	}

	header := make(map[string]int)
	for j, cell := range sheet.Rows[0].Cells {
		header[strings.TrimSpace(cell.String())] = j
	}
	for _, required := range []string{cols.ItemID, cols.SourcePrice} {
		if _, ok := header[required]; !ok {
			return nil, eris.Errorf("catalog: column %q not found in %s", required, path)
		}
	}

	var items []Item
	skipped := 0
	for i, row := range sheet.Rows[1:] {
		cell := func(name string) string {
			j, ok := header[name]
			if !ok || j >= len(row.Cells) {
				return ""
			}
			return strings.TrimSpace(row.Cells[j].String())
		}

		idText := cell(cols.ItemID)
		if idText == "" {
			continue // blank row
		}
		id, err := parseItemID(idText)
		if err != nil {
			skipped++
			zap.L().Warn("catalog: skipping row with bad item id",
				zap.Int("row", i+2), zap.String("item_id", idText))
			continue
		}

		src, err := normalize.ParsePrice(cell(cols.SourcePrice))
		if err != nil {
			skipped++
			zap.L().Warn("catalog: skipping row with bad source price",
				zap.Int("row", i+2), zap.Int64("item_id", id))
			continue
		}

		it := Item{
			ItemID:         id,
			Name:           cell(cols.Name),
			Producer:       cell(cols.Producer),
			Vintage:        model.ParseVintage(cell(cols.Vintage)),
			SourcePrice:    src,
			CampaignStatus: cell(cols.Status),
			CampaignType:   cell(cols.Type),
			CampaignSub:    cell(cols.SubType),
			CompetitorFlag: cell(cols.Competitor) != "",
		}
		if v, err := strconv.ParseFloat(cell(cols.Size), 64); err == nil {
			it.Size = v
		}
		if v, err := strconv.ParseFloat(cell(cols.MinQuantity), 64); err == nil {
			it.MinQuantity = int(v)
		}
		if v, err := normalize.ParsePrice(cell(cols.TargetPrice)); err == nil {
			it.TargetPrice = v
		}
		if ts := cell(cols.CampaignTime); ts != "" {
			for _, layout := range campaignTimeLayouts {
				if t, err := time.Parse(layout, ts); err == nil {
					it.CampaignTime = t
					break
				}
			}
		}

		items = append(items, it)
	}

	zap.L().Info("catalog: loaded",
		zap.String("path", path),
		zap.Int("rows", len(items)),
		zap.Int("skipped", skipped),
	)
	return items, nil
}

// parseItemID accepts both integer and float-formatted identifiers
// ("12345", "12345.0") as exported by spreadsheets.
func parseItemID(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse item id %q", s)
	}
	return int64(f), nil
}
