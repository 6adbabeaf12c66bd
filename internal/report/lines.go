package report

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

var linesHeader = []string{
	"Name", "Vintage", "Size", "Producer", "Minimum Quantity",
	"Source Price", "Target Price", "Item No.",
}

// WriteLines exports resolved entries as a Lines spreadsheet, in input
// order. Fallback entries have no catalog row and are skipped; target
// prices are rounded to whole units.
func WriteLines(path string, entries []Entry) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Lines")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range linesHeader {
		header.AddCell().Value = h
	}

	for _, e := range entries {
		if e.Item == nil {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().Value = e.Item.Name
		row.AddCell().Value = e.Item.Vintage.String()
		row.AddCell().SetFloat(e.Item.Size)
		row.AddCell().Value = e.Item.Producer
		row.AddCell().SetInt(e.Item.MinQuantity)
		row.AddCell().SetFloat(e.Item.SourcePrice)
		if e.Result.TargetPrice != nil {
			row.AddCell().SetInt64(int64(math.Round(*e.Result.TargetPrice)))
		} else {
			row.AddCell()
		}
		row.AddCell().SetInt64(e.Item.ItemID)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
