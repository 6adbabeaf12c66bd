package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/Antagata/Month-recap-AVU/internal/model"
	"github.com/Antagata/Month-recap-AVU/internal/normalize"
	"github.com/Antagata/Month-recap-AVU/internal/pricing"
)

// WriteResults renders the detailed match report. Entries appear in
// input order; a tier summary closes the report.
func WriteResults(w io.Writer, entries []Entry, now time.Time) error {
	var b strings.Builder
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "DETAILED MATCH RESULTS")
	fmt.Fprintf(&b, "Report ID: %s\n", uuid.NewString())
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	counts := make(map[model.Tier]int, 5)
	for i, e := range entries {
		counts[e.Result.Tier]++

		fmt.Fprintf(&b, "%d. %s %s\n", i+1, displayName(e), e.Mention.Vintage)
		fmt.Fprintf(&b, "   Source price: %s\n", e.Mention.SourcePrice)
		fmt.Fprintf(&b, "   Tier: %s (confidence %.2f)\n", e.Result.Tier, e.Result.Confidence)
		if e.Result.ItemID != nil {
			fmt.Fprintf(&b, "   Item No.: %d\n", *e.Result.ItemID)
		}
		if e.Item != nil {
			fmt.Fprintf(&b, "   Matched: %s %s (size %.0f, min qty %d)\n",
				e.Item.Name, e.Item.Vintage, e.Item.Size, e.Item.MinQuantity)
		}
		if e.Result.TargetPrice != nil {
			fmt.Fprintf(&b, "   Target price: %s\n", pricing.FormatAmount(*e.Result.TargetPrice))
		}
		if e.Result.Reason != "" {
			fmt.Fprintf(&b, "   Reason: %s\n", e.Result.Reason)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total: %d  learned: %d  item_exact: %d  price_unique: %d  fuzzy: %d  fallback: %d\n",
		len(entries),
		counts[model.TierLearned],
		counts[model.TierItemExact],
		counts[model.TierPriceUnique],
		counts[model.TierFuzzy],
		counts[model.TierFallback],
	)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "report: write results")
	}
	return nil
}

func displayName(e Entry) string {
	if e.Mention.NameFragment != "" {
		return e.Mention.NameFragment
	}
	return "(no name)"
}

func parsePrice(raw string) (float64, bool) {
	v, err := normalize.ParsePrice(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
