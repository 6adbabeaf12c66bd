package extract

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Antagata/Month-recap-AVU/internal/model"
)

var amountRun = regexp.MustCompile(`\d+(?:['` + "’‘ʼ" + `]\d{3})*(?:\.\d{2})?`)

// Rewrite splices converted amounts back into the source text. Sites and
// results are the parallel slices produced by Scan and the cascade.
// Replacements apply back to front so earlier byte offsets stay valid.
// A result without a target price leaves its site untouched.
func Rewrite(text string, sites []Site, results []model.MatchResult) string {
	out := text
	for i := len(sites) - 1; i >= 0; i-- {
		res := results[i]
		if res.TargetPrice == nil {
			continue
		}
		replacement := relabel(sites[i].Raw, displayAmount(res))
		out = out[:sites[i].Start] + replacement + out[sites[i].End:]
	}
	return out
}

// displayAmount renders a target price as a whole-unit label. Catalog
// prices round to the nearest unit; factor fallbacks round down, an
// estimate is never presented above its computed value.
func displayAmount(res model.MatchResult) string {
	v := *res.TargetPrice
	if res.Tier == model.TierFallback {
		return fmt.Sprintf("%d.00", int64(math.Floor(v)))
	}
	return fmt.Sprintf("%d.00", int64(math.Round(v)))
}

// relabel swaps the currency label and amount inside one price token.
func relabel(raw, amount string) string {
	switch {
	case strings.Contains(raw, "CHF"):
		return amountRun.ReplaceAllString(strings.Replace(raw, "CHF", "EUR", 1), amount)
	case strings.Contains(raw, "CH "):
		return amountRun.ReplaceAllString(strings.Replace(raw, "CH ", "EUR ", 1), amount)
	default:
		return amountRun.ReplaceAllString(raw, amount)
	}
}
