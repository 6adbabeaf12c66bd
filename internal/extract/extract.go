// Package extract scans free-form campaign text for price mentions:
// a currency amount plus whatever identity hints surround it (name
// fragment, vintage, bottle size, bulk tier).
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Antagata/Month-recap-AVU/internal/model"
)

// priceToken matches the three accepted shapes: "CHF 900.00",
// "230.00 CHF" and the truncated "29.00 CH ". Thousands groups may be
// separated by an ASCII or typographic apostrophe.
var priceToken = regexp.MustCompile(
	`(?:CHF\s+(\d+(?:['` + "’‘ʼ" + `]\d{3})*(?:\.\d{2})?)\b` +
		`|\b(\d+(?:['` + "’‘ʼ" + `]\d{3})*(?:\.\d{2})?)\s+CHF\b` +
		`|\b(\d+(?:['` + "’‘ʼ" + `]\d{3})*(?:\.\d{2})?)\s+CH\s)`)

var (
	// nameVintageColon: "Wine Name 2019 :" at the start of a line entry.
	nameVintageColon = regexp.MustCompile(`([A-Z\x{00C0}-\x{017F}][^\n\d]*?)\s+(19\d\d|20\d\d|NV)\s*:`)
	// nameVintageLoose: same but with an optional dash or colon.
	nameVintageLoose = regexp.MustCompile(`([A-Z\x{00C0}-\x{017F}][^\n\d]*?)\s+(19\d\d|20\d\d|NV)\s*[-:]?`)
	// nameOnlyColon: entries without a year, non-vintage cuvées mostly.
	nameOnlyColon = regexp.MustCompile(`([A-Z\x{00C0}-\x{017F}][^\n:]*?)\s*:`)

	decoration = regexp.MustCompile("[✨\U0001F48E\U0001F4BC\U0001F377\U0001F3C6⭐\U0001F3AF]")
	bulkMarker = regexp.MustCompile(`(?i)(36|for\s+36)`)
)

// Site is one price occurrence in the source text, with byte offsets so
// the rewriter can splice a converted amount back in place.
type Site struct {
	Start  int
	End    int
	Raw    string // full token, e.g. "CHF 1'480.00"
	Amount string // numeric part, separators intact
}

// DefaultSizeKeywords maps size words found near a price to bottle
// sizes in centiliters.
var DefaultSizeKeywords = map[string]float64{"magnum": model.SizeMagnum}

// Scan finds every price mention in the text, in document order. Bulk
// prices paired to a preceding standard price via a "// ... 36" marker
// become their own mention carrying the same identity hints with the
// bulk flag set. Mentions and Sites are parallel slices.
func Scan(text string) ([]model.Mention, []Site) {
	return ScanWith(text, DefaultSizeKeywords)
}

// ScanWith is Scan with a caller-supplied size keyword set.
func ScanWith(text string, sizeKeywords map[string]float64) ([]model.Mention, []Site) {
	matches := priceToken.FindAllStringSubmatchIndex(text, -1)
	mentions := make([]model.Mention, 0, len(matches))
	sites := make([]Site, 0, len(matches))
	paired := make(map[int]bool, 2)

	for i, m := range matches {
		if paired[m[0]] {
			continue
		}
		site := siteAt(text, m)
		if site.Amount == "" {
			continue
		}

		name, vintage, size := identityBefore(text, site.Start, sizeKeywords)

		mentions = append(mentions, model.Mention{
			SequenceIndex: len(mentions),
			NameFragment:  name,
			Vintage:       vintage,
			Size:          size,
			SourcePrice:   site.Amount,
		})
		sites = append(sites, site)

		// A "//" shortly after the price introduces the 36-bottle tier;
		// the very next price then belongs to the same wine.
		bulkIdx := bulkCompanion(text, matches, i, site.End)
		if bulkIdx < 0 {
			continue
		}
		paired[matches[bulkIdx][0]] = true
		bulkSite := siteAt(text, matches[bulkIdx])
		if bulkSite.Amount == "" {
			continue
		}
		mentions = append(mentions, model.Mention{
			SequenceIndex: len(mentions),
			NameFragment:  name,
			Vintage:       vintage,
			Size:          size,
			Bulk:          true,
			SourcePrice:   bulkSite.Amount,
		})
		sites = append(sites, bulkSite)
	}
	return mentions, sites
}

func siteAt(text string, m []int) Site {
	s := Site{Start: m[0], End: m[1], Raw: text[m[0]:m[1]]}
	for _, g := range []int{2, 4, 6} {
		if m[g] >= 0 {
			s.Amount = text[m[g]:m[g+1]]
			break
		}
	}
	return s
}

// bulkCompanion returns the index of the price match that is this one's
// bulk-tier companion, or -1. The prices must be separated by "//" and a
// quantity marker ("36x", "for 36+") near the second price, on either
// side of it.
func bulkCompanion(text string, matches [][]int, i, end int) int {
	lookahead := text[end:min(end+100, len(text))]
	if !strings.Contains(lookahead, "//") {
		return -1
	}
	for j := i + 1; j < len(matches); j++ {
		if matches[j][0] <= end {
			continue
		}
		between := text[end:matches[j][0]]
		window := text[end:min(matches[j][1]+30, len(text))]
		if idx := strings.IndexByte(window, '\n'); idx >= 0 {
			window = window[:idx]
		}
		if strings.Contains(between, "//") && bulkMarker.MatchString(window) {
			return j
		}
		return -1
	}
	return -1
}

// identityBefore extracts the name fragment, vintage and bottle size from
// the line the price sits on.
func identityBefore(text string, pos int, sizeKeywords map[string]float64) (string, model.Vintage, float64) {
	before := text[:pos]
	if len(before) > 300 {
		before = before[len(before)-300:]
		// The cut may split a multibyte rune; drop its tail.
		for len(before) > 0 && !utf8.RuneStart(before[0]) {
			before = before[1:]
		}
	}
	line := before
	if idx := strings.LastIndexByte(before, '\n'); idx >= 0 {
		line = before[idx+1:]
	}

	lower := strings.ToLower(line)
	size := model.SizeStandard
	sizeWord := ""
	// Longest keyword first, so "double magnum" beats "magnum" and the
	// scan order never depends on map iteration.
	for _, word := range sortedKeywords(sizeKeywords) {
		if strings.Contains(lower, word) {
			size = sizeKeywords[word]
			sizeWord = word
			break
		}
	}

	if m := nameVintageColon.FindStringSubmatch(line); m != nil {
		return cleanName(m[1], sizeWord), model.ParseVintage(m[2]), size
	}
	if m := nameVintageLoose.FindStringSubmatch(line); m != nil {
		return cleanName(m[1], sizeWord), model.ParseVintage(m[2]), size
	}
	if m := nameOnlyColon.FindStringSubmatch(line); m != nil {
		return cleanName(m[1], sizeWord), model.VintageNV, size
	}
	return "", model.VintageNV, size
}

func sortedKeywords(sizeKeywords map[string]float64) []string {
	words := make([]string, 0, len(sizeKeywords))
	for word := range sizeKeywords {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return words
}

// cleanName strips decorative symbols and carries the size word into the
// name so learned keys distinguish bottle formats.
func cleanName(raw, sizeWord string) string {
	name := strings.TrimSpace(decoration.ReplaceAllString(raw, ""))
	if sizeWord != "" && !strings.Contains(strings.ToLower(name), sizeWord) {
		name += " " + strings.ToUpper(sizeWord[:1]) + sizeWord[1:]
	}
	return name
}
