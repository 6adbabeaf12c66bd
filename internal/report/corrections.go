package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/model"
)

// itemPlaceholder marks an entry the reviewer has not filled in yet.
const itemPlaceholder = "YOUR_ITEM_NO_HERE"

// Correction is one reviewed line from a corrections file: the operator
// confirmed which item the mention should have resolved to.
type Correction struct {
	Name    string
	Vintage model.Vintage
	ItemID  int64
}

// WriteCorrections renders the corrections file for entries needing
// review. Each line is "Name | Vintage | ItemNo | Notes"; the reviewer
// replaces the placeholder with the real item number.
func WriteCorrections(w io.Writer, entries []Entry, now time.Time) (int, error) {
	var b strings.Builder
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "CORRECTIONS NEEDED")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "# Entries below were unresolved or matched by price alone.")
	fmt.Fprintf(&b, "# Replace %s with the correct item number, then apply\n", itemPlaceholder)
	fmt.Fprintln(&b, "# the file. Lines left as-is are skipped.")
	fmt.Fprintln(&b, "# Format: Name | Vintage | ItemNo | Notes")
	fmt.Fprintln(&b, rule)

	n := 0
	for _, e := range entries {
		if !NeedsReview(e) {
			continue
		}
		note := e.Result.Reason
		if note == "" {
			note = string(e.Result.Tier)
		}
		fmt.Fprintf(&b, "%s | %s | %s | %s (price %s)\n",
			displayName(e), e.Mention.Vintage, itemPlaceholder, note, e.Mention.SourcePrice)
		n++
	}

	if n == 0 {
		return 0, nil
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, eris.Wrap(err, "report: write corrections")
	}
	return n, nil
}

// ParseCorrections reads a reviewed corrections file back. Comment lines,
// decoration and untouched placeholders are skipped; an entry with a
// non-numeric item number is skipped with a warning rather than failing
// the whole file.
func ParseCorrections(r io.Reader) ([]Correction, error) {
	var out []Correction
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "=") || strings.HasPrefix(line, "-") {
			continue
		}
		if strings.Contains(line, "CORRECTIONS NEEDED") || strings.HasPrefix(line, "Generated:") ||
			strings.HasPrefix(line, "Format:") {
			continue
		}

		parts := strings.Split(line, " | ")
		if len(parts) < 3 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		vintage := model.ParseVintage(strings.TrimSpace(parts[1]))
		rawID := strings.TrimSpace(parts[2])
		if rawID == "" || rawID == itemPlaceholder {
			continue
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			zap.L().Warn("report: invalid item number in corrections, skipping",
				zap.String("name", name),
				zap.String("item", rawID),
			)
			continue
		}
		out = append(out, Correction{Name: name, Vintage: vintage, ItemID: id})
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "report: read corrections")
	}
	return out, nil
}
