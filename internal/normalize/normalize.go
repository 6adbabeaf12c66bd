// Package normalize canonicalizes names and numbers before any comparison.
// All functions are pure.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPrefixes are producer-style tokens dropped during name
// normalization. Matching happens after diacritics are stripped, so
// "Château" is covered by "chateau". Only leading prefixes are removed,
// and abbreviations require their dot, so "Dom Pérignon" keeps its "dom"
// while "Dom. Ruinart" loses it.
var DefaultPrefixes = []string{"chateau", "domaine", "dom.", "ch."}

// foldDiacritics decomposes to NFD, drops combining marks, recomposes.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name canonicalizes a wine name for matching: lowercase, diacritics
// stripped, producer prefixes removed, punctuation collapsed to spaces.
func Name(s string) string {
	return NameWith(s, DefaultPrefixes)
}

// NameWith is Name with a caller-supplied prefix set. Prefixes ending in
// a dot match only their dotted form.
func NameWith(s string, prefixes []string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	s = stripLeadingPrefixes(s, prefixes)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// stripLeadingPrefixes removes prefixes anchored at the start of the
// name, repeatedly ("Château Domaine X" loses both). A word prefix must
// end at a word boundary so "Chateauneuf" survives intact.
func stripLeadingPrefixes(s string, prefixes []string) string {
	for stripped := true; stripped; {
		stripped = false
		s = strings.TrimLeft(s, " \t")
		for _, p := range prefixes {
			if !strings.HasPrefix(s, p) {
				continue
			}
			rest := s[len(p):]
			if !strings.HasSuffix(p, ".") && rest != "" {
				if r, _ := utf8.DecodeRuneInString(rest); unicode.IsLetter(r) || unicode.IsDigit(r) {
					continue
				}
			}
			s = rest
			stripped = true
			break
		}
	}
	return s
}

// Apostrophe-family separators seen in Swiss-formatted numbers: plain,
// curly right, curly left, and the modifier-letter apostrophe.
var digitApostrophe = regexp.MustCompile(`(\d)['\x{2019}\x{2018}\x{02BC}](\d)`)

var (
	strayMiddleZero = regexp.MustCompile(`(\d)\.0\.(\d{2})\b`)
	repeatedDots    = regexp.MustCompile(`(\d)\.{2,}(\d{2})\b`)
)

// Number repairs malformed numerals: apostrophe thousands separators are
// removed and the two documented stray-separator shapes are collapsed
// ("1150.0.00" -> "1150.00", "1234...56" -> "1234.56"). Text without a
// recognized numeric pattern is returned unchanged; shapes outside the
// documented ones are deliberately left alone so downstream parsing fails
// loudly instead of guessing.
func Number(s string) string {
	for digitApostrophe.MatchString(s) {
		s = digitApostrophe.ReplaceAllString(s, "$1$2")
	}
	s = strayMiddleZero.ReplaceAllString(s, "$1.$2")
	s = repeatedDots.ReplaceAllString(s, "$1.$2")
	return s
}

// ParsePrice normalizes and parses a price string. A non-numeric result
// after normalization is the caller's cue to fall back.
func ParsePrice(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(Number(s)), 64)
}
