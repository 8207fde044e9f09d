package section

import (
	"regexp"
	"strings"
	"unicode"
)

// sectionPattern detects a top-level section marker. Composed patterns
// capture (keyword, number, heading); bare patterns capture (marker,
// leading content). Bare numbered markers only open a new section while no
// section is active, otherwise they are left for the subsection patterns.
type sectionPattern struct {
	re       *regexp.Regexp
	composed bool
	bare     bool
}

// Ordered most specific to least specific. The first pattern type whose span
// is not already consumed wins; later patterns never re-match consumed text.
var sectionPatterns = []sectionPattern{
	// English keyword sections: "Article 5: Scope", "CHAPTER 2".
	{re: regexp.MustCompile(`(?mi)^(Article|Section|Chapter)\s+(\d+[a-zA-Z]*)[:.\s]*(.*)$`), composed: true},

	// Arabic keyword sections: "المادة 5 نطاق التطبيق", "الفصل ٣".
	{re: regexp.MustCompile(`(?m)^(المادة|الفصل|القسم|مادة|فصل)\s*([0-9٠-٩]+)[:.\s-]*(.*)$`), composed: true},

	// Bare numbered articles, common in Arabic statutes: "(1) ..." or "5. ...".
	{re: regexp.MustCompile(`(?m)^(\(\s*\d+\s*\)|\d+\s*[.-])\s*(.*)$`), bare: true},
}

// Subsection patterns match nested markers inside an active section.
var subsectionPatterns = []*regexp.Regexp{
	// Numbered sublists: "1. ...", "2- ...", Arabic-indic variants.
	regexp.MustCompile(`(?m)^(\d+[a-zA-Z٠-٩]*)[.\s-]+(.*)$`),

	// Arabic-indic numerals in parentheses: "(١) ...".
	regexp.MustCompile(`(?m)^(\(\s*[٠-٩]+\s*\))\s*(.*)$`),

	// Arabic lettered sublists: "(أ) ...", "(ب) ...".
	regexp.MustCompile(`(?m)^(\(\s*[أ-ي]\s*\))\s*(.*)$`),
}

// Fallback patterns run only when the primary scan finds nothing.
var fallbackPatterns = []*regexp.Regexp{
	// Any line starting with an integer and punctuation.
	regexp.MustCompile(`(?m)^(\d+)[.:\s-](.*)$`),

	// All-caps or Arabic-script runs at line start, treated as headings.
	regexp.MustCompile(`(?m)^([A-Z][A-Z\s]{2,}|[أ-ي][أ-ي\s]{2,})[:.\s-]*(.*)$`),
}

// markerRef matches in-text citations to other sections for cross-reference
// resolution.
var markerRef = regexp.MustCompile(`(Article|Section|Chapter|المادة|الفصل)\s+([0-9٠-٩]+)`)

const titlePreviewLen = 50

// preview truncates content for use in a display title, appending an
// ellipsis when text was cut.
func preview(s string) string {
	r := []rune(s)
	if len(r) <= titlePreviewLen {
		return s
	}
	return string(r[:titlePreviewLen]) + "..."
}

// NormalizeDigits rewrites Arabic-indic digits to ASCII so numbers compare
// canonically; all other runes pass through, preserving display glyphs.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '٠' && r <= '٩' {
			return '0' + (r - '٠')
		}
		return r
	}, s)
}

// abjad maps Arabic ordinal letters to their traditional numeric values,
// used when sublists are lettered "(أ) (ب) (ج)".
var abjad = map[rune]int{
	'أ': 1, 'ا': 1, 'ب': 2, 'ج': 3, 'د': 4, 'ه': 5,
	'و': 6, 'ز': 7, 'ح': 8, 'ط': 9, 'ي': 10,
}

// MarkerNumber converts a marker token to a canonical integer: Latin digits,
// Arabic-indic digits, or a single Arabic ordinal letter. Returns 0 when the
// token carries no recognizable number.
func MarkerNumber(s string) int {
	s = strings.TrimFunc(NormalizeDigits(s), func(r rune) bool {
		return !unicode.IsDigit(r) && !unicode.IsLetter(r)
	})
	if s == "" {
		return 0
	}
	n := 0
	sawDigit := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			sawDigit = true
			continue
		}
		break
	}
	if sawDigit {
		return n
	}
	r := []rune(s)
	if v, ok := abjad[r[0]]; ok && len(r) == 1 {
		return v
	}
	return 0
}

// arabicDominant reports whether Arabic-script runes outnumber Latin letters
// in s. Used to pick the language of synthesized titles.
func arabicDominant(s string) bool {
	arabic, latin := 0, 0
	for _, r := range s {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			arabic++
		case unicode.In(r, unicode.Latin):
			latin++
		}
	}
	return arabic > latin
}
