package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/lifebox/lifebox-cli/internal/lexicon"
	"github.com/lifebox/lifebox-cli/internal/model"
)

const (
	decimal   = digit + `+(?:\.` + digit + `+)?`
	grouped   = digit + `{1,3}(?:,` + digit + `{3})+|` + digit + `+`
	groupedFr = digit + `{1,3}(?:,` + digit + `{3})+(?:\.` + digit + `+)?|` + decimal
)

// amountPattern is one amount rule. Rules are tried in order; the first
// rule yielding a value wins. bounded requires a word boundary after the
// match (and before it when leading is set), evaluated on Unicode word runes.
type amountPattern struct {
	re      *regexp.Regexp
	mul     float64
	bounded bool
	leading bool
}

var amountPatterns = []amountPattern{
	// 3万円
	{re: regexp.MustCompile(`(` + decimal + `)` + space + `*万` + space + `*円`), mul: 10000},
	// 3万 (not followed by another word rune, so 3万人 does not count)
	{re: regexp.MustCompile(`(` + decimal + `)` + space + `*万`), mul: 10000, bounded: true},
	// 1,200円
	{re: regexp.MustCompile(`(` + grouped + `)` + space + `*円`), mul: 1},
	// ¥1,200
	{re: regexp.MustCompile(`¥` + space + `*(` + grouped + `)`), mul: 1},
	// $120, $1,200.50
	{re: regexp.MustCompile(`\$` + space + `*(` + groupedFr + `)`), mul: 1},
	// USD 120
	{re: regexp.MustCompile(`(?i)USD` + space + `*(` + groupedFr + `)`), mul: 1, bounded: true, leading: true},
}

// Amount returns the first monetary magnitude found in text. Man (万)
// multipliers are applied and thousands separators stripped; the result is
// a plain number with no currency attached.
func Amount(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	for _, p := range amountPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if p.bounded && !wordBoundaryAfter(text, loc[1]) {
				continue
			}
			if p.leading && !wordBoundaryBefore(text, loc[0]) {
				continue
			}
			v, ok := parseNumber(text[loc[2]:loc[3]])
			if !ok {
				continue
			}
			return v * p.mul, true
		}
	}
	return 0, false
}

// parseNumber folds full-width digits, strips thousands separators, and
// converts to float64.
func parseNumber(s string) (float64, bool) {
	s = width.Fold.String(s)
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Currency returns the first currency code whose literal sign occurs in
// text, walking signs in lexicon order. It never guesses from an amount.
func Currency(text string, signs []lexicon.CurrencySigns) (model.Currency, bool) {
	if text == "" {
		return "", false
	}
	for _, cs := range signs {
		for _, sig := range cs.Signs {
			if sig != "" && strings.Contains(text, sig) {
				return cs.Code, true
			}
		}
	}
	return "", false
}
