package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var urlRe = regexp.MustCompile(`https?://[^\s\p{Z})>\]]+`)

var phoneRe = regexp.MustCompile(
	`(?:\+?` + digit + `{1,3}[- ]?)?(?:` + digit + `{2,4}[- ]?` + digit + `{2,4}[- ]?` + digit + `{3,4})`,
)

// minPhoneDigits is the digit count below which a match is treated as a
// date, amount, or other number rather than a phone.
const minPhoneDigits = 10

// URLs returns http(s) URLs in order of first appearance.
func URLs(text string) []string {
	if text == "" {
		return []string{}
	}
	return Dedupe(urlRe.FindAllString(text, -1))
}

// Phones returns phone-number-like tokens with at least ten digits, in
// order of first appearance. Tokens are returned as written.
func Phones(text string) []string {
	if text == "" {
		return []string{}
	}
	var out []string
	for _, m := range phoneRe.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if countDigits(m) >= minPhoneDigits {
			out = append(out, m)
		}
	}
	return Dedupe(out)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
