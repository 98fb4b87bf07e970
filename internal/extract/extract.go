// Package extract pulls deterministic signals (URLs, phone numbers, money,
// date and time expressions) out of raw message text.
//
// Every function here is total: any input string, including empty or
// garbled OCR output, yields a (possibly empty) result and never an error.
// Patterns are compiled once at package init and are safe for concurrent use.
package extract

import (
	"unicode"
	"unicode/utf8"
)

// digit matches ASCII and full-width decimal digits.
const digit = `[0-9０-９]`

// space matches ASCII whitespace and the ideographic space.
const space = `[\s\x{3000}]`

// Dedupe removes duplicates and empty strings, keeping first occurrences in
// order. The result is never nil.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// isWordRune mirrors a Unicode-aware \w: letters, digits, and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

// isGlueRune reports whether r would extend an ASCII token such as a clock
// time ("a10:30", "10:305").
func isGlueRune(r rune) bool {
	return unicode.IsDigit(r) || (r < utf8.RuneSelf && unicode.IsLetter(r))
}

// runeBefore returns the rune ending at byte offset i, or utf8.RuneError at
// the start of s.
func runeBefore(s string, i int) rune {
	if i <= 0 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r
}

// runeAt returns the rune starting at byte offset i, or utf8.RuneError at
// the end of s.
func runeAt(s string, i int) rune {
	if i >= len(s) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}

// wordBoundaryBefore reports whether a word starts cleanly at byte offset i.
func wordBoundaryBefore(s string, i int) bool {
	r := runeBefore(s, i)
	return r == utf8.RuneError || !isWordRune(r)
}

// wordBoundaryAfter reports whether a word ends cleanly at byte offset i.
func wordBoundaryAfter(s string, i int) bool {
	r := runeAt(s, i)
	return r == utf8.RuneError || !isWordRune(r)
}
