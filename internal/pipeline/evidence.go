package pipeline

import (
	"strings"
	"unicode/utf8"
)

const (
	evidenceMax    = 120
	evidenceBefore = 20
	evidenceAfter  = 80
	evidenceMin    = 10
)

// Evidence returns a short quote of text for the notes field: the whole
// text when short, otherwise a window around the first evidence keyword,
// otherwise the leading evidenceMax runes.
func (p *Pipeline) Evidence(text string) string {
	s := collapseSpace(text)
	if s == "" {
		return p.lex.Failsafe.Notes
	}
	if utf8.RuneCountInString(s) <= evidenceMax {
		return s
	}
	runes := []rune(s)
	for _, key := range p.lex.EvidenceKeys {
		if key == "" {
			continue
		}
		b := strings.Index(s, key)
		if b < 0 {
			continue
		}
		idx := utf8.RuneCountInString(s[:b])
		start := max(0, idx-evidenceBefore)
		end := min(len(runes), idx+evidenceAfter)
		snippet := strings.TrimSpace(string(runes[start:end]))
		if utf8.RuneCountInString(snippet) >= evidenceMin {
			return snippet
		}
	}
	return string(runes[:evidenceMax])
}

// collapseSpace joins the whitespace-separated fields of s with single
// spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
