// Package lexicon holds the keyword packs that drive extraction scoring,
// domain classification, risk inference, and title phrasing.
//
// A Lexicon is configuration data: it is built once (Default or Load) and
// then shared read-only between goroutines.
package lexicon

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/lifebox/lifebox-cli/internal/model"
)

// CurrencySigns maps one currency code to the literal markers that reveal it.
type CurrencySigns struct {
	Code  model.Currency `yaml:"code"`
	Signs []string       `yaml:"signs"`
}

// Failsafe is the fixed content emitted for unreadable input.
type Failsafe struct {
	Title string `yaml:"title"`
	Notes string `yaml:"notes"`
}

// Lexicon is the full set of keyword packs.
type Lexicon struct {
	HighRisk    []string `yaml:"high_risk"`
	MidRisk     []string `yaml:"mid_risk"`
	Reply       []string `yaml:"reply"`
	Payment     []string `yaml:"payment"`
	Appointment []string `yaml:"appointment"`
	School      []string `yaml:"school"`
	Work        []string `yaml:"work"`

	// Secondary markers consulted by the title rules.
	Submit   []string `yaml:"submit"`
	Supplies []string `yaml:"supplies"`

	// Date scorer vocabulary.
	DeadlineWords    []string `yaml:"deadline_words"`
	ObligationWords  []string `yaml:"obligation_words"`
	UntilSuffixes    []string `yaml:"until_suffixes"`
	Today            []string `yaml:"today"`
	Tomorrow         []string `yaml:"tomorrow"`
	DayAfterTomorrow []string `yaml:"day_after_tomorrow"`
	WeekMarkers      []string `yaml:"week_markers"`

	// Ordered: the first code with a matching sign wins.
	Currencies []CurrencySigns `yaml:"currencies"`

	// Keys searched, in order, when cutting an evidence snippet from long text.
	EvidenceKeys []string `yaml:"evidence_keys"`

	Titles   map[string]string `yaml:"titles"`
	Failsafe Failsafe          `yaml:"failsafe"`
}

// Load reads a YAML lexicon from path and overlays it onto Default. Keys
// absent from the file, or present but empty, keep their built-in values.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lexicon: read %s", path)
	}
	return Parse(data)
}

// Parse overlays the non-empty packs of YAML data onto Default and
// validates the result.
func Parse(data []byte) (*Lexicon, error) {
	var file Lexicon
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "lexicon: parse yaml")
	}
	lex := Default()
	lex.overlay(&file)
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// overlay copies every non-empty pack, title phrase and failsafe field of o
// onto l. An empty list never disables a built-in pack.
func (l *Lexicon) overlay(o *Lexicon) {
	packs := []struct {
		dst *[]string
		src []string
	}{
		{&l.HighRisk, o.HighRisk},
		{&l.MidRisk, o.MidRisk},
		{&l.Reply, o.Reply},
		{&l.Payment, o.Payment},
		{&l.Appointment, o.Appointment},
		{&l.School, o.School},
		{&l.Work, o.Work},
		{&l.Submit, o.Submit},
		{&l.Supplies, o.Supplies},
		{&l.DeadlineWords, o.DeadlineWords},
		{&l.ObligationWords, o.ObligationWords},
		{&l.UntilSuffixes, o.UntilSuffixes},
		{&l.Today, o.Today},
		{&l.Tomorrow, o.Tomorrow},
		{&l.DayAfterTomorrow, o.DayAfterTomorrow},
		{&l.WeekMarkers, o.WeekMarkers},
		{&l.EvidenceKeys, o.EvidenceKeys},
	}
	for _, p := range packs {
		if len(p.src) > 0 {
			*p.dst = p.src
		}
	}

	if len(o.Currencies) > 0 {
		l.Currencies = o.Currencies
	}
	for id, phrase := range o.Titles {
		if strings.TrimSpace(phrase) != "" {
			l.Titles[id] = phrase
		}
	}
	if strings.TrimSpace(o.Failsafe.Title) != "" {
		l.Failsafe.Title = o.Failsafe.Title
	}
	if strings.TrimSpace(o.Failsafe.Notes) != "" {
		l.Failsafe.Notes = o.Failsafe.Notes
	}
}

// Marshal renders the lexicon as YAML.
func (l *Lexicon) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(l)
	if err != nil {
		return nil, eris.Wrap(err, "lexicon: marshal yaml")
	}
	return out, nil
}

// Validate checks that the lexicon can drive the pipeline.
func (l *Lexicon) Validate() error {
	if strings.TrimSpace(l.Failsafe.Title) == "" || strings.TrimSpace(l.Failsafe.Notes) == "" {
		return eris.New("lexicon: failsafe title and notes are required")
	}
	for _, c := range l.Currencies {
		switch c.Code {
		case model.CurrencyJPY, model.CurrencyUSD, model.CurrencyCNY:
		default:
			return eris.Errorf("lexicon: unsupported currency code %q", c.Code)
		}
	}
	for _, id := range TitleIDs() {
		if strings.TrimSpace(l.Titles[id]) == "" {
			return eris.Errorf("lexicon: missing title phrase %q", id)
		}
	}
	return nil
}

// Title returns the phrase for a title rule id.
func (l *Lexicon) Title(id string) string {
	return l.Titles[id]
}

// ContainsAny reports whether text contains any of words, ignoring case.
func ContainsAny(text string, words []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// HasSuffixAny reports whether s ends with any of suffixes.
func HasSuffixAny(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if suf != "" && strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// EqualsAny reports whether s is exactly one of words.
func EqualsAny(s string, words []string) bool {
	for _, w := range words {
		if s == w {
			return true
		}
	}
	return false
}
