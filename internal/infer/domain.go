// Package infer derives the message domain, an actionable title, the risk
// level, and suggested follow-up actions from keyword signals.
package infer

import (
	"strings"

	"github.com/lifebox/lifebox-cli/internal/extract"
	"github.com/lifebox/lifebox-cli/internal/lexicon"
	"github.com/lifebox/lifebox-cli/internal/model"
)

// Inferrer applies a lexicon to message text. It holds no mutable state.
type Inferrer struct {
	lex *lexicon.Lexicon
}

// New creates an Inferrer backed by lex.
func New(lex *lexicon.Lexicon) *Inferrer {
	return &Inferrer{lex: lex}
}

// domainPack pairs a domain with the keywords that select it.
type domainPack struct {
	domain model.Domain
	words  func(*lexicon.Lexicon) []string
}

// domainOrder is the classification priority: a message matching both the
// payment and appointment packs is a payment.
var domainOrder = []domainPack{
	{model.DomainPayment, func(l *lexicon.Lexicon) []string { return l.Payment }},
	{model.DomainAppointment, func(l *lexicon.Lexicon) []string { return l.Appointment }},
	{model.DomainSchool, func(l *lexicon.Lexicon) []string { return l.School }},
	{model.DomainWork, func(l *lexicon.Lexicon) []string { return l.Work }},
}

// Classify returns the first domain whose keyword pack matches text, or
// DomainGeneric.
func (in *Inferrer) Classify(text string) model.Domain {
	for _, p := range domainOrder {
		if lexicon.ContainsAny(text, p.words(in.lex)) {
			return p.domain
		}
	}
	return model.DomainGeneric
}

// Signals are the secondary markers consulted by the title rules.
type Signals struct {
	Domain   model.Domain
	HasDue   bool
	HasTime  bool
	Submit   bool
	Supplies bool
	Reply    bool
}

// Signals collects the title-rule inputs for text.
func (in *Inferrer) Signals(text string, hasDue bool) Signals {
	t := strings.TrimSpace(text)
	return Signals{
		Domain:   in.Classify(t),
		HasDue:   hasDue,
		HasTime:  len(extract.TimeCandidates(t)) > 0,
		Submit:   lexicon.ContainsAny(t, in.lex.Submit),
		Supplies: lexicon.ContainsAny(t, in.lex.Supplies),
		Reply:    lexicon.ContainsAny(t, in.lex.Reply),
	}
}

// Readable reports whether text has any non-whitespace character.
func Readable(text string) bool {
	return strings.TrimSpace(text) != ""
}
