// Package pipeline merges a model draft with regex extraction and keyword
// inference into a TaskRecord. It is pure: no I/O, no clock, no shared
// mutable state, and it never fails.
package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/draft"
	"github.com/lifebox/lifebox-cli/internal/extract"
	"github.com/lifebox/lifebox-cli/internal/infer"
	"github.com/lifebox/lifebox-cli/internal/lexicon"
	"github.com/lifebox/lifebox-cli/internal/model"
)

// Confidence ladder values.
const (
	ConfidenceDueAndAmount = 0.9
	ConfidenceDue          = 0.8
	ConfidenceMidKeyword   = 0.7
	ConfidenceReadable     = 0.6
	ConfidenceUnreadable   = 0.2
)

// Input is one normalization request.
type Input struct {
	Text        string
	ModelOutput string
	SourceHint  string
	// Locale is informational only; date handling does not depend on it.
	Locale string
}

// Pipeline normalizes message text into TaskRecords.
type Pipeline struct {
	lex    *lexicon.Lexicon
	scorer *extract.Scorer
	infer  *infer.Inferrer
}

// New creates a Pipeline backed by lex. A nil lex uses lexicon.Default().
func New(lex *lexicon.Lexicon) *Pipeline {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Pipeline{
		lex:    lex,
		scorer: extract.NewScorer(lex),
		infer:  infer.New(lex),
	}
}

// Lexicon returns the lexicon the pipeline was built with.
func (p *Pipeline) Lexicon() *lexicon.Lexicon {
	return p.lex
}

// Normalize parses in.ModelOutput tolerantly and merges it with what the
// text itself yields.
func (p *Pipeline) Normalize(in Input) model.TaskRecord {
	return p.NormalizeDraft(in.Text, draft.Parse(in.ModelOutput), in.SourceHint)
}

// NormalizeDraft merges an already parsed draft with the text.
func (p *Pipeline) NormalizeDraft(text string, d draft.Draft, sourceHint string) model.TaskRecord {
	if !infer.Readable(text) {
		return p.Failsafe()
	}

	urls := extract.URLs(text)
	phones := extract.Phones(text)
	dueAt := p.dueAt(text, d)

	var amount *float64
	if v, ok := extract.Amount(text); ok {
		amount = &v
	}
	var currency *model.Currency
	if c, ok := extract.Currency(text, p.lex.Currencies); ok {
		currency = &c
	}

	return model.TaskRecord{
		Title:            p.title(text, dueAt != "", d),
		Source:           draft.Source(d.Get("source"), sourceHint),
		Assignee:         draft.Assignee(d.Get("assignee")),
		DueAt:            model.StringPtr(dueAt),
		Amount:           amount,
		Currency:         currency,
		Phones:           phones,
		URLs:             urls,
		Risk:             draft.Risk(d.Get("risk"), p.infer.Risk(text, dueAt)),
		Status:           draft.Status(d.Get("status")),
		SuggestedActions: draft.Actions(d.Get("suggested_actions"), p.infer.Actions(text, dueAt, urls)),
		Confidence:       draft.Confidence(d.Get("confidence"), p.confidence(text, dueAt, amount)),
		Notes:            p.notes(text, d),
	}
}

// Failsafe returns the fixed record emitted for unreadable text.
func (p *Pipeline) Failsafe() model.TaskRecord {
	return model.TaskRecord{
		Title:            p.lex.Failsafe.Title,
		Phones:           []string{},
		URLs:             []string{},
		Risk:             model.RiskLow,
		Status:           model.StatusPending,
		SuggestedActions: []model.Action{},
		Confidence:       ConfidenceUnreadable,
		Notes:            p.lex.Failsafe.Notes,
	}
}

// dueAt picks the best date candidate from the text, then from the draft's
// notes and title. The result is always a verbatim substring of one of them.
func (p *Pipeline) dueAt(text string, d draft.Draft) string {
	if due, ok := p.scorer.ChooseDueAt(text); ok {
		return due
	}
	for _, key := range []string{"notes", "title"} {
		s, ok := d.String(key)
		if !ok {
			continue
		}
		if due, ok := p.scorer.ChooseDueAt(s); ok {
			zap.L().Debug("pipeline: due date taken from draft", zap.String("field", key))
			return due
		}
	}
	return ""
}

// title prefers the rule table whenever the text names a domain; a generic
// message takes the draft title if one exists.
func (p *Pipeline) title(text string, hasDue bool, d draft.Draft) string {
	if p.infer.Classify(text) == model.DomainGeneric {
		if t, ok := d.String("title"); ok {
			return t
		}
	}
	return p.infer.Title(text, hasDue)
}

// notes accepts the draft notes only when they quote the text.
func (p *Pipeline) notes(text string, d draft.Draft) string {
	if n, ok := d.String("notes"); ok && strings.Contains(collapseSpace(text), collapseSpace(n)) {
		return n
	}
	return p.Evidence(text)
}

func (p *Pipeline) confidence(text, dueAt string, amount *float64) float64 {
	switch {
	case !infer.Readable(text):
		return ConfidenceUnreadable
	case dueAt != "" && amount != nil:
		return ConfidenceDueAndAmount
	case dueAt != "":
		return ConfidenceDue
	case p.infer.HasMidRiskWord(text):
		return ConfidenceMidKeyword
	default:
		return ConfidenceReadable
	}
}
