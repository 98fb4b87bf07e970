package infer

import (
	"github.com/lifebox/lifebox-cli/internal/lexicon"
	"github.com/lifebox/lifebox-cli/internal/model"
)

// Risk grades text. High-severity vocabulary anywhere wins; otherwise a
// due date of today is high and tomorrow is mid; then mid-severity
// vocabulary; else low.
func (in *Inferrer) Risk(text, dueAt string) model.Risk {
	if !Readable(text) {
		return model.RiskLow
	}
	if lexicon.ContainsAny(text, in.lex.HighRisk) {
		return model.RiskHigh
	}
	if dueAt != "" && lexicon.EqualsAny(dueAt, in.lex.Today) {
		return model.RiskHigh
	}
	if dueAt != "" && lexicon.EqualsAny(dueAt, in.lex.Tomorrow) {
		return model.RiskMid
	}
	if lexicon.ContainsAny(text, in.lex.MidRisk) {
		return model.RiskMid
	}
	return model.RiskLow
}

// HasMidRiskWord reports whether text carries mid-severity vocabulary.
func (in *Inferrer) HasMidRiskWord(text string) bool {
	return lexicon.ContainsAny(text, in.lex.MidRisk)
}

// Actions returns suggested follow-ups in canonical order: calendar when a
// due date exists, reply when text asks for a response, open_link when
// URLs exist. The result is never nil.
func (in *Inferrer) Actions(text, dueAt string, urls []string) []model.Action {
	out := make([]model.Action, 0, 3)
	if dueAt != "" {
		out = append(out, model.ActionCalendar)
	}
	if lexicon.ContainsAny(text, in.lex.Reply) {
		out = append(out, model.ActionReply)
	}
	if len(urls) > 0 {
		out = append(out, model.ActionOpenLink)
	}
	return out
}
