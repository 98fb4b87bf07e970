package infer

import (
	"github.com/lifebox/lifebox-cli/internal/lexicon"
	"github.com/lifebox/lifebox-cli/internal/model"
)

// marker is the secondary condition a title rule requires.
type marker int

const (
	markNone marker = iota
	markDue
	markDueTime
	markSubmit
	markSupplies
	markReply
)

// TitleRule is one row of the title decision table.
type TitleRule struct {
	Domain model.Domain
	Marker marker
	ID     string
}

// titleRules is evaluated top to bottom; the first matching row wins.
var titleRules = []TitleRule{
	{model.DomainPayment, markDue, lexicon.TitlePaymentDue},
	{model.DomainPayment, markNone, lexicon.TitlePayment},

	{model.DomainAppointment, markDueTime, lexicon.TitleAppointmentDateTime},
	{model.DomainAppointment, markDue, lexicon.TitleAppointmentDate},
	{model.DomainAppointment, markNone, lexicon.TitleAppointment},

	{model.DomainSchool, markSubmit, lexicon.TitleSchoolSubmit},
	{model.DomainSchool, markSupplies, lexicon.TitleSchoolSupplies},
	{model.DomainSchool, markDue, lexicon.TitleSchoolDue},
	{model.DomainSchool, markNone, lexicon.TitleSchool},

	{model.DomainWork, markSubmit, lexicon.TitleWorkSubmit},
	{model.DomainWork, markReply, lexicon.TitleWorkReply},
	{model.DomainWork, markDue, lexicon.TitleWorkDue},
	{model.DomainWork, markNone, lexicon.TitleWork},

	{model.DomainGeneric, markSubmit, lexicon.TitleSubmit},
	{model.DomainGeneric, markReply, lexicon.TitleReply},
	{model.DomainGeneric, markDue, lexicon.TitleDue},
	{model.DomainGeneric, markNone, lexicon.TitleGeneric},
}

func (m marker) holds(s Signals) bool {
	switch m {
	case markDue:
		return s.HasDue
	case markDueTime:
		return s.HasDue && s.HasTime
	case markSubmit:
		return s.Submit
	case markSupplies:
		return s.Supplies
	case markReply:
		return s.Reply
	default:
		return true
	}
}

// TitleID returns the id of the first rule matching s.
func TitleID(s Signals) string {
	for _, r := range titleRules {
		if r.Domain == s.Domain && r.Marker.holds(s) {
			return r.ID
		}
	}
	return lexicon.TitleGeneric
}

// Title returns the actionable title for text. Unreadable text gets the
// failsafe title regardless of any other signal.
func (in *Inferrer) Title(text string, hasDue bool) string {
	if !Readable(text) {
		return in.lex.Failsafe.Title
	}
	return in.lex.Title(TitleID(in.Signals(text, hasDue)))
}
