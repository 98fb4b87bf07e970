// Package model holds the task record produced by the normalization pipeline.
package model

// Risk is the urgency level attached to a task.
type Risk string

const (
	RiskHigh Risk = "high"
	RiskMid  Risk = "mid"
	RiskLow  Risk = "low"
)

// ParseRisk returns the Risk for an exact token, or ("", false).
func ParseRisk(s string) (Risk, bool) {
	switch Risk(s) {
	case RiskHigh, RiskMid, RiskLow:
		return Risk(s), true
	}
	return "", false
}

// Status is the completion state of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// ParseStatus returns the Status for an exact token, or ("", false).
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusDone:
		return Status(s), true
	}
	return "", false
}

// Action is a suggested follow-up for a task.
type Action string

const (
	ActionCalendar Action = "calendar"
	ActionReply    Action = "reply"
	ActionOpenLink Action = "open_link"
)

// AllActions returns the allowed actions in canonical order.
func AllActions() []Action {
	return []Action{ActionCalendar, ActionReply, ActionOpenLink}
}

// ParseAction returns the Action for an exact token, or ("", false).
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionCalendar, ActionReply, ActionOpenLink:
		return Action(s), true
	}
	return "", false
}

// Currency is an ISO-ish currency code recognized in message text.
type Currency string

const (
	CurrencyJPY Currency = "JPY"
	CurrencyUSD Currency = "USD"
	CurrencyCNY Currency = "CNY"
)

// Domain is the coarse subject classification of a message.
type Domain string

const (
	DomainPayment     Domain = "payment"
	DomainAppointment Domain = "appointment"
	DomainSchool      Domain = "school"
	DomainWork        Domain = "work"
	DomainGeneric     Domain = "generic"
)

// TaskRecord is the single actionable task derived from one message.
// Nullable fields are pointers so they serialize as explicit nulls; the
// slice fields are always non-nil so they serialize as [].
type TaskRecord struct {
	Title            string    `json:"title"`
	Source           *string   `json:"source"`
	Assignee         *string   `json:"assignee"`
	DueAt            *string   `json:"due_at"`
	Amount           *float64  `json:"amount"`
	Currency         *Currency `json:"currency"`
	Phones           []string  `json:"phones"`
	URLs             []string  `json:"urls"`
	Risk             Risk      `json:"risk"`
	Status           Status    `json:"status"`
	SuggestedActions []Action  `json:"suggested_actions"`
	Confidence       float64   `json:"confidence"`
	Notes            string    `json:"notes"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

