package types

import (
	"encoding/json"
	"time"
)

// Disposition values seen from the backend. The vocabulary is owned by the backend.
const (
	DispositionAnswered  = "answered"
	DispositionVoicemail = "voicemail"
	DispositionNoAnswer  = "no_answer"
)

// Call represents a single call record
type Call struct {
	ID              string     `json:"id"`
	AccountID       string     `json:"account_id"`
	PartnerID       *string    `json:"partner_id"`
	ExternalCallID  *string    `json:"external_call_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationSec     *int       `json:"duration_sec"`
	Disposition     string     `json:"disposition"`
	Billable        bool       `json:"billable"`
	SaleMade        bool       `json:"sale_made"`
	SaleAmountCents *int64     `json:"sale_amount_cents"` // integer cents
	ANI             *string    `json:"ani"`               // calling party
	DNIS            *string    `json:"dnis"`              // dialed number
	AgentName       *string    `json:"agent_name"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ConsistentDuration reports whether DurationSec agrees with EndedAt - StartedAt
// (to the second). Calls without an end or a duration are considered consistent.
// The backend owns this invariant; the result is informational only.
func (c *Call) ConsistentDuration() bool {
	if c.EndedAt == nil || c.DurationSec == nil {
		return true
	}
	if *c.DurationSec < 0 {
		return false
	}
	elapsed := c.EndedAt.Sub(c.StartedAt).Seconds()
	diff := elapsed - float64(*c.DurationSec)
	return diff > -1 && diff < 1
}

// CallList is one page of calls
type CallList struct {
	Items      []Call `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"` // 1-based
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// ExpectedTotalPages returns ceil(Total / PageSize), or 0 when PageSize is not positive
func (l *CallList) ExpectedTotalPages() int {
	if l.PageSize <= 0 {
		return 0
	}
	return (l.Total + l.PageSize - 1) / l.PageSize
}

// Transcript is the speech-to-text result for a call.
//
// WordsJSON is kept undecoded: the backend has not committed to a word timing shape.
type Transcript struct {
	CallID    string          `json:"call_id"`
	Language  string          `json:"language"`
	Text      string          `json:"text"`
	WordsJSON json.RawMessage `json:"words_json"`
}

// HasWords reports whether the backend sent any word timing data
func (t *Transcript) HasWords() bool {
	return len(t.WordsJSON) > 0 && string(t.WordsJSON) != "null"
}

// CallSummary is the AI generated summary for a call
type CallSummary struct {
	CallID    string   `json:"call_id"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Sentiment *string  `json:"sentiment"`
}
