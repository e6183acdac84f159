package server

import (
	"time"

	"qrsafe/internal/forms"
)

// GenerateRequest is a form submission. Fields are keyed by template field
// name; values are strings, booleans, or ISO dates (2006-01-02).
type GenerateRequest struct {
	TemplateID string         `json:"templateId"`
	Password   string         `json:"password"`
	Fields     map[string]any `json:"fields"`
}

// ConfirmRequest resubmits a form together with the summary the user
// accepted.
type ConfirmRequest struct {
	GenerateRequest
	Summary string `json:"summary"`
}

// GenerateResponse reports either a rendered QR code or a pending summary.
type GenerateResponse struct {
	Status         string `json:"status"`
	EntryID        string `json:"entryId,omitempty"`
	URL            string `json:"url,omitempty"`
	DataURI        string `json:"dataUri,omitempty"`
	Payload        string `json:"payload,omitempty"`
	Summary        string `json:"summary,omitempty"`
	NeedsUserInput bool   `json:"needsUserInput,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

const (
	statusGenerated      = "generated"
	statusSummaryPending = "summary_pending"
)

// ViewResponse reports the gate state for an encoded payload.
type ViewResponse struct {
	State   string `json:"state"`
	Reason  string `json:"reason,omitempty"`
	Content string `json:"content,omitempty"`
}

// UnlockRequest submits a password candidate against an encoded payload.
type UnlockRequest struct {
	Data     string `json:"data"`
	Password string `json:"password"`
}

// UnlockResponse reports whether the candidate unlocked the payload.
type UnlockResponse struct {
	Unlocked bool   `json:"unlocked"`
	State    string `json:"state"`
	Content  string `json:"content,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// TemplateSummary describes one form template for clients.
type TemplateSummary struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Fields []forms.FieldSpec `json:"fields"`
}

// HistoryEntry is the metadata view of a retained QR code. The image itself
// is served separately.
type HistoryEntry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	TemplateID  string    `json:"templateId"`
	Template    string    `json:"template"`
	DisplayName string    `json:"displayName"`
}

// HistoryListResponse wraps the retained entries.
type HistoryListResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// StatusResponse describes the running server.
type StatusResponse struct {
	Running       bool   `json:"running"`
	PID           int    `json:"pid"`
	HistoryDBPath string `json:"historyDbPath"`
	HistoryCount  int    `json:"historyCount"`
}

func recordFromRequest(req GenerateRequest) *forms.Record {
	return forms.NewRecord(req.TemplateID, req.Password, req.Fields)
}
