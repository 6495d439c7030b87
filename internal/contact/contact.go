// Package contact models the submission pipeline's domain: untrusted
// wire input, the sanitized submission, and the row layout persisted
// to the external sheet.
package contact

import "time"

const (
	// MaxFieldLen caps every sanitized field value.
	MaxFieldLen = 1000
	// MinMessageLen is the shortest acceptable message.
	MinMessageLen = 10
	// DefaultSubject fills the subject column when none was provided.
	DefaultSubject = "No subject provided"
)

// RawInput is untrusted data parsed straight off the wire. Values may
// be of any JSON type; FromRaw is the only path from RawInput to a
// Submission.
type RawInput map[string]any

// Submission is a sanitized contact request.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// FromRaw sanitizes every known field of untrusted input. Unknown
// fields are dropped.
func FromRaw(in RawInput) Submission {
	return Submission{
		Name:    Sanitize(in["name"]),
		Email:   Sanitize(in["email"]),
		Phone:   Sanitize(in["phone"]),
		Subject: Sanitize(in["subject"]),
		Message: Sanitize(in["message"]),
	}
}

// PersistedRow is the exact ordered tuple appended to the sheet:
// timestamp, name, email, phone, subject, message. Column order is
// fixed; the sheet's header row (columns A-F) is managed out of band
// and there is no schema negotiation.
type PersistedRow [6]string

// Row builds the persisted tuple. The subject column falls back to
// DefaultSubject when the submission carries none.
func (s Submission) Row(ts string) PersistedRow {
	subject := s.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return PersistedRow{ts, s.Name, s.Email, s.Phone, subject, s.Message}
}

// Values renders the row for the Sheets values API.
func (r PersistedRow) Values() []any {
	out := make([]any, len(r))
	for i, v := range r {
		out[i] = v
	}
	return out
}

// Timestamp renders t in the fixed display format the sheet uses,
// e.g. "08/31/2026, 10:04:05 AM".
func Timestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("01/02/2006, 03:04:05 PM")
}
