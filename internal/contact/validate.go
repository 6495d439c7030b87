package contact

import (
	"regexp"
	"unicode/utf8"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[0-9()\- ]{7,20}$`)
)

// ValidEmail reports whether s has a local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidPhone reports whether s matches the strict phone pattern: an
// optional leading +, then 7-20 digits, spaces, parens, or hyphens.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// GateError is a trust-boundary rejection. Message is safe to return
// to the caller verbatim; it reveals no internals.
type GateError struct {
	Message string
}

func (e *GateError) Error() string { return e.Message }

// Check runs the server-side gates in order and returns the first
// failure. The caller is never trusted to have validated anything;
// Check assumes only that s has been sanitized.
func Check(s Submission) error {
	if s.Name == "" || s.Email == "" || s.Phone == "" || s.Message == "" {
		return &GateError{Message: "Missing required fields"}
	}
	if !ValidEmail(s.Email) {
		return &GateError{Message: "Invalid email format"}
	}
	if !ValidPhone(s.Phone) {
		return &GateError{Message: "Invalid phone number format"}
	}
	if utf8.RuneCountInString(s.Message) < MinMessageLen {
		return &GateError{Message: "Message must be at least 10 characters long"}
	}
	return nil
}
