package form

import (
	"unicode/utf8"

	"contactline/internal/contact"
)

// validate applies the client-side rules. The server re-checks
// everything independently; note the client's phone rule only
// requires presence while the server enforces the strict pattern.
func validate(s contact.Submission) map[string]string {
	errs := map[string]string{}
	if s.Name == "" {
		errs[FieldName] = "Name is required"
	}
	if s.Email == "" {
		errs[FieldEmail] = "Email is required"
	} else if !contact.ValidEmail(s.Email) {
		errs[FieldEmail] = "Email is invalid"
	}
	if s.Phone == "" {
		errs[FieldPhone] = "Phone number is required"
	}
	if s.Message == "" {
		errs[FieldMessage] = "Message is required"
	} else if utf8.RuneCountInString(s.Message) < contact.MinMessageLen {
		errs[FieldMessage] = "Message must be at least 10 characters"
	}
	return errs
}
