// Package form implements the client side of the contact pipeline: a
// submission state machine owning field values, per-field errors, and
// the submit lifecycle. It mirrors what a browser front end does
// before the request ever reaches the server's trust boundary.
package form

import (
	"context"
	"sync"
	"time"

	"contactline/internal/contact"
)

// Status is the single owner of the submission lifecycle.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Field names accepted by the form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// DefaultRevertDelay is how long a terminal status stays visible
// before the form becomes reusable again.
const DefaultRevertDelay = 5 * time.Second

// Sender delivers a sanitized submission to the server boundary and
// returns the server's user-facing message.
type Sender interface {
	Send(ctx context.Context, s contact.Submission) (string, error)
}

// Form owns one in-progress contact submission. Field values are
// stored verbatim as typed; sanitization is deferred to submit time.
// The revert timer only ever touches the status field.
type Form struct {
	mu      sync.Mutex
	values  map[string]string
	errors  map[string]string
	status  Status
	message string
	sender  Sender
	revert  time.Duration
	gen     int
}

// New creates an idle form backed by the given sender.
func New(sender Sender) *Form {
	return &Form{
		values: map[string]string{},
		errors: map[string]string{},
		status: StatusIdle,
		sender: sender,
		revert: DefaultRevertDelay,
	}
}

// SetRevertDelay overrides the terminal-status display window.
func (f *Form) SetRevertDelay(d time.Duration) {
	f.mu.Lock()
	f.revert = d
	f.mu.Unlock()
}

// OnFieldChange stores the raw value verbatim and eagerly clears any
// error already shown for that field.
func (f *Form) OnFieldChange(field, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = raw
	delete(f.errors, field)
}

// Status returns the current lifecycle status.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Message returns the server's acknowledgement from the last
// successful submit.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Values returns a copy of the current field values.
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyMap(f.values)
}

// Errors returns a copy of the current per-field errors.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyMap(f.errors)
}

// Submit sanitizes and validates the form, then delivers it through
// the sender. It returns the resulting status. While a submission is
// in flight further calls are no-ops so duplicate requests cannot be
// issued.
func (f *Form) Submit(ctx context.Context) Status {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return StatusSubmitting
	}
	f.gen++
	f.status = StatusValidating

	sub := contact.Submission{
		Name:    contact.Sanitize(f.values[FieldName]),
		Email:   contact.Sanitize(f.values[FieldEmail]),
		Phone:   contact.Sanitize(f.values[FieldPhone]),
		Subject: contact.Sanitize(f.values[FieldSubject]),
		Message: contact.Sanitize(f.values[FieldMessage]),
	}
	if errs := validate(sub); len(errs) > 0 {
		f.errors = errs
		f.status = StatusIdle
		f.mu.Unlock()
		return StatusIdle
	}
	f.errors = map[string]string{}
	f.status = StatusSubmitting
	f.mu.Unlock()

	msg, err := f.sender.Send(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		// Field values stay intact so the user does not retype.
		f.status = StatusError
	} else {
		f.values = map[string]string{}
		f.message = msg
		f.status = StatusSuccess
	}
	f.scheduleRevert()
	return f.status
}

// scheduleRevert arms the auto-revert back to idle. The generation
// counter stops a stale timer from clobbering a newer submission's
// status. Callers must hold f.mu.
func (f *Form) scheduleRevert() {
	f.gen++
	gen := f.gen
	time.AfterFunc(f.revert, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen != gen {
			return
		}
		if f.status == StatusSuccess || f.status == StatusError {
			f.status = StatusIdle
		}
	})
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
