package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contactline/internal/contact"
)

// fakeSender records submissions and answers from a script.
type fakeSender struct {
	mu    sync.Mutex
	calls []contact.Submission
	err   error
	block chan struct{}
}

func (s *fakeSender) Send(ctx context.Context, sub contact.Submission) (string, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.calls = append(s.calls, sub)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return "Thanks!", nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func fillValid(f *Form) {
	f.OnFieldChange(FieldName, "Jane Doe")
	f.OnFieldChange(FieldEmail, "jane@x.com")
	f.OnFieldChange(FieldPhone, "+977-9801148240")
	f.OnFieldChange(FieldSubject, "Hi")
	f.OnFieldChange(FieldMessage, "This is a valid message.")
}

func TestSubmitValidationFailureSkipsNetwork(t *testing.T) {
	sender := &fakeSender{}
	f := New(sender)
	f.OnFieldChange(FieldEmail, "not-an-email")
	f.OnFieldChange(FieldMessage, "short")

	if status := f.Submit(context.Background()); status != StatusIdle {
		t.Fatalf("status = %s, want idle", status)
	}
	if sender.count() != 0 {
		t.Fatal("network call issued despite validation failure")
	}
	errs := f.Errors()
	want := map[string]string{
		FieldName:    "Name is required",
		FieldEmail:   "Email is invalid",
		FieldPhone:   "Phone number is required",
		FieldMessage: "Message must be at least 10 characters",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("errors[%s] = %q, want %q", field, errs[field], msg)
		}
	}
}

func TestFieldChangeClearsError(t *testing.T) {
	f := New(&fakeSender{})
	f.Submit(context.Background())
	if f.Errors()[FieldName] == "" {
		t.Fatal("expected name error after empty submit")
	}
	f.OnFieldChange(FieldName, "J")
	if _, ok := f.Errors()[FieldName]; ok {
		t.Fatal("editing the field should clear its error")
	}
	if f.Errors()[FieldEmail] == "" {
		t.Fatal("other field errors must stay")
	}
}

func TestSubmitSuccessClearsValuesAndReverts(t *testing.T) {
	sender := &fakeSender{}
	f := New(sender)
	f.SetRevertDelay(20 * time.Millisecond)
	fillValid(f)

	if status := f.Submit(context.Background()); status != StatusSuccess {
		t.Fatalf("status = %s, want success", status)
	}
	if f.Message() != "Thanks!" {
		t.Fatalf("message = %q", f.Message())
	}
	if vals := f.Values(); len(vals) != 0 {
		t.Fatalf("values not cleared: %v", vals)
	}
	if sender.count() != 1 {
		t.Fatalf("sender calls = %d, want 1", sender.count())
	}
	sub := sender.calls[0]
	if sub.Name != "Jane Doe" || sub.Subject != "Hi" {
		t.Fatalf("unexpected submission %+v", sub)
	}

	deadline := time.Now().Add(time.Second)
	for f.Status() != StatusIdle {
		if time.Now().After(deadline) {
			t.Fatal("status never reverted to idle")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubmitErrorKeepsValues(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	f := New(sender)
	f.SetRevertDelay(20 * time.Millisecond)
	fillValid(f)

	if status := f.Submit(context.Background()); status != StatusError {
		t.Fatalf("status = %s, want error", status)
	}
	if f.Values()[FieldMessage] != "This is a valid message." {
		t.Fatal("field values must survive a failed submit")
	}

	deadline := time.Now().Add(time.Second)
	for f.Status() != StatusIdle {
		if time.Now().After(deadline) {
			t.Fatal("status never reverted to idle")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubmitGuardWhileInFlight(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	f := New(sender)
	f.SetRevertDelay(time.Millisecond)
	fillValid(f)

	done := make(chan Status, 1)
	go func() { done <- f.Submit(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for f.Status() != StatusSubmitting {
		if time.Now().After(deadline) {
			t.Fatal("first submit never reached submitting")
		}
		time.Sleep(time.Millisecond)
	}

	if status := f.Submit(context.Background()); status != StatusSubmitting {
		t.Fatalf("re-entrant submit status = %s, want submitting", status)
	}

	close(sender.block)
	if status := <-done; status != StatusSuccess {
		t.Fatalf("first submit status = %s, want success", status)
	}
	if sender.count() != 1 {
		t.Fatalf("sender calls = %d, want exactly 1", sender.count())
	}
}
