package contact

import (
	"strings"
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"trims whitespace", "  Jane Doe \n", "Jane Doe"},
		{"non-string int", 42, ""},
		{"non-string nil", nil, ""},
		{"non-string map", map[string]any{"a": 1}, ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("%s: Sanitize(%v) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSanitizeTruncates(t *testing.T) {
	long := strings.Repeat("a", 1500)
	got := Sanitize(long)
	if len(got) != MaxFieldLen {
		t.Fatalf("truncated length = %d, want %d", len(got), MaxFieldLen)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"  padded  ",
		strings.Repeat("x", 1500),
		"a" + strings.Repeat(" ", 999) + strings.Repeat("b", 600),
		"plain",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestValidEmail(t *testing.T) {
	if !ValidEmail("a@b.com") {
		t.Error("a@b.com should pass")
	}
	for _, bad := range []string{"not-an-email", "a@b", "a b@c.com", "@b.com", "a@.com "} {
		if ValidEmail(bad) {
			t.Errorf("%q should fail", bad)
		}
	}
}

func TestValidPhone(t *testing.T) {
	for _, good := range []string{"+977-9801148240", "(01) 234 5678", "1234567"} {
		if !ValidPhone(good) {
			t.Errorf("%q should pass", good)
		}
	}
	for _, bad := range []string{"abc", "123456", "+", strings.Repeat("1", 21)} {
		if ValidPhone(bad) {
			t.Errorf("%q should fail", bad)
		}
	}
}

func validSubmission() Submission {
	return Submission{
		Name:    "Jane Doe",
		Email:   "jane@x.com",
		Phone:   "+977-9801148240",
		Subject: "Hi",
		Message: "This is a valid message.",
	}
}

func TestCheckGateOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Submission)
		want   string
	}{
		{"missing name", func(s *Submission) { s.Name = "" }, "Missing required fields"},
		{"missing email", func(s *Submission) { s.Email = "" }, "Missing required fields"},
		{"missing phone", func(s *Submission) { s.Phone = "" }, "Missing required fields"},
		{"missing message", func(s *Submission) { s.Message = "" }, "Missing required fields"},
		{"bad email", func(s *Submission) { s.Email = "not-an-email" }, "Invalid email format"},
		{"bad phone", func(s *Submission) { s.Phone = "abc" }, "Invalid phone number format"},
		{"short message", func(s *Submission) { s.Message = "too short" }, "Message must be at least 10 characters long"},
	}
	for _, tc := range cases {
		s := validSubmission()
		tc.mutate(&s)
		err := Check(s)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if err.Error() != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, err.Error(), tc.want)
		}
	}
}

func TestCheckMessageBoundary(t *testing.T) {
	s := validSubmission()
	s.Message = "exactly10!"
	if err := Check(s); err != nil {
		t.Fatalf("10-char message should pass: %v", err)
	}
	s.Message = "ninechars"
	err := Check(s)
	if err == nil || !strings.Contains(err.Error(), "at least 10 characters") {
		t.Fatalf("9-char message should fail with length error, got %v", err)
	}
}

func TestCheckValid(t *testing.T) {
	if err := Check(validSubmission()); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
	s := validSubmission()
	s.Subject = ""
	if err := Check(s); err != nil {
		t.Fatalf("subject is optional: %v", err)
	}
}

func TestFromRaw(t *testing.T) {
	raw := RawInput{
		"name":    "  Jane  ",
		"email":   "jane@x.com",
		"phone":   12345,
		"message": "hello there",
		"extra":   "ignored",
	}
	sub := FromRaw(raw)
	if sub.Name != "Jane" {
		t.Errorf("name = %q", sub.Name)
	}
	if sub.Phone != "" {
		t.Errorf("non-string phone should sanitize to empty, got %q", sub.Phone)
	}
	if sub.Subject != "" {
		t.Errorf("absent subject should be empty, got %q", sub.Subject)
	}
}

func TestRowSubjectDefault(t *testing.T) {
	s := validSubmission()
	row := s.Row("ts")
	if row[4] != "Hi" {
		t.Errorf("subject column = %q, want Hi", row[4])
	}
	s.Subject = ""
	row = s.Row("ts")
	if row[4] != DefaultSubject {
		t.Errorf("subject column = %q, want %q", row[4], DefaultSubject)
	}
	want := PersistedRow{"ts", s.Name, s.Email, s.Phone, DefaultSubject, s.Message}
	if row != want {
		t.Errorf("row = %v, want %v", row, want)
	}
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2026, 8, 31, 4, 19, 5, 0, time.UTC)
	got := Timestamp(at, time.UTC)
	if got != "08/31/2026, 04:19:05 AM" {
		t.Errorf("Timestamp = %q", got)
	}
	kathmandu, err := time.LoadLocation("Asia/Kathmandu")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Kathmandu is UTC+5:45.
	if got := Timestamp(at, kathmandu); got != "08/31/2026, 10:04:05 AM" {
		t.Errorf("Timestamp in Kathmandu = %q", got)
	}
}
