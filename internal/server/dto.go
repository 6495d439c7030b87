package server

// Request payloads

// ContactRequest documents the wire payload of POST /contact. The
// handler reads the raw body instead of binding this type so that
// non-string values sanitize to empty strings rather than failing
// schema validation.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Response payloads

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type contactOutput struct {
	Body ContactResponse `json:"body"`
}
