package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"contactline/internal/config"
	"contactline/internal/contact"
	"contactline/internal/sheets"
)

const thankYouMessage = "Thank you! Your message has been sent successfully. We'll get back to you soon."

// contactHandler is the trust boundary: it re-validates and
// re-sanitizes every request regardless of what the client checked.
type contactHandler struct {
	cfg      *config.Config
	appender sheets.Appender
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
	timeout  time.Duration
}

func registerContact(api huma.API, h *contactHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "submit-contact",
		Method:      http.MethodPost,
		Path:        "/contact",
		Summary:     "Submit a contact request",
		// The RawBody contentType tag registers a binary-string schema
		// under application/json, which Huma would otherwise validate
		// JSON object bodies against; the handler validates instead.
		SkipValidateBody: true,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, h.handle)
}

type contactInput struct {
	RawBody []byte `contentType:"application/json"`
}

func (h *contactHandler) handle(ctx context.Context, input *contactInput) (*contactOutput, error) {
	id := uuid.NewString()

	if !h.cfg.Google.Complete() || h.appender == nil {
		h.log.Error("contact: google credentials missing, refusing submission",
			zap.String("submission_id", id))
		return nil, newAPIError(http.StatusInternalServerError, "Server configuration error")
	}

	// Malformed JSON sanitizes to an empty input; the required-field
	// gate below then rejects it.
	var raw contact.RawInput
	if len(input.RawBody) > 0 {
		_ = json.Unmarshal(input.RawBody, &raw)
	}
	sub := contact.FromRaw(raw)

	if err := contact.Check(sub); err != nil {
		var gate *contact.GateError
		if errors.As(err, &gate) {
			return nil, newAPIError(http.StatusBadRequest, gate.Message)
		}
		return nil, newAPIError(http.StatusBadRequest, err.Error())
	}

	row := sub.Row(contact.Timestamp(h.now(), h.loc))
	actx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.appender.Append(actx, row); err != nil {
		msg := failureMessage(err)
		h.log.Error("contact: append failed",
			zap.String("submission_id", id),
			zap.Error(err))
		return nil, newAPIError(http.StatusInternalServerError, msg)
	}

	h.log.Info("contact: submission recorded",
		zap.String("submission_id", id),
		zap.String("subject", row[4]))
	return &contactOutput{Body: ContactResponse{
		Success: true,
		Message: thankYouMessage,
	}}, nil
}

// failureMessage reduces a categorized external error to the safe,
// user-facing text. The underlying cause stays in the server log.
func failureMessage(err error) string {
	var serr *sheets.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case sheets.KindAddressing:
			return "Spreadsheet configuration error"
		case sheets.KindPermission:
			return "Permission denied to access spreadsheet"
		}
	}
	return "Failed to submit contact form. Please try again later."
}
