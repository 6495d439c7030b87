// Package sheets adapts the contact pipeline to the Google Sheets
// API: it authenticates with the service account, formats one row,
// and issues a single append call. It performs no retry.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"contactline/internal/config"
	"contactline/internal/contact"
)

// Kind categorizes an external-service failure.
type Kind string

const (
	// KindAddressing means the target range could not be resolved.
	KindAddressing Kind = "addressing"
	// KindPermission means the service account may not touch the sheet.
	KindPermission Kind = "permission"
	// KindUnknown covers everything else, timeouts included.
	KindUnknown Kind = "unknown"
)

// Error is a categorized failure from the external store.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sheets: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Appender appends one row to the external store.
type Appender interface {
	Append(ctx context.Context, row contact.PersistedRow) error
}

// Client addresses a fixed range of one spreadsheet.
type Client struct {
	svc         *sheetsapi.Service
	sheetID     string
	appendRange string
	headerRange string
}

// New builds a Sheets client from service-account credentials. The
// token exchange uses the OAuth2 JWT grant, scoped to spreadsheets.
func New(ctx context.Context, creds config.Credentials, sheet config.SheetConfig) (*Client, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("incomplete google credentials")
	}
	conf := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("build sheets service: %w", err)
	}
	return &Client{
		svc:         svc,
		sheetID:     creds.SheetID,
		appendRange: sheet.AppendRange(),
		headerRange: sheet.HeaderRange(),
	}, nil
}

// Append writes one row after the sheet's existing data. Values are
// appended with USER_ENTERED interpretation so the store applies its
// native type coercion.
func (c *Client) Append(ctx context.Context, row contact.PersistedRow) error {
	vr := &sheetsapi.ValueRange{Values: [][]any{row.Values()}}
	_, err := c.svc.Spreadsheets.Values.Append(c.sheetID, c.appendRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return classify(err)
	}
	return nil
}

// Header reads the pre-existing header row, used by configuration
// probes to confirm the sheet is reachable and laid out as expected.
func (c *Client) Header(ctx context.Context) ([]string, error) {
	res, err := c.svc.Spreadsheets.Values.Get(c.sheetID, c.headerRange).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	if len(res.Values) == 0 {
		return nil, nil
	}
	header := make([]string, 0, len(res.Values[0]))
	for _, cell := range res.Values[0] {
		header = append(header, fmt.Sprint(cell))
	}
	return header, nil
}

// classify maps an API failure onto the known categories. The string
// matching mirrors the messages the Sheets API actually returns for
// range and permission problems; it is best-effort and anything
// unmatched stays KindUnknown.
func classify(err error) *Error {
	kind := KindUnknown
	msg := err.Error()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Message != "" {
			msg = gerr.Message
		}
		if gerr.Code == 403 {
			kind = KindPermission
		}
	}
	switch {
	case strings.Contains(msg, "Unable to parse range"):
		kind = KindAddressing
	case strings.Contains(msg, "does not have permission"):
		kind = KindPermission
	}
	return &Error{Kind: kind, Err: err}
}
