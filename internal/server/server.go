package server

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"contactline/internal/config"
	"contactline/internal/sheets"
)

// Config for the HTTP API handler.
type Config struct {
	Cfg      *config.Config
	Appender sheets.Appender
	Logger   *zap.Logger
	BasePath string
	Now      func() time.Time
}

// apiError models the flat error envelope the endpoint exposes.
type apiError struct {
	status  int
	Message string `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Message }

func newAPIError(status int, message string) huma.StatusError {
	return &apiError{status: status, Message: message}
}

// New returns an HTTP handler exposing the contact API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = cfg.Cfg.Server.BasePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loc, err := cfg.Cfg.Sheet.Location()
	if err != nil {
		return nil, err
	}

	// Override Huma errors to use the flat envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, msg)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		return newAPIError(status, msg)
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	registerPreflight(router, path.Join(basePath, "contact"))

	hcfg := huma.DefaultConfig("Contactline API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	h := &contactHandler{
		cfg:      cfg.Cfg,
		appender: cfg.Appender,
		log:      logger,
		loc:      loc,
		now:      now,
		timeout:  cfg.Cfg.Server.AppendTimeout(),
	}
	registerHealth(group)
	registerContact(group, h)

	return router, nil
}

// registerPreflight answers bare OPTIONS probes with the permissive
// headers the browser form expects. Real preflights (carrying
// Access-Control-Request-Method) are answered by the cors middleware
// before routing.
func registerPreflight(r chi.Router, contactPath string) {
	r.Options(contactPath, func(w http.ResponseWriter, _ *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
	})
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}
