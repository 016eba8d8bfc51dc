// Package httpserver exposes the status report over HTTP. Authorization is
// a single access token carried in the query string; requests without a
// token land on a login page rather than a bare 401 so a human has a path
// to supply one.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/benrowan/crusty-crawler/internal/logging"
)

// TokenValidator resolves an access token to the owning username.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// ReportBuilder produces the plaintext status report.
type ReportBuilder interface {
	Report(ctx context.Context) string
}

type RouterDeps struct {
	Validator TokenValidator
	Report    ReportBuilder
	StaticDir string
	Logger    logging.Logger
}

type Server struct {
	validator TokenValidator
	report    ReportBuilder
	logger    logging.Logger
}

// NewRouter builds the HTTP handler: the status API, the landing page and
// a static-file fallback for everything else.
func NewRouter(deps RouterDeps) http.Handler {
	s := &Server{
		validator: deps.Validator,
		report:    deps.Report,
		logger:    deps.Logger.With("module", "http_server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// The traffic-rate collector sleeps ~1s between samples; the timeout
	// only needs to bound pathological hangs.
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/api/status", s.handleStatus)
	r.Get("/", s.handleIndex)

	fs := http.FileServer(http.Dir(deps.StaticDir))
	r.NotFound(fs.ServeHTTP)

	return r
}

// authorize extracts the token from the query string and validates it.
// Purely a read-only check.
func (s *Server) authorize(r *http.Request) (username string, ok bool) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return "", false
	}
	username, err := s.validator.ValidateToken(token)
	if err != nil {
		return "", false
	}
	return username, true
}
