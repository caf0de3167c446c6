// Package rest exposes the session and idea services over HTTP using chi.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/logging"
	"github.com/dmitrijs2005/ideapool/internal/server/metrics"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
	"github.com/dmitrijs2005/ideapool/internal/server/services"
	"github.com/dmitrijs2005/ideapool/internal/server/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionManager is the subset of services.SessionService used by the API.
type SessionManager interface {
	Register(ctx context.Context, name, email, password string) (*services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (string, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	WhoAmI(ctx context.Context, accessToken string) (*models.Profile, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// IdeaManager is the subset of services.IdeaService used by the API.
type IdeaManager interface {
	Create(ctx context.Context, in services.IdeaInput) (*models.Idea, error)
	Update(ctx context.Context, id string, in services.IdeaInput) (*models.Idea, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page int) ([]*models.Idea, error)
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	sessions        SessionManager
	ideas           IdeaManager
	metrics         *metrics.Metrics
	validate        *validation.Validator
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, ss SessionManager, is IdeaManager, m *metrics.Metrics, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		sessions:        ss,
		ideas:           is,
		metrics:         m,
		validate:        validation.New(),
		shutdownTimeout: shutdownTimeout,
	}
}

// Router builds the HTTP handler tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Post("/users", s.register)
	r.Get("/me", s.me)

	r.Route("/access-tokens", func(r chi.Router) {
		r.Post("/", s.login)
		r.Delete("/", s.logout)
		r.Post("/refresh", s.refresh)
	})

	r.Route("/ideas", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.listIdeas)
		r.Post("/", s.createIdea)
		r.Put("/{id}", s.updateIdea)
		r.Delete("/{id}", s.deleteIdea)
	})

	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}

func accessToken(r *http.Request) string {
	return r.Header.Get(common.AccessTokenHeaderName)
}
