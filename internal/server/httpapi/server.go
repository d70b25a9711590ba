// Package httpapi exposes the gateway server's REST API: account creation,
// email/password sessions, the current account and profile documents.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
)

// ProjectHeaderName carries the project id on every request.
const ProjectHeaderName = "X-Project-ID"

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address   string
	projectID string
	accounts  *services.AccountService
	profiles  *services.ProfileService
	logger    logging.Logger
}

func NewHTTPServer(address, projectID string, l logging.Logger, as *services.AccountService, ps *services.ProfileService) *HTTPServer {
	return &HTTPServer{
		address:   address,
		projectID: projectID,
		logger:    l.With("module", "http_server"),
		accounts:  as,
		profiles:  ps,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.projectGuard)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/account", s.createAccount)
		r.Post("/account/sessions/email", s.createEmailSession)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/account", s.getAccount)
			r.Delete("/account/sessions/current", s.deleteCurrentSession)
			r.Get("/profiles/{userID}", s.getProfile)
			r.Patch("/profiles/{userID}", s.patchProfile)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route_not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
