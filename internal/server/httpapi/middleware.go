package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

type ctxKey string

const (
	accountKey ctxKey = "account"
	sessionKey ctxKey = "session"
)

func accountFrom(ctx context.Context) *models.Account {
	a, _ := ctx.Value(accountKey).(*models.Account)
	return a
}

func sessionFrom(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey).(*models.Session)
	return s
}

// requireSession resolves the bearer secret to an account.
func (s *HTTPServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		secret, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || secret == "" {
			writeError(w, http.StatusUnauthorized, "user_unauthorized", "missing session")
			return
		}

		account, session, err := s.accounts.Authenticate(r.Context(), secret)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				writeError(w, http.StatusUnauthorized, "user_unauthorized", "invalid session")
				return
			}
			s.logger.Error(r.Context(), "authenticate failed", "error", err)
			writeError(w, http.StatusInternalServerError, "general_unknown", "internal error")
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, account)
		ctx = context.WithValue(ctx, sessionKey, session)
		ctx = logging.ContextWith(ctx, "user_id", account.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// projectGuard rejects requests for another project when a project id is configured.
func (s *HTTPServer) projectGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.projectID != "" && r.Header.Get(ProjectHeaderName) != s.projectID {
			writeError(w, http.StatusNotFound, "project_not_found", "project not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		ctx := logging.ContextWith(r.Context(), "request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.Debug(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
