package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/huyhoangtran00/portfolio/internal/services"
	"github.com/sirupsen/logrus"
)

type contextKey string

const accountContextKey contextKey = "account"

// IdentityResolver turns a bearer token into the authenticated account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, bearer string) (*models.Account, error)
}

// RequireAccount rejects requests without a valid access token and stores the
// resolved account in the request context.
func RequireAccount(resolver IdentityResolver, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, err := resolver.ResolveIdentity(r.Context(), bearerToken(r))
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the account stored by RequireAccount.
func AccountFromContext(ctx context.Context) *models.Account {
	account, ok := ctx.Value(accountContextKey).(*models.Account)
	if !ok {
		return nil
	}
	return account
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], services.TokenTypeBearer) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// Don't log health checks
			if r.URL.Path == "/api/health" {
				return
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			entry := logger.WithFields(logrus.Fields{
				"request_id":  middleware.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			})

			switch {
			case status >= 500:
				entry.Error("request completed")
			case status >= 400:
				entry.Warn("request completed")
			default:
				entry.Info("request completed")
			}
		})
	}
}
