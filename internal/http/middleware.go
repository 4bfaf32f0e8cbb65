package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver resolves a bearer token into its session.
type SessionResolver interface {
	SessionFromToken(ctx context.Context, token string) (*domainauth.Session, error)
}

// RequireAuth returns a middleware that requires a valid bearer token.
// Unauthenticated requests get a 401 response.
func RequireAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, resolver)
			if session == nil {
				writeUnauthenticated(w)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAction returns a middleware that requires authentication plus a
// granted action. Admins pass regardless of their action list.
func RequireAction(resolver SessionResolver, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, resolver)
			if session == nil {
				writeUnauthenticated(w)
				return
			}

			if !session.User.IsAdmin() && !session.User.HasAction(action) {
				writeForbidden(w)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that restricts a route to admins.
func RequireAdmin(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, resolver)
			if session == nil {
				writeUnauthenticated(w)
				return
			}

			if !session.User.IsAdmin() {
				writeForbidden(w)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromRequest extracts the bearer token and resolves it to a session.
func sessionFromRequest(r *http.Request, resolver SessionResolver) *domainauth.Session {
	token := bearerToken(r)
	if token == "" {
		return nil
	}

	session, err := resolver.SessionFromToken(r.Context(), token)
	if err != nil {
		return nil
	}
	return session
}

// bearerToken extracts the token from the Authorization header. The scheme
// comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeUnauthenticated(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

func writeForbidden(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}
