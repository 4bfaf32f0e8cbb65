package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/data"
	"github.com/quantbridge/tradeops/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Signup(ctx context.Context, in service.SignupInput) (*service.SessionResult, error)
	Signin(ctx context.Context, email, password string) (*service.SessionResult, error)
	BeginGoogleLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteGoogleLogin(ctx context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	SessionFromToken(ctx context.Context, token string) (*domainauth.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles POST /auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUserEmailExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "signup_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, result.Session)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin handles POST /auth/signin.
func (h *AuthHandlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "signin_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, result.Session)
}

// GoogleLogin handles GET /auth/google. It begins the OAuth flow, stashes
// state and nonce in short-lived cookies, and redirects to the IdP.
func (h *AuthHandlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginGoogleLogin(r.Context(), callbackURL(r))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	h.setOAuthCookies(w, r, result.State, result.Nonce)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback?code=<code>&state=<state>.
// On success the browser is redirected to the console callback page with the
// issued credentials in the query string.
func (h *AuthHandlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	// Verify state against the cookie set when the flow began
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	result, err := h.Svc.CompleteGoogleLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     err,
		})
		return
	}

	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}

// Logout handles POST /auth/logout. It invalidates the presented bearer
// token; a request without one is still a successful logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.Svc.Logout(r.Context(), token); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me handles GET /auth/me. It runs behind RequireAuth, so the session is
// always present in the context.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":       session.User,
		"expires_at": session.ExpiresAt,
	})
}

// callbackURL reconstructs this server's OAuth callback URL from the request.
func callbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/auth/google/callback"}
	return u.String()
}

// setOAuthCookies stores OAuth state and nonce in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, state, nonce string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_nonce",
		Value:    nonce,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
