// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

type CookieConfig struct {
	SessionName string
	RefreshName string
	Domain      string
	Secure      bool
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookies   CookieConfig
	siteURL   string
}

func NewHandler(service *Service, cookies CookieConfig, siteURL string) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cookies:   cookies,
		siteURL:   strings.TrimRight(siteURL, "/"),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/signin", h.Signin)
		r.Post("/refresh", h.Refresh)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Get("/oauth/{provider}", h.OAuthRedirect)
		r.Get("/callback", h.OAuthCallback)

		r.With(optionalAuth).Post("/signout", h.Signout)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Delete("/account", h.DeleteAccount)
			r.Get("/sessions", h.ListSessions)
			r.Delete("/sessions/{sessionID}", h.RevokeSession)
		})
	})
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	resp, err := h.service.Signin(r.Context(), req, r.UserAgent(), extractIPAddress(r))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.UnauthorizedError("invalid email or password"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.setSessionCookies(w, resp.Tokens)
	core.OK(w, resp)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	resp, err := h.service.Signup(r.Context(), req, r.UserAgent(), extractIPAddress(r))
	if err != nil {
		switch {
		case core.IsAppError(err):
			core.JSONError(w, err)
		case errors.Is(err, ErrSignupRejected):
			core.BadRequest(w, "unable to create account with these details")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	h.setSessionCookies(w, resp.Tokens)
	core.Created(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFrom(r)

	resp, err := h.service.Refresh(r.Context(), token, r.UserAgent(), extractIPAddress(r))
	if err != nil {
		h.clearSessionCookies(w)
		switch {
		case errors.Is(err, ErrTokenReuse):
			core.JSONError(w, core.NewAppError(
				core.ErrTokenRevoked,
				"token reuse detected, all sessions revoked",
				http.StatusUnauthorized,
				"TOKEN_REUSE_DETECTED",
			))
		case errors.Is(err, core.ErrTokenExpired):
			core.JSONError(w, core.TokenExpiredError())
		case errors.Is(err, core.ErrTokenRevoked):
			core.JSONError(w, core.TokenRevokedError())
		case errors.Is(err, core.ErrTokenInvalid):
			core.JSONError(w, core.TokenInvalidError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	h.setSessionCookies(w, resp.Tokens)
	core.OK(w, resp)
}

func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := h.service.Signout(r.Context(), claims, h.refreshTokenFrom(r)); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "cannot revoke another user's session")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookies(w)
	core.Success(w)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.service.ForgotPassword(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	core.Success(w)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		core.WriteError(w, err, "user")
		return
	}

	h.clearSessionCookies(w)
	core.Success(w)
}

func (h *Handler) OAuthRedirect(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	next := r.URL.Query().Get("next")

	target, err := h.service.OAuthBegin(r.Context(), provider, next)
	if err != nil {
		core.WriteError(w, err, "provider")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		h.redirectSigninError(w, r, providerErr)
		return
	}

	resp, next, err := h.service.OAuthComplete(
		r.Context(),
		q.Get("state"),
		q.Get("code"),
		r.UserAgent(),
		extractIPAddress(r),
	)
	if err != nil {
		if !core.IsAppError(err) {
			slog.ErrorContext(r.Context(), "oauth callback failed", "error", err)
		}
		h.redirectSigninError(w, r, "oauth_failed")
		return
	}

	h.setSessionCookies(w, resp.Tokens)
	http.Redirect(w, r, h.siteURL+next, http.StatusFound)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), claims); err != nil {
		core.WriteError(w, err, "user")
		return
	}

	h.clearSessionCookies(w)
	core.Success(w)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListSessions(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SessionsResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.service.RevokeSession(r.Context(), userID, sessionID); err != nil {
		core.WriteError(w, err, "session")
		return
	}

	core.Success(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

// refreshTokenFrom prefers the refresh cookie and falls back to a JSON body.
func (h *Handler) refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(h.cookies.RefreshName); err == nil && c.Value != "" {
		return c.Value
	}

	var req RefreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		//nolint:errcheck // an unreadable body simply means no token
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req.RefreshToken
}

func (h *Handler) setSessionCookies(w http.ResponseWriter, tokens TokenResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.SessionName,
		Value:    tokens.AccessToken,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.cookies.AccessTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.RefreshName,
		Value:    tokens.RefreshToken,
		Path:     "/api/auth",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.cookies.RefreshTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for name, path := range map[string]string{
		h.cookies.SessionName: "/",
		h.cookies.RefreshName: "/api/auth",
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			Domain:   h.cookies.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (h *Handler) redirectSigninError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, h.siteURL+"/signin?error="+url.QueryEscape(reason), http.StatusFound)
}

func extractIPAddress(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
