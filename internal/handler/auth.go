package handler

import (
	"net/http"
	"time"

	"github.com/coinboard/coinboard-go/internal/crypto"
	"github.com/coinboard/coinboard-go/internal/middleware"
	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/coinboard/coinboard-go/internal/service"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
	cookie  CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie}
}

// HandleRegister handles POST /api/v1/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.Envelope{
		Success: true,
		Message: "User created successfully",
		User:    &user,
	})
}

// HandleLogin handles POST /api/v1/login requests. The token is returned
// in the body and set as the session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, claims, err := h.service.IssueToken(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, token, claims)

	writeJSON(w, http.StatusOK, model.Envelope{
		Success: true,
		Message: "User logged in successfully",
		User:    &user,
		Token:   token,
	})
}

// HandleRefresh handles POST /api/v1/session/refresh requests.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, failure("unauthorized"))
		return
	}

	token, next, err := h.service.Refresh(claims)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, token, next)

	writeJSON(w, http.StatusOK, model.Envelope{
		Success: true,
		Message: "Session refreshed",
		Token:   token,
	})
}

// HandleLogout handles POST /api/v1/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		h.service.Logout(claims)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: "Logged out successfully"})
}

// HandleMe handles GET /api/v1/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, failure("unauthorized"))
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: "Session active", User: &user})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, claims *crypto.Claims) {
	c := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if claims != nil && claims.ExpiresAt != nil {
		c.Expires = claims.ExpiresAt.Time
	}
	http.SetCookie(w, c)
}
