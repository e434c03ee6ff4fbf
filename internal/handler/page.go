package handler

import (
	"net/http"

	"github.com/coinboard/coinboard-go/internal/middleware"
	"github.com/coinboard/coinboard-go/internal/model"
)

// HandleLoginPage handles GET /login, the entry point the route guard
// redirects to. It echoes a sanitised callbackUrl for the client.
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Envelope{
		Success:     false,
		Message:     "Please sign in to continue",
		CallbackURL: middleware.SafeCallback(r.URL.Query().Get(middleware.CallbackParam)),
	})
}

// MemberPage serves a page behind the route guard, greeting the session user.
func MemberPage(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, failure("unauthorized"))
			return
		}

		user := model.UserResponse{ID: claims.UserID, Username: claims.Username, Email: claims.Email}
		writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: title, User: &user})
	}
}
