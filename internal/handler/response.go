package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/coinboard/coinboard-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

var errBodyTooLarge = errors.New("request body too large")

// errorStatus maps service errors to a status and the message shown to users.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrMissingFields, http.StatusBadRequest, "All fields are required"},
	{service.ErrFieldTooLong, http.StatusBadRequest, "One or more fields are too long"},
	{service.ErrUserExists, http.StatusConflict, "User already exists"},
	{service.ErrAccountNotFound, http.StatusNotFound, "Account Not Exists"},
	{service.ErrInvalidUserData, http.StatusInternalServerError, "Invalid user data"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Password doesn't match"},
	{service.ErrNoArticles, http.StatusOK, "No article found"},
	{service.ErrArticleNotFound, http.StatusNotFound, "Article not found"},
	{service.ErrNotFoundOrNotOwner, http.StatusNotFound, "Article not found or you are not the author"},
	{service.ErrAuthorNotFound, http.StatusBadRequest, "Author not found"},
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func failure(msg string) model.Envelope {
	return model.Envelope{Success: false, Message: msg}
}

// writeError renders err as a failure envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			if e.status >= http.StatusInternalServerError {
				slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
			}
			writeJSON(w, e.status, failure(e.message))
			return
		}
	}

	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, failure("internal server error"))
}

// decodeJSON reads a size-limited JSON body into v and answers the client
// itself when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, failure(errBodyTooLarge.Error()))
			return false
		}
		writeJSON(w, http.StatusBadRequest, failure("invalid request body"))
		return false
	}
	return true
}
