package handler

import (
	"net/http"
	"strings"

	"github.com/coinboard/coinboard-go/internal/middleware"
	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/coinboard/coinboard-go/internal/service"
	"github.com/go-chi/chi/v5"
)

// ArticleHandler handles HTTP requests for article operations.
type ArticleHandler struct {
	service *service.ArticleService
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(svc *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: svc}
}

// HandleList handles GET /api/v1/articles requests.
func (h *ArticleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{
		Success:  true,
		Message:  "Articles fetched successfully",
		Articles: articles,
	})
}

// HandleGet handles GET /api/v1/articles/{id} requests.
func (h *ArticleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// HandleCreate handles POST /api/v1/articles requests. The author is the
// caller; authorName defaults to the caller's username.
func (h *ArticleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, failure("unauthorized"))
		return
	}

	var req model.CreateArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.AuthorName) == "" {
		req.AuthorName = claims.Username
	}

	article, err := h.service.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.Envelope{
		Success: true,
		Message: "Your article has been saved successfully",
		Article: &article,
	})
}

// HandleUpdate handles PUT /api/v1/articles/{id} requests.
func (h *ArticleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, failure("unauthorized"))
		return
	}

	var req model.UpdateArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	article, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// HandleDelete handles DELETE /api/v1/articles/{id} requests.
func (h *ArticleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, failure("unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: "Article deleted successfully"})
}
