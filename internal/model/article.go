package model

import "time"

// Article represents a blog article in the store.
type Article struct {
	ID         string
	AuthorID   string
	Title      string
	Content    string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateArticleRequest is the body of POST /api/v1/articles.
type CreateArticleRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
}

// UpdateArticleRequest is the body of PUT /api/v1/articles/{id}.
// UserID is optional; when sent it must name the caller.
type UpdateArticleRequest struct {
	UserID     string `json:"userId,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName,omitempty"`
}

// ArticleResponse is the external representation of an article.
type ArticleResponse struct {
	ID         string `json:"_id"`
	AuthorID   string `json:"authorId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// NewArticleResponse projects a to its public representation.
func NewArticleResponse(a *Article) ArticleResponse {
	return ArticleResponse{
		ID:         a.ID,
		AuthorID:   a.AuthorID,
		Title:      a.Title,
		Content:    a.Content,
		AuthorName: a.AuthorName,
		CreatedAt:  FormatTime(a.CreatedAt),
		UpdatedAt:  FormatTime(a.UpdatedAt),
	}
}
