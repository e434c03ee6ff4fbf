package service

import (
	"context"
	"errors"
	"strings"

	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/coinboard/coinboard-go/internal/repository"
	"github.com/google/uuid"
)

// ArticleService handles article business logic. Reads are public;
// mutations are restricted to the article's author.
type ArticleService struct {
	articles ArticleStore
	users    UserStore
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articles ArticleStore, users UserStore) *ArticleService {
	return &ArticleService{articles: articles, users: users}
}

// Create stores a new article written by authorID.
func (s *ArticleService) Create(ctx context.Context, authorID string, req model.CreateArticleRequest) (model.ArticleResponse, error) {
	title := strings.TrimSpace(req.Title)
	authorName := strings.TrimSpace(req.AuthorName)
	if authorID == "" || title == "" || strings.TrimSpace(req.Content) == "" || authorName == "" {
		return model.ArticleResponse{}, ErrMissingFields
	}
	if err := checkLengths(lengthRule{title, maxTitleLen}, lengthRule{authorName, maxAuthorNameLen}); err != nil {
		return model.ArticleResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.ArticleResponse{}, ErrAuthorNotFound
		}
		return model.ArticleResponse{}, err
	}

	article := &model.Article{
		AuthorID:   authorID,
		Title:      title,
		Content:    req.Content,
		AuthorName: authorName,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.ArticleResponse{}, ErrAuthorNotFound
		}
		return model.ArticleResponse{}, storeErr(err)
	}

	return model.NewArticleResponse(article), nil
}

// ListAll returns every article. An empty store yields ErrNoArticles.
func (s *ArticleService) ListAll(ctx context.Context) ([]model.ArticleResponse, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	return articlesToResponse(articles), nil
}

// GetByID returns a single article.
func (s *ArticleService) GetByID(ctx context.Context, id string) (model.ArticleResponse, error) {
	if !validID(id) {
		return model.ArticleResponse{}, ErrArticleNotFound
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return model.ArticleResponse{}, ErrArticleNotFound
		}
		return model.ArticleResponse{}, err
	}
	return model.NewArticleResponse(article), nil
}

// Update overwrites title, content and (when given) author name of an
// article owned by callerID. Missing and foreign articles both yield
// ErrNotFoundOrNotOwner.
func (s *ArticleService) Update(ctx context.Context, id, callerID string, req model.UpdateArticleRequest) (model.ArticleResponse, error) {
	title := strings.TrimSpace(req.Title)
	authorName := strings.TrimSpace(req.AuthorName)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return model.ArticleResponse{}, ErrMissingFields
	}
	if err := checkLengths(lengthRule{title, maxTitleLen}, lengthRule{authorName, maxAuthorNameLen}); err != nil {
		return model.ArticleResponse{}, err
	}
	if !validID(id) || callerID == "" || (req.UserID != "" && req.UserID != callerID) {
		return model.ArticleResponse{}, ErrNotFoundOrNotOwner
	}

	article := &model.Article{
		ID:         id,
		AuthorID:   callerID,
		Title:      title,
		Content:    req.Content,
		AuthorName: authorName,
	}
	if err := s.articles.UpdateOwned(ctx, article); err != nil {
		if errors.Is(err, repository.ErrNotFoundOrNotOwner) {
			return model.ArticleResponse{}, ErrNotFoundOrNotOwner
		}
		return model.ArticleResponse{}, storeErr(err)
	}

	updated, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return model.ArticleResponse{}, ErrNotFoundOrNotOwner
		}
		return model.ArticleResponse{}, err
	}
	return model.NewArticleResponse(updated), nil
}

// Delete removes an article owned by callerID.
func (s *ArticleService) Delete(ctx context.Context, id, callerID string) error {
	if !validID(id) || callerID == "" {
		return ErrNotFoundOrNotOwner
	}

	err := s.articles.DeleteOwned(ctx, id, callerID)
	if errors.Is(err, repository.ErrNotFoundOrNotOwner) {
		return ErrNotFoundOrNotOwner
	}
	return err
}

// validID rejects identifiers the store could never have issued.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func articlesToResponse(articles []model.Article) []model.ArticleResponse {
	result := make([]model.ArticleResponse, len(articles))
	for i := range articles {
		result[i] = model.NewArticleResponse(&articles[i])
	}
	return result
}
