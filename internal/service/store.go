package service

import (
	"context"

	"github.com/coinboard/coinboard-go/internal/model"
)

// UserStore is the credential store used by the services.
// Implemented by repository.UserRepository and repository.MemoryUserRepository.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string, includePasswordHash bool) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// ArticleStore is the article store used by ArticleService.
type ArticleStore interface {
	Create(ctx context.Context, article *model.Article) error
	List(ctx context.Context) ([]model.Article, error)
	GetByID(ctx context.Context, id string) (*model.Article, error)
	UpdateOwned(ctx context.Context, article *model.Article) error
	DeleteOwned(ctx context.Context, id, authorID string) error
}
