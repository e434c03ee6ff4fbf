package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/google/uuid"
)

// MemoryStore keeps users and articles in process memory. It backs local
// development (DATABASE_DSN=memory) and tests, with the same semantics as
// the MySQL repositories apart from column lengths, which the services check.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]model.User
	articles map[string]model.Article
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]model.User),
		articles: make(map[string]model.Article),
	}
}

// Users returns a user repository view of the store.
func (s *MemoryStore) Users() *MemoryUserRepository {
	return &MemoryUserRepository{s: s}
}

// Articles returns an article repository view of the store.
func (s *MemoryStore) Articles() *MemoryArticleRepository {
	return &MemoryArticleRepository{s: s}
}

type MemoryUserRepository struct {
	s *MemoryStore
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}

	ts := now()
	user.ID = uuid.NewString()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	r.s.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.findByEmail(email)
	return ok, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string, includePasswordHash bool) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.findByEmail(email)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !includePasswordHash {
		u.PasswordHash = ""
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *MemoryUserRepository) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = now()
	r.s.users[id] = u
	return nil
}

// findByEmail matches case-insensitively like the utf8mb4 collation.
// Callers hold the lock.
func (r *MemoryUserRepository) findByEmail(email string) (model.User, bool) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return model.User{}, false
}

type MemoryArticleRepository struct {
	s *MemoryStore
}

func (r *MemoryArticleRepository) Create(_ context.Context, article *model.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[article.AuthorID]; !ok {
		return ErrUserNotFound
	}

	ts := now()
	article.ID = uuid.NewString()
	article.CreatedAt = ts
	article.UpdatedAt = ts
	r.s.articles[article.ID] = *article
	return nil
}

func (r *MemoryArticleRepository) List(_ context.Context) ([]model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	articles := make([]model.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		articles = append(articles, a)
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}

func (r *MemoryArticleRepository) GetByID(_ context.Context, id string) (*model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.articles[id]
	if !ok {
		return nil, ErrArticleNotFound
	}
	return &a, nil
}

func (r *MemoryArticleRepository) UpdateOwned(_ context.Context, article *model.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.articles[article.ID]
	if !ok || stored.AuthorID != article.AuthorID {
		return ErrNotFoundOrNotOwner
	}

	stored.Title = article.Title
	stored.Content = article.Content
	if article.AuthorName != "" {
		stored.AuthorName = article.AuthorName
	}
	stored.UpdatedAt = now()
	r.s.articles[stored.ID] = stored

	article.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryArticleRepository) DeleteOwned(_ context.Context, id, authorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.articles[id]
	if !ok || stored.AuthorID != authorID {
		return ErrNotFoundOrNotOwner
	}
	delete(r.s.articles, id)
	return nil
}
