package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/google/uuid"
)

const articleColumns = `id, author_id, title, content, author_name, created_at, updated_at`

// ArticleRepository handles article persistence operations.
type ArticleRepository struct {
	db *sql.DB
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Create inserts article, assigning its ID and timestamps.
func (r *ArticleRepository) Create(ctx context.Context, article *model.Article) error {
	query := `INSERT INTO articles (` + articleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	ts := now()
	_, err := r.db.ExecContext(ctx, query,
		id, article.AuthorID, article.Title, article.Content, article.AuthorName, ts, ts,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrUserNotFound
		}
		if isDataTooLongError(err) {
			return ErrFieldTooLong
		}
		return wrapErr("create article", err)
	}

	article.ID = id
	article.CreatedAt = ts
	article.UpdatedAt = ts
	return nil
}

// List returns every article, newest first.
func (r *ArticleRepository) List(ctx context.Context) ([]model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("list articles", err)
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(
			&a.ID, &a.AuthorID, &a.Title, &a.Content, &a.AuthorName, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, wrapErr("scan article", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list articles", err)
	}

	return articles, nil
}

// GetByID retrieves an article by ID.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ?`

	a := &model.Article{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.AuthorID, &a.Title, &a.Content, &a.AuthorName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, wrapErr("get article", err)
	}

	return a, nil
}

// UpdateOwned overwrites title, content and author name of the article
// matching both article.ID and article.AuthorID in a single statement.
// An empty AuthorName keeps the stored one. The DSN reports matched rows,
// so an update with unchanged values still counts as found.
func (r *ArticleRepository) UpdateOwned(ctx context.Context, article *model.Article) error {
	query := `UPDATE articles
		SET title = ?, content = ?, author_name = COALESCE(NULLIF(?, ''), author_name), updated_at = ?
		WHERE id = ? AND author_id = ?`

	ts := now()
	result, err := r.db.ExecContext(ctx, query,
		article.Title, article.Content, article.AuthorName, ts, article.ID, article.AuthorID,
	)
	if err != nil {
		if isDataTooLongError(err) {
			return ErrFieldTooLong
		}
		return wrapErr("update article", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr("update article", err)
	}
	if n == 0 {
		return ErrNotFoundOrNotOwner
	}

	article.UpdatedAt = ts
	return nil
}

// DeleteOwned removes the article matching both id and authorID.
func (r *ArticleRepository) DeleteOwned(ctx context.Context, id, authorID string) error {
	query := `DELETE FROM articles WHERE id = ? AND author_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, authorID)
	if err != nil {
		return wrapErr("delete article", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr("delete article", err)
	}
	if n == 0 {
		return ErrNotFoundOrNotOwner
	}
	return nil
}
