package service

import (
	"errors"

	"github.com/coinboard/coinboard-go/internal/repository"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrUserExists         = errors.New("user already exists")
	ErrAccountNotFound    = errors.New("account does not exist")
	ErrInvalidUserData    = errors.New("stored user has no password hash")
	ErrInvalidCredentials = errors.New("password does not match")
	ErrFieldTooLong       = errors.New("field exceeds maximum length")

	ErrNoArticles         = errors.New("no articles")
	ErrArticleNotFound    = errors.New("article not found")
	ErrNotFoundOrNotOwner = errors.New("article not found or caller is not the author")
	ErrAuthorNotFound     = errors.New("author not found")

	// ErrStoreUnavailable is the only error worth retrying, and only for reads.
	ErrStoreUnavailable = repository.ErrStoreUnavailable
)
