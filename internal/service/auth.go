package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/coinboard/coinboard-go/internal/crypto"
	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/coinboard/coinboard-go/internal/repository"
)

// AuthService handles registration, login and session token issuance.
type AuthService struct {
	users     UserStore
	denylist  *crypto.Denylist
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, denylist *crypto.Denylist, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		denylist:  denylist,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account. The email check runs before the
// insert; the unique index catches whatever races past it.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return model.UserResponse{}, ErrMissingFields
	}
	if err := checkLengths(lengthRule{username, maxUsernameLen}, lengthRule{email, maxEmailLen}); err != nil {
		return model.UserResponse{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.UserResponse{}, err
	}
	if exists {
		return model.UserResponse{}, ErrUserExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrUserExists
		}
		return model.UserResponse{}, storeErr(err)
	}

	return model.NewUserResponse(user), nil
}

// Login verifies credentials and returns the user without its hash.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return model.UserResponse{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrAccountNotFound
		}
		return model.UserResponse{}, err
	}
	if user.PasswordHash == "" {
		return model.UserResponse{}, ErrInvalidUserData
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return model.UserResponse{}, ErrInvalidCredentials
	}

	if crypto.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, req.Password)
	}

	return model.NewUserResponse(user), nil
}

// rehash upgrades a legacy hash. Failure leaves the old hash in place.
func (s *AuthService) rehash(ctx context.Context, userID, password string) {
	hash, err := crypto.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		slog.Warn("password rehash failed", "user_id", userID, "error", err)
	}
}

// IssueToken signs a session token embedding the user's identity.
func (s *AuthService) IssueToken(user model.UserResponse) (string, *crypto.Claims, error) {
	return crypto.GenerateToken(crypto.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, s.jwtSecret, s.jwtExpiry)
}

// Refresh re-issues a token from existing claims without reading the store.
func (s *AuthService) Refresh(claims *crypto.Claims) (string, *crypto.Claims, error) {
	token, next, err := crypto.RefreshToken(claims, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return "", nil, err
	}
	s.revoke(claims)
	return token, next, nil
}

// Logout revokes the token described by claims until it expires.
func (s *AuthService) Logout(claims *crypto.Claims) {
	s.revoke(claims)
}

func (s *AuthService) revoke(claims *crypto.Claims) {
	if s.denylist == nil || claims == nil || claims.ExpiresAt == nil {
		return
	}
	s.denylist.Revoke(claims.ID, claims.ExpiresAt.Time)
}

// CurrentUser returns the stored profile of the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrAccountNotFound
		}
		return model.UserResponse{}, err
	}
	return model.NewUserResponse(user), nil
}
