package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserReader provides credential lookups for sign-in.
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
}

// RefreshTokenStore manages hashed refresh tokens.
type RefreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// Store combines all auth repository operations.
type Store interface {
	UserReader
	RefreshTokenStore
}

var _ Store = (*Repository)(nil)
