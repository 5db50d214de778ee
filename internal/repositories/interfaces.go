package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL *string) (*models.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	// Update and Delete only touch rows owned by ownerID and return ErrNotFound otherwise.
	Update(ctx context.Context, id, ownerID uuid.UUID, input models.ProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type ConsumedTokenRepository interface {
	// Consume records the token id and reports ErrTokenConsumed if it was already recorded.
	Consume(ctx context.Context, token *models.ConsumedResetToken) error
	IsConsumed(ctx context.Context, id string) (bool, error)
	// Release drops the marker so the token can be used again.
	Release(ctx context.Context, id string) error
}

// remainingTTL is how long a consumed-token marker must live to outlast the token itself.
func remainingTTL(expiresAt time.Time, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
