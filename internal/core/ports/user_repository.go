package ports

import (
	"context"

	"github.com/openshelf/library-api/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
// Username uniqueness is enforced at the store level.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByPublicID(ctx context.Context, publicID string) (*domain.User, error)
}
