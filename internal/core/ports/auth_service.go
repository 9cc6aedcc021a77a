package ports

import (
	"context"

	"github.com/openshelf/library-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	// Verify validates a signed token and resolves the caller by a fresh
	// store lookup, so role changes take effect on the next request.
	Verify(ctx context.Context, token string) (*domain.User, error)
}
