package ports

import (
	"context"

	"github.com/fieldops/catalog-system/internal/core/domain"
)

// UserRepository reads and mutates the externally owned user records.
type UserRepository interface {
	// FindByUID returns the user for the given scan payload, or
	// domain.ErrUserNotFound when no such record exists.
	FindByUID(ctx context.Context, uid string) (*domain.User, error)

	// SetLoggedIn marks the user as logged in. The write is issued even when
	// the flag is already true so repeated scans stay a harmless no-op.
	SetLoggedIn(ctx context.Context, uid string) error
}
