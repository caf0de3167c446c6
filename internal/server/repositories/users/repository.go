// Package users declares the credential store: persistence of user accounts
// with soft-delete aware lookups.
package users

import (
	"context"

	"github.com/dmitrijs2005/ideapool/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A duplicate active
	// email yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetActiveByEmail returns the non-expired user with that email, or
	// common.ErrNotFound.
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsActive reports whether a non-expired user with that email exists.
	ExistsActive(ctx context.Context, email string) (bool, error)
}
