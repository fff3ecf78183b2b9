// Package users declares the storage contract for the User aggregate.
package users

import (
	"context"

	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

// Repository loads users together with their sessions and hydration
// records. Add and Update persist the owned collections as well; Remove
// relies on the schema cascading to them.
type Repository interface {
	// GetByID returns common.ErrorNotFound when no user has id.
	GetByID(ctx context.Context, id ids.UserID) (*models.User, error)

	// GetByEmail matches the address case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// IsEmailUnique reports whether no user holds email, ignoring case.
	IsEmailUnique(ctx context.Context, email string) (bool, error)

	GetByUserName(ctx context.Context, userName string) (*models.User, error)

	Add(u *models.User) error
	Update(u *models.User) error
	Remove(u *models.User) error
}
