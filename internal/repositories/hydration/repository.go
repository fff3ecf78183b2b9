// Package hydration declares the storage contract for hydration records.
package hydration

import (
	"context"
	"time"

	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

// Repository queries a user's water intake by calendar period. All periods
// are UTC and half-open; an empty period yields an empty slice.
type Repository interface {
	GetByID(ctx context.Context, id ids.HydrationRecordID) (*models.HydrationRecord, error)
	GetByUser(ctx context.Context, userID ids.UserID) ([]*models.HydrationRecord, error)

	// GetByUserForDay returns the records of the UTC calendar day containing day.
	GetByUserForDay(ctx context.Context, userID ids.UserID, day time.Time) ([]*models.HydrationRecord, error)

	// GetByUserForWeek returns the records of the Monday-based week containing reference.
	GetByUserForWeek(ctx context.Context, userID ids.UserID, reference time.Time) ([]*models.HydrationRecord, error)

	GetByUserForMonth(ctx context.Context, userID ids.UserID, month time.Month, year int) ([]*models.HydrationRecord, error)
	GetByUserForYear(ctx context.Context, userID ids.UserID, year int) ([]*models.HydrationRecord, error)

	// GetByUserBetween returns records with from <= date < to.
	GetByUserBetween(ctx context.Context, userID ids.UserID, from, to time.Time) ([]*models.HydrationRecord, error)

	Add(r *models.HydrationRecord) error
	AddRange(rs []*models.HydrationRecord) error
	Update(r *models.HydrationRecord) error
	Remove(r *models.HydrationRecord) error
}
