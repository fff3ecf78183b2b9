// Package schoolyears declares the storage contract for school years.
package schoolyears

import (
	"context"

	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

type Repository interface {
	GetByID(ctx context.Context, id ids.SchoolYearID) (*models.SchoolYear, error)

	// GetByStartYear finds the year starting in startYear, e.g. 2024 for 2024/2025.
	GetByStartYear(ctx context.Context, startYear int) (*models.SchoolYear, error)

	Add(sy *models.SchoolYear) error
	Update(sy *models.SchoolYear) error
	Remove(sy *models.SchoolYear) error
}
