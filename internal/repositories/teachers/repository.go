// Package teachers declares the storage contract for teachers.
package teachers

import (
	"context"

	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

type Repository interface {
	GetByID(ctx context.Context, id ids.TeacherID) (*models.Teacher, error)
	Add(t *models.Teacher) error
	Update(t *models.Teacher) error
	Remove(t *models.Teacher) error
}
