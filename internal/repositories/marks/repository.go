// Package marks declares the storage contract for marks.
package marks

import (
	"context"

	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

type Repository interface {
	GetByID(ctx context.Context, id ids.MarkID) (*models.Mark, error)
	GetBySubject(ctx context.Context, subjectID ids.SubjectID) ([]*models.Mark, error)
	Add(m *models.Mark) error
	Update(m *models.Mark) error
	Remove(m *models.Mark) error
}
