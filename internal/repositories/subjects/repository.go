// Package subjects declares the storage contract for subjects.
package subjects

import (
	"context"

	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

// Repository returns subjects. GetByID also loads the subject's marks; the
// list queries do not.
type Repository interface {
	GetByID(ctx context.Context, id ids.SubjectID) (*models.Subject, error)
	GetBySchoolYear(ctx context.Context, schoolYearID ids.SchoolYearID) ([]*models.Subject, error)
	GetByTeacher(ctx context.Context, teacherID ids.TeacherID) ([]*models.Subject, error)
	Add(s *models.Subject) error
	Update(s *models.Subject) error
	Remove(s *models.Subject) error
}
