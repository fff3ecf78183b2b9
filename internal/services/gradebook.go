package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/logging"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/repositories/repomanager"
)

// GradebookService maintains teachers, school years, subjects and marks.
type GradebookService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewGradebookService(m repomanager.RepositoryManager, log logging.Logger) *GradebookService {
	if log == nil {
		log = logging.Discard()
	}
	return &GradebookService{repomanager: m, log: log.With("service", "gradebook")}
}

func (s *GradebookService) AddTeacher(ctx context.Context, firstName, lastName string) (*models.Teacher, error) {
	t, err := models.NewTeacher(firstName, lastName)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Teachers().Add(t); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, err
	}
	return t, nil
}

// AddSchoolYear creates the year starting in startYear. At most one year
// may start in a given calendar year.
func (s *GradebookService) AddSchoolYear(ctx context.Context, startYear, endYear int) (*models.SchoolYear, error) {
	repo := s.repomanager.SchoolYears()

	_, err := repo.GetByStartYear(ctx, startYear)
	switch {
	case err == nil:
		return nil, common.NewValidationError("start_year", fmt.Sprintf("school year starting in %d already exists", startYear))
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internal(ctx, s.log, "school year lookup failed", err)
	}

	sy, err := models.NewSchoolYear(startYear, endYear)
	if err != nil {
		return nil, err
	}
	if err := repo.Add(sy); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, err
	}
	return sy, nil
}

// AddSubject creates a subject taught by teacherID in schoolYearID. Both
// must exist.
func (s *GradebookService) AddSubject(ctx context.Context, name string, teacherID ids.TeacherID, schoolYearID ids.SchoolYearID) (*models.Subject, error) {
	t, err := s.repomanager.Teachers().GetByID(ctx, teacherID)
	if err != nil {
		return nil, s.lookupErr(ctx, "teacher", teacherID.String(), err)
	}
	sy, err := s.repomanager.SchoolYears().GetByID(ctx, schoolYearID)
	if err != nil {
		return nil, s.lookupErr(ctx, "school year", schoolYearID.String(), err)
	}

	sub, err := models.NewSubject(name, t.ID, sy.ID)
	if err != nil {
		return nil, err
	}
	if err := t.AddSubject(sub); err != nil {
		return nil, err
	}
	if err := sy.AddSubject(sub); err != nil {
		return nil, err
	}

	if err := s.repomanager.Subjects().Add(sub); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, err
	}
	return sub, nil
}

// RecordMark adds a mark of value and weight to the subject.
func (s *GradebookService) RecordMark(ctx context.Context, subjectID ids.SubjectID, value, weight int) (*models.Mark, error) {
	sub, err := s.repomanager.Subjects().GetByID(ctx, subjectID)
	if err != nil {
		return nil, s.lookupErr(ctx, "subject", subjectID.String(), err)
	}

	m, err := models.NewMark(subjectID, value, weight)
	if err != nil {
		return nil, err
	}
	if err := sub.AddMark(m); err != nil {
		return nil, err
	}

	if err := s.repomanager.Marks().Add(m); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, err
	}
	return m, nil
}

// SubjectAverage returns the weighted average of the subject's marks.
func (s *GradebookService) SubjectAverage(ctx context.Context, subjectID ids.SubjectID) (float64, error) {
	sub, err := s.repomanager.Subjects().GetByID(ctx, subjectID)
	if err != nil {
		return 0, s.lookupErr(ctx, "subject", subjectID.String(), err)
	}
	return sub.WeightedAverage(), nil
}

func (s *GradebookService) lookupErr(ctx context.Context, what, id string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, err)
	}
	return internal(ctx, s.log, what+" lookup failed", err)
}
