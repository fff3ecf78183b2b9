package subjects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/dbx"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/repositories/marks"
)

const selectColumns = `SELECT id, name, teacher_id, school_year_id FROM subjects`

type PostgresRepository struct {
	db      dbx.DBTX
	changes *dbx.ChangeSet
}

func NewPostgresRepository(db dbx.DBTX, changes *dbx.ChangeSet) *PostgresRepository {
	return &PostgresRepository{db: db, changes: changes}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id ids.SubjectID) (*models.Subject, error) {
	query := selectColumns + `
		WHERE id = $1
	`
	s, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if s.Marks, err = marks.ListBySubject(ctx, r.db, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) GetBySchoolYear(ctx context.Context, schoolYearID ids.SchoolYearID) ([]*models.Subject, error) {
	return r.list(ctx, selectColumns+`
		WHERE school_year_id = $1
		ORDER BY name
	`, schoolYearID)
}

func (r *PostgresRepository) GetByTeacher(ctx context.Context, teacherID ids.TeacherID) ([]*models.Subject, error) {
	return r.list(ctx, selectColumns+`
		WHERE teacher_id = $1
		ORDER BY name
	`, teacherID)
}

func (r *PostgresRepository) Add(s *models.Subject) error {
	if s == nil {
		return common.NewInvalidArgumentError("subject", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		INSERT INTO subjects (id, name, teacher_id, school_year_id)
		VALUES ($1, $2, $3, $4)
	`, s.ID, s.Name, s.TeacherID, s.SchoolYearID))
	return nil
}

func (r *PostgresRepository) Update(s *models.Subject) error {
	if s == nil {
		return common.NewInvalidArgumentError("subject", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		UPDATE subjects SET name = $2, teacher_id = $3, school_year_id = $4
		WHERE id = $1
	`, s.ID, s.Name, s.TeacherID, s.SchoolYearID))
	return nil
}

func (r *PostgresRepository) Remove(s *models.Subject) error {
	if s == nil {
		return common.NewInvalidArgumentError("subject", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`DELETE FROM subjects WHERE id = $1`, s.ID))
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.Subject, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Subject, 0)
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func scan(row dbx.RowScanner) (*models.Subject, error) {
	s := &models.Subject{}
	if err := row.Scan(&s.ID, &s.Name, &s.TeacherID, &s.SchoolYearID); err != nil {
		return nil, err
	}
	return s, nil
}
