package marks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/dbx"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

type PostgresRepository struct {
	db      dbx.DBTX
	changes *dbx.ChangeSet
}

func NewPostgresRepository(db dbx.DBTX, changes *dbx.ChangeSet) *PostgresRepository {
	return &PostgresRepository{db: db, changes: changes}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id ids.MarkID) (*models.Mark, error) {
	query := `
		SELECT id, value, weight, subject_id FROM marks
		WHERE id = $1
	`
	m := &models.Mark{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Value, &m.Weight, &m.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) GetBySubject(ctx context.Context, subjectID ids.SubjectID) ([]*models.Mark, error) {
	return ListBySubject(ctx, r.db, subjectID)
}

func (r *PostgresRepository) Add(m *models.Mark) error {
	if m == nil {
		return common.NewInvalidArgumentError("mark", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		INSERT INTO marks (id, value, weight, subject_id)
		VALUES ($1, $2, $3, $4)
	`, m.ID, m.Value, m.Weight, m.SubjectID))
	return nil
}

func (r *PostgresRepository) Update(m *models.Mark) error {
	if m == nil {
		return common.NewInvalidArgumentError("mark", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		UPDATE marks SET value = $2, weight = $3
		WHERE id = $1
	`, m.ID, m.Value, m.Weight))
	return nil
}

func (r *PostgresRepository) Remove(m *models.Mark) error {
	if m == nil {
		return common.NewInvalidArgumentError("mark", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`DELETE FROM marks WHERE id = $1`, m.ID))
	return nil
}

// ListBySubject loads the marks of subjectID ordered by ID.
func ListBySubject(ctx context.Context, db dbx.DBTX, subjectID ids.SubjectID) ([]*models.Mark, error) {
	query := `
		SELECT id, value, weight, subject_id FROM marks
		WHERE subject_id = $1
		ORDER BY id
	`
	rows, err := db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Mark, 0)
	for rows.Next() {
		m := &models.Mark{}
		if err := rows.Scan(&m.ID, &m.Value, &m.Weight, &m.SubjectID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
