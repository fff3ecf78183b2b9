package teachers

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

func (r *PostgresRepository) GetByID(ctx context.Context, id ids.TeacherID) (*models.Teacher, error) {
	query := `
		SELECT id, first_name, last_name FROM teachers
		WHERE id = $1
	`
	t := &models.Teacher{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.FirstName, &t.LastName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Add(t *models.Teacher) error {
	if t == nil {
		return common.NewInvalidArgumentError("teacher", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		INSERT INTO teachers (id, first_name, last_name)
		VALUES ($1, $2, $3)
	`, t.ID, t.FirstName, t.LastName))
	return nil
}

func (r *PostgresRepository) Update(t *models.Teacher) error {
	if t == nil {
		return common.NewInvalidArgumentError("teacher", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		UPDATE teachers SET first_name = $2, last_name = $3
		WHERE id = $1
	`, t.ID, t.FirstName, t.LastName))
	return nil
}

func (r *PostgresRepository) Remove(t *models.Teacher) error {
	if t == nil {
		return common.NewInvalidArgumentError("teacher", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`DELETE FROM teachers WHERE id = $1`, t.ID))
	return nil
}
