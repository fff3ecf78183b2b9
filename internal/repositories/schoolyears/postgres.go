package schoolyears

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

func (r *PostgresRepository) GetByID(ctx context.Context, id ids.SchoolYearID) (*models.SchoolYear, error) {
	return r.getOne(ctx, `
		SELECT id, start_year, end_year FROM school_years
		WHERE id = $1
	`, id)
}

func (r *PostgresRepository) GetByStartYear(ctx context.Context, startYear int) (*models.SchoolYear, error) {
	return r.getOne(ctx, `
		SELECT id, start_year, end_year FROM school_years
		WHERE start_year = $1
	`, startYear)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.SchoolYear, error) {
	sy := &models.SchoolYear{}
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&sy.ID, &sy.StartYear, &sy.EndYear); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sy, nil
}

func (r *PostgresRepository) Add(sy *models.SchoolYear) error {
	if sy == nil {
		return common.NewInvalidArgumentError("school_year", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		INSERT INTO school_years (id, start_year, end_year)
		VALUES ($1, $2, $3)
	`, sy.ID, sy.StartYear, sy.EndYear))
	return nil
}

func (r *PostgresRepository) Update(sy *models.SchoolYear) error {
	if sy == nil {
		return common.NewInvalidArgumentError("school_year", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`
		UPDATE school_years SET start_year = $2, end_year = $3
		WHERE id = $1
	`, sy.ID, sy.StartYear, sy.EndYear))
	return nil
}

func (r *PostgresRepository) Remove(sy *models.SchoolYear) error {
	if sy == nil {
		return common.NewInvalidArgumentError("school_year", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`DELETE FROM school_years WHERE id = $1`, sy.ID))
	return nil
}
