package hydration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/dbx"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/timex"
)

const selectColumns = `SELECT id, user_id, recorded_at, amount_ml FROM hydration_records`

type PostgresRepository struct {
	db      dbx.DBTX
	changes *dbx.ChangeSet
}

func NewPostgresRepository(db dbx.DBTX, changes *dbx.ChangeSet) *PostgresRepository {
	return &PostgresRepository{db: db, changes: changes}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id ids.HydrationRecordID) (*models.HydrationRecord, error) {
	query := selectColumns + `
		WHERE id = $1
	`
	rec, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID ids.UserID) ([]*models.HydrationRecord, error) {
	return ListByUser(ctx, r.db, userID)
}

func (r *PostgresRepository) GetByUserForDay(ctx context.Context, userID ids.UserID, day time.Time) ([]*models.HydrationRecord, error) {
	from := timex.StartOfDay(day)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(0, 0, 1))
}

func (r *PostgresRepository) GetByUserForWeek(ctx context.Context, userID ids.UserID, reference time.Time) ([]*models.HydrationRecord, error) {
	from := timex.StartOfWeek(reference)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(0, 0, 7))
}

func (r *PostgresRepository) GetByUserForMonth(ctx context.Context, userID ids.UserID, month time.Month, year int) ([]*models.HydrationRecord, error) {
	if month < time.January || month > time.December {
		return nil, common.NewInvalidArgumentError("month", "must be between 1 and 12")
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(0, 1, 0))
}

func (r *PostgresRepository) GetByUserForYear(ctx context.Context, userID ids.UserID, year int) ([]*models.HydrationRecord, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(1, 0, 0))
}

func (r *PostgresRepository) GetByUserBetween(ctx context.Context, userID ids.UserID, from, to time.Time) ([]*models.HydrationRecord, error) {
	query := selectColumns + `
		WHERE user_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at
	`
	return queryList(ctx, r.db, query, userID, timex.EnsureUTC(from), timex.EnsureUTC(to))
}

func (r *PostgresRepository) Add(rec *models.HydrationRecord) error {
	if rec == nil {
		return common.NewInvalidArgumentError("record", "must not be nil")
	}
	r.changes.Add(Insert(rec))
	return nil
}

func (r *PostgresRepository) AddRange(rs []*models.HydrationRecord) error {
	changes := make([]dbx.Change, 0, len(rs))
	for _, rec := range rs {
		if rec == nil {
			return common.NewInvalidArgumentError("record", "must not be nil")
		}
		changes = append(changes, Insert(rec))
	}
	r.changes.Add(changes...)
	return nil
}

func (r *PostgresRepository) Update(rec *models.HydrationRecord) error {
	if rec == nil {
		return common.NewInvalidArgumentError("record", "must not be nil")
	}
	st := rec.State()
	r.changes.Add(dbx.Exec(`
		UPDATE hydration_records SET recorded_at = $2, amount_ml = $3
		WHERE id = $1
	`, st.ID, st.Date, st.AmountMl))
	return nil
}

func (r *PostgresRepository) Remove(rec *models.HydrationRecord) error {
	if rec == nil {
		return common.NewInvalidArgumentError("record", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`DELETE FROM hydration_records WHERE id = $1`, rec.ID()))
	return nil
}

// Insert returns the change persisting rec. Records are append-only, so an
// already stored record is left untouched.
func Insert(rec *models.HydrationRecord) dbx.Change {
	st := rec.State()
	return dbx.Exec(`
		INSERT INTO hydration_records (id, user_id, recorded_at, amount_ml)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, st.ID, st.UserID, st.Date, st.AmountMl)
}

// ListByUser loads every record of userID in chronological order.
func ListByUser(ctx context.Context, db dbx.DBTX, userID ids.UserID) ([]*models.HydrationRecord, error) {
	query := selectColumns + `
		WHERE user_id = $1
		ORDER BY recorded_at
	`
	return queryList(ctx, db, query, userID)
}

func queryList(ctx context.Context, db dbx.DBTX, query string, args ...any) ([]*models.HydrationRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.HydrationRecord, 0)
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func scan(row dbx.RowScanner) (*models.HydrationRecord, error) {
	var st models.HydrationRecordState
	if err := row.Scan(&st.ID, &st.UserID, &st.Date, &st.AmountMl); err != nil {
		return nil, err
	}
	st.Date = timex.AssumeUTC(st.Date)
	return models.RestoreHydrationRecord(st), nil
}
