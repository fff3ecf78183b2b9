package sessions

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

const selectColumns = `SELECT id, user_id, token, created_at, expires_at FROM user_sessions`

// PostgresRepository implements Repository over dbx.DBTX. Writes go to the
// shared change set.
type PostgresRepository struct {
	db      dbx.DBTX
	changes *dbx.ChangeSet
}

func NewPostgresRepository(db dbx.DBTX, changes *dbx.ChangeSet) *PostgresRepository {
	return &PostgresRepository{db: db, changes: changes}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id ids.UserSessionID) (*models.UserSession, error) {
	query := selectColumns + `
		WHERE id = $1
	`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.UserSession, error) {
	query := selectColumns + `
		WHERE token = $1
	`
	return scanOne(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) GetActiveByUserID(ctx context.Context, userID ids.UserID, now time.Time) ([]*models.UserSession, error) {
	query := selectColumns + `
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY created_at
	`
	return queryList(ctx, r.db, query, userID, timex.EnsureUTC(now))
}

func (r *PostgresRepository) Add(s *models.UserSession) error {
	if s == nil {
		return common.NewInvalidArgumentError("session", "must not be nil")
	}
	r.changes.Add(Insert(s))
	return nil
}

func (r *PostgresRepository) Update(s *models.UserSession) error {
	if s == nil {
		return common.NewInvalidArgumentError("session", "must not be nil")
	}
	st := s.State()
	r.changes.Add(dbx.Exec(`
		UPDATE user_sessions SET token = $2, expires_at = $3
		WHERE id = $1
	`, st.ID, st.Token, st.ExpiresAt))
	return nil
}

func (r *PostgresRepository) Remove(s *models.UserSession) error {
	if s == nil {
		return common.NewInvalidArgumentError("session", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`DELETE FROM user_sessions WHERE id = $1`, s.ID()))
	return nil
}

func (r *PostgresRepository) RemoveRange(ss []*models.UserSession) error {
	for _, s := range ss {
		if s == nil {
			return common.NewInvalidArgumentError("session", "must not be nil")
		}
	}
	for _, s := range ss {
		r.changes.Add(dbx.Exec(`DELETE FROM user_sessions WHERE id = $1`, s.ID()))
	}
	return nil
}

func (r *PostgresRepository) RemoveExpired(before time.Time) {
	r.changes.Add(dbx.Exec(`DELETE FROM user_sessions WHERE expires_at <= $1`, timex.EnsureUTC(before)))
}

// Insert returns the change persisting a new session. Re-inserting a known
// session only refreshes its expiry and touches no row when nothing changed.
func Insert(s *models.UserSession) dbx.Change {
	st := s.State()
	return dbx.Exec(`
		INSERT INTO user_sessions (id, user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		WHERE user_sessions.expires_at <> EXCLUDED.expires_at
	`, st.ID, st.UserID, st.Token, st.CreatedAt, st.ExpiresAt)
}

// ListByUser loads every session of userID, oldest first.
func ListByUser(ctx context.Context, db dbx.DBTX, userID ids.UserID) ([]*models.UserSession, error) {
	query := selectColumns + `
		WHERE user_id = $1
		ORDER BY created_at
	`
	return queryList(ctx, db, query, userID)
}

func queryList(ctx context.Context, db dbx.DBTX, query string, args ...any) ([]*models.UserSession, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.UserSession, 0)
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

func scanOne(row dbx.RowScanner) (*models.UserSession, error) {
	s, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func scan(row dbx.RowScanner) (*models.UserSession, error) {
	var st models.UserSessionState
	if err := row.Scan(&st.ID, &st.UserID, &st.Token, &st.CreatedAt, &st.ExpiresAt); err != nil {
		return nil, err
	}
	st.CreatedAt = timex.AssumeUTC(st.CreatedAt)
	st.ExpiresAt = timex.AssumeUTC(st.ExpiresAt)
	return models.RestoreUserSession(st), nil
}
