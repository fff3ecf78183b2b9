package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/dbx"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/repositories/hydration"
	"github.com/dmitrijs2005/domca/internal/repositories/sessions"
	"github.com/dmitrijs2005/domca/internal/timex"
	"github.com/jackc/pgx/v5/pgconn"
)

const selectColumns = `SELECT id, first_name, last_name, user_name, email, email_normalized,
		password_hash, password_salt, avatar_url, created_at, updated_at
		FROM users`

const (
	uniqueViolation     = "23505"
	emailUniqueIndex    = "ux_users_email_normalized"
	userNameUniqueIndex = "ux_users_user_name"
)

// IsEmailConflict reports whether err is the unique index on the normalized
// email rejecting a write.
func IsEmailConflict(err error) bool {
	return isUniqueViolation(err, emailUniqueIndex)
}

// IsUserNameConflict reports whether err is the unique index on user_name
// rejecting a write.
func IsUserNameConflict(err error) bool {
	return isUniqueViolation(err, userNameUniqueIndex)
}

func isUniqueViolation(err error, index string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == index
}

type PostgresRepository struct {
	db      dbx.DBTX
	changes *dbx.ChangeSet
}

func NewPostgresRepository(db dbx.DBTX, changes *dbx.ChangeSet) *PostgresRepository {
	return &PostgresRepository{db: db, changes: changes}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id ids.UserID) (*models.User, error) {
	return r.load(ctx, selectColumns+`
		WHERE id = $1
	`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.load(ctx, selectColumns+`
		WHERE email_normalized = $1
	`, models.NormalizeEmail(email))
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.load(ctx, selectColumns+`
		WHERE user_name = $1
	`, userName)
}

func (r *PostgresRepository) IsEmailUnique(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email_normalized = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return !exists, nil
}

func (r *PostgresRepository) Add(u *models.User) error {
	if u == nil {
		return common.NewInvalidArgumentError("user", "must not be nil")
	}
	st := u.State()
	r.changes.Add(dbx.Exec(`
		INSERT INTO users (id, first_name, last_name, user_name, email, email_normalized,
			password_hash, password_salt, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, st.ID, st.FirstName, st.LastName, st.UserName, st.Email, st.EmailNormalized,
		st.PasswordHash, st.PasswordSalt, avatarValue(st.AvatarURL), st.CreatedAt, st.UpdatedAt))
	r.addOwned(u)
	return nil
}

func (r *PostgresRepository) Update(u *models.User) error {
	if u == nil {
		return common.NewInvalidArgumentError("user", "must not be nil")
	}
	st := u.State()
	r.changes.Add(dbx.Exec(`
		UPDATE users SET first_name = $2, last_name = $3, user_name = $4, email = $5,
			email_normalized = $6, password_hash = $7, password_salt = $8, avatar_url = $9,
			updated_at = $10
		WHERE id = $1
	`, st.ID, st.FirstName, st.LastName, st.UserName, st.Email, st.EmailNormalized,
		st.PasswordHash, st.PasswordSalt, avatarValue(st.AvatarURL), st.UpdatedAt))
	r.addOwned(u)
	return nil
}

func (r *PostgresRepository) Remove(u *models.User) error {
	if u == nil {
		return common.NewInvalidArgumentError("user", "must not be nil")
	}
	r.changes.Add(dbx.Exec(`DELETE FROM users WHERE id = $1`, u.ID()))
	return nil
}

// addOwned queues inserts for the children attached since the user was
// loaded. Loaded children are never written back, so rows deleted meanwhile
// by another scope stay deleted.
func (r *PostgresRepository) addOwned(u *models.User) {
	ss, recs := u.TakeAdded()
	for _, s := range ss {
		r.changes.Add(sessions.Insert(s))
	}
	for _, rec := range recs {
		r.changes.Add(hydration.Insert(rec))
	}
}

func (r *PostgresRepository) load(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		st     models.UserState
		avatar sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&st.ID, &st.FirstName, &st.LastName, &st.UserName, &st.Email, &st.EmailNormalized,
		&st.PasswordHash, &st.PasswordSalt, &avatar, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if avatar.Valid && avatar.String != "" {
		if st.AvatarURL, err = url.Parse(avatar.String); err != nil {
			return nil, fmt.Errorf("stored avatar url: %w", err)
		}
	}
	st.CreatedAt = timex.AssumeUTC(st.CreatedAt)
	st.UpdatedAt = timex.AssumeUTC(st.UpdatedAt)

	ss, err := sessions.ListByUser(ctx, r.db, st.ID)
	if err != nil {
		return nil, err
	}
	recs, err := hydration.ListByUser(ctx, r.db, st.ID)
	if err != nil {
		return nil, err
	}
	return models.RestoreUser(st, ss, recs), nil
}

func avatarValue(u *url.URL) sql.NullString {
	if u == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: u.String(), Valid: true}
}
