package sessions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/dbx"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/stretchr/testify/require"
)

var sessionCols = []string{"id", "user_id", "token", "created_at", "expires_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB, *dbx.ChangeSet) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	cs := dbx.NewChangeSet()
	return NewPostgresRepository(db, cs), mock, db, cs
}

// flush runs the buffered changes directly against db, outside a transaction.
func flush(t *testing.T, db *sql.DB, cs *dbx.ChangeSet) int64 {
	t.Helper()
	var total int64
	for _, ch := range cs.Pending() {
		n, err := ch(context.Background(), db)
		require.NoError(t, err)
		total += n
	}
	cs.Reset()
	return total
}

func TestGetByToken_Found(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	q := `(?s)^SELECT\s+id,\s*user_id,\s*token,\s*created_at,\s*expires_at\s+FROM\s+user_sessions\s+WHERE\s+token\s*=\s*\$1\s*$`
	rows := sqlmock.NewRows(sessionCols).
		AddRow("USESS01", "USR01", "tok", created, created.AddDate(0, 0, 30))
	mock.ExpectQuery(q).WithArgs("tok").WillReturnRows(rows)

	got, err := repo.GetByToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetByToken error: %v", err)
	}
	if got.ID().String() != "USESS01" || got.UserID().String() != "USR01" {
		t.Fatalf("unexpected session: %+v", got.State())
	}
	if !got.ExpiresAt().Equal(created.AddDate(0, 0, 30)) || got.ExpiresAt().Location() != time.UTC {
		t.Fatalf("unexpected expiry: %v", got.ExpiresAt())
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+user_sessions\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("USESS404").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), ids.MustParse[ids.UserSessionKind]("USESS404"))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+user_sessions`).WillReturnError(errors.New("db down"))

	_, err := repo.GetByID(context.Background(), ids.NewUserSessionID())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetActiveByUserID(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	q := `(?s)WHERE\s+user_id\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2\s+ORDER\s+BY\s+created_at`
	rows := sqlmock.NewRows(sessionCols).
		AddRow("USESS1", "USR01", "a", now.AddDate(0, 0, -2), now.AddDate(0, 0, 28)).
		AddRow("USESS2", "USR01", "b", now.AddDate(0, 0, -1), now.AddDate(0, 0, 29))
	mock.ExpectQuery(q).WithArgs("USR01", now).WillReturnRows(rows)

	got, err := repo.GetActiveByUserID(context.Background(), ids.MustParse[ids.UserKind]("USR01"), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "USESS1", got[0].ID().String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveByUserID_Empty(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+user_sessions`).WillReturnRows(sqlmock.NewRows(sessionCols))

	got, err := repo.GetActiveByUserID(context.Background(), ids.NewUserID(), time.Now())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestWrites_AreBufferedUntilFlushed(t *testing.T) {
	repo, mock, db, cs := newRepoWithMock(t)
	defer db.Close()

	s, err := models.NewUserSession(ids.NewUserID(), "tok")
	require.NoError(t, err)

	require.NoError(t, repo.Add(s))
	require.NoError(t, repo.Update(s))
	require.NoError(t, repo.Remove(s))
	require.Equal(t, 3, cs.Len())
	require.NoError(t, mock.ExpectationsWereMet(), "nothing reaches the database before flush")

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+user_sessions.*ON\s+CONFLICT\s+\(id\)`).
		WithArgs(s.ID().String(), s.UserID().String(), "tok", s.CreatedAt(), s.ExpiresAt()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^\s*UPDATE\s+user_sessions\s+SET\s+token\s*=\s*\$2,\s*expires_at\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(s.ID().String(), "tok", s.ExpiresAt()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE\s+FROM\s+user_sessions\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(s.ID().String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.Equal(t, int64(3), flush(t, db, cs))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveRange(t *testing.T) {
	repo, mock, db, cs := newRepoWithMock(t)
	defer db.Close()

	user := ids.NewUserID()
	a, _ := models.NewUserSession(user, "a")
	b, _ := models.NewUserSession(user, "b")

	require.ErrorIs(t, repo.RemoveRange([]*models.UserSession{a, nil}), common.ErrInvalidArgument)
	require.Equal(t, 0, cs.Len(), "a rejected batch enqueues nothing")

	require.NoError(t, repo.RemoveRange([]*models.UserSession{a, b}))
	mock.ExpectExec(`^DELETE`).WithArgs(a.ID().String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE`).WithArgs(b.ID().String()).WillReturnResult(sqlmock.NewResult(0, 1))
	require.Equal(t, int64(2), flush(t, db, cs))
}

func TestRemoveExpired(t *testing.T) {
	repo, mock, db, cs := newRepoWithMock(t)
	defer db.Close()

	before := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.RemoveExpired(before)

	mock.ExpectExec(`^DELETE\s+FROM\s+user_sessions\s+WHERE\s+expires_at\s*<=\s*\$1$`).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 4))
	require.Equal(t, int64(4), flush(t, db, cs))
}

func TestNilArguments(t *testing.T) {
	repo, _, db, cs := newRepoWithMock(t)
	defer db.Close()

	require.ErrorIs(t, repo.Add(nil), common.ErrInvalidArgument)
	require.ErrorIs(t, repo.Update(nil), common.ErrInvalidArgument)
	require.ErrorIs(t, repo.Remove(nil), common.ErrInvalidArgument)
	require.Equal(t, 0, cs.Len())
}
