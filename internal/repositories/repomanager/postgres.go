// Package repomanager wires the Postgres repositories of one scope to a
// shared change set and its unit of work, and runs the goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/domca/internal/dbx"
	"github.com/dmitrijs2005/domca/internal/logging"
	"github.com/dmitrijs2005/domca/internal/migrations"
	"github.com/dmitrijs2005/domca/internal/repositories/hydration"
	"github.com/dmitrijs2005/domca/internal/repositories/marks"
	"github.com/dmitrijs2005/domca/internal/repositories/schoolyears"
	"github.com/dmitrijs2005/domca/internal/repositories/sessions"
	"github.com/dmitrijs2005/domca/internal/repositories/subjects"
	"github.com/dmitrijs2005/domca/internal/repositories/teachers"
	"github.com/dmitrijs2005/domca/internal/repositories/users"
	"github.com/dmitrijs2005/domca/internal/uow"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// sqlOpen is a seam for tests; "pgx" is registered by pgx/stdlib.
var sqlOpen = sql.Open

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// PostgresRepositoryManager vends Postgres-backed repositories sharing one
// change set.
type PostgresRepositoryManager struct {
	db      *sql.DB
	changes *dbx.ChangeSet

	users       *users.PostgresRepository
	sessions    *sessions.PostgresRepository
	hydration   *hydration.PostgresRepository
	teachers    *teachers.PostgresRepository
	schoolYears *schoolyears.PostgresRepository
	subjects    *subjects.PostgresRepository
	marks       *marks.PostgresRepository
	unitOfWork  *uow.SQLUnitOfWork
}

// New creates a scope over db. Reads go straight to db; writes wait for
// UnitOfWork().SaveChanges.
func New(db *sql.DB, log logging.Logger) *PostgresRepositoryManager {
	changes := dbx.NewChangeSet()
	return &PostgresRepositoryManager{
		db:          db,
		changes:     changes,
		users:       users.NewPostgresRepository(db, changes),
		sessions:    sessions.NewPostgresRepository(db, changes),
		hydration:   hydration.NewPostgresRepository(db, changes),
		teachers:    teachers.NewPostgresRepository(db, changes),
		schoolYears: schoolyears.NewPostgresRepository(db, changes),
		subjects:    subjects.NewPostgresRepository(db, changes),
		marks:       marks.NewPostgresRepository(db, changes),
		unitOfWork:  uow.NewSQLUnitOfWork(db, changes, log),
	}
}

func (m *PostgresRepositoryManager) Users() users.Repository             { return m.users }
func (m *PostgresRepositoryManager) Sessions() sessions.Repository       { return m.sessions }
func (m *PostgresRepositoryManager) Hydration() hydration.Repository     { return m.hydration }
func (m *PostgresRepositoryManager) Teachers() teachers.Repository       { return m.teachers }
func (m *PostgresRepositoryManager) SchoolYears() schoolyears.Repository { return m.schoolYears }
func (m *PostgresRepositoryManager) Subjects() subjects.Repository       { return m.subjects }
func (m *PostgresRepositoryManager) Marks() marks.Repository             { return m.marks }
func (m *PostgresRepositoryManager) UnitOfWork() uow.UnitOfWork          { return m.unitOfWork }

// Discard drops writes buffered in this scope.
func (m *PostgresRepositoryManager) Discard() {
	m.unitOfWork.Discard()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
