package repomanager

import (
	"context"

	"github.com/dmitrijs2005/domca/internal/repositories/hydration"
	"github.com/dmitrijs2005/domca/internal/repositories/marks"
	"github.com/dmitrijs2005/domca/internal/repositories/schoolyears"
	"github.com/dmitrijs2005/domca/internal/repositories/sessions"
	"github.com/dmitrijs2005/domca/internal/repositories/subjects"
	"github.com/dmitrijs2005/domca/internal/repositories/teachers"
	"github.com/dmitrijs2005/domca/internal/repositories/users"
	"github.com/dmitrijs2005/domca/internal/uow"
)

// RepositoryManager is one persistence scope. Every repository it vends
// buffers writes into the same change set, committed by UnitOfWork.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	Users() users.Repository
	Sessions() sessions.Repository
	Hydration() hydration.Repository
	Teachers() teachers.Repository
	SchoolYears() schoolyears.Repository
	Subjects() subjects.Repository
	Marks() marks.Repository

	UnitOfWork() uow.UnitOfWork
}
