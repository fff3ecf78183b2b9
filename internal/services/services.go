// Package services implements the application operations of domca on top of
// one repository scope. A service buffers writes through the scope's
// repositories and commits them with a single SaveChanges per operation, so
// each operation is atomic. Services share their scope's change set and
// must not be used by concurrent requests.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/logging"
	"github.com/dmitrijs2005/domca/internal/repositories/repomanager"
)

// now is a seam for tests.
var now = time.Now

// save commits the pending changes of rm. A failed commit discards them so
// the next operation starts from a clean scope.
func save(ctx context.Context, rm repomanager.RepositoryManager) (int, error) {
	u := rm.UnitOfWork()
	n, err := u.SaveChanges(ctx)
	if err != nil {
		u.Discard()
		return 0, fmt.Errorf("save changes: %w", err)
	}
	return n, nil
}

// internal logs err and hides it behind common.ErrorInternal.
func internal(ctx context.Context, log logging.Logger, msg string, err error) error {
	log.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}
