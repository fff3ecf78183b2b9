// Package sessions declares the storage contract for user sessions.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
)

// Repository reads sessions immediately and buffers writes until the unit
// of work saves them.
type Repository interface {
	// GetByID returns common.ErrorNotFound when the session is absent.
	GetByID(ctx context.Context, id ids.UserSessionID) (*models.UserSession, error)

	// GetByToken looks a session up by its opaque token.
	GetByToken(ctx context.Context, token string) (*models.UserSession, error)

	// GetActiveByUserID lists the user's sessions still valid at now, oldest first.
	GetActiveByUserID(ctx context.Context, userID ids.UserID, now time.Time) ([]*models.UserSession, error)

	Add(s *models.UserSession) error
	Update(s *models.UserSession) error
	Remove(s *models.UserSession) error
	RemoveRange(ss []*models.UserSession) error

	// RemoveExpired deletes every session that expired at or before before.
	RemoveExpired(before time.Time)
}
