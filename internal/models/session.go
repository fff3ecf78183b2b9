package models

import (
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/timex"
)

const (
	// DefaultSessionValidityDays is the validity window applied by NewUserSession.
	DefaultSessionValidityDays = 30
	MaxTokenLength             = 512
)

// SessionStatus is derived from the clock on every read; it is never stored.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionExpired
)

func (s SessionStatus) String() string {
	if s == SessionActive {
		return "active"
	}
	return "expired"
}

// UserSession is an authenticated session owned by a user.
type UserSession struct {
	id        ids.UserSessionID
	userID    ids.UserID
	token     string
	createdAt time.Time
	expiresAt time.Time
}

type sessionOptions struct {
	validityDays int
}

// SessionOption tunes NewUserSession.
type SessionOption func(*sessionOptions)

// WithValidityDays overrides the default validity window.
func WithValidityDays(days int) SessionOption {
	return func(o *sessionOptions) {
		o.validityDays = days
	}
}

// NewUserSession creates a session for userID expiring DefaultSessionValidityDays
// after creation unless WithValidityDays says otherwise.
func NewUserSession(userID ids.UserID, token string, opts ...SessionOption) (*UserSession, error) {
	o := sessionOptions{validityDays: DefaultSessionValidityDays}
	for _, opt := range opts {
		opt(&o)
	}

	if userID.IsZero() {
		return nil, common.NewInvalidArgumentError("user_id", "must not be empty")
	}
	if o.validityDays <= 0 {
		return nil, common.NewInvalidArgumentError("validity_days", "must be greater than zero")
	}
	if err := validateValue("token", token, "notblank,max=512", common.ErrValidation); err != nil {
		return nil, err
	}

	created := now()
	return &UserSession{
		id:        ids.NewUserSessionID(),
		userID:    userID,
		token:     token,
		createdAt: created,
		expiresAt: created.AddDate(0, 0, o.validityDays),
	}, nil
}

// UserSessionState is the persisted shape of a UserSession.
type UserSessionState struct {
	ID        ids.UserSessionID
	UserID    ids.UserID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// RestoreUserSession rebuilds a session loaded from storage.
func RestoreUserSession(s UserSessionState) *UserSession {
	return &UserSession{
		id:        s.ID,
		userID:    s.UserID,
		token:     s.Token,
		createdAt: timex.EnsureUTC(s.CreatedAt),
		expiresAt: timex.EnsureUTC(s.ExpiresAt),
	}
}

// State returns a copy of the persisted fields.
func (s *UserSession) State() UserSessionState {
	return UserSessionState{
		ID:        s.id,
		UserID:    s.userID,
		Token:     s.token,
		CreatedAt: s.createdAt,
		ExpiresAt: s.expiresAt,
	}
}

func (s *UserSession) ID() ids.UserSessionID { return s.id }
func (s *UserSession) UserID() ids.UserID    { return s.userID }
func (s *UserSession) Token() string         { return s.token }
func (s *UserSession) CreatedAt() time.Time  { return s.createdAt }
func (s *UserSession) ExpiresAt() time.Time  { return s.expiresAt }

// IsActive reports whether the session has not expired yet.
func (s *UserSession) IsActive() bool {
	return s.IsActiveAt(now())
}

// IsActiveAt reports whether the session is still valid at t.
func (s *UserSession) IsActiveAt(t time.Time) bool {
	return t.Before(s.expiresAt)
}

func (s *UserSession) Status() SessionStatus {
	if s.IsActive() {
		return SessionActive
	}
	return SessionExpired
}

// ExtendValidity moves the expiry to until, which must lie after both the
// creation time and the current time.
func (s *UserSession) ExtendValidity(until time.Time) error {
	until = timex.EnsureUTC(until)
	if !until.After(s.createdAt) {
		return common.NewInvalidOperationError("expires_at", "must be after the session creation time")
	}
	if !until.After(now()) {
		return common.NewInvalidOperationError("expires_at", "must be in the future")
	}
	s.expiresAt = until
	return nil
}
