package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/timex"
)

// Column limits shared with the schema.
const (
	MaxNameLength     = 100
	MaxUserNameLength = 50
	MaxEmailLength    = 255
)

// User is the aggregate root owning a user's sessions and hydration records.
type User struct {
	id              ids.UserID
	firstName       string
	lastName        string
	userName        string
	email           string
	emailNormalized string
	passwordHash    string
	passwordSalt    string
	avatarURL       *url.URL
	createdAt       time.Time
	updatedAt       time.Time

	sessions         []*UserSession
	hydrationRecords []*HydrationRecord

	// attached since construction or the last TakeAdded
	addedSessions []*UserSession
	addedRecords  []*HydrationRecord
}

// NewUserParams carries the raw input for NewUser.
type NewUserParams struct {
	FirstName    string   `json:"first_name" validate:"notblank,max=100"`
	LastName     string   `json:"last_name" validate:"notblank,max=100"`
	UserName     string   `json:"user_name" validate:"notblank,max=50"`
	Email        string   `json:"email" validate:"notblank,max=255,email"`
	PasswordHash string   `json:"password_hash" validate:"notblank"`
	PasswordSalt string   `json:"password_salt" validate:"notblank"`
	AvatarURL    *url.URL `json:"avatar_url"`
}

// NewUser validates p and returns a user with a fresh ID. CreatedAt and
// UpdatedAt are equal and in UTC.
func NewUser(p NewUserParams) (*User, error) {
	p.Email = strings.TrimSpace(p.Email)
	if err := validateStruct(p, common.ErrValidation); err != nil {
		return nil, err
	}

	ts := now()
	return &User{
		id:              ids.NewUserID(),
		firstName:       p.FirstName,
		lastName:        p.LastName,
		userName:        p.UserName,
		email:           p.Email,
		emailNormalized: NormalizeEmail(p.Email),
		passwordHash:    p.PasswordHash,
		passwordSalt:    p.PasswordSalt,
		avatarURL:       cloneURL(p.AvatarURL),
		createdAt:       ts,
		updatedAt:       ts,
	}, nil
}

// UserState is the persisted shape of a User.
type UserState struct {
	ID              ids.UserID
	FirstName       string
	LastName        string
	UserName        string
	Email           string
	EmailNormalized string
	PasswordHash    string
	PasswordSalt    string
	AvatarURL       *url.URL
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RestoreUser rebuilds a user loaded from storage. No validation is done.
func RestoreUser(s UserState, sessions []*UserSession, records []*HydrationRecord) *User {
	normalized := s.EmailNormalized
	if normalized == "" {
		normalized = NormalizeEmail(s.Email)
	}
	return &User{
		id:               s.ID,
		firstName:        s.FirstName,
		lastName:         s.LastName,
		userName:         s.UserName,
		email:            s.Email,
		emailNormalized:  normalized,
		passwordHash:     s.PasswordHash,
		passwordSalt:     s.PasswordSalt,
		avatarURL:        cloneURL(s.AvatarURL),
		createdAt:        timex.EnsureUTC(s.CreatedAt),
		updatedAt:        timex.EnsureUTC(s.UpdatedAt),
		sessions:         append([]*UserSession(nil), sessions...),
		hydrationRecords: append([]*HydrationRecord(nil), records...),
	}
}

// State returns a copy of the persisted fields.
func (u *User) State() UserState {
	return UserState{
		ID:              u.id,
		FirstName:       u.firstName,
		LastName:        u.lastName,
		UserName:        u.userName,
		Email:           u.email,
		EmailNormalized: u.emailNormalized,
		PasswordHash:    u.passwordHash,
		PasswordSalt:    u.passwordSalt,
		AvatarURL:       cloneURL(u.avatarURL),
		CreatedAt:       u.createdAt,
		UpdatedAt:       u.updatedAt,
	}
}

func (u *User) ID() ids.UserID          { return u.id }
func (u *User) FirstName() string       { return u.firstName }
func (u *User) LastName() string        { return u.lastName }
func (u *User) UserName() string        { return u.userName }
func (u *User) Email() string           { return u.email }
func (u *User) EmailNormalized() string { return u.emailNormalized }
func (u *User) PasswordHash() string    { return u.passwordHash }
func (u *User) PasswordSalt() string    { return u.passwordSalt }
func (u *User) AvatarURL() *url.URL     { return cloneURL(u.avatarURL) }
func (u *User) CreatedAt() time.Time    { return u.createdAt }
func (u *User) UpdatedAt() time.Time    { return u.updatedAt }

// Sessions returns the user's sessions. The slice is a copy.
func (u *User) Sessions() []*UserSession {
	return append([]*UserSession(nil), u.sessions...)
}

// HydrationRecords returns the user's hydration records. The slice is a copy.
func (u *User) HydrationRecords() []*HydrationRecord {
	return append([]*HydrationRecord(nil), u.hydrationRecords...)
}

// UpdateProfile replaces the names and the avatar reference. avatar may be nil.
func (u *User) UpdateProfile(firstName, lastName string, avatar *url.URL) error {
	if err := validateValue("first_name", firstName, "notblank,max=100", common.ErrInvalidArgument); err != nil {
		return err
	}
	if err := validateValue("last_name", lastName, "notblank,max=100", common.ErrInvalidArgument); err != nil {
		return err
	}

	u.firstName = firstName
	u.lastName = lastName
	u.avatarURL = cloneURL(avatar)
	u.touch()
	return nil
}

// ChangeEmail sets a new address and its normalized mirror. Changing to an
// address that differs only in case is a no-op.
func (u *User) ChangeEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := validateValue("email", email, "notblank,max=255,email", common.ErrInvalidArgument); err != nil {
		return err
	}
	if strings.EqualFold(u.email, email) {
		return nil
	}

	u.email = email
	u.emailNormalized = NormalizeEmail(email)
	u.touch()
	return nil
}

// ChangePassword replaces the stored password hash and salt.
func (u *User) ChangePassword(hash, salt string) error {
	if err := validateValue("password_hash", hash, "notblank", common.ErrInvalidArgument); err != nil {
		return err
	}
	if err := validateValue("password_salt", salt, "notblank", common.ErrInvalidArgument); err != nil {
		return err
	}

	u.passwordHash = hash
	u.passwordSalt = salt
	u.touch()
	return nil
}

// AddSession attaches s to the user. It does not change UpdatedAt.
func (u *User) AddSession(s *UserSession) error {
	if s == nil {
		return common.NewInvalidArgumentError("session", "must not be nil")
	}
	if s.UserID() != u.id {
		return common.NewOwnershipError("session", "session does not belong to this user")
	}
	u.sessions = append(u.sessions, s)
	u.addedSessions = append(u.addedSessions, s)
	return nil
}

// LogHydration attaches r to the user and refreshes UpdatedAt.
func (u *User) LogHydration(r *HydrationRecord) error {
	if r == nil {
		return common.NewInvalidArgumentError("record", "must not be nil")
	}
	if r.UserID() != u.id {
		return common.NewOwnershipError("record", "hydration record does not belong to this user")
	}
	u.hydrationRecords = append(u.hydrationRecords, r)
	u.addedRecords = append(u.addedRecords, r)
	u.touch()
	return nil
}

// TakeAdded returns the sessions and records attached since the user was
// created or restored, or since the previous call, and forgets them.
func (u *User) TakeAdded() ([]*UserSession, []*HydrationRecord) {
	ss, rs := u.addedSessions, u.addedRecords
	u.addedSessions, u.addedRecords = nil, nil
	return ss, rs
}

func (u *User) touch() {
	u.updatedAt = timex.EnsureUTC(now())
}

// NormalizeEmail returns the trimmed, upper-cased form used for lookups and
// the uniqueness index. NewUser and ChangeEmail store the trimmed address.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
