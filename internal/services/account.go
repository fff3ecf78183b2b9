package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/domca/internal/auth"
	"github.com/dmitrijs2005/domca/internal/avatars"
	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/config"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/logging"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/passwords"
	"github.com/dmitrijs2005/domca/internal/repositories/repomanager"
	"github.com/dmitrijs2005/domca/internal/repositories/users"
)

// AvatarStore presigns avatar uploads.
type AvatarStore interface {
	PresignUpload(ctx context.Context, userID ids.UserID) (*avatars.Upload, error)
}

// RegisterInput is the raw sign-up form.
type RegisterInput struct {
	FirstName string
	LastName  string
	UserName  string
	Email     string
	Password  string
}

// AccountService handles registration, sign-in and session tokens, and
// profile changes.
type AccountService struct {
	repomanager  repomanager.RepositoryManager
	avatars      AvatarStore
	secret       []byte
	validityDays int
	log          logging.Logger

	// Compared against when the email is unknown, so a miss costs the
	// same as a wrong password. Derived on the first miss.
	dummy func() (credentials, error)
}

type credentials struct {
	hash, salt string
}

func dummyCredentials() (credentials, error) {
	hash, salt, err := passwords.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)))
	if err != nil {
		return credentials{}, fmt.Errorf("dummy password: %w", err)
	}
	return credentials{hash: hash, salt: salt}, nil
}

// NewAccountService constructs an AccountService. avatars may be nil when
// avatar uploads are not configured.
func NewAccountService(m repomanager.RepositoryManager, avatars AvatarStore, cfg *config.Config, log logging.Logger) *AccountService {
	if log == nil {
		log = logging.Discard()
	}
	return &AccountService{
		repomanager:  m,
		avatars:      avatars,
		secret:       []byte(cfg.SecretKey),
		validityDays: cfg.SessionValidityDays,
		log:          log.With("service", "account"),
		dummy:        sync.OnceValues(dummyCredentials),
	}
}

// Register creates a user. The email must not be taken by another user in
// any letter case, and the user name must be free.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	repo := s.repomanager.Users()

	unique, err := repo.IsEmailUnique(ctx, in.Email)
	if err != nil {
		return nil, internal(ctx, s.log, "email lookup failed", err)
	}
	if !unique {
		return nil, common.ErrEmailTaken
	}

	if in.UserName != "" {
		_, err := repo.GetByUserName(ctx, in.UserName)
		switch {
		case err == nil:
			return nil, common.NewValidationError("user_name", "already taken")
		case !errors.Is(err, common.ErrorNotFound):
			return nil, internal(ctx, s.log, "user name lookup failed", err)
		}
	}

	hash, salt, err := passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := models.NewUser(models.NewUserParams{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		return nil, err
	}

	if err := repo.Add(u); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, uniqueConflict(err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID())
	return u, nil
}

// SignIn checks the credentials and opens a new session. Unknown emails and
// wrong passwords both yield common.ErrorUnauthorized.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*models.UserSession, error) {
	u, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if c, err := s.dummy(); err != nil {
				s.log.Error(ctx, "dummy password unavailable", "error", err)
			} else {
				_, _ = passwords.Verify(password, c.hash, c.salt)
			}
			return nil, common.ErrorUnauthorized
		}
		return nil, internal(ctx, s.log, "user lookup failed", err)
	}

	ok, err := passwords.Verify(password, u.PasswordHash(), u.PasswordSalt())
	if err != nil {
		return nil, internal(ctx, s.log, "password verification failed", err)
	}
	if !ok {
		s.log.Warn(ctx, "wrong password", "user_id", u.ID())
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(u.ID(), s.secret, now())
	if err != nil {
		return nil, internal(ctx, s.log, "token generation failed", err)
	}

	sess, err := models.NewUserSession(u.ID(), token, models.WithValidityDays(s.validityDays))
	if err != nil {
		return nil, err
	}
	if err := u.AddSession(sess); err != nil {
		return nil, err
	}
	if err := s.repomanager.Sessions().Add(sess); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "session opened", "user_id", u.ID(), "session_id", sess.ID())
	return sess, nil
}

// Authenticate resolves token to its active session.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.UserSession, error) {
	sess, err := s.sessionFor(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sess.IsActiveAt(now()) {
		return nil, common.ErrSessionExpired
	}
	return sess, nil
}

// ExtendSession moves the expiry of the active session behind token to until.
func (s *AccountService) ExtendSession(ctx context.Context, token string, until time.Time) (*models.UserSession, error) {
	sess, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := sess.ExtendValidity(until); err != nil {
		return nil, err
	}
	if err := s.repomanager.Sessions().Update(sess); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, err
	}
	return sess, nil
}

// SignOut deletes the session behind token. Expired sessions may be signed
// out too.
func (s *AccountService) SignOut(ctx context.Context, token string) error {
	sess, err := s.sessionFor(ctx, token)
	if err != nil {
		return err
	}
	if err := s.repomanager.Sessions().Remove(sess); err != nil {
		return err
	}
	_, err = save(ctx, s.repomanager)
	return err
}

// ChangePassword replaces the password after checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID ids.UserID, current, next string) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := passwords.Verify(current, u.PasswordHash(), u.PasswordSalt())
	if err != nil {
		return internal(ctx, s.log, "password verification failed", err)
	}
	if !ok {
		return common.ErrorUnauthorized
	}

	hash, salt, err := passwords.Hash(next)
	if err != nil {
		return err
	}
	if err := u.ChangePassword(hash, salt); err != nil {
		return err
	}
	return s.update(ctx, u)
}

// ChangeEmail moves the user to a new address that no other user holds.
func (s *AccountService) ChangeEmail(ctx context.Context, userID ids.UserID, email string) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}

	if models.NormalizeEmail(email) != u.EmailNormalized() {
		unique, err := s.repomanager.Users().IsEmailUnique(ctx, email)
		if err != nil {
			return internal(ctx, s.log, "email lookup failed", err)
		}
		if !unique {
			return common.ErrEmailTaken
		}
	}

	if err := u.ChangeEmail(email); err != nil {
		return err
	}
	return uniqueConflict(s.update(ctx, u))
}

// UpdateProfile replaces the user's names and avatar.
func (s *AccountService) UpdateProfile(ctx context.Context, userID ids.UserID, firstName, lastName string, avatar *url.URL) (*models.User, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(firstName, lastName, avatar); err != nil {
		return nil, err
	}
	if err := s.update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// RequestAvatarUpload presigns an upload for a new avatar and makes the
// resulting object the user's avatar.
func (s *AccountService) RequestAvatarUpload(ctx context.Context, userID ids.UserID) (*avatars.Upload, error) {
	if s.avatars == nil {
		return nil, common.NewInvalidOperationError("avatar", "avatar storage is not configured")
	}

	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	up, err := s.avatars.PresignUpload(ctx, userID)
	if err != nil {
		return nil, internal(ctx, s.log, "avatar presign failed", err)
	}

	if err := u.UpdateProfile(u.FirstName(), u.LastName(), up.Reference); err != nil {
		return nil, err
	}
	if err := s.update(ctx, u); err != nil {
		return nil, err
	}
	return up, nil
}

// PurgeExpiredSessions deletes every session expired at before and returns
// how many were removed.
func (s *AccountService) PurgeExpiredSessions(ctx context.Context, before time.Time) (int, error) {
	s.repomanager.Sessions().RemoveExpired(before)
	n, err := save(ctx, s.repomanager)
	if err != nil {
		return 0, err
	}
	s.log.Info(ctx, "expired sessions purged", "count", n)
	return n, nil
}

// sessionFor verifies token and loads its session regardless of expiry.
func (s *AccountService) sessionFor(ctx context.Context, token string) (*models.UserSession, error) {
	userID, err := auth.GetUserIDFromToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	sess, err := s.repomanager.Sessions().GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internal(ctx, s.log, "session lookup failed", err)
	}
	if sess.UserID() != userID {
		return nil, common.ErrInvalidToken
	}
	return sess, nil
}

func (s *AccountService) user(ctx context.Context, id ids.UserID) (*models.User, error) {
	u, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, err)
		}
		return nil, internal(ctx, s.log, "user lookup failed", err)
	}
	return u, nil
}

// uniqueConflict turns a commit rejected by a concurrent registration into
// the error the upfront check would have returned.
func uniqueConflict(err error) error {
	switch {
	case users.IsEmailConflict(err):
		return common.ErrEmailTaken
	case users.IsUserNameConflict(err):
		return common.NewValidationError("user_name", "already taken")
	}
	return err
}

func (s *AccountService) update(ctx context.Context, u *models.User) error {
	if err := s.repomanager.Users().Update(u); err != nil {
		return err
	}
	_, err := save(ctx, s.repomanager)
	return err
}
