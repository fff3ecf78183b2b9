package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/domca/internal/avatars"
	"github.com/dmitrijs2005/domca/internal/config"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/logging"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", SessionValidityDays: 30}
}

// useNow pins the service clock to t until the test ends.
func useNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

type fakeAvatars struct {
	up  *avatars.Upload
	err error
}

func (f *fakeAvatars) PresignUpload(ctx context.Context, userID ids.UserID) (*avatars.Upload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.up, nil
}

func newAccount(t *testing.T, av AvatarStore) (*AccountService, *memStore) {
	t.Helper()
	m := newMemStore()
	return NewAccountService(memManager{m}, av, testConfig(), logging.Discard()), m
}

func register(t *testing.T, s *AccountService, email, password string) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		UserName:  email,
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)
	return u
}
