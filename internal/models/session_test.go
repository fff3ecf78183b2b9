package models

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserSession_DefaultValidity(t *testing.T) {
	useFakeClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	s, err := NewUserSession(ids.NewUserID(), "token")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.ID().String(), "USESS"))
	assert.Equal(t, s.CreatedAt().AddDate(0, 0, 30), s.ExpiresAt())
	assert.True(t, s.IsActive())
	assert.Equal(t, SessionActive, s.Status())
	assert.Equal(t, "active", s.Status().String())
}

func TestNewUserSession_CustomValidity(t *testing.T) {
	useFakeClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	s, err := NewUserSession(ids.NewUserID(), "token", WithValidityDays(7))
	require.NoError(t, err)
	assert.Equal(t, s.CreatedAt().AddDate(0, 0, 7), s.ExpiresAt())

	_, err = NewUserSession(ids.NewUserID(), "token", WithValidityDays(0))
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestNewUserSession_Invalid(t *testing.T) {
	_, err := NewUserSession(ids.UserID{}, "token")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = NewUserSession(ids.NewUserID(), "   ")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewUserSession(ids.NewUserID(), strings.Repeat("x", MaxTokenLength+1))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUserSession_Expires(t *testing.T) {
	clock := useFakeClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	s, err := NewUserSession(ids.NewUserID(), "token", WithValidityDays(1))
	require.NoError(t, err)

	clock.advance(23 * time.Hour)
	assert.True(t, s.IsActive())

	clock.advance(time.Hour)
	assert.False(t, s.IsActive(), "expiry instant itself is not active")
	assert.Equal(t, SessionExpired, s.Status())
	assert.Equal(t, "expired", s.Status().String())
}

func TestUserSession_ExtendValidity(t *testing.T) {
	clock := useFakeClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	s, err := NewUserSession(ids.NewUserID(), "token")
	require.NoError(t, err)
	created := s.CreatedAt()

	err = s.ExtendValidity(created.Add(-time.Hour))
	assert.ErrorIs(t, err, common.ErrInvalidOperation)

	clock.advance(48 * time.Hour)
	err = s.ExtendValidity(created.Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrInvalidOperation, "past instants are rejected")

	local := time.FixedZone("EET", 2*60*60)
	until := created.AddDate(0, 2, 0).In(local)
	require.NoError(t, s.ExtendValidity(until))
	assert.True(t, s.ExpiresAt().Equal(until))
	assert.Equal(t, time.UTC, s.ExpiresAt().Location())
}

func TestRestoreUserSession(t *testing.T) {
	local := time.FixedZone("EET", 2*60*60)
	st := UserSessionState{
		ID:        ids.NewUserSessionID(),
		UserID:    ids.NewUserID(),
		Token:     "t",
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, local),
		ExpiresAt: time.Date(2025, 1, 31, 10, 0, 0, 0, local),
	}

	s := RestoreUserSession(st)
	assert.Equal(t, st.ID, s.ID())
	assert.Equal(t, st.UserID, s.UserID())
	assert.Equal(t, time.UTC, s.CreatedAt().Location())
	assert.True(t, s.ExpiresAt().Equal(st.ExpiresAt))
	assert.Equal(t, s.State(), RestoreUserSession(s.State()).State())
}
