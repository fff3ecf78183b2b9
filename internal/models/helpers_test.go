package models

import (
	"testing"
	"time"
)

// fakeClock pins now() for the duration of a test and lets it advance.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func useFakeClock(t *testing.T, start time.Time) *fakeClock {
	t.Helper()
	c := &fakeClock{t: start.UTC()}
	orig := now
	now = func() time.Time { return c.t }
	t.Cleanup(func() { now = orig })
	return c
}

func validUserParams() NewUserParams {
	return NewUserParams{
		FirstName:    "Anna",
		LastName:     "Berzina",
		UserName:     "anna",
		Email:        "Anna@Example.com",
		PasswordHash: "hash",
		PasswordSalt: "salt",
	}
}
