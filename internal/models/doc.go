// Package models holds the self-validating domain entities.
//
// Each validated entity has two construction paths:
//
//   - New* validates raw input, mints a fresh identifier and stamps the
//     creation time. Use it when the entity is created by the application.
//   - Restore* rebuilds an entity from trusted storage without running
//     field validation; only timestamps are normalized to UTC. Repositories
//     must use this path.
//
// After construction, state changes only through behavior methods, which
// keep the entity's invariants. Entities carry no locks: a single instance
// must not be mutated from several goroutines at once.
//
// Typical Usage
//
//	u, err := models.NewUser(models.NewUserParams{...})
//	s, err := models.NewUserSession(u.ID(), token)
//	err = u.AddSession(s)
//	r, err := models.NewHydrationRecord(u.ID(), time.Now(), 250)
//	err = u.LogHydration(r)
package models
