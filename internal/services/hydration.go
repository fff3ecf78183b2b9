package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/logging"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/repositories/repomanager"
	"github.com/dmitrijs2005/domca/internal/timex"
)

// Summary aggregates the intake of one period.
type Summary struct {
	From    time.Time
	To      time.Time
	Records []*models.HydrationRecord
	TotalMl int
	Count   int
}

func newSummary(from, to time.Time, records []*models.HydrationRecord) *Summary {
	return &Summary{
		From:    from,
		To:      to,
		Records: records,
		TotalMl: models.TotalMl(records),
		Count:   len(records),
	}
}

// HydrationService logs water intake and summarizes it per calendar period.
type HydrationService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewHydrationService(m repomanager.RepositoryManager, log logging.Logger) *HydrationService {
	if log == nil {
		log = logging.Discard()
	}
	return &HydrationService{repomanager: m, log: log.With("service", "hydration")}
}

// Log records amountMl of water for the user at at; a zero at means now.
func (s *HydrationService) Log(ctx context.Context, userID ids.UserID, amountMl int, at time.Time) (*models.HydrationRecord, error) {
	users := s.repomanager.Users()

	u, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, err)
		}
		return nil, internal(ctx, s.log, "user lookup failed", err)
	}

	r, err := models.NewHydrationRecord(userID, at, amountMl)
	if err != nil {
		return nil, err
	}
	if err := u.LogHydration(r); err != nil {
		return nil, err
	}

	// Update persists the new record along with the user.
	if err := users.Update(u); err != nil {
		return nil, err
	}
	if _, err := save(ctx, s.repomanager); err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "hydration logged", "user_id", userID, "amount_ml", amountMl)
	return r, nil
}

// Today summarizes the current UTC day.
func (s *HydrationService) Today(ctx context.Context, userID ids.UserID) (*Summary, error) {
	return s.Day(ctx, userID, now())
}

// Day summarizes the UTC calendar day containing day.
func (s *HydrationService) Day(ctx context.Context, userID ids.UserID, day time.Time) (*Summary, error) {
	rs, err := s.repomanager.Hydration().GetByUserForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	from := timex.StartOfDay(day)
	return newSummary(from, from.AddDate(0, 0, 1), rs), nil
}

// Week summarizes the Monday-based week containing reference.
func (s *HydrationService) Week(ctx context.Context, userID ids.UserID, reference time.Time) (*Summary, error) {
	rs, err := s.repomanager.Hydration().GetByUserForWeek(ctx, userID, reference)
	if err != nil {
		return nil, err
	}
	from := timex.StartOfWeek(reference)
	return newSummary(from, from.AddDate(0, 0, 7), rs), nil
}

func (s *HydrationService) Month(ctx context.Context, userID ids.UserID, month time.Month, year int) (*Summary, error) {
	rs, err := s.repomanager.Hydration().GetByUserForMonth(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return newSummary(from, from.AddDate(0, 1, 0), rs), nil
}

func (s *HydrationService) Year(ctx context.Context, userID ids.UserID, year int) (*Summary, error) {
	rs, err := s.repomanager.Hydration().GetByUserForYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return newSummary(from, from.AddDate(1, 0, 0), rs), nil
}
