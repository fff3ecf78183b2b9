package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/timex"
)

// MaxAmountMl is the exclusive upper bound of a single intake.
const MaxAmountMl = 10_000

// HydrationRecord is one logged water intake. Records are append-only.
type HydrationRecord struct {
	id       ids.HydrationRecordID
	userID   ids.UserID
	date     time.Time
	amountMl int
}

// NewHydrationRecord validates and creates a record. A zero at means now.
// amountMl must satisfy 0 < amountMl < MaxAmountMl.
func NewHydrationRecord(userID ids.UserID, at time.Time, amountMl int) (*HydrationRecord, error) {
	if userID.IsZero() {
		return nil, common.NewInvalidArgumentError("user_id", "must not be empty")
	}
	if amountMl <= 0 {
		return nil, common.NewInvalidArgumentError("amount_ml", "amount of water must be greater than zero")
	}
	if amountMl >= MaxAmountMl {
		return nil, common.NewInvalidArgumentError("amount_ml", fmt.Sprintf("amount of water must be less than %d", MaxAmountMl))
	}
	if at.IsZero() {
		at = now()
	}

	return &HydrationRecord{
		id:       ids.NewHydrationRecordID(),
		userID:   userID,
		date:     timex.EnsureUTC(at),
		amountMl: amountMl,
	}, nil
}

// HydrationRecordState is the persisted shape of a HydrationRecord.
type HydrationRecordState struct {
	ID       ids.HydrationRecordID
	UserID   ids.UserID
	Date     time.Time
	AmountMl int
}

// RestoreHydrationRecord rebuilds a record loaded from storage.
func RestoreHydrationRecord(s HydrationRecordState) *HydrationRecord {
	return &HydrationRecord{
		id:       s.ID,
		userID:   s.UserID,
		date:     timex.EnsureUTC(s.Date),
		amountMl: s.AmountMl,
	}
}

func (r *HydrationRecord) State() HydrationRecordState {
	return HydrationRecordState{ID: r.id, UserID: r.userID, Date: r.date, AmountMl: r.amountMl}
}

func (r *HydrationRecord) ID() ids.HydrationRecordID { return r.id }
func (r *HydrationRecord) UserID() ids.UserID        { return r.userID }
func (r *HydrationRecord) Date() time.Time           { return r.date }
func (r *HydrationRecord) AmountMl() int             { return r.amountMl }

// TotalMl sums the amounts of records.
func TotalMl(records []*HydrationRecord) int {
	total := 0
	for _, r := range records {
		total += r.amountMl
	}
	return total
}
