package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for stay dates, both in vendor requests and
// generated booking links.
const DateLayout = "2006-01-02"

// StayQuery carries the search parameters for one availability request.
// Callers validate CheckOut > CheckIn before handing it to the core.
type StayQuery struct {
	CheckIn      time.Time
	CheckOut     time.Time
	Adults       int
	Children     int
	CurrencyCode string
}

func (q StayQuery) Validate() error {
	if q.CheckIn.IsZero() || q.CheckOut.IsZero() {
		return fmt.Errorf("checkIn and checkOut are required")
	}
	if !q.CheckOut.After(q.CheckIn) {
		return fmt.Errorf("checkOut must be after checkIn")
	}
	if q.Adults < 1 {
		return fmt.Errorf("adults must be >= 1")
	}
	if q.Children < 0 {
		return fmt.Errorf("children must be >= 0")
	}
	return nil
}

// Key returns a deterministic cache-key fragment for this query.
func (q StayQuery) Key() string {
	return fmt.Sprintf("%s:%s:%d:%d:%s",
		q.CheckIn.Format(DateLayout), q.CheckOut.Format(DateLayout),
		q.Adults, q.Children, q.CurrencyCode)
}
