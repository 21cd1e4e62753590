// internal/booking/availability.go

// Package booking evaluates court availability: point checks for a requested
// interval and free-slot computation over a window. All intervals are
// half-open [start, end).
package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/courtsidehq/courtside/internal/config"
	"github.com/courtsidehq/courtside/internal/db"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// FreeWithin sweeps the busy intervals left to right and returns the maximal
// ordered set of free sub-intervals of window. Busy intervals may overlap
// each other and may extend past the window edges.
func FreeWithin(window Interval, busy []Interval) []Interval {
	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []Interval
	cursor := window.Start
	for _, block := range sorted {
		if cursor.Before(block.Start) {
			free = append(free, Interval{Start: cursor, End: block.Start})
		}
		if block.End.After(cursor) {
			cursor = block.End
		}
	}
	if cursor.Before(window.End) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}

// Evaluator answers availability questions against the store. It is
// read-only; write-time rechecks run through the same queries inside the
// order transaction.
type Evaluator struct {
	queries  *db.Queries
	facility config.FacilityConfig
}

func NewEvaluator(queries *db.Queries, facility config.FacilityConfig) *Evaluator {
	return &Evaluator{queries: queries, facility: facility}
}

// OperatingWindow returns the facility's operating hours for the calendar
// day containing now, in the facility's civil time zone.
func (e *Evaluator) OperatingWindow(now time.Time) Interval {
	loc := e.facility.Location()
	local := now.In(loc)
	year, month, day := local.Date()
	return Interval{
		Start: time.Date(year, month, day, e.facility.OpenHour, 0, 0, 0, loc),
		End:   time.Date(year, month, day, e.facility.CloseHour, 0, 0, 0, loc),
	}
}

// IsCourtFree reports whether the court can take a booking for [start, end).
// The court must exist, be globally available, and have no overlapping
// non-cancelled booking. The caller must have rejected end <= start already.
func (e *Evaluator) IsCourtFree(ctx context.Context, courtID int64, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, fmt.Errorf("end time must be after start time")
	}

	court, err := e.queries.GetCourt(ctx, courtID)
	if err != nil {
		return false, err
	}
	if court.Status != db.CourtStatusAvailable {
		return false, nil
	}

	overlapping, err := e.queries.CountOverlappingBookings(ctx, courtID, start, end)
	if err != nil {
		return false, err
	}
	return overlapping == 0, nil
}

// FreeSlots merges the court's non-cancelled bookings and training-schedule
// blocks intersecting the window and returns the free gaps between them.
func (e *Evaluator) FreeSlots(ctx context.Context, courtID int64, window Interval) ([]Interval, error) {
	if !window.End.After(window.Start) {
		return nil, fmt.Errorf("window end must be after window start")
	}

	blocks, err := e.queries.ListCourtBusyIntervals(ctx, courtID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	busy := make([]Interval, len(blocks))
	for i, block := range blocks {
		busy[i] = Interval{Start: block.Start, End: block.End}
	}
	return FreeWithin(window, busy), nil
}
