// internal/db/courts.go
package db

import (
	"context"
	"time"
)

const (
	CourtStatusAvailable   = "available"
	CourtStatusUnavailable = "unavailable"
)

type Court struct {
	ID            int64
	CourtType     string
	Status        string
	HourRateCents int64
}

func (q *Queries) GetCourt(ctx context.Context, id int64) (Court, error) {
	var court Court
	err := q.db.QueryRowContext(ctx,
		`SELECT id, court_type, status, hour_rate_cents FROM courts WHERE id = ?`,
		id,
	).Scan(&court.ID, &court.CourtType, &court.Status, &court.HourRateCents)
	return court, err
}

func (q *Queries) ListCourts(ctx context.Context, status string) ([]Court, error) {
	query := `SELECT id, court_type, status, hour_rate_cents FROM courts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []Court
	for rows.Next() {
		var court Court
		if err := rows.Scan(&court.ID, &court.CourtType, &court.Status, &court.HourRateCents); err != nil {
			return nil, err
		}
		courts = append(courts, court)
	}
	return courts, rows.Err()
}

type CreateCourtParams struct {
	CourtType     string
	Status        string
	HourRateCents int64
}

func (q *Queries) CreateCourt(ctx context.Context, arg CreateCourtParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO courts (court_type, status, hour_rate_cents) VALUES (?, ?, ?)`,
		arg.CourtType, arg.Status, arg.HourRateCents,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

func (q *Queries) UpdateCourtStatus(ctx context.Context, id int64, status string) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE courts SET status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountOverlappingBookings reports how many non-cancelled bookings on the
// court intersect the half-open interval [start, end).
func (q *Queries) CountOverlappingBookings(ctx context.Context, courtID int64, start, end time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE court_id = ? AND status != 'cancelled' AND starts_at < ? AND ends_at > ?`,
		courtID, end.UTC(), start.UTC(),
	).Scan(&count)
	return count, err
}

// BusyInterval is one occupied block on a court, from either a booking or a
// training schedule.
type BusyInterval struct {
	Start  time.Time
	End    time.Time
	Source string
	ID     int64
}

// ListCourtBusyIntervals returns every non-cancelled booking and every
// training-schedule block on the court that intersects [windowStart,
// windowEnd), ordered by start time, then source ('booking' before
// 'schedule'), then id for a deterministic sweep.
func (q *Queries) ListCourtBusyIntervals(ctx context.Context, courtID int64, windowStart, windowEnd time.Time) ([]BusyInterval, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT starts_at, ends_at, 'booking' AS source, id FROM bookings
		 WHERE court_id = ? AND status != 'cancelled' AND starts_at < ? AND ends_at > ?
		 UNION ALL
		 SELECT starts_at, ends_at, 'schedule' AS source, session_id AS id FROM training_schedules
		 WHERE court_id = ? AND starts_at < ? AND ends_at > ?
		 ORDER BY starts_at, source, id`,
		courtID, windowEnd.UTC(), windowStart.UTC(),
		courtID, windowEnd.UTC(), windowStart.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intervals []BusyInterval
	for rows.Next() {
		var interval BusyInterval
		if err := rows.Scan(&interval.Start, &interval.End, &interval.Source, &interval.ID); err != nil {
			return nil, err
		}
		intervals = append(intervals, interval)
	}
	return intervals, rows.Err()
}
