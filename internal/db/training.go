// internal/db/training.go
package db

import (
	"context"
	"time"
)

const (
	SessionStatusAvailable   = "available"
	SessionStatusUnavailable = "unavailable"
)

type Coach struct {
	ID              int64
	Name            string
	Specialty       string
	HourlyRateCents int64
}

type TrainingSession struct {
	ID          int64
	CoachID     int64
	CourtID     int64
	StartsAt    time.Time
	EndsAt      time.Time
	Level       string
	PriceCents  int64
	MaxStudents int64
	Status      string
}

type TrainingSchedule struct {
	SessionID int64
	CourtID   int64
	StartsAt  time.Time
	EndsAt    time.Time
}

func (q *Queries) ListCoaches(ctx context.Context) ([]Coach, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, specialty, hourly_rate_cents FROM coaches ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coaches []Coach
	for rows.Next() {
		var coach Coach
		if err := rows.Scan(&coach.ID, &coach.Name, &coach.Specialty, &coach.HourlyRateCents); err != nil {
			return nil, err
		}
		coaches = append(coaches, coach)
	}
	return coaches, rows.Err()
}

type CreateCoachParams struct {
	Name            string
	Specialty       string
	HourlyRateCents int64
}

func (q *Queries) CreateCoach(ctx context.Context, arg CreateCoachParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO coaches (name, specialty, hourly_rate_cents) VALUES (?, ?, ?)`,
		arg.Name, arg.Specialty, arg.HourlyRateCents,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

func (q *Queries) GetTrainingSession(ctx context.Context, id int64) (TrainingSession, error) {
	var session TrainingSession
	err := q.db.QueryRowContext(ctx,
		`SELECT id, coach_id, court_id, starts_at, ends_at, level, price_cents, max_students, status
		 FROM training_sessions WHERE id = ?`,
		id,
	).Scan(&session.ID, &session.CoachID, &session.CourtID, &session.StartsAt, &session.EndsAt,
		&session.Level, &session.PriceCents, &session.MaxStudents, &session.Status)
	return session, err
}

func (q *Queries) ListTrainingSessions(ctx context.Context, status string) ([]TrainingSession, error) {
	query := `SELECT id, coach_id, court_id, starts_at, ends_at, level, price_cents, max_students, status
		 FROM training_sessions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY starts_at, id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []TrainingSession
	for rows.Next() {
		var session TrainingSession
		if err := rows.Scan(&session.ID, &session.CoachID, &session.CourtID, &session.StartsAt, &session.EndsAt,
			&session.Level, &session.PriceCents, &session.MaxStudents, &session.Status); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type CreateTrainingSessionParams struct {
	CoachID     int64
	CourtID     int64
	StartsAt    time.Time
	EndsAt      time.Time
	Level       string
	PriceCents  int64
	MaxStudents int64
	Status      string
}

func (q *Queries) CreateTrainingSession(ctx context.Context, arg CreateTrainingSessionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO training_sessions (coach_id, court_id, starts_at, ends_at, level, price_cents, max_students, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.CoachID, arg.CourtID, arg.StartsAt.UTC(), arg.EndsAt.UTC(),
		arg.Level, arg.PriceCents, arg.MaxStudents, arg.Status,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

type AddTrainingScheduleParams struct {
	SessionID int64
	CourtID   int64
	StartsAt  time.Time
	EndsAt    time.Time
}

func (q *Queries) AddTrainingSchedule(ctx context.Context, arg AddTrainingScheduleParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO training_schedules (session_id, court_id, starts_at, ends_at) VALUES (?, ?, ?, ?)`,
		arg.SessionID, arg.CourtID, arg.StartsAt.UTC(), arg.EndsAt.UTC(),
	)
	return err
}

func (q *Queries) CountEnrollments(ctx context.Context, sessionID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE session_id = ?`,
		sessionID,
	).Scan(&count)
	return count, err
}

func (q *Queries) IsEnrolled(ctx context.Context, customerID, sessionID int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE customer_id = ? AND session_id = ?`,
		customerID, sessionID,
	).Scan(&count)
	return count > 0, err
}

// CreateEnrollment inserts the (customer, session) join row. The primary key
// on (customer_id, session_id) turns a duplicate race into a constraint
// error the caller maps to a conflict.
func (q *Queries) CreateEnrollment(ctx context.Context, customerID, sessionID int64, enrolledAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO enrollments (customer_id, session_id, enrolled_at) VALUES (?, ?, ?)`,
		customerID, sessionID, enrolledAt.UTC(),
	)
	return err
}
