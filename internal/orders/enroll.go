// internal/orders/enroll.go
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	appdb "github.com/courtsidehq/courtside/internal/db"
)

var (
	ErrSessionUnavailable = ValidationError{Reason: "training session is unavailable"}
	ErrSessionFull        = ValidationError{Reason: "training session is full"}
	ErrAlreadyEnrolled    = ConflictError{Reason: "already enrolled in this session"}
)

type EnrollResult struct {
	OrderID            int64
	PaymentID          int64
	PaymentDescription string
}

// Enroll is the single-item specialization of the order pipeline for
// training sessions. Preconditions are checked in a fixed order so each
// failure maps to a distinct error: session exists, session available, not
// already enrolled, capacity remaining. On success the order, pending
// payment, and enrollment row commit together.
func (s *Service) Enroll(ctx context.Context, customerID, sessionID int64, method string) (EnrollResult, error) {
	logger := log.Ctx(ctx)

	if !validPaymentMethod(method) {
		return EnrollResult{}, ValidationError{Reason: fmt.Sprintf("unsupported payment method %q", method)}
	}

	q := s.store.Queries

	session, err := q.GetTrainingSession(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return EnrollResult{}, NotFoundError{Kind: "training session", ID: sessionID}
	}
	if err != nil {
		return EnrollResult{}, fmt.Errorf("load training session %d: %w", sessionID, err)
	}
	if session.Status != appdb.SessionStatusAvailable {
		return EnrollResult{}, ErrSessionUnavailable
	}

	enrolled, err := q.IsEnrolled(ctx, customerID, sessionID)
	if err != nil {
		return EnrollResult{}, fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return EnrollResult{}, ErrAlreadyEnrolled
	}

	description := uuid.New().String()
	now := time.Now().UTC()

	var result EnrollResult
	err = s.store.RunInTx(ctx, func(tx *appdb.DB) error {
		qtx := tx.Queries

		// Capacity is read inside the transaction so the count reflects
		// committed enrollments at write time.
		count, err := qtx.CountEnrollments(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("count enrollments: %w", err)
		}
		if count >= session.MaxStudents {
			return ErrSessionFull
		}

		orderID, err := qtx.CreateOrder(ctx, appdb.CreateOrderParams{
			CustomerID: customerID,
			OrderDate:  now,
			TotalCents: session.PriceCents,
			SessionID:  sql.NullInt64{Int64: sessionID, Valid: true},
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		paymentID, err := qtx.CreatePayment(ctx, appdb.CreatePaymentParams{
			OrderID:     orderID,
			CustomerID:  customerID,
			AmountCents: session.PriceCents,
			Method:      method,
			Status:      appdb.PaymentStatusPending,
			Description: description,
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		if err := qtx.CreateEnrollment(ctx, customerID, sessionID, now); err != nil {
			// The (customer, session) primary key converts a duplicate race
			// into a conflict instead of a storage error.
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("create enrollment: %w", err)
		}

		result = EnrollResult{
			OrderID:            orderID,
			PaymentID:          paymentID,
			PaymentDescription: description,
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).
			Int64("customer_id", customerID).
			Int64("session_id", sessionID).
			Msg("Enrollment transaction rolled back")
		return EnrollResult{}, err
	}

	logger.Info().
		Int64("customer_id", customerID).
		Int64("session_id", sessionID).
		Int64("order_id", result.OrderID).
		Msg("Enrollment committed")
	return result, nil
}
