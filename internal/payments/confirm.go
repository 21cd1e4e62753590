// internal/payments/confirm.go

// Package payments transitions pending payments to success when the gateway
// confirms them out-of-band. Confirmation is idempotent: replayed webhooks
// for the same description are acknowledged without side effects.
package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	appdb "github.com/courtsidehq/courtside/internal/db"
	"github.com/courtsidehq/courtside/internal/email"
)

var ErrPaymentNotFound = errors.New("payment not found")

type Service struct {
	store  *appdb.DB
	sender email.Sender // nil disables receipts
}

func NewService(store *appdb.DB, sender email.Sender) *Service {
	return &Service{store: store, sender: sender}
}

type ConfirmResult struct {
	PaymentID         int64
	OrderID           int64
	AlreadyProcessed  bool
	PreviousStatus    string
	BookingsConfirmed int64
}

// Confirm looks the payment up by its unique description token and, if it is
// still pending, marks it success and promotes the order's pending bookings
// to confirmed in the same transaction. Status fields are the only thing
// this operation ever touches.
func (s *Service) Confirm(ctx context.Context, description string) (ConfirmResult, error) {
	logger := log.Ctx(ctx)

	payment, err := s.store.Queries.GetPaymentByDescription(ctx, description)
	if errors.Is(err, sql.ErrNoRows) {
		return ConfirmResult{}, ErrPaymentNotFound
	}
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("load payment: %w", err)
	}

	if payment.Status != appdb.PaymentStatusPending {
		logger.Info().
			Int64("payment_id", payment.ID).
			Str("status", payment.Status).
			Msg("Payment already processed, skipping")
		return ConfirmResult{
			PaymentID:        payment.ID,
			OrderID:          payment.OrderID,
			AlreadyProcessed: true,
			PreviousStatus:   payment.Status,
		}, nil
	}

	result := ConfirmResult{PaymentID: payment.ID, OrderID: payment.OrderID}
	err = s.store.RunInTx(ctx, func(tx *appdb.DB) error {
		qtx := tx.Queries

		affected, err := qtx.MarkPaymentSuccess(ctx, payment.ID)
		if err != nil {
			return fmt.Errorf("mark payment success: %w", err)
		}
		if affected == 0 {
			// A concurrent confirmation won between our read and this write.
			result.AlreadyProcessed = true
			result.PreviousStatus = appdb.PaymentStatusSuccess
			return nil
		}

		confirmed, err := qtx.ConfirmOrderBookings(ctx, payment.OrderID)
		if err != nil {
			return fmt.Errorf("confirm bookings: %w", err)
		}
		result.BookingsConfirmed = confirmed
		return nil
	})
	if err != nil {
		logger.Error().Err(err).
			Int64("payment_id", payment.ID).
			Msg("Payment confirmation rolled back")
		return ConfirmResult{}, err
	}

	logger.Info().
		Int64("payment_id", payment.ID).
		Int64("order_id", payment.OrderID).
		Int64("bookings_confirmed", result.BookingsConfirmed).
		Msg("Payment confirmed")

	if !result.AlreadyProcessed {
		s.sendReceipt(ctx, payment)
	}
	return result, nil
}

// sendReceipt delivers a best-effort receipt. Failures are logged and never
// surfaced to the gateway.
func (s *Service) sendReceipt(ctx context.Context, payment appdb.Payment) {
	if s.sender == nil {
		return
	}
	logger := log.Ctx(ctx)

	recipient, err := s.store.Queries.GetCustomerEmail(ctx, payment.CustomerID)
	if err != nil {
		logger.Warn().Err(err).Int64("customer_id", payment.CustomerID).Msg("Failed to resolve receipt recipient")
		return
	}

	subject, body := email.PaymentReceipt(payment.OrderID, payment.AmountCents, payment.Method)
	if err := s.sender.Send(ctx, recipient, subject, body); err != nil {
		logger.Warn().Err(err).Int64("payment_id", payment.ID).Msg("Failed to send payment receipt")
	}
}
