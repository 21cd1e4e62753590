// internal/db/payments.go
package db

import (
	"context"
	"time"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusCancelled = "cancelled"

	PaymentMethodCash    = "cash"
	PaymentMethodCard    = "card"
	PaymentMethodBanking = "banking"
)

type Payment struct {
	ID          int64
	OrderID     int64
	CustomerID  int64
	AmountCents int64
	Method      string
	Status      string
	Description string
	CreatedAt   time.Time
}

type CreatePaymentParams struct {
	OrderID     int64
	CustomerID  int64
	AmountCents int64
	Method      string
	Status      string
	Description string
	CreatedAt   time.Time
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO payments (order_id, customer_id, amount_cents, method, status, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.OrderID, arg.CustomerID, arg.AmountCents, arg.Method, arg.Status, arg.Description, arg.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

// GetPaymentByDescription looks a payment up by its unique correlation token.
func (q *Queries) GetPaymentByDescription(ctx context.Context, description string) (Payment, error) {
	var payment Payment
	err := q.db.QueryRowContext(ctx,
		`SELECT id, order_id, customer_id, amount_cents, method, status, description, created_at
		 FROM payments WHERE description = ?`,
		description,
	).Scan(&payment.ID, &payment.OrderID, &payment.CustomerID, &payment.AmountCents,
		&payment.Method, &payment.Status, &payment.Description, &payment.CreatedAt)
	return payment, err
}

// GetPaymentByOrder returns the order's payment. The checkout flow creates
// exactly one payment per order.
func (q *Queries) GetPaymentByOrder(ctx context.Context, orderID int64) (Payment, error) {
	var payment Payment
	err := q.db.QueryRowContext(ctx,
		`SELECT id, order_id, customer_id, amount_cents, method, status, description, created_at
		 FROM payments WHERE order_id = ?`,
		orderID,
	).Scan(&payment.ID, &payment.OrderID, &payment.CustomerID, &payment.AmountCents,
		&payment.Method, &payment.Status, &payment.Description, &payment.CreatedAt)
	return payment, err
}

func (q *Queries) GetPayment(ctx context.Context, id int64) (Payment, error) {
	var payment Payment
	err := q.db.QueryRowContext(ctx,
		`SELECT id, order_id, customer_id, amount_cents, method, status, description, created_at
		 FROM payments WHERE id = ?`,
		id,
	).Scan(&payment.ID, &payment.OrderID, &payment.CustomerID, &payment.AmountCents,
		&payment.Method, &payment.Status, &payment.Description, &payment.CreatedAt)
	return payment, err
}

// MarkPaymentSuccess transitions a pending payment to success. The status
// guard makes the update a no-op when another confirmation already won.
func (q *Queries) MarkPaymentSuccess(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE payments SET status = 'success' WHERE id = ? AND status = 'pending'`,
		id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ConfirmOrderBookings bulk-promotes the order's pending bookings to
// confirmed and returns how many rows changed.
func (q *Queries) ConfirmOrderBookings(ctx context.Context, orderID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'confirmed' WHERE order_id = ? AND status = 'pending'`,
		orderID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
