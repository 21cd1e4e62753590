// internal/orders/history.go
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appdb "github.com/courtsidehq/courtside/internal/db"
)

// OrderSummary is one past order with its full line-item breakdown.
type OrderSummary struct {
	Order     appdb.Order
	Bookings  []appdb.Booking
	Equipment []appdb.RentLine
	Food      []appdb.FoodLine
	Payment   *appdb.Payment
}

// History returns the customer's orders, newest first, each with nested
// bookings, equipment rentals, food lines, and payment.
func (s *Service) History(ctx context.Context, customerID int64) ([]OrderSummary, error) {
	q := s.store.Queries

	orderRows, err := q.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	summaries := make([]OrderSummary, 0, len(orderRows))
	for _, order := range orderRows {
		summary := OrderSummary{Order: order}

		if summary.Bookings, err = q.ListBookingsByOrder(ctx, order.ID); err != nil {
			return nil, fmt.Errorf("list bookings for order %d: %w", order.ID, err)
		}
		if summary.Equipment, err = q.ListRentsByOrder(ctx, order.ID); err != nil {
			return nil, fmt.Errorf("list rents for order %d: %w", order.ID, err)
		}
		if summary.Food, err = q.ListOrderFoodsByOrder(ctx, order.ID); err != nil {
			return nil, fmt.Errorf("list food for order %d: %w", order.ID, err)
		}

		payment, err := q.GetPaymentByOrder(ctx, order.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Legacy orders may predate the one-payment-per-order flow.
		case err != nil:
			return nil, fmt.Errorf("load payment for order %d: %w", order.ID, err)
		default:
			summary.Payment = &payment
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
