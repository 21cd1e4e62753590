// internal/orders/pipeline.go

// Package orders turns a cart-like request into a persisted order, its line
// records, inventory decrements, and a pending payment, atomically. Prices
// are always computed server-side.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/booking"
	appdb "github.com/courtsidehq/courtside/internal/db"
)

type Service struct {
	store        *appdb.DB
	availability *booking.Evaluator
}

func NewService(store *appdb.DB, availability *booking.Evaluator) *Service {
	return &Service{store: store, availability: availability}
}

type CourtItem struct {
	CourtID int64
	Start   time.Time
	End     time.Time
}

type EquipmentItem struct {
	EquipmentID int64
}

type FoodItem struct {
	FoodID int64
}

type PlaceOrderResult struct {
	OrderID            int64
	TotalCents         int64
	PaymentID          int64
	PaymentDescription string
}

// courtLine is a validated court item with its computed price.
type courtLine struct {
	item       CourtItem
	priceCents int64
}

type pricedLine struct {
	id         int64
	priceCents int64
}

// CourtPriceCents bills the court's hourly rate over the exact duration,
// truncated to the cent. Fractional hours are billed proportionally.
func CourtPriceCents(hourRateCents int64, start, end time.Time) int64 {
	seconds := int64(end.Sub(start) / time.Second)
	return hourRateCents * seconds / 3600
}

func validPaymentMethod(method string) bool {
	switch method {
	case appdb.PaymentMethodCash, appdb.PaymentMethodCard, appdb.PaymentMethodBanking:
		return true
	}
	return false
}

// PlaceOrder validates and prices every requested line item, then writes the
// order, bookings, rentals, food lines, stock decrements, and a pending
// payment in one transaction. Validation outside the transaction is
// advisory; overlap and stock are re-checked at write time.
func (s *Service) PlaceOrder(ctx context.Context, customerID int64, courtItems []CourtItem, equipmentItems []EquipmentItem, foodItems []FoodItem, method string) (PlaceOrderResult, error) {
	logger := log.Ctx(ctx)

	if len(courtItems) == 0 && len(equipmentItems) == 0 && len(foodItems) == 0 {
		return PlaceOrderResult{}, ErrEmptyOrder
	}
	if !validPaymentMethod(method) {
		return PlaceOrderResult{}, ValidationError{Reason: fmt.Sprintf("unsupported payment method %q", method)}
	}

	q := s.store.Queries

	var totalCents int64
	courtLines := make([]courtLine, 0, len(courtItems))
	for _, item := range courtItems {
		if !item.End.After(item.Start) {
			return PlaceOrderResult{}, ValidationError{
				Reason: fmt.Sprintf("court %d: end time must be after start time", item.CourtID),
			}
		}

		court, err := q.GetCourt(ctx, item.CourtID)
		if errors.Is(err, sql.ErrNoRows) {
			return PlaceOrderResult{}, NotFoundError{Kind: "court", ID: item.CourtID}
		}
		if err != nil {
			return PlaceOrderResult{}, fmt.Errorf("load court %d: %w", item.CourtID, err)
		}
		if court.Status != appdb.CourtStatusAvailable {
			return PlaceOrderResult{}, ValidationError{
				Reason: fmt.Sprintf("court %d is unavailable", item.CourtID),
			}
		}

		free, err := s.availability.IsCourtFree(ctx, item.CourtID, item.Start, item.End)
		if err != nil {
			return PlaceOrderResult{}, fmt.Errorf("check court %d availability: %w", item.CourtID, err)
		}
		if !free {
			return PlaceOrderResult{}, ConflictError{
				Reason: fmt.Sprintf("court %d is not free between %s and %s",
					item.CourtID, item.Start.UTC().Format(time.RFC3339), item.End.UTC().Format(time.RFC3339)),
			}
		}

		price := CourtPriceCents(court.HourRateCents, item.Start, item.End)
		courtLines = append(courtLines, courtLine{item: item, priceCents: price})
		totalCents += price
	}

	equipmentLines := make([]pricedLine, 0, len(equipmentItems))
	for _, item := range equipmentItems {
		unit, err := q.GetEquipment(ctx, item.EquipmentID)
		if errors.Is(err, sql.ErrNoRows) {
			return PlaceOrderResult{}, NotFoundError{Kind: "equipment", ID: item.EquipmentID}
		}
		if err != nil {
			return PlaceOrderResult{}, fmt.Errorf("load equipment %d: %w", item.EquipmentID, err)
		}
		if unit.Status != appdb.StockStatusAvailable {
			return PlaceOrderResult{}, ValidationError{
				Reason: fmt.Sprintf("equipment %d is unavailable", item.EquipmentID),
			}
		}
		if unit.Stock <= 0 {
			return PlaceOrderResult{}, ConflictError{
				Reason: fmt.Sprintf("equipment %d is out of stock", item.EquipmentID),
			}
		}
		equipmentLines = append(equipmentLines, pricedLine{id: item.EquipmentID, priceCents: unit.PriceCents})
		totalCents += unit.PriceCents
	}

	foodLines := make([]pricedLine, 0, len(foodItems))
	for _, item := range foodItems {
		food, err := q.GetFood(ctx, item.FoodID)
		if errors.Is(err, sql.ErrNoRows) {
			return PlaceOrderResult{}, NotFoundError{Kind: "food", ID: item.FoodID}
		}
		if err != nil {
			return PlaceOrderResult{}, fmt.Errorf("load food %d: %w", item.FoodID, err)
		}
		if food.Stock <= 0 {
			return PlaceOrderResult{}, ConflictError{
				Reason: fmt.Sprintf("food %d is out of stock", item.FoodID),
			}
		}
		foodLines = append(foodLines, pricedLine{id: item.FoodID, priceCents: food.PriceCents})
		totalCents += food.PriceCents
	}

	if totalCents <= 0 {
		return PlaceOrderResult{}, ErrEmptyOrder
	}

	description := uuid.New().String()
	now := time.Now().UTC()

	var result PlaceOrderResult
	err := s.store.RunInTx(ctx, func(tx *appdb.DB) error {
		qtx := tx.Queries

		orderID, err := qtx.CreateOrder(ctx, appdb.CreateOrderParams{
			CustomerID: customerID,
			OrderDate:  now,
			TotalCents: totalCents,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if orderID == 0 {
			return fmt.Errorf("create order: no id returned")
		}

		for _, line := range courtLines {
			// Re-run the overlap check inside the transaction to close the
			// gap between advisory validation and the insert.
			overlapping, err := qtx.CountOverlappingBookings(ctx, line.item.CourtID, line.item.Start, line.item.End)
			if err != nil {
				return fmt.Errorf("recheck court %d: %w", line.item.CourtID, err)
			}
			if overlapping > 0 {
				return ConflictError{
					Reason: fmt.Sprintf("court %d was booked by another customer", line.item.CourtID),
				}
			}

			if _, err := qtx.CreateBooking(ctx, appdb.CreateBookingParams{
				OrderID:    orderID,
				CustomerID: customerID,
				CourtID:    line.item.CourtID,
				StartsAt:   line.item.Start,
				EndsAt:     line.item.End,
				Status:     appdb.BookingStatusPending,
				PriceCents: line.priceCents,
			}); err != nil {
				return fmt.Errorf("create booking for court %d: %w", line.item.CourtID, err)
			}
		}

		for _, line := range equipmentLines {
			if err := qtx.CreateRent(ctx, appdb.Rent{
				OrderID:     orderID,
				EquipmentID: line.id,
				PriceCents:  line.priceCents,
			}); err != nil {
				return fmt.Errorf("create rent for equipment %d: %w", line.id, err)
			}
			affected, err := qtx.DecrementEquipmentStock(ctx, line.id)
			if err != nil {
				return fmt.Errorf("decrement equipment %d stock: %w", line.id, err)
			}
			if affected == 0 {
				return ConflictError{
					Reason: fmt.Sprintf("equipment %d ran out of stock", line.id),
				}
			}
		}

		for _, line := range foodLines {
			if err := qtx.CreateOrderFood(ctx, appdb.OrderFood{
				OrderID:    orderID,
				FoodID:     line.id,
				PriceCents: line.priceCents,
			}); err != nil {
				return fmt.Errorf("create order food %d: %w", line.id, err)
			}
			affected, err := qtx.DecrementFoodStock(ctx, line.id)
			if err != nil {
				return fmt.Errorf("decrement food %d stock: %w", line.id, err)
			}
			if affected == 0 {
				return ConflictError{
					Reason: fmt.Sprintf("food %d ran out of stock", line.id),
				}
			}
		}

		paymentID, err := qtx.CreatePayment(ctx, appdb.CreatePaymentParams{
			OrderID:     orderID,
			CustomerID:  customerID,
			AmountCents: totalCents,
			Method:      method,
			Status:      appdb.PaymentStatusPending,
			Description: description,
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		result = PlaceOrderResult{
			OrderID:            orderID,
			TotalCents:         totalCents,
			PaymentID:          paymentID,
			PaymentDescription: description,
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Int64("customer_id", customerID).Msg("Order transaction rolled back")
		return PlaceOrderResult{}, err
	}

	logger.Info().
		Int64("customer_id", customerID).
		Int64("order_id", result.OrderID).
		Int64("total_cents", result.TotalCents).
		Msg("Order committed")
	return result, nil
}
