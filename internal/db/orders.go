// internal/db/orders.go
package db

import (
	"context"
	"database/sql"
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

type Order struct {
	ID         int64
	CustomerID int64
	OrderDate  time.Time
	TotalCents int64
	SessionID  sql.NullInt64
}

type Booking struct {
	ID         int64
	OrderID    int64
	CustomerID int64
	CourtID    int64
	StartsAt   time.Time
	EndsAt     time.Time
	Status     string
	PriceCents int64
}

type Rent struct {
	OrderID     int64
	EquipmentID int64
	PriceCents  int64
}

type OrderFood struct {
	OrderID    int64
	FoodID     int64
	PriceCents int64
}

type CreateOrderParams struct {
	CustomerID int64
	OrderDate  time.Time
	TotalCents int64
	SessionID  sql.NullInt64
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO orders (customer_id, order_date, total_cents, session_id) VALUES (?, ?, ?, ?)`,
		arg.CustomerID, arg.OrderDate.UTC(), arg.TotalCents, arg.SessionID,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	var order Order
	err := q.db.QueryRowContext(ctx,
		`SELECT id, customer_id, order_date, total_cents, session_id FROM orders WHERE id = ?`,
		id,
	).Scan(&order.ID, &order.CustomerID, &order.OrderDate, &order.TotalCents, &order.SessionID)
	return order, err
}

func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, customer_id, order_date, total_cents, session_id
		 FROM orders WHERE customer_id = ? ORDER BY order_date DESC, id DESC`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.OrderDate, &order.TotalCents, &order.SessionID); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

type CreateBookingParams struct {
	OrderID    int64
	CustomerID int64
	CourtID    int64
	StartsAt   time.Time
	EndsAt     time.Time
	Status     string
	PriceCents int64
}

func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO bookings (order_id, customer_id, court_id, starts_at, ends_at, status, price_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.OrderID, arg.CustomerID, arg.CourtID, arg.StartsAt.UTC(), arg.EndsAt.UTC(), arg.Status, arg.PriceCents,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

func (q *Queries) ListBookingsByOrder(ctx context.Context, orderID int64) ([]Booking, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, order_id, customer_id, court_id, starts_at, ends_at, status, price_cents
		 FROM bookings WHERE order_id = ? ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var booking Booking
		if err := rows.Scan(&booking.ID, &booking.OrderID, &booking.CustomerID, &booking.CourtID,
			&booking.StartsAt, &booking.EndsAt, &booking.Status, &booking.PriceCents); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (q *Queries) CreateRent(ctx context.Context, arg Rent) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO rents (order_id, equipment_id, price_cents) VALUES (?, ?, ?)`,
		arg.OrderID, arg.EquipmentID, arg.PriceCents,
	)
	return err
}

// RentLine joins a rent row with its equipment name for order history.
type RentLine struct {
	EquipmentID int64
	Name        string
	PriceCents  int64
}

func (q *Queries) ListRentsByOrder(ctx context.Context, orderID int64) ([]RentLine, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT r.equipment_id, e.name, r.price_cents
		 FROM rents r JOIN equipment e ON e.id = r.equipment_id
		 WHERE r.order_id = ? ORDER BY r.equipment_id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []RentLine
	for rows.Next() {
		var line RentLine
		if err := rows.Scan(&line.EquipmentID, &line.Name, &line.PriceCents); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (q *Queries) CreateOrderFood(ctx context.Context, arg OrderFood) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO order_foods (order_id, food_id, price_cents) VALUES (?, ?, ?)`,
		arg.OrderID, arg.FoodID, arg.PriceCents,
	)
	return err
}

// FoodLine joins an order-food row with its food name for order history.
type FoodLine struct {
	FoodID     int64
	Name       string
	PriceCents int64
}

func (q *Queries) ListOrderFoodsByOrder(ctx context.Context, orderID int64) ([]FoodLine, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT f.food_id, cf.name, f.price_cents
		 FROM order_foods f JOIN cafeteria_food cf ON cf.id = f.food_id
		 WHERE f.order_id = ? ORDER BY f.food_id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []FoodLine
	for rows.Next() {
		var line FoodLine
		if err := rows.Scan(&line.FoodID, &line.Name, &line.PriceCents); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
