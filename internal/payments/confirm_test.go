package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	appdb "github.com/courtsidehq/courtside/internal/db"
	"github.com/courtsidehq/courtside/internal/testutil"
)

type capturingSender struct {
	recipient string
	subject   string
	sends     int
}

func (s *capturingSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.recipient = recipient
	s.subject = subject
	s.sends++
	return nil
}

// seedPendingOrder writes an order with one pending booking and a pending
// payment, returning the payment's description token.
func seedPendingOrder(t *testing.T, database *appdb.DB) (orderID int64, description string) {
	t.Helper()
	ctx := context.Background()

	userID, err := database.Queries.CreateUser(ctx, appdb.CreateUserParams{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         appdb.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	customerID, err := database.Queries.CreateCustomer(ctx, appdb.CreateCustomerParams{
		UserID: userID, Name: "Alice", Phone: "+66812345678",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	courtID, err := database.Queries.CreateCourt(ctx, appdb.CreateCourtParams{
		CourtType: "normal", Status: appdb.CourtStatusAvailable, HourRateCents: 10000,
	})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	orderID, err = database.Queries.CreateOrder(ctx, appdb.CreateOrderParams{
		CustomerID: customerID, OrderDate: now, TotalCents: 10000,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := database.Queries.CreateBooking(ctx, appdb.CreateBookingParams{
		OrderID: orderID, CustomerID: customerID, CourtID: courtID,
		StartsAt: now, EndsAt: now.Add(time.Hour),
		Status: appdb.BookingStatusPending, PriceCents: 10000,
	}); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	description = "tok-" + time.Now().Format("150405.000000000")
	if _, err := database.Queries.CreatePayment(ctx, appdb.CreatePaymentParams{
		OrderID: orderID, CustomerID: customerID, AmountCents: 10000,
		Method: appdb.PaymentMethodBanking, Status: appdb.PaymentStatusPending,
		Description: description, CreatedAt: now,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return orderID, description
}

func TestConfirm(t *testing.T) {
	database := testutil.NewTestDB(t)
	sender := &capturingSender{}
	service := NewService(database, sender)
	ctx := context.Background()

	orderID, description := seedPendingOrder(t, database)

	result, err := service.Confirm(ctx, description)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.AlreadyProcessed {
		t.Error("first confirmation should not be marked already processed")
	}
	if result.BookingsConfirmed != 1 {
		t.Errorf("bookings confirmed = %d, want 1", result.BookingsConfirmed)
	}

	payment, err := database.Queries.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != appdb.PaymentStatusSuccess {
		t.Errorf("payment status = %q, want success", payment.Status)
	}

	bookings, err := database.Queries.ListBookingsByOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if bookings[0].Status != appdb.BookingStatusConfirmed {
		t.Errorf("booking status = %q, want confirmed", bookings[0].Status)
	}

	if sender.sends != 1 {
		t.Errorf("receipt sends = %d, want 1", sender.sends)
	}
	if sender.recipient != "alice@example.com" {
		t.Errorf("receipt recipient = %q", sender.recipient)
	}
}

func TestConfirm_Idempotent(t *testing.T) {
	database := testutil.NewTestDB(t)
	sender := &capturingSender{}
	service := NewService(database, sender)
	ctx := context.Background()

	orderID, description := seedPendingOrder(t, database)

	if _, err := service.Confirm(ctx, description); err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	result, err := service.Confirm(ctx, description)
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if !result.AlreadyProcessed {
		t.Error("replay should be reported as already processed")
	}
	if result.PreviousStatus != appdb.PaymentStatusSuccess {
		t.Errorf("previous status = %q, want success", result.PreviousStatus)
	}

	payment, err := database.Queries.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != appdb.PaymentStatusSuccess {
		t.Errorf("payment status = %q after replay, want success", payment.Status)
	}
	if sender.sends != 1 {
		t.Errorf("receipt sends = %d after replay, want 1", sender.sends)
	}
}

func TestConfirm_UnknownDescription(t *testing.T) {
	database := testutil.NewTestDB(t)
	service := NewService(database, nil)

	_, err := service.Confirm(context.Background(), "no-such-token")
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestConfirm_NilSender(t *testing.T) {
	database := testutil.NewTestDB(t)
	service := NewService(database, nil)

	_, description := seedPendingOrder(t, database)
	if _, err := service.Confirm(context.Background(), description); err != nil {
		t.Fatalf("Confirm without sender: %v", err)
	}
}

func TestConfirm_OnlyPendingBookingsPromoted(t *testing.T) {
	database := testutil.NewTestDB(t)
	service := NewService(database, nil)
	ctx := context.Background()

	orderID, description := seedPendingOrder(t, database)

	// A cancelled booking on the same order must stay cancelled.
	var customerID, courtID int64
	if err := database.QueryRowContext(ctx,
		`SELECT customer_id, court_id FROM bookings WHERE order_id = ?`, orderID,
	).Scan(&customerID, &courtID); err != nil {
		t.Fatalf("load booking: %v", err)
	}
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	if _, err := database.Queries.CreateBooking(ctx, appdb.CreateBookingParams{
		OrderID: orderID, CustomerID: customerID, CourtID: courtID,
		StartsAt: now, EndsAt: now.Add(time.Hour),
		Status: appdb.BookingStatusCancelled, PriceCents: 10000,
	}); err != nil {
		t.Fatalf("create cancelled booking: %v", err)
	}

	result, err := service.Confirm(ctx, description)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.BookingsConfirmed != 1 {
		t.Errorf("bookings confirmed = %d, want 1", result.BookingsConfirmed)
	}

	bookings, err := database.Queries.ListBookingsByOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	for _, booked := range bookings {
		if booked.Status == appdb.BookingStatusPending {
			t.Errorf("booking %d still pending", booked.ID)
		}
	}
	if bookings[1].Status != appdb.BookingStatusCancelled {
		t.Errorf("cancelled booking status = %q, want cancelled", bookings[1].Status)
	}
}
