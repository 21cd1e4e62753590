package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	appdb "github.com/courtsidehq/courtside/internal/db"
)

func seedSession(t *testing.T, database *appdb.DB, maxStudents int64, status string) int64 {
	t.Helper()
	ctx := context.Background()

	coachID, err := database.Queries.CreateCoach(ctx, appdb.CreateCoachParams{
		Name: "Coach", Specialty: "serve", HourlyRateCents: 50000,
	})
	if err != nil {
		t.Fatalf("create coach: %v", err)
	}
	courtID := seedCourt(t, database, 10000)

	day := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	sessionID, err := database.Queries.CreateTrainingSession(ctx, appdb.CreateTrainingSessionParams{
		CoachID:     coachID,
		CourtID:     courtID,
		StartsAt:    day.Add(17 * time.Hour),
		EndsAt:      day.Add(19 * time.Hour),
		Level:       "intermediate",
		PriceCents:  40000,
		MaxStudents: maxStudents,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sessionID
}

func countEnrollmentRows(t *testing.T, database *appdb.DB, sessionID int64) int64 {
	t.Helper()
	count, err := database.Queries.CountEnrollments(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("count enrollments: %v", err)
	}
	return count
}

func TestEnroll(t *testing.T) {
	service, database := newTestService(t)
	ctx := context.Background()

	customerID := seedCustomer(t, database, "alice")
	sessionID := seedSession(t, database, 8, appdb.SessionStatusAvailable)

	result, err := service.Enroll(ctx, customerID, sessionID, appdb.PaymentMethodCard)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	order, err := database.Queries.GetOrder(ctx, result.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.TotalCents != 40000 {
		t.Errorf("order total = %d, want session price 40000", order.TotalCents)
	}
	if !order.SessionID.Valid || order.SessionID.Int64 != sessionID {
		t.Errorf("order session = %+v, want %d", order.SessionID, sessionID)
	}

	payment, err := database.Queries.GetPayment(ctx, result.PaymentID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != appdb.PaymentStatusPending {
		t.Errorf("payment status = %q, want pending", payment.Status)
	}
	if payment.Description != result.PaymentDescription {
		t.Errorf("payment description mismatch")
	}

	if got := countEnrollmentRows(t, database, sessionID); got != 1 {
		t.Errorf("enrollment count = %d, want 1", got)
	}
}

func TestEnroll_Duplicate(t *testing.T) {
	service, database := newTestService(t)
	ctx := context.Background()

	customerID := seedCustomer(t, database, "alice")
	sessionID := seedSession(t, database, 8, appdb.SessionStatusAvailable)

	if _, err := service.Enroll(ctx, customerID, sessionID, appdb.PaymentMethodCash); err != nil {
		t.Fatalf("first enroll: %v", err)
	}

	before := countOrders(t, database)
	_, err := service.Enroll(ctx, customerID, sessionID, appdb.PaymentMethodCash)

	var conflict ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if got := countEnrollmentRows(t, database, sessionID); got != 1 {
		t.Errorf("enrollment count = %d after duplicate, want 1", got)
	}
	if got := countOrders(t, database); got != before {
		t.Errorf("order count changed from %d to %d on duplicate enroll", before, got)
	}
}

func TestEnroll_CapacityFull(t *testing.T) {
	service, database := newTestService(t)
	ctx := context.Background()

	firstID := seedCustomer(t, database, "alice")
	secondID := seedCustomer(t, database, "bob")
	sessionID := seedSession(t, database, 1, appdb.SessionStatusAvailable)

	if _, err := service.Enroll(ctx, firstID, sessionID, appdb.PaymentMethodCash); err != nil {
		t.Fatalf("first enroll: %v", err)
	}

	_, err := service.Enroll(ctx, secondID, sessionID, appdb.PaymentMethodCash)
	var validation ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for full session, got %v", err)
	}
	if got := countEnrollmentRows(t, database, sessionID); got != 1 {
		t.Errorf("enrollment count = %d, want 1", got)
	}
}

func TestEnroll_UnknownSession(t *testing.T) {
	service, database := newTestService(t)
	customerID := seedCustomer(t, database, "alice")

	_, err := service.Enroll(context.Background(), customerID, 999, appdb.PaymentMethodCash)
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestEnroll_UnavailableSession(t *testing.T) {
	service, database := newTestService(t)
	customerID := seedCustomer(t, database, "alice")
	sessionID := seedSession(t, database, 8, appdb.SessionStatusUnavailable)

	_, err := service.Enroll(context.Background(), customerID, sessionID, appdb.PaymentMethodCash)
	var validation ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEnroll_InvalidPaymentMethod(t *testing.T) {
	service, database := newTestService(t)
	customerID := seedCustomer(t, database, "alice")
	sessionID := seedSession(t, database, 8, appdb.SessionStatusAvailable)

	_, err := service.Enroll(context.Background(), customerID, sessionID, "iou")
	var validation ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
