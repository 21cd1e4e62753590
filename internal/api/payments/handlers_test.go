package payments

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	appdb "github.com/courtsidehq/courtside/internal/db"
	paysvc "github.com/courtsidehq/courtside/internal/payments"
	"github.com/courtsidehq/courtside/internal/testutil"
)

const testSecret = "webhook-test-secret"

func setupConfirmTest(t *testing.T) *appdb.DB {
	t.Helper()

	database := testutil.NewTestDB(t)

	service = nil
	webhookSecret = ""
	handlersOnce = sync.Once{}
	InitHandlers(paysvc.NewService(database, nil), testSecret)

	t.Cleanup(func() {
		service = nil
		webhookSecret = ""
		handlersOnce = sync.Once{}
	})

	return database
}

func seedPendingPayment(t *testing.T, database *appdb.DB) (orderID int64, description string) {
	t.Helper()
	ctx := context.Background()

	userID, err := database.Queries.CreateUser(ctx, appdb.CreateUserParams{
		Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: appdb.RoleCustomer,
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

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	orderID, err = database.Queries.CreateOrder(ctx, appdb.CreateOrderParams{
		CustomerID: customerID, OrderDate: now, TotalCents: 10000,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	description = "confirm-test-token"
	if _, err := database.Queries.CreatePayment(ctx, appdb.CreatePaymentParams{
		OrderID: orderID, CustomerID: customerID, AmountCents: 10000,
		Method: appdb.PaymentMethodBanking, Status: appdb.PaymentStatusPending,
		Description: description, CreatedAt: now,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return orderID, description
}

func confirmRequestWith(body, authorization string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/internal/payment/confirm", strings.NewReader(body))
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func TestHandleConfirm_MissingAuth(t *testing.T) {
	setupConfirmTest(t)

	recorder := httptest.NewRecorder()
	HandleConfirm(recorder, confirmRequestWith(`{"description":"x"}`, ""))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestHandleConfirm_WrongSecret(t *testing.T) {
	setupConfirmTest(t)

	recorder := httptest.NewRecorder()
	HandleConfirm(recorder, confirmRequestWith(`{"description":"x"}`, "Bearer wrong-secret"))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestHandleConfirm_UnknownDescription(t *testing.T) {
	setupConfirmTest(t)

	recorder := httptest.NewRecorder()
	HandleConfirm(recorder, confirmRequestWith(`{"description":"no-such-token"}`, "Bearer "+testSecret))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestHandleConfirm_EmptyDescription(t *testing.T) {
	setupConfirmTest(t)

	recorder := httptest.NewRecorder()
	HandleConfirm(recorder, confirmRequestWith(`{"description":"  "}`, "Bearer "+testSecret))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestHandleConfirm_SuccessAndReplay(t *testing.T) {
	database := setupConfirmTest(t)
	orderID, description := seedPendingPayment(t, database)

	recorder := httptest.NewRecorder()
	HandleConfirm(recorder, confirmRequestWith(`{"description":"`+description+`"}`, "Bearer "+testSecret))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	payment, err := database.Queries.GetPaymentByOrder(context.Background(), orderID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != appdb.PaymentStatusSuccess {
		t.Errorf("payment status = %q, want success", payment.Status)
	}

	// Replay returns 200 with an already-processed message.
	replay := httptest.NewRecorder()
	HandleConfirm(replay, confirmRequestWith(`{"description":"`+description+`"}`, "Bearer "+testSecret))

	if replay.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", replay.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(replay.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode replay body: %v", err)
	}
	if body.Message != "Payment already processed" {
		t.Errorf("replay message = %q", body.Message)
	}
}
