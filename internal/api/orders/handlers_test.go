package orders

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/courtsidehq/courtside/internal/api/authz"
	"github.com/courtsidehq/courtside/internal/booking"
	"github.com/courtsidehq/courtside/internal/config"
	appdb "github.com/courtsidehq/courtside/internal/db"
	ordersvc "github.com/courtsidehq/courtside/internal/orders"
	"github.com/courtsidehq/courtside/internal/testutil"
)

func setupOrderTest(t *testing.T) *appdb.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	evaluator := booking.NewEvaluator(database.Queries, config.FacilityConfig{
		Timezone: "UTC", OpenHour: 0, CloseHour: 24,
	})

	service = nil
	handlersOnce = sync.Once{}
	InitHandlers(ordersvc.NewService(database, evaluator))

	t.Cleanup(func() {
		service = nil
		handlersOnce = sync.Once{}
	})

	return database
}

func seedCustomer(t *testing.T, database *appdb.DB) int64 {
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
	return customerID
}

func asCustomer(req *http.Request, customerID int64) *http.Request {
	user := &authz.AuthUser{UserID: 1, CustomerID: customerID, Username: "alice", Role: appdb.RoleCustomer}
	return req.WithContext(authz.ContextWithUser(req.Context(), user))
}

func TestHandleOrderCreate_Unauthenticated(t *testing.T) {
	setupOrderTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order", strings.NewReader(`{"payment_method":"cash"}`))
	recorder := httptest.NewRecorder()
	HandleOrderCreate(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestHandleOrderCreate_CourtBooking(t *testing.T) {
	database := setupOrderTest(t)
	customerID := seedCustomer(t, database)

	courtID, err := database.Queries.CreateCourt(context.Background(), appdb.CreateCourtParams{
		CourtType: "normal", Status: appdb.CourtStatusAvailable, HourRateCents: 10000,
	})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}

	body := `{
		"court_orders": [{"court_id": ` + jsonInt(courtID) + `, "start_time": "2026-03-14T14:00:00Z", "end_time": "2026-03-14T16:00:00Z"}],
		"payment_method": "card"
	}`
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/order", strings.NewReader(body)), customerID)
	recorder := httptest.NewRecorder()
	HandleOrderCreate(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", recorder.Code, recorder.Body.String())
	}

	var payload struct {
		OrderID            int64  `json:"order_id"`
		TotalAmountCents   int64  `json:"total_amount_cents"`
		PaymentDescription string `json:"payment_description"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.TotalAmountCents != 20000 {
		t.Errorf("total = %d, want 20000", payload.TotalAmountCents)
	}
	if payload.PaymentDescription == "" {
		t.Error("payment_description should not be empty")
	}
}

func TestHandleOrderCreate_Conflict(t *testing.T) {
	database := setupOrderTest(t)
	customerID := seedCustomer(t, database)

	courtID, err := database.Queries.CreateCourt(context.Background(), appdb.CreateCourtParams{
		CourtType: "normal", Status: appdb.CourtStatusAvailable, HourRateCents: 10000,
	})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}

	place := func() *httptest.ResponseRecorder {
		body := `{
			"court_orders": [{"court_id": ` + jsonInt(courtID) + `, "start_time": "2026-03-14T14:00:00Z", "end_time": "2026-03-14T16:00:00Z"}],
			"payment_method": "cash"
		}`
		req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/order", strings.NewReader(body)), customerID)
		recorder := httptest.NewRecorder()
		HandleOrderCreate(recorder, req)
		return recorder
	}

	if first := place(); first.Code != http.StatusCreated {
		t.Fatalf("first order status = %d, want 201", first.Code)
	}
	if second := place(); second.Code != http.StatusConflict {
		t.Fatalf("second order status = %d, want 409: %s", second.Code, second.Body.String())
	}
}

func TestHandleOrderCreate_BadBody(t *testing.T) {
	database := setupOrderTest(t)
	customerID := seedCustomer(t, database)

	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/order", strings.NewReader(`{"unknown_field": 1}`)), customerID)
	recorder := httptest.NewRecorder()
	HandleOrderCreate(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestHandleOrderHistory(t *testing.T) {
	database := setupOrderTest(t)
	customerID := seedCustomer(t, database)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/v1/order", nil), customerID)
	recorder := httptest.NewRecorder()
	HandleOrderHistory(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != "[]" {
		t.Errorf("empty history body = %s, want []", body)
	}
}

func jsonInt(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
