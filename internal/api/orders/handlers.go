// internal/api/orders/handlers.go
package orders

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/api/apiutil"
	"github.com/courtsidehq/courtside/internal/api/authz"
	ordersvc "github.com/courtsidehq/courtside/internal/orders"
)

var (
	service      *ordersvc.Service
	handlersOnce sync.Once
)

const orderQueryTimeout = 10 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *ordersvc.Service) {
	if svc == nil {
		return
	}
	handlersOnce.Do(func() {
		service = svc
	})
}

type courtOrderItem struct {
	CourtID   int64  `json:"court_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type equipmentOrderItem struct {
	EquipmentID int64 `json:"equipment_id"`
}

type foodOrderItem struct {
	FoodID int64 `json:"food_id"`
}

type orderRequest struct {
	CourtOrders     []courtOrderItem     `json:"court_orders"`
	EquipmentOrders []equipmentOrderItem `json:"equipment_orders"`
	FoodOrders      []foodOrderItem      `json:"food_orders"`
	PaymentMethod   string               `json:"payment_method"`
}

type orderResponse struct {
	OrderID            int64  `json:"order_id"`
	TotalAmountCents   int64  `json:"total_amount_cents"`
	TotalAmount        string `json:"total_amount"`
	Message            string `json:"message"`
	PaymentID          int64  `json:"payment_id"`
	PaymentDescription string `json:"payment_description"`
}

// POST /api/v1/order
func HandleOrderCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Order handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	customerID, err := authz.RequireCustomer(r.Context())
	if err != nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "unauthorized", "customer authentication required")
		return
	}

	var req orderRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}

	courtItems := make([]ordersvc.CourtItem, 0, len(req.CourtOrders))
	for _, item := range req.CourtOrders {
		if item.CourtID <= 0 {
			apiutil.WriteError(w, http.StatusBadRequest, "validation", "court_id must be greater than 0")
			return
		}
		start, err := apiutil.ParseTimeField(item.StartTime, "start_time")
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		end, err := apiutil.ParseTimeField(item.EndTime, "end_time")
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		courtItems = append(courtItems, ordersvc.CourtItem{CourtID: item.CourtID, Start: start, End: end})
	}

	equipmentItems := make([]ordersvc.EquipmentItem, 0, len(req.EquipmentOrders))
	for _, item := range req.EquipmentOrders {
		if item.EquipmentID <= 0 {
			apiutil.WriteError(w, http.StatusBadRequest, "validation", "equipment_id must be greater than 0")
			return
		}
		equipmentItems = append(equipmentItems, ordersvc.EquipmentItem{EquipmentID: item.EquipmentID})
	}

	foodItems := make([]ordersvc.FoodItem, 0, len(req.FoodOrders))
	for _, item := range req.FoodOrders {
		if item.FoodID <= 0 {
			apiutil.WriteError(w, http.StatusBadRequest, "validation", "food_id must be greater than 0")
			return
		}
		foodItems = append(foodItems, ordersvc.FoodItem{FoodID: item.FoodID})
	}

	ctx, cancel := context.WithTimeout(r.Context(), orderQueryTimeout)
	defer cancel()

	result, err := service.PlaceOrder(ctx, customerID, courtItems, equipmentItems, foodItems, req.PaymentMethod)
	if err != nil {
		apiutil.WriteOrderError(w, r, err)
		return
	}

	payload := orderResponse{
		OrderID:            result.OrderID,
		TotalAmountCents:   result.TotalCents,
		TotalAmount:        apiutil.FormatPriceCents(result.TotalCents),
		Message:            "Order created successfully",
		PaymentID:          result.PaymentID,
		PaymentDescription: result.PaymentDescription,
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, payload); err != nil {
		logger.Error().Err(err).Int64("order_id", result.OrderID).Msg("Failed to write order response")
	}
}

type bookingLine struct {
	BookingID  int64     `json:"booking_id"`
	CourtID    int64     `json:"court_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Status     string    `json:"status"`
	PriceCents int64     `json:"price_cents"`
}

type equipmentLine struct {
	EquipmentID int64  `json:"equipment_id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
}

type foodLine struct {
	FoodID     int64  `json:"food_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type paymentLine struct {
	PaymentID   int64  `json:"payment_id"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	Status      string `json:"status"`
}

type historyEntry struct {
	OrderID    int64           `json:"order_id"`
	OrderDate  time.Time       `json:"order_date"`
	TotalCents int64           `json:"total_cents"`
	Total      string          `json:"total"`
	SessionID  *int64          `json:"session_id,omitempty"`
	Bookings   []bookingLine   `json:"bookings"`
	Equipment  []equipmentLine `json:"equipment"`
	Food       []foodLine      `json:"food"`
	Payment    *paymentLine    `json:"payment,omitempty"`
}

// GET /api/v1/order
func HandleOrderHistory(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Order handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	customerID, err := authz.RequireCustomer(r.Context())
	if err != nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "unauthorized", "customer authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orderQueryTimeout)
	defer cancel()

	summaries, err := service.History(ctx, customerID)
	if err != nil {
		logger.Error().Err(err).Int64("customer_id", customerID).Msg("Failed to load order history")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload := make([]historyEntry, 0, len(summaries))
	for _, summary := range summaries {
		entry := historyEntry{
			OrderID:    summary.Order.ID,
			OrderDate:  summary.Order.OrderDate,
			TotalCents: summary.Order.TotalCents,
			Total:      apiutil.FormatPriceCents(summary.Order.TotalCents),
			Bookings:   make([]bookingLine, 0, len(summary.Bookings)),
			Equipment:  make([]equipmentLine, 0, len(summary.Equipment)),
			Food:       make([]foodLine, 0, len(summary.Food)),
		}
		if summary.Order.SessionID.Valid {
			sessionID := summary.Order.SessionID.Int64
			entry.SessionID = &sessionID
		}
		for _, booked := range summary.Bookings {
			entry.Bookings = append(entry.Bookings, bookingLine{
				BookingID:  booked.ID,
				CourtID:    booked.CourtID,
				StartsAt:   booked.StartsAt,
				EndsAt:     booked.EndsAt,
				Status:     booked.Status,
				PriceCents: booked.PriceCents,
			})
		}
		for _, rent := range summary.Equipment {
			entry.Equipment = append(entry.Equipment, equipmentLine{
				EquipmentID: rent.EquipmentID,
				Name:        rent.Name,
				PriceCents:  rent.PriceCents,
			})
		}
		for _, food := range summary.Food {
			entry.Food = append(entry.Food, foodLine{
				FoodID:     food.FoodID,
				Name:       food.Name,
				PriceCents: food.PriceCents,
			})
		}
		if summary.Payment != nil {
			entry.Payment = &paymentLine{
				PaymentID:   summary.Payment.ID,
				AmountCents: summary.Payment.AmountCents,
				Method:      summary.Payment.Method,
				Status:      summary.Payment.Status,
			}
		}
		payload = append(payload, entry)
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		logger.Error().Err(err).Int64("customer_id", customerID).Msg("Failed to write history response")
	}
}
