// internal/api/training/handlers.go
package training

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

const enrollQueryTimeout = 10 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *ordersvc.Service) {
	if svc == nil {
		return
	}
	handlersOnce.Do(func() {
		service = svc
	})
}

type enrollRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type enrollResponse struct {
	Message            string `json:"message"`
	OrderID            int64  `json:"order_id"`
	PaymentID          int64  `json:"payment_id"`
	PaymentDescription string `json:"payment_description"`
}

// POST /api/v1/training-sessions/{id}/enroll
func HandleEnroll(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Training handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	customerID, err := authz.RequireCustomer(r.Context())
	if err != nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "unauthorized", "customer authentication required")
		return
	}

	sessionID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	var req enrollRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), enrollQueryTimeout)
	defer cancel()

	result, err := service.Enroll(ctx, customerID, sessionID, req.PaymentMethod)
	if err != nil {
		apiutil.WriteOrderError(w, r, err)
		return
	}

	payload := enrollResponse{
		Message:            "Enrolled successfully",
		OrderID:            result.OrderID,
		PaymentID:          result.PaymentID,
		PaymentDescription: result.PaymentDescription,
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, payload); err != nil {
		logger.Error().Err(err).Int64("session_id", sessionID).Msg("Failed to write enroll response")
	}
}
