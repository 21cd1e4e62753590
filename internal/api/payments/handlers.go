// internal/api/payments/handlers.go

// Package payments exposes the internal gateway callback that confirms
// pending payments.
package payments

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/api/apiutil"
	paysvc "github.com/courtsidehq/courtside/internal/payments"
)

var (
	service       *paysvc.Service
	webhookSecret string
	handlersOnce  sync.Once
)

const confirmQueryTimeout = 10 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *paysvc.Service, secret string) {
	if svc == nil {
		return
	}
	handlersOnce.Do(func() {
		service = svc
		webhookSecret = secret
	})
}

type confirmRequest struct {
	Description string `json:"description"`
}

type confirmResponse struct {
	Message string `json:"message"`
}

// POST /internal/payment/confirm
//
// Called by the payment gateway, not by end users. Authenticated with a
// shared bearer secret; replays of an already-confirmed description are
// acknowledged with 200 so the gateway stops retrying.
func HandleConfirm(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil || webhookSecret == "" {
		logger.Error().Msg("Payment handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !authorized(r) {
		logger.Warn().Msg("Payment confirmation rejected: bad webhook credentials")
		apiutil.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid webhook credentials")
		return
	}

	var req confirmRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "description is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), confirmQueryTimeout)
	defer cancel()

	result, err := service.Confirm(ctx, req.Description)
	if errors.Is(err, paysvc.ErrPaymentNotFound) {
		apiutil.WriteError(w, http.StatusNotFound, "not_found", "payment not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to confirm payment")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	message := "Payment confirmed"
	if result.AlreadyProcessed {
		message = "Payment already processed"
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, confirmResponse{Message: message}); err != nil {
		logger.Error().Err(err).Int64("payment_id", result.PaymentID).Msg("Failed to write confirm response")
	}
}

// authorized compares the bearer token against the shared secret in constant
// time.
func authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	token = strings.TrimSpace(token)
	return subtle.ConstantTimeCompare([]byte(token), []byte(webhookSecret)) == 1
}
