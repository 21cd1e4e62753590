// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/courtsidehq/courtside/internal/api"
	"github.com/courtsidehq/courtside/internal/api/admin"
	"github.com/courtsidehq/courtside/internal/api/auth"
	"github.com/courtsidehq/courtside/internal/api/catalog"
	"github.com/courtsidehq/courtside/internal/api/courts"
	apiorders "github.com/courtsidehq/courtside/internal/api/orders"
	apipayments "github.com/courtsidehq/courtside/internal/api/payments"
	"github.com/courtsidehq/courtside/internal/api/training"
	"github.com/courtsidehq/courtside/internal/booking"
	"github.com/courtsidehq/courtside/internal/config"
	"github.com/courtsidehq/courtside/internal/db"
	"github.com/courtsidehq/courtside/internal/email"
	"github.com/courtsidehq/courtside/internal/orders"
	"github.com/courtsidehq/courtside/internal/payments"
	"github.com/courtsidehq/courtside/internal/ratelimit"
)

func newServer(cfg *config.Config, database *db.DB) (*http.Server, error) {
	evaluator := booking.NewEvaluator(database.Queries, cfg.Facility)
	orderService := orders.NewService(database, evaluator)

	var sender email.Sender
	if cfg.Email.Enabled {
		ses, err := email.NewSESSender(cfg.Email)
		if err != nil {
			return nil, fmt.Errorf("init ses sender: %w", err)
		}
		sender = ses
	}
	paymentService := payments.NewService(database, sender)

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	loginLimiter := ratelimit.New(ratelimit.DefaultConfig())

	auth.InitHandlers(database, issuer, loginLimiter)
	courts.InitHandlers(database, evaluator)
	catalog.InitHandlers(database)
	apiorders.InitHandlers(orderService)
	training.InitHandlers(orderService)
	apipayments.InitHandlers(paymentService, cfg.WebhookSecret)
	admin.InitHandlers(database)

	router := http.NewServeMux()
	registerRoutes(router)

	handler := api.ChainMiddleware(
		router,
		api.WithAuth(issuer),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", auth.HandleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", auth.HandleLogin)

	// Public catalog
	mux.HandleFunc("GET /api/v1/courts", courts.HandleCourtsList)
	mux.HandleFunc("GET /api/v1/courts/{id}", courts.HandleCourtDetail)
	mux.HandleFunc("GET /api/v1/equipment", catalog.HandleEquipmentList)
	mux.HandleFunc("GET /api/v1/food", catalog.HandleFoodList)
	mux.HandleFunc("GET /api/v1/coaches", catalog.HandleCoachesList)
	mux.HandleFunc("GET /api/v1/training-sessions", catalog.HandleSessionsList)

	// Orders and enrollment
	mux.HandleFunc("POST /api/v1/order", apiorders.HandleOrderCreate)
	mux.HandleFunc("GET /api/v1/order", apiorders.HandleOrderHistory)
	mux.HandleFunc("POST /api/v1/training-sessions/{id}/enroll", training.HandleEnroll)

	// Payment gateway callback
	mux.HandleFunc("POST /internal/payment/confirm", apipayments.HandleConfirm)

	// Staff administration
	mux.Handle("POST /api/v1/admin/courts", staff(admin.HandleCourtCreate))
	mux.Handle("PATCH /api/v1/admin/courts/{id}/status", staff(admin.HandleCourtStatusUpdate))
	mux.Handle("POST /api/v1/admin/equipment", staff(admin.HandleEquipmentCreate))
	mux.Handle("POST /api/v1/admin/equipment/{id}/restock", staff(admin.HandleEquipmentRestock))
	mux.Handle("POST /api/v1/admin/food", staff(admin.HandleFoodCreate))
	mux.Handle("POST /api/v1/admin/food/{id}/restock", staff(admin.HandleFoodRestock))
	mux.Handle("POST /api/v1/admin/coaches", staff(admin.HandleCoachCreate))
	mux.Handle("POST /api/v1/admin/training-sessions", staff(admin.HandleSessionCreate))
}

func staff(h http.HandlerFunc) http.Handler {
	return api.RequireStaff(h)
}
