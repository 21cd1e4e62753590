// internal/api/catalog/handlers.go

// Package catalog serves the public read-only listings: equipment, food,
// coaches, and training sessions.
package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/api/apiutil"
	appdb "github.com/courtsidehq/courtside/internal/db"
)

var (
	store        *appdb.DB
	handlersOnce sync.Once
)

const catalogQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	handlersOnce.Do(func() {
		store = database
	})
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if store == nil {
		log.Ctx(r.Context()).Error().Msg("Catalog handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

// maxPriceFromQuery reads an optional max_price_cents filter; zero means no
// filter.
func maxPriceFromQuery(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("max_price_cents"))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "max_price_cents must be greater than 0"}
	}
	return value, nil
}

type equipmentResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	EquipmentType string `json:"equipment_type"`
	PriceCents    int64  `json:"price_cents"`
	Price         string `json:"price"`
	Stock         int64  `json:"stock"`
	Status        string `json:"status"`
}

// GET /api/v1/equipment?type=&max_price_cents=&in_stock=
func HandleEquipmentList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	maxPrice, err := maxPriceFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	items, err := store.Queries.ListEquipment(ctx, appdb.ListEquipmentParams{
		EquipmentType: strings.TrimSpace(r.URL.Query().Get("type")),
		MaxPriceCents: maxPrice,
		InStockOnly:   r.URL.Query().Get("in_stock") == "true",
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list equipment")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload := make([]equipmentResponse, 0, len(items))
	for _, item := range items {
		payload = append(payload, equipmentResponse{
			ID:            item.ID,
			Name:          item.Name,
			Brand:         item.Brand,
			EquipmentType: item.EquipmentType,
			PriceCents:    item.PriceCents,
			Price:         apiutil.FormatPriceCents(item.PriceCents),
			Stock:         item.Stock,
			Status:        item.Status,
		})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to write equipment response")
	}
}

type foodResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Price      string `json:"price"`
	Stock      int64  `json:"stock"`
}

// GET /api/v1/food?category=&max_price_cents=&in_stock=
func HandleFoodList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	maxPrice, err := maxPriceFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	items, err := store.Queries.ListFood(ctx, appdb.ListFoodParams{
		Category:      strings.TrimSpace(r.URL.Query().Get("category")),
		MaxPriceCents: maxPrice,
		InStockOnly:   r.URL.Query().Get("in_stock") == "true",
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list food")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload := make([]foodResponse, 0, len(items))
	for _, item := range items {
		payload = append(payload, foodResponse{
			ID:         item.ID,
			Name:       item.Name,
			Category:   item.Category,
			PriceCents: item.PriceCents,
			Price:      apiutil.FormatPriceCents(item.PriceCents),
			Stock:      item.Stock,
		})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to write food response")
	}
}

type coachResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Specialty       string `json:"specialty"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

// GET /api/v1/coaches
func HandleCoachesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	coaches, err := store.Queries.ListCoaches(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list coaches")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload := make([]coachResponse, 0, len(coaches))
	for _, coach := range coaches {
		payload = append(payload, coachResponse{
			ID:              coach.ID,
			Name:            coach.Name,
			Specialty:       coach.Specialty,
			HourlyRateCents: coach.HourlyRateCents,
		})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to write coaches response")
	}
}

type sessionResponse struct {
	ID          int64     `json:"id"`
	CoachID     int64     `json:"coach_id"`
	CourtID     int64     `json:"court_id"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Level       string    `json:"level"`
	PriceCents  int64     `json:"price_cents"`
	Price       string    `json:"price"`
	MaxStudents int64     `json:"max_students"`
	Status      string    `json:"status"`
}

// GET /api/v1/training-sessions?status=
func HandleSessionsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	switch status {
	case "", appdb.SessionStatusAvailable, appdb.SessionStatusUnavailable:
	default:
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "status must be available or unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	sessions, err := store.Queries.ListTrainingSessions(ctx, status)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list training sessions")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		payload = append(payload, sessionResponse{
			ID:          session.ID,
			CoachID:     session.CoachID,
			CourtID:     session.CourtID,
			StartsAt:    session.StartsAt,
			EndsAt:      session.EndsAt,
			Level:       session.Level,
			PriceCents:  session.PriceCents,
			Price:       apiutil.FormatPriceCents(session.PriceCents),
			MaxStudents: session.MaxStudents,
			Status:      session.Status,
		})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to write sessions response")
	}
}
