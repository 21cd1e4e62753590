// internal/api/admin/handlers.go

// Package admin holds the staff-only management endpoints: creating courts,
// equipment, food, coaches, and training sessions, plus restocking and court
// status changes. Route registration wraps these in the staff guard.
package admin

import (
	"context"
	"net/http"
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

const adminQueryTimeout = 5 * time.Second

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
		log.Ctx(r.Context()).Error().Msg("Admin handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type createCourtRequest struct {
	CourtType     string `json:"court_type"`
	Status        string `json:"status"`
	HourRateCents int64  `json:"hour_rate_cents"`
}

// POST /api/v1/admin/courts
func HandleCourtCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	var req createCourtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	switch req.CourtType {
	case "normal", "air-conditioned":
	default:
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "court_type must be normal or air-conditioned")
		return
	}
	if req.Status == "" {
		req.Status = appdb.CourtStatusAvailable
	}
	if req.Status != appdb.CourtStatusAvailable && req.Status != appdb.CourtStatusUnavailable {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "status must be available or unavailable")
		return
	}
	if req.HourRateCents <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "hour_rate_cents must be greater than 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	id, err := store.Queries.CreateCourt(ctx, appdb.CreateCourtParams{
		CourtType:     req.CourtType,
		Status:        req.Status,
		HourRateCents: req.HourRateCents,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create court")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("court_id", id).Msg("Court created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, createdResponse{ID: id}); err != nil {
		logger.Error().Err(err).Msg("Failed to write court response")
	}
}

type updateCourtStatusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/v1/admin/courts/{id}/status
func HandleCourtStatusUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	var req updateCourtStatusRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if req.Status != appdb.CourtStatusAvailable && req.Status != appdb.CourtStatusUnavailable {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "status must be available or unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	affected, err := store.Queries.UpdateCourtStatus(ctx, courtID, req.Status)
	if err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to update court status")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "not_found", "court not found")
		return
	}

	logger.Info().Int64("court_id", courtID).Str("status", req.Status).Msg("Court status updated")
	w.WriteHeader(http.StatusNoContent)
}

type createEquipmentRequest struct {
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	EquipmentType string `json:"equipment_type"`
	PriceCents    int64  `json:"price_cents"`
	Stock         int64  `json:"stock"`
}

// POST /api/v1/admin/equipment
func HandleEquipmentCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	var req createEquipmentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "name is required")
		return
	}
	if req.PriceCents <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "price_cents must be greater than 0")
		return
	}
	if req.Stock < 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "stock must not be negative")
		return
	}

	status := appdb.StockStatusAvailable
	if req.Stock == 0 {
		status = appdb.StockStatusUnavailable
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	id, err := store.Queries.CreateEquipment(ctx, appdb.CreateEquipmentParams{
		Name:          strings.TrimSpace(req.Name),
		Brand:         strings.TrimSpace(req.Brand),
		EquipmentType: strings.TrimSpace(req.EquipmentType),
		PriceCents:    req.PriceCents,
		Stock:         req.Stock,
		Status:        status,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create equipment")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("equipment_id", id).Msg("Equipment created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, createdResponse{ID: id}); err != nil {
		logger.Error().Err(err).Msg("Failed to write equipment response")
	}
}

type restockRequest struct {
	Quantity int64 `json:"quantity"`
}

// POST /api/v1/admin/equipment/{id}/restock
func HandleEquipmentRestock(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	handleRestock(w, r, store.Queries.RestockEquipment, "equipment")
}

// POST /api/v1/admin/food/{id}/restock
func HandleFoodRestock(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	handleRestock(w, r, store.Queries.RestockFood, "food item")
}

func handleRestock(w http.ResponseWriter, r *http.Request, restock func(context.Context, int64, int64) (int64, error), kind string) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	var req restockRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "quantity must be greater than 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	affected, err := restock(ctx, id, req.Quantity)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Failed to restock")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "not_found", kind+" not found")
		return
	}

	logger.Info().Int64("id", id).Int64("quantity", req.Quantity).Msg("Stock replenished")
	w.WriteHeader(http.StatusNoContent)
}

type createFoodRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
}

// POST /api/v1/admin/food
func HandleFoodCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	var req createFoodRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "name is required")
		return
	}
	if req.PriceCents <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "price_cents must be greater than 0")
		return
	}
	if req.Stock < 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "stock must not be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	id, err := store.Queries.CreateFood(ctx, appdb.CreateFoodParams{
		Name:       strings.TrimSpace(req.Name),
		Category:   strings.TrimSpace(req.Category),
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create food item")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("food_id", id).Msg("Food item created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, createdResponse{ID: id}); err != nil {
		logger.Error().Err(err).Msg("Failed to write food response")
	}
}

type createCoachRequest struct {
	Name            string `json:"name"`
	Specialty       string `json:"specialty"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

// POST /api/v1/admin/coaches
func HandleCoachCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	var req createCoachRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "name is required")
		return
	}
	if req.HourlyRateCents <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "hourly_rate_cents must be greater than 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	id, err := store.Queries.CreateCoach(ctx, appdb.CreateCoachParams{
		Name:            strings.TrimSpace(req.Name),
		Specialty:       strings.TrimSpace(req.Specialty),
		HourlyRateCents: req.HourlyRateCents,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create coach")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("coach_id", id).Msg("Coach created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, createdResponse{ID: id}); err != nil {
		logger.Error().Err(err).Msg("Failed to write coach response")
	}
}

type createSessionRequest struct {
	CoachID     int64  `json:"coach_id"`
	CourtID     int64  `json:"court_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Level       string `json:"level"`
	PriceCents  int64  `json:"price_cents"`
	MaxStudents int64  `json:"max_students"`
}

// POST /api/v1/admin/training-sessions
//
// Creating a session also reserves the court by writing a schedule block, so
// the availability sweep sees the session as busy time.
func HandleSessionCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}

	var req createSessionRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if req.CoachID <= 0 || req.CourtID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "coach_id and court_id are required")
		return
	}
	start, err := apiutil.ParseTimeField(req.StartTime, "start_time")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	end, err := apiutil.ParseTimeField(req.EndTime, "end_time")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if !end.After(start) {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "end_time must be after start_time")
		return
	}
	if req.PriceCents <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "price_cents must be greater than 0")
		return
	}
	if req.MaxStudents <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "max_students must be greater than 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	var sessionID int64
	err = store.RunInTx(ctx, func(tx *appdb.DB) error {
		id, err := tx.Queries.CreateTrainingSession(ctx, appdb.CreateTrainingSessionParams{
			CoachID:     req.CoachID,
			CourtID:     req.CourtID,
			StartsAt:    start,
			EndsAt:      end,
			Level:       strings.TrimSpace(req.Level),
			PriceCents:  req.PriceCents,
			MaxStudents: req.MaxStudents,
			Status:      appdb.SessionStatusAvailable,
		})
		if err != nil {
			return err
		}
		sessionID = id
		return tx.Queries.AddTrainingSchedule(ctx, appdb.AddTrainingScheduleParams{
			SessionID: id,
			CourtID:   req.CourtID,
			StartsAt:  start,
			EndsAt:    end,
		})
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create training session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("session_id", sessionID).Msg("Training session created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, createdResponse{ID: sessionID}); err != nil {
		logger.Error().Err(err).Msg("Failed to write session response")
	}
}
