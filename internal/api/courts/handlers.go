// internal/api/courts/handlers.go
package courts

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/api/apiutil"
	"github.com/courtsidehq/courtside/internal/booking"
	appdb "github.com/courtsidehq/courtside/internal/db"
)

var (
	store        *appdb.DB
	availability *booking.Evaluator
	handlersOnce sync.Once
)

const courtQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, evaluator *booking.Evaluator) {
	if database == nil {
		return
	}
	handlersOnce.Do(func() {
		store = database
		availability = evaluator
	})
}

type courtResponse struct {
	ID            int64  `json:"id"`
	CourtType     string `json:"court_type"`
	Status        string `json:"status"`
	HourRateCents int64  `json:"hour_rate_cents"`
	HourRate      string `json:"hour_rate"`
}

func toCourtResponse(court appdb.Court) courtResponse {
	return courtResponse{
		ID:            court.ID,
		CourtType:     court.CourtType,
		Status:        court.Status,
		HourRateCents: court.HourRateCents,
		HourRate:      apiutil.FormatPriceCents(court.HourRateCents),
	}
}

// GET /api/v1/courts
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if store == nil {
		logger.Error().Msg("Court handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	courts, err := store.Queries.ListCourts(ctx, appdb.CourtStatusAvailable)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list courts")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload := make([]courtResponse, 0, len(courts))
	for _, court := range courts {
		payload = append(payload, toCourtResponse(court))
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to write courts response")
	}
}

type courtDetailResponse struct {
	Court          courtResponse      `json:"court"`
	AvailableSlots []booking.Interval `json:"available_slots"`
}

// GET /api/v1/courts/{id}?start_time=&end_time=
//
// Without query parameters the facility's operating hours for the current
// day are used as the window.
func HandleCourtDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if store == nil || availability == nil {
		logger.Error().Msg("Court handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	court, err := store.Queries.GetCourt(ctx, courtID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, "not_found", "court not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to load court")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slots, err := availability.FreeSlots(ctx, courtID, window)
	if err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to compute free slots")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if slots == nil {
		slots = []booking.Interval{}
	}

	payload := courtDetailResponse{
		Court:          toCourtResponse(court),
		AvailableSlots: slots,
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to write court response")
	}
}

func windowFromQuery(r *http.Request) (booking.Interval, error) {
	rawStart := r.URL.Query().Get("start_time")
	rawEnd := r.URL.Query().Get("end_time")
	if rawStart == "" && rawEnd == "" {
		return availability.OperatingWindow(time.Now()), nil
	}

	start, err := apiutil.ParseTimeField(rawStart, "start_time")
	if err != nil {
		return booking.Interval{}, err
	}
	end, err := apiutil.ParseTimeField(rawEnd, "end_time")
	if err != nil {
		return booking.Interval{}, err
	}
	if !end.After(start) {
		return booking.Interval{}, errors.New("end_time must be after start_time")
	}
	return booking.Interval{Start: start, End: end}, nil
}
