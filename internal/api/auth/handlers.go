// internal/api/auth/handlers.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/api/apiutil"
	"github.com/courtsidehq/courtside/internal/api/authz"
	appdb "github.com/courtsidehq/courtside/internal/db"
	"github.com/courtsidehq/courtside/internal/ratelimit"
)

var (
	store        *appdb.DB
	issuer       *TokenIssuer
	limiter      *ratelimit.Limiter
	handlersOnce sync.Once
)

const (
	authQueryTimeout  = 5 * time.Second
	minPasswordLength = 8
	// Phone numbers are parsed against the facility's country.
	phoneRegion = "TH"
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, tokenIssuer *TokenIssuer, loginLimiter *ratelimit.Limiter) {
	if database == nil {
		return
	}
	handlersOnce.Do(func() {
		store = database
		issuer = tokenIssuer
		limiter = loginLimiter
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type registerResponse struct {
	UserID     int64 `json:"user_id"`
	CustomerID int64 `json:"customer_id"`
}

// POST /api/v1/auth/register
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if store == nil || issuer == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "username is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "password must be at least 8 characters")
		return
	}
	if !strings.Contains(req.Email, "@") {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "email is invalid")
		return
	}
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "phone number is invalid")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	var resp registerResponse
	err = store.RunInTx(ctx, func(tx *appdb.DB) error {
		userID, err := tx.Queries.CreateUser(ctx, appdb.CreateUserParams{
			Username:     req.Username,
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: hash,
			Role:         appdb.RoleCustomer,
		})
		if err != nil {
			return err
		}
		customerID, err := tx.Queries.CreateCustomer(ctx, appdb.CreateCustomerParams{
			UserID: userID,
			Name:   strings.TrimSpace(req.Name),
			Phone:  phone,
		})
		if err != nil {
			return err
		}
		resp = registerResponse{UserID: userID, CustomerID: customerID}
		return nil
	})
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			apiutil.WriteError(w, http.StatusConflict, "conflict", "username is already taken")
			return
		}
		logger.Error().Err(err).Msg("Failed to register user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", resp.UserID).Msg("User registered")
	if err := apiutil.WriteJSON(w, http.StatusCreated, resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write register response")
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// POST /api/v1/auth/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if store == nil || issuer == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}

	if limiter != nil {
		if result := limiter.Check(req.Username); !result.Allowed {
			logger.Warn().Str("username", req.Username).Msg("Login throttled")
			apiutil.WriteError(w, http.StatusTooManyRequests, "throttled", "too many failed attempts, try again later")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	user, err := store.Queries.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, sql.ErrNoRows) {
		recordFailure(req.Username)
		apiutil.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !VerifyPassword(user.PasswordHash, req.Password) {
		recordFailure(req.Username)
		apiutil.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	if limiter != nil {
		limiter.RecordSuccess(req.Username)
	}

	principal := &authz.AuthUser{UserID: user.ID, Username: user.Username, Role: user.Role}
	if user.Role == appdb.RoleCustomer {
		customer, err := store.Queries.GetCustomerByUserID(ctx, user.ID)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to load customer profile")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		principal.CustomerID = customer.ID
	}

	token, err := issuer.Issue(principal)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to issue token")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, loginResponse{Token: token, Role: user.Role}); err != nil {
		logger.Error().Err(err).Msg("Failed to write login response")
	}
}

func recordFailure(username string) {
	if limiter != nil {
		limiter.RecordFailure(username)
	}
}

func normalizePhone(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(strings.TrimSpace(raw), phoneRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", errors.New("invalid phone number")
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
