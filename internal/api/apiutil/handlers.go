package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/orders"
)

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// errorBody is the structured error shape every endpoint returns.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeErrorBody(w http.ResponseWriter, status int, kind, message string) {
	_ = WriteJSON(w, status, errorBody{Kind: kind, Message: message})
}

// WriteOrderError maps the order/enrollment error taxonomy onto HTTP status
// classes: validation 400, not-found 404, conflict 409, everything else a
// logged 500 with no internals leaked.
func WriteOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound orders.NotFoundError
	var validation orders.ValidationError
	var conflict orders.ConflictError

	switch {
	case errors.As(err, &notFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &validation):
		writeErrorBody(w, http.StatusBadRequest, "validation", validation.Error())
	case errors.As(err, &conflict):
		writeErrorBody(w, http.StatusConflict, "conflict", conflict.Error())
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Unexpected order error")
		writeErrorBody(w, http.StatusInternalServerError, "internal", "Internal Server Error")
	}
}

// WriteError emits a structured error with an explicit status.
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	writeErrorBody(w, status, kind, message)
}
