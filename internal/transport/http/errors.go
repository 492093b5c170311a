package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cimillas/table-reservations/internal/domain"
)

const (
	codeMethodNotAllowed      = "method_not_allowed"
	codeNotFound              = "not_found"
	codeInvalidRequestBody    = "invalid_request_body"
	codeMissingRequiredField  = "missing_required_field"
	codeInvalidID             = "invalid_id"
	codeInvalidDate           = "invalid_date"
	codeInvalidPartySize      = "invalid_party_size"
	codeInvalidDuration       = "invalid_duration"
	codeRestaurantNotFound    = "restaurant_not_found"
	codeRestaurantNameMissing = "restaurant_name_required"
	codeInvalidOperatingHours = "invalid_operating_hours"
	codeOutsideOpeningHours   = "outside_opening_hours"
	codeAfterClosingHours     = "after_closing_hours"
	codeExceedsClosingTime    = "exceeds_closing_time"
	codeSlotConflict          = "slot_conflict"
	codeForbidden             = "forbidden"
	codeInternalError         = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// serviceErrors maps domain errors to responses. Anything unlisted is a 500.
var serviceErrors = []errorMapping{
	{domain.ErrRestaurantNotFound, http.StatusNotFound, codeRestaurantNotFound},
	{domain.ErrInvalidID, http.StatusBadRequest, codeInvalidID},
	{domain.ErrInvalidDate, http.StatusBadRequest, codeInvalidDate},
	{domain.ErrInvalidPartySize, http.StatusBadRequest, codeInvalidPartySize},
	{domain.ErrRestaurantNameRequired, http.StatusBadRequest, codeRestaurantNameMissing},
	{domain.ErrInvalidOperatingHours, http.StatusBadRequest, codeInvalidOperatingHours},
	{domain.ErrInvalidDuration, http.StatusBadRequest, codeInvalidDuration},
	{domain.ErrOutsideOpeningHours, http.StatusBadRequest, codeOutsideOpeningHours},
	{domain.ErrAfterClosingHours, http.StatusBadRequest, codeAfterClosingHours},
	{domain.ErrExceedsClosingTime, http.StatusBadRequest, codeExceedsClosingTime},
	{domain.ErrSlotConflict, http.StatusConflict, codeSlotConflict},
}

func writeServiceError(w http.ResponseWriter, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
