package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cimillas/table-reservations/internal/app"
	"github.com/cimillas/table-reservations/internal/domain"
)

// ReservationService is the minimal interface needed for reservation endpoints.
type ReservationService interface {
	Create(ctx context.Context, restaurantID string, in app.CreateReservationInput) (domain.Reservation, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Reservation, error)
}

// AvailabilityReader reports the free hours of a restaurant day.
type AvailabilityReader interface {
	DayAvailability(ctx context.Context, restaurantID, date string) (app.DayAvailability, error)
}

// HandleRestaurant serves everything below /restaurants/{id}.
func HandleRestaurant(restaurants RestaurantService, reservations ReservationService, availability AvailabilityReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, resource, ok := parseRestaurantPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch resource {
		case "":
			handleRestaurantDetail(w, r, restaurants, restaurantID)
		case "reservations":
			handleReservations(w, r, reservations, restaurantID)
		case "availability":
			handleAvailability(w, r, availability, restaurantID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleReservations(w http.ResponseWriter, r *http.Request, svc ReservationService, restaurantID string) {
	switch r.Method {
	case http.MethodGet:
		reservations, err := svc.ListByRestaurant(r.Context(), restaurantID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]reservationResponse, 0, len(reservations))
		for _, reservation := range reservations {
			resp = append(resp, newReservationResponse(reservation))
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		var req createReservationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.StartHour == nil || req.Duration == nil || req.PartySize == nil {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "start_hour, duration and party_size are required")
			return
		}

		reservation, err := svc.Create(r.Context(), restaurantID, app.CreateReservationInput{
			Date:      req.Date,
			StartHour: *req.StartHour,
			Duration:  *req.Duration,
			PartySize: *req.PartySize,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newReservationResponse(reservation))
	default:
		writeMethodNotAllowed(w, r)
	}
}

func handleAvailability(w http.ResponseWriter, r *http.Request, svc AvailabilityReader, restaurantID string) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}

	day, err := svc.DayAvailability(r.Context(), restaurantID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	free := day.FreeHours
	if free == nil {
		free = []int{}
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		RestaurantID: day.RestaurantID,
		Date:         day.Date,
		OpenHour:     day.Window.OpenHour,
		CloseHour:    day.Window.CloseHour,
		FreeHours:    free,
	})
}

type createReservationRequest struct {
	Date      string `json:"date"`
	StartHour *int   `json:"start_hour"`
	Duration  *int   `json:"duration"`
	PartySize *int   `json:"party_size"`
}

type reservationResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Date         string    `json:"date"`
	StartHour    int       `json:"start_hour"`
	Duration     int       `json:"duration"`
	EndHour      int       `json:"end_hour"`
	PartySize    int       `json:"party_size"`
	CreatedAt    time.Time `json:"created_at"`
}

func newReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		Date:         r.Date,
		StartHour:    r.StartHour,
		Duration:     r.Duration,
		EndHour:      r.EndHour(),
		PartySize:    r.PartySize,
		CreatedAt:    r.CreatedAt,
	}
}

type availabilityResponse struct {
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	OpenHour     int    `json:"open_hour"`
	CloseHour    int    `json:"close_hour"`
	FreeHours    []int  `json:"free_hours"`
}

// parseRestaurantPath splits /restaurants/{id}[/{resource}].
func parseRestaurantPath(path string) (string, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return "", "", false
	}
	if parts[0] != "restaurants" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return "", "", false
		}
		return parts[1], parts[2], true
	}
	return parts[1], "", true
}
