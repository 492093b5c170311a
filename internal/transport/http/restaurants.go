package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cimillas/table-reservations/internal/app"
	"github.com/cimillas/table-reservations/internal/domain"
)

// RestaurantService is the minimal interface needed for restaurant endpoints.
type RestaurantService interface {
	CreateRestaurant(ctx context.Context, in app.CreateRestaurantInput) (domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
}

// HandleRestaurants serves GET and POST on /restaurants.
func HandleRestaurants(svc RestaurantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			restaurants, err := svc.ListRestaurants(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]restaurantResponse, 0, len(restaurants))
			for _, restaurant := range restaurants {
				resp = append(resp, newRestaurantResponse(restaurant))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createRestaurantRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.OpenHour == nil || req.CloseHour == nil {
				writeError(w, http.StatusBadRequest, codeMissingRequiredField, "open_hour and close_hour are required")
				return
			}

			restaurant, err := svc.CreateRestaurant(r.Context(), app.CreateRestaurantInput{
				Name:      req.Name,
				OpenHour:  *req.OpenHour,
				CloseHour: *req.CloseHour,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, newRestaurantResponse(restaurant))
		default:
			writeMethodNotAllowed(w, r)
		}
	}
}

func handleRestaurantDetail(w http.ResponseWriter, r *http.Request, svc RestaurantService, restaurantID string) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}
	restaurant, err := svc.GetRestaurant(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRestaurantResponse(restaurant))
}

type createRestaurantRequest struct {
	Name      string `json:"name"`
	OpenHour  *int   `json:"open_hour"`
	CloseHour *int   `json:"close_hour"`
}

type restaurantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OpenHour  int       `json:"open_hour"`
	CloseHour int       `json:"close_hour"`
	CreatedAt time.Time `json:"created_at"`
}

func newRestaurantResponse(r domain.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:        r.ID,
		Name:      r.Name,
		OpenHour:  r.Window.OpenHour,
		CloseHour: r.Window.CloseHour,
		CreatedAt: r.CreatedAt,
	}
}
