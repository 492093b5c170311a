package http

import (
	"fmt"
	"net/http"
	"strings"
)

// Services bundles what the router dispatches to. DB may be nil, in which
// case /health only reports liveness.
type Services struct {
	Restaurants  RestaurantService
	Reservations ReservationService
	Availability AvailabilityReader
	DB           Pinger
}

func NewRouter(s Services) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", HandleHealth(s.DB))
	mux.Handle("/restaurants", HandleRestaurants(s.Restaurants))
	mux.Handle("/restaurants/", HandleRestaurant(s.Restaurants, s.Reservations, s.Availability))
	mux.Handle("/", NotFoundHandler())
	return mux
}

// AllowedMethods returns the methods served at path, or nil when no route
// matches. The handlers and the CORS preflight both answer from it.
func AllowedMethods(path string) []string {
	switch path {
	case "/health":
		return []string{http.MethodGet, http.MethodHead}
	case "/restaurants":
		return []string{http.MethodGet, http.MethodPost}
	}

	_, resource, ok := parseRestaurantPath(path)
	if !ok {
		return nil
	}
	switch resource {
	case "", "availability":
		return []string{http.MethodGet}
	case "reservations":
		return []string{http.MethodGet, http.MethodPost}
	}
	return nil
}

func allows(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

// writeMethodNotAllowed answers 405 with the Allow header for the request path.
func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	methods := AllowedMethods(r.URL.Path)
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(append(methods, http.MethodOptions), ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed,
		fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path))
}

// NotFoundHandler returns a JSON 404 naming the unmatched route.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
}
