package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func teapot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func preflight(path, origin, method string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	return req
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	const origin = "http://localhost:5173"
	handler := CORS(NewCORSPolicy([]string{origin}), teapot())

	tests := []struct {
		name        string
		path        string
		origin      string
		method      string
		wantStatus  int
		wantMethods string
	}{
		{
			name:        "reservation create",
			path:        "/restaurants/rest-1/reservations",
			origin:      origin,
			method:      http.MethodPost,
			wantStatus:  http.StatusNoContent,
			wantMethods: "GET, POST, OPTIONS",
		},
		{
			name:        "availability read",
			path:        "/restaurants/rest-1/availability",
			origin:      origin,
			method:      http.MethodGet,
			wantStatus:  http.StatusNoContent,
			wantMethods: "GET, OPTIONS",
		},
		{
			name:       "post to availability",
			path:       "/restaurants/rest-1/availability",
			origin:     origin,
			method:     http.MethodPost,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			path:       "/tables",
			origin:     origin,
			method:     http.MethodGet,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "origin not allowed",
			path:       "/restaurants",
			origin:     "http://evil.local",
			method:     http.MethodPost,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, preflight(tt.path, tt.origin, tt.method))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantMethods == "" {
				return
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Fatalf("expected allow methods %q, got %q", tt.wantMethods, got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
				t.Fatalf("expected allow origin, got %q", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
				t.Fatalf("expected allow headers, got %q", got)
			}
			if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
				t.Fatalf("expected max age 600, got %q", got)
			}
		})
	}
}

func TestCORS_SimpleRequests(t *testing.T) {
	t.Parallel()

	handler := CORS(NewCORSPolicy([]string{"http://localhost:5173"}), teapot())

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("expected passthrough with allow origin, got %d %v", rec.Code, rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected passthrough without allow origin, got %d %v", rec.Code, rec.Header())
	}
}

func TestCORS_Wildcard(t *testing.T) {
	t.Parallel()

	handler := CORS(NewCORSPolicy([]string{"*"}), teapot())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, preflight("/restaurants", "http://anything.local", http.MethodPost))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
}
