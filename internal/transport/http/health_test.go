package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		db         Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "no database", method: http.MethodGet, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "database up", method: http.MethodGet, db: stubPinger{}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "database down", method: http.MethodGet, db: stubPinger{err: errors.New("refused")}, wantStatus: http.StatusServiceUnavailable, wantBody: "database unavailable"},
		{name: "post rejected", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			HandleHealth(tt.db).ServeHTTP(rec, httptest.NewRequest(tt.method, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Fatalf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}
