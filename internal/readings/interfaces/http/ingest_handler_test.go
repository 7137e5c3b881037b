package http

import (
	"context"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidyutmitra/internal/auth"
	readings "vidyutmitra/internal/readings/domain"
)

type capturingStore struct {
	userID string
	stored []readings.Reading
}

func (s *capturingStore) Store(_ context.Context, userID string, list []readings.Reading) error {
	s.userID = userID
	s.stored = list
	return nil
}

func newHandler(t *testing.T, store ReadingStore) *IngestHandler {
	t.Helper()
	handler, err := NewIngestHandler(store, nil, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func authedRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/readings", strings.NewReader(body))
	ctx := auth.WithIdentity(req.Context(), "user-1", auth.RoleMember)
	return req.WithContext(ctx)
}

func TestIngestStoresRowsForAuthenticatedUser(t *testing.T) {
	store := &capturingStore{}
	handler := newHandler(t, store)

	body := `{"readings":[
		{"sendDate":"2025-07-09T14:00:00Z","solarPowerKw":1.2,"solarEnergyKwh":0.9,"consumptionKw":2.4},
		{"sendDate":"2025-07-09T15:00:00Z","solarPowerKw":"1.5","solarEnergyKwh":"1.1","consumptionKw":"2.0"}
	]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if store.userID != "user-1" {
		t.Fatalf("user id = %q, want user-1", store.userID)
	}
	if len(store.stored) != 2 {
		t.Fatalf("stored %d rows, want 2", len(store.stored))
	}
	if store.stored[1].SolarPowerKW != 1.5 {
		t.Fatalf("string numeric not parsed: %v", store.stored[1].SolarPowerKW)
	}
}

func TestIngestUnparsableNumericBecomesNaN(t *testing.T) {
	store := &capturingStore{}
	handler := newHandler(t, store)

	body := `{"readings":[
		{"sendDate":"2025-07-09T14:00:00Z","solarPowerKw":"n/a","solarEnergyKwh":0.9,"consumptionKw":2.4}
	]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !math.IsNaN(store.stored[0].SolarPowerKW) {
		t.Fatalf("expected NaN for unparsable field, got %v", store.stored[0].SolarPowerKW)
	}
}

func TestIngestRejectsMissingIdentity(t *testing.T) {
	handler := newHandler(t, &capturingStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/readings", strings.NewReader(`{"readings":[]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestIngestRejectsEmptyPayload(t *testing.T) {
	handler := newHandler(t, &capturingStore{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(`{"readings":[]}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestIngestRejectsBadTimestamp(t *testing.T) {
	handler := newHandler(t, &capturingStore{})

	body := `{"readings":[{"sendDate":"not a date","consumptionKw":1}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(body))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
