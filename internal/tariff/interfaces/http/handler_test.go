package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tariff "vidyutmitra/internal/tariff/domain"
	"vidyutmitra/internal/tariff/infrastructure/memory"
)

type failingStore struct{}

func (failingStore) Latest(context.Context) (tariff.Sample, error) {
	return tariff.Sample{}, errors.New("boom")
}

func (failingStore) ListRecent(context.Context, int) ([]tariff.Sample, error) {
	return nil, errors.New("boom")
}

func TestLatestHandlerEmptyStore(t *testing.T) {
	handler, err := NewLatestHandler(memory.NewSampleRepository())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tou/latest", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestLatestHandlerReturnsNewestSample(t *testing.T) {
	store := memory.NewSampleRepository()
	older := time.Date(2025, time.July, 9, 13, 0, 0, 0, time.UTC)
	newer := time.Date(2025, time.July, 9, 14, 0, 0, 0, time.UTC)
	_ = store.Append(context.Background(), tariff.Sample{Rate: 6.1, Timestamp: older})
	_ = store.Append(context.Background(), tariff.Sample{Rate: 6.82, Timestamp: newer})

	handler, err := NewLatestHandler(store)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tou/latest", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body sampleResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Rate != 6.82 {
		t.Fatalf("rate = %v, want 6.82", body.Rate)
	}
	if body.Timestamp != newer.Format(time.RFC3339) {
		t.Fatalf("timestamp = %s, want %s", body.Timestamp, newer.Format(time.RFC3339))
	}
}

func TestLatestHandlerStoreFailure(t *testing.T) {
	handler, err := NewLatestHandler(failingStore{})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tou/latest", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestHistoryHandlerOldestFirst(t *testing.T) {
	store := memory.NewSampleRepository()
	base := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		_ = store.Append(context.Background(), tariff.Sample{
			Rate:      5.0 + float64(i)*0.01,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
	}

	handler, err := NewHistoryHandler(store)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tou/history", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body []sampleResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != defaultHistoryHours {
		t.Fatalf("len = %d, want %d", len(body), defaultHistoryHours)
	}
	for i := 1; i < len(body); i++ {
		if body[i].Timestamp <= body[i-1].Timestamp {
			t.Fatalf("history not ascending at index %d", i)
		}
	}
}

func TestHistoryHandlerRejectsBadHours(t *testing.T) {
	handler, err := NewHistoryHandler(memory.NewSampleRepository())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	for _, raw := range []string{"0", "-3", "abc", "100000"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tou/history?hours="+raw, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("hours=%s: expected 400, got %d", raw, resp.Code)
		}
	}
}
