package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	tariff "vidyutmitra/internal/tariff/domain"
)

const (
	defaultHistoryHours = 24
	maxHistoryHours     = 24 * 7
)

// SampleReader reads stored samples.
type SampleReader interface {
	Latest(ctx context.Context) (tariff.Sample, error)
	ListRecent(ctx context.Context, n int) ([]tariff.Sample, error)
}

type sampleResponse struct {
	Rate      float64 `json:"rate"`
	Timestamp string  `json:"timestamp"`
}

// LatestHandler serves the most recent tariff sample.
type LatestHandler struct {
	store SampleReader
}

// NewLatestHandler constructs a LatestHandler.
func NewLatestHandler(store SampleReader) (*LatestHandler, error) {
	if store == nil {
		return nil, errors.New("tariff handler: nil store")
	}
	return &LatestHandler{store: store}, nil
}

// ServeHTTP handles GET /api/v1/tou/latest.
func (h *LatestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sample, err := h.store.Latest(r.Context())
	if err != nil {
		if errors.Is(err, tariff.ErrNoSamples) {
			http.Error(w, "no tariff data available", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch tariff rate", http.StatusInternalServerError)
		return
	}

	writeJSON(w, sampleResponse{
		Rate:      sample.Rate,
		Timestamp: sample.Timestamp.UTC().Format(time.RFC3339),
	})
}

// HistoryHandler serves the recent tariff series, oldest first.
type HistoryHandler struct {
	store SampleReader
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(store SampleReader) (*HistoryHandler, error) {
	if store == nil {
		return nil, errors.New("tariff handler: nil store")
	}
	return &HistoryHandler{store: store}, nil
}

// ServeHTTP handles GET /api/v1/tou/history.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	hours := defaultHistoryHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxHistoryHours {
			http.Error(w, "invalid hours", http.StatusBadRequest)
			return
		}
		hours = parsed
	}

	samples, err := h.store.ListRecent(r.Context(), hours)
	if err != nil {
		http.Error(w, "failed to fetch tariff history", http.StatusInternalServerError)
		return
	}

	out := make([]sampleResponse, 0, len(samples))
	for _, sample := range samples {
		out = append(out, sampleResponse{
			Rate:      sample.Rate,
			Timestamp: sample.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
