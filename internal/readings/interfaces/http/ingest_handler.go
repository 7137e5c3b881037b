package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vidyutmitra/internal/audit"
	"vidyutmitra/internal/auth"
	"vidyutmitra/internal/observability/metrics"
	readings "vidyutmitra/internal/readings/domain"
)

// ReadingStore persists ingested readings.
type ReadingStore interface {
	Store(ctx context.Context, userID string, list []readings.Reading) error
}

// IngestHandler accepts meter readings for the authenticated user.
type IngestHandler struct {
	store  ReadingStore
	audit  audit.Logger
	logger *log.Logger
}

// NewIngestHandler constructs an ingest handler.
func NewIngestHandler(store ReadingStore, auditLogger audit.Logger, logger *log.Logger) (*IngestHandler, error) {
	if store == nil {
		return nil, errors.New("readings ingest: nil store")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &IngestHandler{store: store, audit: auditLogger, logger: logger}, nil
}

// ServeHTTP handles POST /api/v1/readings.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body error", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req ingestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Printf("readings ingest: decode error: %v", err)
		metrics.ObserveIngest("error", time.Since(start))
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	list, err := req.toReadings(userID)
	if err != nil {
		h.logger.Printf("readings ingest: invalid payload: %v", err)
		metrics.ObserveIngest("error", time.Since(start))
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.store.Store(r.Context(), userID, list); err != nil {
		h.logger.Printf("readings ingest: insert error: %v", err)
		metrics.ObserveIngest("error", time.Since(start))
		http.Error(w, "insert error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveIngest("success", time.Since(start))

	if h.audit != nil {
		meta, _ := json.Marshal(map[string]any{"count": len(list)})
		if err := h.audit.Log(r.Context(), audit.Entry{
			Actor:        userID,
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "readings.ingest",
			ResourceType: "energy_readings",
			Metadata:     meta,
		}); err != nil {
			h.logger.Printf("readings ingest: audit error: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"inserted": len(list)})
}

type ingestRequest struct {
	Readings []ingestRow `json:"readings"`
}

type ingestRow struct {
	SendDate    string     `json:"sendDate"`
	SolarPower  looseFloat `json:"solarPowerKw"`
	SolarEnergy looseFloat `json:"solarEnergyKwh"`
	Consumption looseFloat `json:"consumptionKw"`
}

func (r ingestRequest) toReadings(userID string) ([]readings.Reading, error) {
	if len(r.Readings) == 0 {
		return nil, errors.New("no readings")
	}
	list := make([]readings.Reading, 0, len(r.Readings))
	for _, row := range r.Readings {
		sentAt, err := parseSendDate(row.SendDate)
		if err != nil {
			return nil, err
		}
		list = append(list, readings.Reading{
			UserID:         userID,
			SentAt:         sentAt,
			SolarPowerKW:   float64(row.SolarPower),
			SolarEnergyKWh: float64(row.SolarEnergy),
			ConsumptionKW:  float64(row.Consumption),
		})
	}
	return list, nil
}

var sendDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-01-2006 15:04",
}

func parseSendDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, readings.ErrInvalidSentAt
	}
	for _, layout := range sendDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, readings.ErrInvalidSentAt
}

// looseFloat decodes a JSON number or numeric string, falling back to
// NaN when the source field is unparsable.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*f = looseFloat(number)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			*f = looseFloat(parsed)
			return nil
		}
	}
	*f = looseFloat(math.NaN())
	return nil
}
