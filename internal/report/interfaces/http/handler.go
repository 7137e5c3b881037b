package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"vidyutmitra/internal/audit"
	"vidyutmitra/internal/auth"
	"vidyutmitra/internal/observability/metrics"
	profile "vidyutmitra/internal/profile/domain"
	"vidyutmitra/internal/report/application"
	report "vidyutmitra/internal/report/domain"
)

// Generator assembles a report bundle for a user.
type Generator interface {
	Generate(ctx context.Context, userID string, lat, lon float64) (*report.Bundle, error)
}

// Handler serves report generation and export.
type Handler struct {
	generator Generator
	audit     audit.Logger
	logger    *log.Logger
}

// NewHandler wires the report endpoints. audit may be nil.
func NewHandler(generator Generator, auditLogger audit.Logger, logger *log.Logger) (*Handler, error) {
	if generator == nil {
		return nil, errors.New("report: nil generator")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{generator: generator, audit: auditLogger, logger: logger}, nil
}

// Generate handles GET /api/v1/reports.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bundle, ok := h.generate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(bundle)
}

// ExportPDF handles GET /api/v1/reports/export.pdf.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bundle, ok := h.generate(w, r)
	if !ok {
		metrics.IncReportExport("pdf", "error")
		return
	}
	data, err := BuildReportPDF(bundle, time.Now().UTC())
	if err != nil {
		metrics.IncReportExport("pdf", "error")
		h.logger.Printf("report export: pdf error: %v", err)
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	metrics.IncReportExport("pdf", "success")
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logExport(r, "pdf")
}

// ExportXLSX handles GET /api/v1/reports/export.xlsx.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bundle, ok := h.generate(w, r)
	if !ok {
		metrics.IncReportExport("xlsx", "error")
		return
	}
	data, err := BuildReportXLSX(bundle, time.Now().UTC())
	if err != nil {
		metrics.IncReportExport("xlsx", "error")
		h.logger.Printf("report export: xlsx error: %v", err)
		http.Error(w, "export xlsx error", http.StatusInternalServerError)
		return
	}
	metrics.IncReportExport("xlsx", "success")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logExport(r, "xlsx")
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) (*report.Bundle, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	lat, err := parseCoordinate(r.URL.Query().Get("lat"))
	if err != nil {
		http.Error(w, "invalid lat", http.StatusBadRequest)
		return nil, false
	}
	lon, err := parseCoordinate(r.URL.Query().Get("lon"))
	if err != nil {
		http.Error(w, "invalid lon", http.StatusBadRequest)
		return nil, false
	}

	start := time.Now()
	bundle, err := h.generator.Generate(r.Context(), userID, lat, lon)
	if err != nil {
		metrics.ObserveReportGenerate("error", time.Since(start))
		if errors.Is(err, profile.ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.Printf("report generate: user=%s err=%v", userID, err)
		http.Error(w, application.ErrIncomplete.Error(), http.StatusInternalServerError)
		return nil, false
	}
	metrics.ObserveReportGenerate("success", time.Since(start))
	return bundle, true
}

func (h *Handler) logExport(r *http.Request, format string) {
	if h.audit == nil {
		return
	}
	userID := auth.UserIDFromContext(r.Context())
	meta, _ := json.Marshal(map[string]any{"format": format})
	if err := h.audit.Log(r.Context(), audit.Entry{
		Actor:        userID,
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "report.export",
		ResourceType: "report",
		Metadata:     meta,
	}); err != nil {
		h.logger.Printf("report export: audit error: %v", err)
	}
}

func parseCoordinate(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
