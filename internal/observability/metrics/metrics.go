package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "vidyutmitra_"

	resultSuccess = "success"
)

var (
	registerOnce sync.Once

	synthesizerTicks *prometheus.CounterVec

	ingestRequests *prometheus.CounterVec
	ingestLatency  *prometheus.HistogramVec

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec
	reportExportTotal     *prometheus.CounterVec

	insightCalls *prometheus.CounterVec
	weatherCalls *prometheus.CounterVec

	tariffCacheHits *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		synthesizerTicks = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "tariff_synthesizer_ticks_total",
				Help: "Total tariff synthesizer ticks by result",
			},
			[]string{"result"},
		)

		ingestRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_ingest_total",
				Help: "Total meter reading ingest requests by result",
			},
			[]string{"result"},
		)
		ingestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "readings_ingest_latency_seconds",
				Help:    "Meter reading ingest latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generations by result",
			},
			[]string{"result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)

		insightCalls = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "insight_calls_total",
				Help: "Total insight model calls by component and result",
			},
			[]string{"component", "result"},
		)
		weatherCalls = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "weather_calls_total",
				Help: "Total weather lookups by result",
			},
			[]string{"result"},
		)

		tariffCacheHits = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "tariff_cache_total",
				Help: "Latest tariff cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		prometheus.MustRegister(
			synthesizerTicks,
			ingestRequests,
			ingestLatency,
			reportGenerateTotal,
			reportGenerateLatency,
			reportExportTotal,
			insightCalls,
			weatherCalls,
			tariffCacheHits,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// SynthesizerTick increments the synthesizer tick counter.
func SynthesizerTick(result string) {
	if result == "" {
		result = resultSuccess
	}
	if synthesizerTicks != nil {
		synthesizerTicks.WithLabelValues(result).Inc()
	}
}

// ObserveIngest records ingest request duration and result.
func ObserveIngest(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if ingestRequests != nil {
		ingestRequests.WithLabelValues(result).Inc()
	}
	if ingestLatency != nil {
		ingestLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveReportGenerate records report generation duration and result.
func ObserveReportGenerate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if reportGenerateTotal != nil {
		reportGenerateTotal.WithLabelValues(result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncReportExport increments the export counter.
func IncReportExport(format, result string) {
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
}

// IncInsightCall increments the insight call counter.
func IncInsightCall(component, result string) {
	if component == "" {
		component = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if insightCalls != nil {
		insightCalls.WithLabelValues(component, result).Inc()
	}
}

// IncWeatherCall increments the weather lookup counter.
func IncWeatherCall(result string) {
	if result == "" {
		result = resultSuccess
	}
	if weatherCalls != nil {
		weatherCalls.WithLabelValues(result).Inc()
	}
}

// IncTariffCache increments the tariff cache counter.
func IncTariffCache(outcome string) {
	if outcome == "" {
		outcome = "miss"
	}
	if tariffCacheHits != nil {
		tariffCacheHits.WithLabelValues(outcome).Inc()
	}
}
