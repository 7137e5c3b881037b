package application

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"vidyutmitra/internal/discom"
	"vidyutmitra/internal/observability/metrics"
	profile "vidyutmitra/internal/profile/domain"
	readings "vidyutmitra/internal/readings/domain"
	report "vidyutmitra/internal/report/domain"
	tariff "vidyutmitra/internal/tariff/domain"
	"vidyutmitra/internal/weather"
)

// ErrIncomplete is returned when the report cannot be assembled.
var ErrIncomplete = errors.New("report: failed to generate complete report")

// ProfileGetter loads the requesting user's profile.
type ProfileGetter interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

// ReadingLister loads a user's meter readings in ascending time order.
type ReadingLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]readings.Reading, error)
}

// TariffHistory loads the most recent tariff samples in ascending
// time order.
type TariffHistory interface {
	ListRecent(ctx context.Context, n int) ([]tariff.Sample, error)
}

// InsightCaller asks the language model for a JSON insight document.
type InsightCaller interface {
	Complete(ctx context.Context, prompt string) (json.RawMessage, error)
}

// WeatherFetcher loads current conditions for a coordinate.
type WeatherFetcher interface {
	Current(ctx context.Context, lat, lon float64) (weather.Snapshot, error)
}

const (
	defaultHistorySamples = 24
	defaultReadingsLimit  = 1000
)

// Option customizes a Service.
type Option func(*Service)

// WithHistorySamples sets how many tariff samples feed the analysis.
func WithHistorySamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySamples = n
		}
	}
}

// WithReadingsLimit caps how many readings are loaded per report.
func WithReadingsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.readingsLimit = n
		}
	}
}

// Service assembles on-demand dashboard reports. Insight and weather
// clients are optional; a nil client degrades to the per-section
// fallbacks.
type Service struct {
	profiles ProfileGetter
	readings ReadingLister
	history  TariffHistory
	insight  InsightCaller
	weather  WeatherFetcher
	logger   *log.Logger

	historySamples int
	readingsLimit  int
}

// NewService wires a report service. profiles, readingStore, and
// history are required.
func NewService(profiles ProfileGetter, readingStore ReadingLister, history TariffHistory, insight InsightCaller, fetcher WeatherFetcher, logger *log.Logger, opts ...Option) (*Service, error) {
	if profiles == nil {
		return nil, errors.New("report: nil profile store")
	}
	if readingStore == nil {
		return nil, errors.New("report: nil reading store")
	}
	if history == nil {
		return nil, errors.New("report: nil tariff history")
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		profiles:       profiles,
		readings:       readingStore,
		history:        history,
		insight:        insight,
		weather:        fetcher,
		logger:         logger,
		historySamples: defaultHistorySamples,
		readingsLimit:  defaultReadingsLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate builds the four-part report for one user. The sections are
// computed concurrently and joined all-or-nothing: a failed section
// fails the whole report rather than returning a partial bundle.
func (s *Service) Generate(ctx context.Context, userID string, lat, lon float64) (*report.Bundle, error) {
	prof, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, err
		}
		s.logger.Printf("report: profile load failed: user=%s err=%v", userID, err)
		return nil, ErrIncomplete
	}

	samples, err := s.history.ListRecent(ctx, s.historySamples)
	if err != nil {
		s.logger.Printf("report: tariff history load failed: err=%v", err)
		return nil, ErrIncomplete
	}

	list, err := s.readings.ListByUser(ctx, userID, s.readingsLimit)
	if err != nil {
		s.logger.Printf("report: readings load failed: user=%s err=%v", userID, err)
		return nil, ErrIncomplete
	}

	snapshot := s.currentWeather(ctx, lat, lon)
	provider, ok := discom.Lookup(prof.ElectricityProvider)
	if !ok && prof.ElectricityProvider != "" {
		s.logger.Printf("report: unknown provider: name=%q", prof.ElectricityProvider)
	}

	bundle := &report.Bundle{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bundle.ExecutiveSummary = s.executiveSummary(gctx, list, samples, *prof, snapshot)
		return gctx.Err()
	})
	g.Go(func() error {
		bundle.TariffAnalysis = s.tariffAnalysis(gctx, samples, provider)
		return gctx.Err()
	})
	g.Go(func() error {
		bundle.ConsumptionAnalytics = s.consumptionAnalytics(gctx, list, snapshot)
		return gctx.Err()
	})
	if prof.HasSolarPanels {
		g.Go(func() error {
			analysis := s.solarAnalysis(gctx, list, *prof, snapshot)
			bundle.SolarAnalysis = &analysis
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Printf("report: generation aborted: user=%s err=%v", userID, err)
		return nil, ErrIncomplete
	}
	return bundle, nil
}

func (s *Service) currentWeather(ctx context.Context, lat, lon float64) weather.Snapshot {
	if s.weather == nil {
		return weather.Snapshot{}
	}
	snapshot, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		s.logger.Printf("report: weather fetch failed: err=%v", err)
		return weather.Snapshot{}
	}
	return snapshot
}

// completeInto runs one insight call and decodes the reply into out.
// Any failure leaves out untouched and reports false so the caller
// can apply its section fallback.
func (s *Service) completeInto(ctx context.Context, component, prompt string, out any) bool {
	if s.insight == nil {
		metrics.IncInsightCall(component, "skipped")
		return false
	}
	raw, err := s.insight.Complete(ctx, prompt)
	if err != nil {
		metrics.IncInsightCall(component, "error")
		s.logger.Printf("report: insight call failed: component=%s err=%v", component, err)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.IncInsightCall(component, "error")
		s.logger.Printf("report: insight reply unusable: component=%s err=%v", component, err)
		return false
	}
	metrics.IncInsightCall(component, "ok")
	return true
}

func (s *Service) executiveSummary(ctx context.Context, list []readings.Reading, samples []tariff.Sample, prof profile.Profile, snapshot weather.Snapshot) report.ExecutiveSummary {
	figures := report.ComputeExecutiveFigures(list, samples, prof.HasSolarPanels)

	var reply struct {
		Recommendations []report.Recommendation `json:"recommendations"`
	}
	prompt := executivePrompt(figures, snapshot, prof.HasSolarPanels, prof.HasBatteryStorage)
	if !s.completeInto(ctx, "executive", prompt, &reply) {
		reply.Recommendations = []report.Recommendation{}
	}

	summary := report.ExecutiveSummary{
		CurrentDayCost:     figures.CurrentDayCost,
		CostComparisonPct:  figures.CostComparisonPct,
		CostTrend:          figures.CostTrend,
		TotalEnergySavings: figures.TotalEnergySavings,
		SolarGeneration:    figures.SolarGeneration,
		KeyRecommendations: reply.Recommendations,
	}
	if prof.HasBatteryStorage {
		capacity := prof.StorageCapacityKWh
		summary.BatteryUsage = &capacity
	}
	return summary
}

func (s *Service) tariffAnalysis(ctx context.Context, samples []tariff.Sample, provider discom.Discom) report.TariffAnalysis {
	average, peak, offPeak := report.RateStats(samples)

	var reply struct {
		ForecastedRates      []report.ForecastRate `json:"forecasted_rates"`
		SavingsOpportunities []string              `json:"savings_opportunities"`
		PatternAnalysis      string                `json:"pattern_analysis"`
	}
	prompt := tariffPrompt(samples, provider, average, peak, offPeak)
	if !s.completeInto(ctx, "tariff", prompt, &reply) {
		reply.ForecastedRates = []report.ForecastRate{}
		reply.SavingsOpportunities = []string{}
		reply.PatternAnalysis = ""
	}
	if reply.ForecastedRates == nil {
		reply.ForecastedRates = []report.ForecastRate{}
	}
	if reply.SavingsOpportunities == nil {
		reply.SavingsOpportunities = []string{}
	}

	return report.TariffAnalysis{
		CurrentRate:          provider.BillingRateKWh,
		AverageRate:          report.Round2(average),
		PeakRate:             report.Round2(peak),
		OffPeakRate:          report.Round2(offPeak),
		ForecastedRates:      reply.ForecastedRates,
		SavingsOpportunities: reply.SavingsOpportunities,
		PatternAnalysis:      reply.PatternAnalysis,
	}
}

func (s *Service) consumptionAnalytics(ctx context.Context, list []readings.Reading, snapshot weather.Snapshot) report.ConsumptionAnalytics {
	analytics := report.ComputeConsumption(list)

	var reply struct {
		UnusualPatterns           []string `json:"unusual_patterns"`
		WeatherImpact             string   `json:"weather_impact"`
		OptimizationOpportunities []string `json:"optimization_opportunities"`
		TimeOfDayRecommendations  []string `json:"time_of_day_recommendations"`
	}
	if s.completeInto(ctx, "consumption", consumptionPrompt(analytics, snapshot), &reply) {
		analytics.UnusualPatterns = reply.UnusualPatterns
		analytics.WeatherImpact = reply.WeatherImpact
		analytics.OptimizationOpportunities = reply.OptimizationOpportunities
		analytics.TimeOfDayRecommendations = reply.TimeOfDayRecommendations
	}
	return analytics
}

func (s *Service) solarAnalysis(ctx context.Context, list []readings.Reading, prof profile.Profile, snapshot weather.Snapshot) report.SolarAnalysis {
	analysis := report.ComputeSolarFigures(list, prof.SolarCapacityKW, prof.MonthlyBill)

	var reply struct {
		Optimizations    []string `json:"optimizations"`
		MaintenanceTasks []string `json:"maintenance_tasks"`
		WeatherImpact    string   `json:"weather_impact"`
		StorageTips      []string `json:"storage_tips"`
	}
	prompt := solarPrompt(analysis, snapshot, prof.SolarCapacityKW, prof.HasBatteryStorage, prof.StorageCapacityKWh)
	ok := s.completeInto(ctx, "solar", prompt, &reply)

	analysis.Optimizations = reply.Optimizations
	analysis.MaintenanceTasks = reply.MaintenanceTasks
	analysis.WeatherImpact = reply.WeatherImpact
	analysis.StorageTips = reply.StorageTips
	if !ok || len(analysis.Optimizations) == 0 {
		analysis.Optimizations = defaultSolarAdvice()
	}
	if !ok || len(analysis.MaintenanceTasks) == 0 {
		analysis.MaintenanceTasks = defaultSolarAdvice()
	}
	if !ok || len(analysis.StorageTips) == 0 {
		analysis.StorageTips = defaultStorageTips()
	}
	return analysis
}

func defaultSolarAdvice() []string {
	return []string{
		"Clean solar panels regularly to maintain efficiency",
		"Consider adjusting panel angles seasonally",
		"Monitor shading patterns throughout the day",
	}
}

func defaultStorageTips() []string {
	return []string{
		"Consider installing a battery storage system",
		"Regularly monitor battery usage and adjust usage accordingly",
	}
}
