package report

import (
	"math"
	"testing"
	"time"

	readings "vidyutmitra/internal/readings/domain"
	tariff "vidyutmitra/internal/tariff/domain"
)

func hourlySamples(rates ...float64) []tariff.Sample {
	base := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC)
	samples := make([]tariff.Sample, 0, len(rates))
	for i, rate := range rates {
		samples = append(samples, tariff.Sample{Rate: rate, Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}
	return samples
}

func twoDayReadings() []readings.Reading {
	day1 := time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	var list []readings.Reading
	for hour := 0; hour < 24; hour++ {
		list = append(list, readings.Reading{
			SentAt:         day1.Add(time.Duration(hour) * time.Hour),
			ConsumptionKW:  1.0,
			SolarEnergyKWh: 0.2,
		})
		list = append(list, readings.Reading{
			SentAt:         day2.Add(time.Duration(hour) * time.Hour),
			ConsumptionKW:  2.0,
			SolarEnergyKWh: 0.5,
		})
	}
	return list
}

func TestRateStats(t *testing.T) {
	average, peak, offPeak := RateStats(hourlySamples(4.0, 6.0, 8.0))
	if average != 6.0 {
		t.Fatalf("average = %v, want 6.0", average)
	}
	if peak != 8.0 {
		t.Fatalf("peak = %v, want 8.0", peak)
	}
	if offPeak != 4.0 {
		t.Fatalf("offPeak = %v, want 4.0", offPeak)
	}
}

func TestRateStatsEmptyHistory(t *testing.T) {
	average, peak, offPeak := RateStats(nil)
	if average != 0 || peak != 0 || offPeak != 0 {
		t.Fatalf("empty history must yield zeros, got %v %v %v", average, peak, offPeak)
	}
	for _, v := range []float64{average, peak, offPeak} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("empty history produced NaN/Inf: %v", v)
		}
	}
}

func TestCostComparisonZeroPrevious(t *testing.T) {
	if got := CostComparisonPct(120, 0); got != 0 {
		t.Fatalf("comparison with zero previous = %v, want exactly 0", got)
	}
	if math.IsNaN(CostComparisonPct(0, 0)) {
		t.Fatal("comparison produced NaN")
	}
}

func TestCostTrend(t *testing.T) {
	if CostTrend(5) != "up" {
		t.Fatal("positive comparison must trend up")
	}
	if CostTrend(0) != "down" {
		t.Fatal("zero comparison must trend down")
	}
	if CostTrend(-3) != "down" {
		t.Fatal("negative comparison must trend down")
	}
}

func TestComputeExecutiveFigures(t *testing.T) {
	list := twoDayReadings()
	samples := hourlySamples(5.0, 5.0, 5.0, 5.0)

	figures := ComputeExecutiveFigures(list, samples, true)

	// Latest day: 24 readings x 2.0 kW x rate 5.0 = 240.
	if figures.CurrentDayCost != 240 {
		t.Fatalf("current day cost = %v, want 240", figures.CurrentDayCost)
	}
	// Previous day: 24 x 1.0 x 5.0 = 120; delta = +100%.
	if figures.CostComparisonPct != 100 {
		t.Fatalf("comparison = %v, want 100", figures.CostComparisonPct)
	}
	if figures.CostTrend != "up" {
		t.Fatalf("trend = %s, want up", figures.CostTrend)
	}
	if figures.SolarGeneration == nil || *figures.SolarGeneration != 12 {
		t.Fatalf("solar generation = %v, want 12", figures.SolarGeneration)
	}
	if figures.TotalEnergySavings != 60 {
		t.Fatalf("savings = %v, want 60", figures.TotalEnergySavings)
	}
}

func TestComputeExecutiveFiguresNoSolar(t *testing.T) {
	figures := ComputeExecutiveFigures(twoDayReadings(), hourlySamples(5.0), false)
	if figures.SolarGeneration != nil {
		t.Fatal("solar generation must be nil without solar")
	}
	if figures.TotalEnergySavings != 0 {
		t.Fatalf("savings = %v, want 0", figures.TotalEnergySavings)
	}
}

func TestComputeExecutiveFiguresSingleDay(t *testing.T) {
	day := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC)
	list := []readings.Reading{
		{SentAt: day, ConsumptionKW: 2},
		{SentAt: day.Add(time.Hour), ConsumptionKW: 3},
	}
	figures := ComputeExecutiveFigures(list, hourlySamples(4.0), false)
	if figures.CostComparisonPct != 0 {
		t.Fatalf("single-day comparison = %v, want 0", figures.CostComparisonPct)
	}
	if figures.CostTrend != "down" {
		t.Fatalf("trend = %s, want down", figures.CostTrend)
	}
}

func TestComputeConsumption(t *testing.T) {
	day := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC)
	list := []readings.Reading{
		{SentAt: day.Add(8 * time.Hour), ConsumptionKW: 1.5},
		{SentAt: day.Add(8*time.Hour + 30*time.Minute), ConsumptionKW: 2.5},
		{SentAt: day.Add(19 * time.Hour), ConsumptionKW: 4.0},
	}

	analytics := ComputeConsumption(list)
	if analytics.TotalConsumption != 8.0 {
		t.Fatalf("total = %v, want 8.0", analytics.TotalConsumption)
	}
	if analytics.PeakConsumptionValue != 4.0 {
		t.Fatalf("peak = %v, want 4.0", analytics.PeakConsumptionValue)
	}
	if analytics.PeakConsumptionTime != day.Add(19*time.Hour).Format(time.RFC3339) {
		t.Fatalf("peak time = %s", analytics.PeakConsumptionTime)
	}
	if len(analytics.ConsumptionByTimeOfDay) != 2 {
		t.Fatalf("hourly buckets = %d, want 2", len(analytics.ConsumptionByTimeOfDay))
	}
	if analytics.ConsumptionByTimeOfDay[0].Hour != 8 || analytics.ConsumptionByTimeOfDay[0].Average != 2.0 {
		t.Fatalf("hour 8 bucket = %+v", analytics.ConsumptionByTimeOfDay[0])
	}
	if analytics.ConsumptionByTimeOfDay[1].Hour != 19 {
		t.Fatalf("buckets not ascending: %+v", analytics.ConsumptionByTimeOfDay)
	}
}

func TestComputeConsumptionSkipsNaN(t *testing.T) {
	day := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC)
	list := []readings.Reading{
		{SentAt: day, ConsumptionKW: 2},
		{SentAt: day.Add(time.Hour), ConsumptionKW: math.NaN()},
	}
	analytics := ComputeConsumption(list)
	if analytics.TotalConsumption != 2 {
		t.Fatalf("total = %v, want 2 (NaN skipped)", analytics.TotalConsumption)
	}
}

func TestComputeSolarFigures(t *testing.T) {
	day := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC)
	var list []readings.Reading
	for hour := 6; hour < 18; hour++ {
		list = append(list, readings.Reading{
			SentAt:         day.Add(time.Duration(hour) * time.Hour),
			SolarEnergyKWh: 1.5,
		})
	}

	analysis := ComputeSolarFigures(list, 4.0, 3000)
	if analysis.DailyGeneration != 18 {
		t.Fatalf("daily = %v, want 18", analysis.DailyGeneration)
	}
	if analysis.MonthlyGeneration != 540 {
		t.Fatalf("monthly = %v, want 540", analysis.MonthlyGeneration)
	}
	// theoretical = 4.0 * 5.5 = 22; efficiency = 18/22*100 = 81.82.
	if analysis.Efficiency != 81.82 {
		t.Fatalf("efficiency = %v, want 81.82", analysis.Efficiency)
	}
	// savings = 18 * 3000 / 30 = 1800.
	if analysis.SavingsFromSolar != 1800 {
		t.Fatalf("savings = %v, want 1800", analysis.SavingsFromSolar)
	}
}

func TestComputeSolarFiguresZeroCapacity(t *testing.T) {
	analysis := ComputeSolarFigures(nil, 0, 3000)
	if math.IsNaN(analysis.Efficiency) || math.IsInf(analysis.Efficiency, 0) {
		t.Fatalf("efficiency = %v, want finite", analysis.Efficiency)
	}
}
