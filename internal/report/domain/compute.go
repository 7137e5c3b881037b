package report

import (
	"math"
	"sort"
	"time"

	readings "vidyutmitra/internal/readings/domain"
	tariff "vidyutmitra/internal/tariff/domain"
)

// Round2 rounds to two decimal places for user-facing figures.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// AverageRate is the mean rate over the tariff history. Empty history
// yields zero.
func AverageRate(samples []tariff.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range samples {
		sum += sample.Rate
	}
	return sum / float64(len(samples))
}

// RateStats returns average, peak, and off-peak rates over the
// history. Empty history yields all zeros rather than NaN/Inf.
func RateStats(samples []tariff.Sample) (average, peak, offPeak float64) {
	if len(samples) == 0 {
		return 0, 0, 0
	}
	peak = samples[0].Rate
	offPeak = samples[0].Rate
	var sum float64
	for _, sample := range samples {
		sum += sample.Rate
		if sample.Rate > peak {
			peak = sample.Rate
		}
		if sample.Rate < offPeak {
			offPeak = sample.Rate
		}
	}
	return sum / float64(len(samples)), peak, offPeak
}

// addSkipNaN accumulates a value, skipping unparsable (NaN) fields.
func addSkipNaN(sum, value float64) float64 {
	if math.IsNaN(value) {
		return sum
	}
	return sum + value
}

// DayCost prices one day's consumption at the average rate.
func DayCost(day []readings.Reading, averageRate float64) float64 {
	var cost float64
	for _, reading := range day {
		cost = addSkipNaN(cost, reading.ConsumptionKW*averageRate)
	}
	return cost
}

// CostComparisonPct is the day-over-day cost delta in percent. A zero
// or absent previous-day cost yields exactly zero, never a division
// escape.
func CostComparisonPct(currentCost, previousCost float64) float64 {
	if previousCost == 0 {
		return 0
	}
	return (currentCost - previousCost) / previousCost * 100
}

// CostTrend labels the comparison direction.
func CostTrend(comparisonPct float64) string {
	if comparisonPct > 0 {
		return "up"
	}
	return "down"
}

// SumSolarEnergy totals a day's solar generation in kWh.
func SumSolarEnergy(day []readings.Reading) float64 {
	var total float64
	for _, reading := range day {
		total = addSkipNaN(total, reading.SolarEnergyKWh)
	}
	return total
}

// ExecutiveFigures are the deterministic inputs to the executive
// summary, computed before any insight call.
type ExecutiveFigures struct {
	CurrentDayCost     float64
	PreviousDayCost    float64
	CostComparisonPct  float64
	CostTrend          string
	SolarGeneration    *float64
	TotalEnergySavings float64
}

// ComputeExecutiveFigures derives the executive summary numbers from
// grouped readings and the tariff history.
func ComputeExecutiveFigures(list []readings.Reading, samples []tariff.Sample, hasSolar bool) ExecutiveFigures {
	days, byDay := readings.GroupByDay(list)

	var currentDay, previousDay []readings.Reading
	if len(days) > 0 {
		currentDay = byDay[days[len(days)-1]]
	}
	if len(days) > 1 {
		previousDay = byDay[days[len(days)-2]]
	}

	averageRate := AverageRate(samples)
	currentCost := DayCost(currentDay, averageRate)
	previousCost := DayCost(previousDay, averageRate)
	comparison := CostComparisonPct(currentCost, previousCost)

	figures := ExecutiveFigures{
		CurrentDayCost:    Round2(currentCost),
		PreviousDayCost:   Round2(previousCost),
		CostComparisonPct: Round2(comparison),
		CostTrend:         CostTrend(comparison),
	}
	if hasSolar {
		generation := Round2(SumSolarEnergy(currentDay))
		figures.SolarGeneration = &generation
		figures.TotalEnergySavings = Round2(generation * averageRate)
	}
	return figures
}

// ComputeConsumption derives the latest day's consumption analytics.
func ComputeConsumption(list []readings.Reading) ConsumptionAnalytics {
	days, byDay := readings.GroupByDay(list)
	var latestDay []readings.Reading
	if len(days) > 0 {
		latestDay = byDay[days[len(days)-1]]
	}

	var total float64
	peakValue := 0.0
	var peakTime time.Time
	hourly := make(map[int][]float64)
	for _, reading := range latestDay {
		if math.IsNaN(reading.ConsumptionKW) {
			continue
		}
		total += reading.ConsumptionKW
		if reading.ConsumptionKW > peakValue {
			peakValue = reading.ConsumptionKW
			peakTime = reading.SentAt
		}
		hour := reading.SentAt.Hour()
		hourly[hour] = append(hourly[hour], reading.ConsumptionKW)
	}

	averages := make([]HourlyAverage, 0, len(hourly))
	for hour, values := range hourly {
		var sum float64
		for _, v := range values {
			sum += v
		}
		averages = append(averages, HourlyAverage{
			Hour:    hour,
			Average: Round2(sum / float64(len(values))),
		})
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].Hour < averages[j].Hour })

	analytics := ConsumptionAnalytics{
		TotalConsumption:        Round2(total),
		AverageDailyConsumption: Round2(total / 24),
		PeakConsumptionValue:    Round2(peakValue),
		ConsumptionByTimeOfDay:  averages,
	}
	if !peakTime.IsZero() {
		analytics.PeakConsumptionTime = peakTime.UTC().Format(time.RFC3339)
	}
	return analytics
}

// PeakSunHours is the fixed daily peak-sun-hours assumption used for
// theoretical solar output.
const PeakSunHours = 5.5

// ComputeSolarFigures derives the solar analysis numbers from the
// latest day's readings and the profile.
func ComputeSolarFigures(list []readings.Reading, solarCapacityKW, monthlyBill float64) SolarAnalysis {
	days, byDay := readings.GroupByDay(list)
	var latestDay []readings.Reading
	if len(days) > 0 {
		latestDay = byDay[days[len(days)-1]]
	}

	daily := SumSolarEnergy(latestDay)
	// Flat 30-day extrapolation, not calendar-aware.
	monthly := daily * 30
	theoretical := solarCapacityKW * PeakSunHours

	var efficiency float64
	if theoretical > 0 {
		efficiency = daily / theoretical * 100
	}

	return SolarAnalysis{
		DailyGeneration:   Round2(daily),
		MonthlyGeneration: Round2(monthly),
		Efficiency:        Round2(efficiency),
		SavingsFromSolar:  Round2(daily * monthlyBill / 30),
	}
}
