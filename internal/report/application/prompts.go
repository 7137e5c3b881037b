package application

import (
	"encoding/json"
	"fmt"

	"vidyutmitra/internal/discom"
	report "vidyutmitra/internal/report/domain"
	tariff "vidyutmitra/internal/tariff/domain"
	"vidyutmitra/internal/weather"
)

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func executivePrompt(figures report.ExecutiveFigures, snapshot weather.Snapshot, hasSolar, hasBattery bool) string {
	direction := "decrease"
	if figures.CostComparisonPct > 0 {
		direction = "increase"
	}
	solar := "null"
	if figures.SolarGeneration != nil {
		solar = fmt.Sprintf("%v", *figures.SolarGeneration)
	}
	return fmt.Sprintf(`Analyze this energy consumption data and provide key recommendations:
Cost comparison: %v%% %s
Solar generation: %s
Weather data: %s
User has solar: %t
User has battery: %t

Provide:
1. List of 3-5 specific, actionable recommendations
2. Priority level for each recommendation
3. Estimated impact on energy consumption

Format the response as JSON with structure:
{"recommendations": [{"text": "recommendation text", "priority": "high/medium/low", "estimatedImpact": "percentage or kWh value"}]}`,
		figures.CostComparisonPct, direction, solar, mustJSON(snapshot), hasSolar, hasBattery)
}

func tariffPrompt(samples []tariff.Sample, provider discom.Discom, average, peak, offPeak float64) string {
	return fmt.Sprintf(`Analyze this tariff data and provide insights:
Time of Use Data: %s
DISCOM Info: %s
Average Rate: %v
Peak Rate: %v
Off-Peak Rate: %v

Provide:
1. Rate forecasting for next 24 hours
2. Specific savings opportunities
3. Pattern analysis of rate variations

Format as JSON with structure:
{"forecasted_rates": [{"time": "HH:MM", "rate": number}], "savings_opportunities": ["detailed opportunity 1", "detailed opportunity 2"], "pattern_analysis": "string"}`,
		mustJSON(samples), mustJSON(provider), average, peak, offPeak)
}

func consumptionPrompt(analytics report.ConsumptionAnalytics, snapshot weather.Snapshot) string {
	return fmt.Sprintf(`Analyze this consumption data and provide insights:
Daily consumption: %v
Peak consumption: %v at %s
Hourly patterns: %s
Weather conditions: %s

Identify:
1. Unusual consumption patterns
2. Weather impact on consumption
3. Optimization opportunities
4. Time-of-day recommendations

Format as JSON with structure:
{"unusual_patterns": ["pattern 1"], "weather_impact": "string", "optimization_opportunities": ["opportunity 1"], "time_of_day_recommendations": ["recommendation 1"]}`,
		analytics.TotalConsumption, analytics.PeakConsumptionValue, analytics.PeakConsumptionTime,
		mustJSON(analytics.ConsumptionByTimeOfDay), mustJSON(snapshot))
}

func solarPrompt(analysis report.SolarAnalysis, snapshot weather.Snapshot, capacityKW float64, hasBattery bool, storageKWh float64) string {
	storage := "None"
	if hasBattery {
		storage = fmt.Sprintf("%v", storageKWh)
	}
	return fmt.Sprintf(`Analyze solar generation data and provide optimization recommendations:
Daily generation: %v
System efficiency: %v%%
Weather conditions: %s
Solar capacity: %v
Battery storage: %s

Provide:
1. Specific optimization recommendations
2. Maintenance suggestions
3. Weather impact analysis
4. Storage optimization if applicable

Format as JSON with structure:
{"optimizations": ["detailed recommendation 1", "detailed recommendation 2"], "maintenance_tasks": ["task 1", "task 2"], "weather_impact": "string", "storage_tips": ["tip 1", "tip 2"]}`,
		analysis.DailyGeneration, analysis.Efficiency, mustJSON(snapshot), capacityKW, storage)
}
