package report

// Recommendation is one actionable suggestion from the insight model.
type Recommendation struct {
	Text            string `json:"text"`
	Priority        string `json:"priority"`
	EstimatedImpact string `json:"estimatedImpact"`
}

// ExecutiveSummary is the headline cost view of the report.
type ExecutiveSummary struct {
	CurrentDayCost     float64          `json:"currentDayCost"`
	CostComparisonPct  float64          `json:"costComparisonPercentage"`
	CostTrend          string           `json:"costTrend"`
	TotalEnergySavings float64          `json:"totalEnergySavings"`
	SolarGeneration    *float64         `json:"solarGeneration"`
	BatteryUsage       *float64         `json:"batteryUsage"`
	KeyRecommendations []Recommendation `json:"keyRecommendations"`
}

// ForecastRate is one forecasted tariff point.
type ForecastRate struct {
	Time string  `json:"time"`
	Rate float64 `json:"rate"`
}

// TariffAnalysis summarizes the tariff series plus model insight.
type TariffAnalysis struct {
	CurrentRate          float64        `json:"currentRate"`
	AverageRate          float64        `json:"averageRate"`
	PeakRate             float64        `json:"peakRate"`
	OffPeakRate          float64        `json:"offPeakRate"`
	ForecastedRates      []ForecastRate `json:"forecastedRates"`
	SavingsOpportunities []string       `json:"savingsOpportunities"`
	PatternAnalysis      string         `json:"patternAnalysis"`
}

// HourlyAverage is the mean consumption for one hour of day.
type HourlyAverage struct {
	Hour    int     `json:"hour"`
	Average float64 `json:"average"`
}

// ConsumptionAnalytics summarizes the latest day's consumption.
type ConsumptionAnalytics struct {
	TotalConsumption          float64         `json:"totalConsumption"`
	AverageDailyConsumption   float64         `json:"averageDailyConsumption"`
	PeakConsumptionTime       string          `json:"peakConsumptionTime"`
	PeakConsumptionValue      float64         `json:"peakConsumptionValue"`
	ConsumptionByTimeOfDay    []HourlyAverage `json:"consumptionByTimeOfDay"`
	UnusualPatterns           []string        `json:"unusualPatterns,omitempty"`
	WeatherImpact             string          `json:"weatherImpact,omitempty"`
	OptimizationOpportunities []string        `json:"optimizationOpportunities,omitempty"`
	TimeOfDayRecommendations  []string        `json:"timeOfDayRecommendations,omitempty"`
}

// SolarAnalysis summarizes solar generation; present only for
// profiles that declare solar panels.
type SolarAnalysis struct {
	DailyGeneration   float64  `json:"dailyGeneration"`
	MonthlyGeneration float64  `json:"monthlyGeneration"`
	Efficiency        float64  `json:"efficiency"`
	SavingsFromSolar  float64  `json:"savingsFromSolar"`
	Optimizations     []string `json:"optimizations"`
	MaintenanceTasks  []string `json:"maintenanceTasks"`
	WeatherImpact     string   `json:"weatherImpact"`
	StorageTips       []string `json:"storageTips"`
}

// Bundle is the four-part report computed per invocation. It is never
// persisted.
type Bundle struct {
	ExecutiveSummary     ExecutiveSummary     `json:"executiveSummary"`
	TariffAnalysis       TariffAnalysis       `json:"tariffAnalysis"`
	ConsumptionAnalytics ConsumptionAnalytics `json:"consumptionAnalytics"`
	SolarAnalysis        *SolarAnalysis       `json:"solarAnalysis"`
}
