package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	report "vidyutmitra/internal/report/domain"
)

// BuildReportPDF renders a minimal PDF for a report bundle.
func BuildReportPDF(bundle *report.Bundle, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Energy Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	summary := bundle.ExecutiveSummary
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Executive Summary")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Current Day Cost: %.2f", summary.CurrentDayCost))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Cost Comparison: %.2f%% (%s)", summary.CostComparisonPct, summary.CostTrend))
	pdf.Ln(5)
	if summary.SolarGeneration != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Solar Generation (kWh): %.2f", *summary.SolarGeneration))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Energy Savings: %.2f", summary.TotalEnergySavings))
		pdf.Ln(5)
	}
	for _, rec := range summary.KeyRecommendations {
		pdf.Cell(0, 6, fmt.Sprintf("- [%s] %s (%s)", rec.Priority, rec.Text, rec.EstimatedImpact))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	tariffSection := bundle.TariffAnalysis
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Tariff Analysis")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Current Rate: %.2f", tariffSection.CurrentRate))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average / Peak / Off-Peak: %.2f / %.2f / %.2f",
		tariffSection.AverageRate, tariffSection.PeakRate, tariffSection.OffPeakRate))
	pdf.Ln(5)
	if tariffSection.PatternAnalysis != "" {
		pdf.MultiCell(0, 5, fmt.Sprintf("Pattern: %s", tariffSection.PatternAnalysis), "", "L", false)
	}
	pdf.Ln(4)

	consumption := bundle.ConsumptionAnalytics
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Consumption")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total (kWh): %.2f", consumption.TotalConsumption))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Peak: %.2f at %s", consumption.PeakConsumptionValue, consumption.PeakConsumptionTime))
	pdf.Ln(6)

	// Hourly table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Hour", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Average (kW)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, bucket := range consumption.ConsumptionByTimeOfDay {
		pdf.CellFormat(40, 6, fmt.Sprintf("%02d:00", bucket.Hour), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", bucket.Average), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if solar := bundle.SolarAnalysis; solar != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Solar Analysis")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Daily / Monthly Generation (kWh): %.2f / %.2f", solar.DailyGeneration, solar.MonthlyGeneration))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Efficiency: %.2f%%", solar.Efficiency))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Savings: %.2f", solar.SavingsFromSolar))
		pdf.Ln(5)
		for _, tip := range solar.Optimizations {
			pdf.Cell(0, 6, fmt.Sprintf("- %s", tip))
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders a minimal XLSX for a report bundle.
func BuildReportXLSX(bundle *report.Bundle, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	hourlySheet := "hourly"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(hourlySheet)

	summary := bundle.ExecutiveSummary
	_ = f.SetCellValue(summarySheet, "A1", "Energy Report")
	_ = f.SetCellValue(summarySheet, "A2", "Generated")
	_ = f.SetCellValue(summarySheet, "B2", generatedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Current Day Cost")
	_ = f.SetCellValue(summarySheet, "B4", summary.CurrentDayCost)
	_ = f.SetCellValue(summarySheet, "A5", "Cost Comparison (%)")
	_ = f.SetCellValue(summarySheet, "B5", summary.CostComparisonPct)
	_ = f.SetCellValue(summarySheet, "A6", "Cost Trend")
	_ = f.SetCellValue(summarySheet, "B6", summary.CostTrend)
	_ = f.SetCellValue(summarySheet, "A7", "Energy Savings")
	_ = f.SetCellValue(summarySheet, "B7", summary.TotalEnergySavings)
	if summary.SolarGeneration != nil {
		_ = f.SetCellValue(summarySheet, "A8", "Solar Generation (kWh)")
		_ = f.SetCellValue(summarySheet, "B8", *summary.SolarGeneration)
	}
	_ = f.SetCellValue(summarySheet, "A10", "Average Rate")
	_ = f.SetCellValue(summarySheet, "B10", bundle.TariffAnalysis.AverageRate)
	_ = f.SetCellValue(summarySheet, "A11", "Peak Rate")
	_ = f.SetCellValue(summarySheet, "B11", bundle.TariffAnalysis.PeakRate)
	_ = f.SetCellValue(summarySheet, "A12", "Off-Peak Rate")
	_ = f.SetCellValue(summarySheet, "B12", bundle.TariffAnalysis.OffPeakRate)
	_ = f.SetCellValue(summarySheet, "A13", "Total Consumption (kWh)")
	_ = f.SetCellValue(summarySheet, "B13", bundle.ConsumptionAnalytics.TotalConsumption)
	if solar := bundle.SolarAnalysis; solar != nil {
		_ = f.SetCellValue(summarySheet, "A15", "Daily Solar Generation (kWh)")
		_ = f.SetCellValue(summarySheet, "B15", solar.DailyGeneration)
		_ = f.SetCellValue(summarySheet, "A16", "Solar Efficiency (%)")
		_ = f.SetCellValue(summarySheet, "B16", solar.Efficiency)
		_ = f.SetCellValue(summarySheet, "A17", "Savings From Solar")
		_ = f.SetCellValue(summarySheet, "B17", solar.SavingsFromSolar)
	}

	_ = f.SetCellValue(hourlySheet, "A1", "Hour")
	_ = f.SetCellValue(hourlySheet, "B1", "Average (kW)")
	for i, bucket := range bundle.ConsumptionAnalytics.ConsumptionByTimeOfDay {
		row := i + 2
		_ = f.SetCellValue(hourlySheet, fmt.Sprintf("A%d", row), bucket.Hour)
		_ = f.SetCellValue(hourlySheet, fmt.Sprintf("B%d", row), bucket.Average)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
