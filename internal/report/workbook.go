package report

import (
	"fmt"

	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/xuri/excelize/v2"
)

// WriteDepartureWorkbook saves one row per office to an xlsx file
func WriteDepartureWorkbook(path string, summaries []models.OfficeSummary) error {
	headers := []interface{}{
		"Office", "Lat", "Lon", "Pickups", "Departures",
		"Mean", "Std", "Mean (s)", "Std (s)", "Concentration", "Skipped",
	}

	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{
			s.Office.Name, s.Office.Lat, s.Office.Lon, s.TotalPickups, s.DepartureCount,
			s.Mean, s.Std, s.MeanSeconds, s.StdSeconds, s.Concentration, s.SkipReason,
		})
	}

	return writeSheet(path, "Departures", headers, rows)
}

// WriteTipWorkbook saves one row per payment type to an xlsx file
func WriteTipWorkbook(path string, stats []models.TipStatistics) error {
	headers := []interface{}{
		"Payment", "Rows", "Mean", "Std", "Min", "Max", "Median", "P90",
	}

	rows := make([][]interface{}, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []interface{}{
			models.PaymentLabel(s.PaymentType), s.Count, s.Mean, s.StdDev, s.Min, s.Max, s.Median, s.P90,
		})
	}

	return writeSheet(path, "Tips", headers, rows)
}

func writeSheet(path, sheetName string, headers []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	// Delete default sheet if exists
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
