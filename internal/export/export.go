// Package export serializes observation result sets for file download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// SheetName is the single worksheet of exported workbooks.
const SheetName = "WeatherData"

// csvHeader is the fixed column order of CSV exports.
var csvHeader = []string{
	"timestamp",
	"temperature",
	"windspeed",
	"humidity",
	"uvIndex",
	"precipitationChance",
	"heatIndex",
	"condition",
	"source",
}

// xlsxHeader mirrors csvHeader with human-readable titles.
var xlsxHeader = []string{
	"Timestamp",
	"Temperature",
	"Windspeed",
	"Humidity",
	"UVIndex",
	"PrecipitationChance",
	"HeatIndex",
	"Condition",
	"Source",
}

// CSV renders observations as CSV text: one header row followed by one row
// per record, in the fixed column order.
func CSV(records []weather.Observation) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(r.Temperature),
			formatFloat(r.Windspeed),
			formatFloat(r.Humidity),
			formatFloat(r.UVIndex),
			formatFloat(r.PrecipitationChance),
			formatFloat(r.HeatIndex),
			r.Condition,
			r.Source,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// Workbook renders observations as an XLSX workbook with a single sheet,
// one header row and one row per record in the same field order as CSV.
func Workbook(records []weather.Observation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(xlsxHeader))
	for i, h := range xlsxHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinates: %w", err)
		}
		row := []interface{}{
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Temperature,
			r.Windspeed,
			r.Humidity,
			r.UVIndex,
			r.PrecipitationChance,
			r.HeatIndex,
			r.Condition,
			r.Source,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
