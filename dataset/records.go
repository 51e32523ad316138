// Package dataset loads and cleans historical sales records before they are
// handed to the trainer.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"salespredict/ml"
)

// Record is one raw sales observation read from a data file.
type Record struct {
	ExperienceMonths float64
	NumberOfSales    float64
	SeasonalFactor   float64
	Revenue          float64
}

var csvHeader = []string{"experience_months", "number_of_sales", "seasonal_factor", "revenue"}

// LoadCSV reads records from a CSV file with the fixed header
// experience_months,number_of_sales,seasonal_factor,revenue.
func LoadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i, name, header[i])
		}
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError already names the offending line.
			return nil, fmt.Errorf("read records: %w", err)
		}
		line++

		values := make([]float64, len(row))
		for i, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, csvHeader[i], err)
			}
			values[i] = v
		}
		records = append(records, Record{
			ExperienceMonths: values[0],
			NumberOfSales:    values[1],
			SeasonalFactor:   values[2],
			Revenue:          values[3],
		})
	}
	return records, nil
}

// ToSamples converts cleaned records into trainer samples.
func ToSamples(records []Record) []ml.Sample {
	samples := make([]ml.Sample, len(records))
	for i, r := range records {
		samples[i] = ml.Sample{
			ExperienceMonths: r.ExperienceMonths,
			NumberOfSales:    r.NumberOfSales,
			SeasonalFactor:   r.SeasonalFactor,
			Revenue:          r.Revenue,
		}
	}
	return samples
}
