package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRangeRule(t *testing.T) {
	rule := &rangeRule{}

	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{
			name:    "valid record",
			record:  Record{ExperienceMonths: 36, NumberOfSales: 50, SeasonalFactor: 7, Revenue: 5000},
			wantErr: false,
		},
		{
			name:    "negative experience",
			record:  Record{ExperienceMonths: -1, NumberOfSales: 50, SeasonalFactor: 7, Revenue: 5000},
			wantErr: true,
		},
		{
			name:    "negative sales",
			record:  Record{ExperienceMonths: 36, NumberOfSales: -2, SeasonalFactor: 7, Revenue: 5000},
			wantErr: true,
		},
		{
			name:    "seasonal factor too low",
			record:  Record{ExperienceMonths: 36, NumberOfSales: 50, SeasonalFactor: 0, Revenue: 5000},
			wantErr: true,
		},
		{
			name:    "seasonal factor too high",
			record:  Record{ExperienceMonths: 36, NumberOfSales: 50, SeasonalFactor: 11, Revenue: 5000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Apply(&tt.record)
			if (err != nil) != tt.wantErr {
				t.Errorf("rangeRule.Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRevenueRule(t *testing.T) {
	rule := &revenueRule{}

	if err := rule.Apply(&Record{Revenue: 1234.5}); err != nil {
		t.Errorf("positive revenue rejected: %v", err)
	}
	if err := rule.Apply(&Record{Revenue: 0}); err == nil {
		t.Error("zero revenue should be rejected")
	}
	if err := rule.Apply(&Record{Revenue: -10}); err == nil {
		t.Error("negative revenue should be rejected")
	}
}

func TestDuplicateRule(t *testing.T) {
	rule := newDuplicateRule()
	record := Record{ExperienceMonths: 36, NumberOfSales: 50, SeasonalFactor: 7, Revenue: 5000}

	if err := rule.Apply(&record); err != nil {
		t.Fatalf("first occurrence rejected: %v", err)
	}
	if err := rule.Apply(&record); err == nil {
		t.Fatal("duplicate should be rejected")
	}
}

func TestCleanerClean(t *testing.T) {
	cleaner := NewCleaner()

	records := []Record{
		{ExperienceMonths: 36, NumberOfSales: 50, SeasonalFactor: 7, Revenue: 5000},
		{ExperienceMonths: 12, NumberOfSales: 20, SeasonalFactor: 3, Revenue: 2400},
		{ExperienceMonths: -5, NumberOfSales: 10, SeasonalFactor: 4, Revenue: 1000},
		{ExperienceMonths: 36, NumberOfSales: 50, SeasonalFactor: 7, Revenue: 5000},
	}

	cleaned, issues := cleaner.Clean(records)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(cleaned))
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}

	stats := cleaner.Stats()
	if stats.TotalProcessed != 4 || stats.Passed != 2 || stats.Rejected != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := "experience_months,number_of_sales,seasonal_factor,revenue\n" +
		"36,50,7,5644.24\n" +
		"12,20,3,2400\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Revenue != 5644.24 {
		t.Fatalf("unexpected revenue: %v", records[0].Revenue)
	}

	samples := ToSamples(records)
	if len(samples) != 2 || samples[1].NumberOfSales != 20 {
		t.Fatalf("unexpected samples: %+v", samples)
	}
}

func TestLoadCSVRejectsMalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.csv")
	content := "experience_months,number_of_sales,seasonal_factor,revenue\n" +
		"36,50,7,5644.24\n" +
		"12,20,3\n" +
		"24,40,5,4100\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	// A malformed row mid-file must fail the load, not silently truncate
	// the dataset.
	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected error for row with missing field")
	}
}

func TestLoadCSVRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "months,sales,season,revenue\n1,2,3,4\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected header error")
	}
}
