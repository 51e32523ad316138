package dataset

import (
	"errors"
	"fmt"
	"math"
)

// CleaningRule rejects or passes a single record.
type CleaningRule interface {
	Apply(*Record) error
	Name() string
}

// Issue describes a record dropped during cleaning.
type Issue struct {
	Rule    string
	Line    int
	Message string
}

// CleaningStats summarizes a cleaning pass.
type CleaningStats struct {
	TotalProcessed int
	Passed         int
	Rejected       int
	Issues         map[string]int
}

// Cleaner applies a rule set over raw records before training.
type Cleaner struct {
	rules []CleaningRule
	stats CleaningStats
}

// NewCleaner builds a cleaner with the default rule set.
func NewCleaner() *Cleaner {
	cleaner := &Cleaner{
		stats: CleaningStats{Issues: make(map[string]int)},
	}
	cleaner.AddRule(&rangeRule{})
	cleaner.AddRule(&revenueRule{})
	cleaner.AddRule(newDuplicateRule())
	return cleaner
}

func (c *Cleaner) AddRule(rule CleaningRule) {
	c.rules = append(c.rules, rule)
}

// Clean filters the records, returning the survivors and one issue per
// dropped record.
func (c *Cleaner) Clean(records []Record) ([]Record, []Issue) {
	var cleaned []Record
	var issues []Issue

	for i := range records {
		c.stats.TotalProcessed++
		record := records[i]

		var rejected bool
		for _, rule := range c.rules {
			if err := rule.Apply(&record); err != nil {
				issues = append(issues, Issue{
					Rule:    rule.Name(),
					Line:    i + 1,
					Message: err.Error(),
				})
				c.stats.Issues[rule.Name()]++
				rejected = true
				break
			}
		}
		if rejected {
			c.stats.Rejected++
			continue
		}
		c.stats.Passed++
		cleaned = append(cleaned, record)
	}
	return cleaned, issues
}

// Stats returns counters for the cleaning passes run so far.
func (c *Cleaner) Stats() CleaningStats {
	return c.stats
}

// rangeRule enforces the feature domains the model is trained over.
type rangeRule struct{}

func (r *rangeRule) Name() string { return "feature_range" }

func (r *rangeRule) Apply(record *Record) error {
	for _, v := range []float64{record.ExperienceMonths, record.NumberOfSales, record.SeasonalFactor, record.Revenue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("non-finite value")
		}
	}
	if record.ExperienceMonths < 0 {
		return fmt.Errorf("negative experience_months: %v", record.ExperienceMonths)
	}
	if record.NumberOfSales < 0 {
		return fmt.Errorf("negative number_of_sales: %v", record.NumberOfSales)
	}
	if record.SeasonalFactor < 1 || record.SeasonalFactor > 10 {
		return fmt.Errorf("seasonal_factor out of [1,10]: %v", record.SeasonalFactor)
	}
	return nil
}

// revenueRule drops records whose target is unusable for fitting.
type revenueRule struct{}

func (r *revenueRule) Name() string { return "revenue" }

func (r *revenueRule) Apply(record *Record) error {
	if record.Revenue <= 0 {
		return fmt.Errorf("non-positive revenue: %v", record.Revenue)
	}
	return nil
}

// duplicateRule drops exact repeats of an already-seen observation.
type duplicateRule struct {
	seen map[Record]bool
}

func newDuplicateRule() *duplicateRule {
	return &duplicateRule{seen: make(map[Record]bool)}
}

func (r *duplicateRule) Name() string { return "duplicate" }

func (r *duplicateRule) Apply(record *Record) error {
	if r.seen[*record] {
		return errors.New("duplicate record")
	}
	r.seen[*record] = true
	return nil
}
