package validation

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"dataqc/domain/core"
)

// ReportAggregator combines validation results into one summary report.
type ReportAggregator struct {
	clock core.Clock
}

// NewReportAggregator creates a report aggregator (nil clock means the
// system clock).
func NewReportAggregator(clock core.Clock) *ReportAggregator {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &ReportAggregator{clock: clock}
}

// BuildReport computes the pass/fail counts over the results.
func (a *ReportAggregator) BuildReport(results []Result) Report {
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return Report{
		Timestamp:        core.NewTimestamp(a.clock.Now().UTC()),
		TotalValidations: len(results),
		Passed:           passed,
		Failed:           len(results) - passed,
		Results:          results,
	}
}

// GenerateValidationReport builds the report and writes it to outputPath as
// pretty-printed UTF-8 JSON, overwriting any existing content. Write errors
// are returned; this is the one validation path that surfaces a failure to
// the caller.
func (a *ReportAggregator) GenerateValidationReport(results []Result, outputPath string) error {
	report := a.BuildReport(results)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", outputPath, err)
	}

	log.Printf("[ReportAggregator] validation report saved to %s", outputPath)
	return nil
}
