package runner

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"dataqc/adapters/excel"
	"dataqc/domain/core"
	"dataqc/domain/frame"
	"dataqc/domain/validation"
	"dataqc/internal/errors"
	"dataqc/ports"
)

// Runner executes a configured set of validation checks over one dataset
// and aggregates the results into a report. Checks are independent, so they
// run concurrently; result order in the report stays deterministic.
type Runner struct {
	schema      *validation.SchemaValidator
	statistical *validation.StatisticalValidator
	freshness   *validation.FreshnessValidator
	suite       *validation.SuiteValidator
	aggregator  *validation.ReportAggregator
	reports     ports.ReportRepository // optional history sink
	readerFor   func(path string) ports.DatasetReader
}

// New creates a runner. The suite validator and report repository may be
// nil; the corresponding steps are skipped.
func New(suiteValidator *validation.SuiteValidator, reports ports.ReportRepository, clock core.Clock) *Runner {
	return &Runner{
		schema:      validation.NewSchemaValidator(clock),
		statistical: validation.NewStatisticalValidator(clock),
		freshness:   validation.NewFreshnessValidator(clock),
		suite:       suiteValidator,
		aggregator:  validation.NewReportAggregator(clock),
		reports:     reports,
		readerFor: func(path string) ports.DatasetReader {
			return excel.NewDataReader(path)
		},
	}
}

// RunFile loads the configured dataset file and runs the checks.
func (r *Runner) RunFile(ctx context.Context, cfg *CheckConfig) (*validation.Report, error) {
	f, err := r.readerFor(cfg.Dataset).ReadData()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset %s", cfg.Dataset)
	}
	return r.Run(ctx, cfg, f)
}

// Run executes the configured checks against an already-loaded frame,
// writes the report if a path is configured, and records it in the report
// repository when one is wired.
func (r *Runner) Run(ctx context.Context, cfg *CheckConfig, f *frame.Frame) (*validation.Report, error) {
	runID := core.NewRunID()

	slots := 0
	if cfg.Checks.Schema != nil {
		slots++
	}
	if cfg.Checks.Statistical != nil {
		slots++
	}
	if cfg.Checks.Freshness != nil {
		slots++
	}
	slots += len(cfg.Checks.Suites)

	results := make([]validation.Result, slots)
	g, gctx := errgroup.WithContext(ctx)

	// Each goroutine owns a distinct slot, so no locking is needed.
	record := func(index int, result validation.Result) {
		results[index] = result
	}

	next := 0
	if check := cfg.Checks.Schema; check != nil {
		index := next
		next++
		g.Go(func() error {
			record(index, r.schema.ValidateSchema(f, check.Columns, check.Dtypes))
			return nil
		})
	}
	if check := cfg.Checks.Statistical; check != nil {
		index := next
		next++
		g.Go(func() error {
			record(index, r.statistical.ValidateStatisticalProperties(f, check.NumericColumns, check.Thresholds))
			return nil
		})
	}
	if check := cfg.Checks.Freshness; check != nil {
		index := next
		next++
		g.Go(func() error {
			record(index, r.freshness.ValidateFreshness(f, check.TimestampColumn, check.MaxStalenessHours))
			return nil
		})
	}
	for _, suiteName := range cfg.Checks.Suites {
		index := next
		next++
		name := suiteName
		if r.suite == nil {
			record(index, validation.Result{
				Timestamp: core.Now(),
				Type:      validation.TypeSuite,
				SuiteName: name,
				Error:     "no suite validator configured",
			})
			continue
		}
		g.Go(func() error {
			_, summary := r.suite.ValidateDataQuality(gctx, f, name, nil)
			record(index, summary)
			return nil
		})
	}

	// Validators never return errors; the group exists for ctx plumbing.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := r.aggregator.BuildReport(results)
	log.Printf("[Runner] run %s: %d validations, %d passed, %d failed",
		runID, report.TotalValidations, report.Passed, report.Failed)

	if cfg.Report != "" {
		if err := r.aggregator.GenerateValidationReport(results, cfg.Report); err != nil {
			return nil, err
		}
	}

	if r.reports != nil {
		stored := &ports.StoredReport{
			ID:        core.NewReportID(),
			Dataset:   cfg.Dataset,
			CreatedAt: report.Timestamp,
			Report:    report,
		}
		if err := r.reports.Save(ctx, stored); err != nil {
			// History is best-effort; the report itself already succeeded.
			log.Printf("[Runner] run %s: failed to persist report: %v", runID, err)
		}
	}

	return &report, nil
}
