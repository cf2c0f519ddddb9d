package validation

import (
	"context"
	"fmt"
	"log"

	"dataqc/domain/core"
	"dataqc/domain/expectation"
	"dataqc/domain/frame"
)

// Batch request defaults, matching the collaborator's runtime conventions.
const (
	DefaultDatasourceName    = "runtime_datasource"
	DefaultDataAssetName     = "runtime_data"
	DefaultDataConnectorName = "default_runtime_data_connector"
	DefaultBatchIdentifier   = "default_identifier"
)

// SuiteRunner executes a named expectation suite against an in-memory batch.
// Implementations may be backed by any rule-evaluation engine.
type SuiteRunner interface {
	RunSuite(ctx context.Context, req expectation.BatchRequest, suiteName string) (*expectation.Outcome, error)
}

// SuiteStore persists expectation suites.
type SuiteStore interface {
	// SaveSuite replaces any suite of the same name.
	SaveSuite(ctx context.Context, suite *expectation.Suite) error
	GetSuite(ctx context.Context, name string) (*expectation.Suite, error)
}

// BatchOptions override the default batch naming for a suite run.
type BatchOptions struct {
	DatasourceName string
	DataAssetName  string
}

// SuiteValidator delegates rule-based validation to an expectation-suite
// execution collaborator and normalizes its outcome into the shared result
// shape.
type SuiteValidator struct {
	runner SuiteRunner
	store  SuiteStore
	clock  core.Clock
}

// NewSuiteValidator creates a suite validator over the given collaborator
// (nil clock means the system clock).
func NewSuiteValidator(runner SuiteRunner, store SuiteStore, clock core.Clock) *SuiteValidator {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &SuiteValidator{runner: runner, store: store, clock: clock}
}

// ValidateDataQuality runs the named suite against the frame. Any failure
// during delegation (suite not found, collaborator error) is swallowed into
// (false, Result{Error: msg}); callers always receive the two-value form
// and never a raised error.
func (v *SuiteValidator) ValidateDataQuality(ctx context.Context, f *frame.Frame, suiteName string, opts *BatchOptions) (bool, Result) {
	req := expectation.BatchRequest{
		DatasourceName:    DefaultDatasourceName,
		DataConnectorName: DefaultDataConnectorName,
		DataAssetName:     DefaultDataAssetName,
		BatchIdentifier:   DefaultBatchIdentifier,
		Data:              f,
	}
	if opts != nil {
		if opts.DatasourceName != "" {
			req.DatasourceName = opts.DatasourceName
		}
		if opts.DataAssetName != "" {
			req.DataAssetName = opts.DataAssetName
		}
	}

	outcome, err := v.runner.RunSuite(ctx, req, suiteName)
	if err != nil {
		log.Printf("[SuiteValidator] suite %s failed: %v", suiteName, err)
		return false, Result{
			Timestamp: core.NewTimestamp(v.clock.Now().UTC()),
			Type:      TypeSuite,
			Passed:    false,
			SuiteName: suiteName,
			Error:     err.Error(),
		}
	}

	summary := Result{
		Timestamp:  core.NewTimestamp(v.clock.Now().UTC()),
		Type:       TypeSuite,
		Passed:     outcome.Success,
		SuiteName:  suiteName,
		Statistics: outcome.Statistics,
	}

	if !outcome.Success {
		for _, r := range outcome.Results {
			if r.Success {
				continue
			}
			summary.FailedExpectations = append(summary.FailedExpectations, FailedExpectation{
				Expectation: r.Config.Type,
				Kwargs:      r.Config.Kwargs,
				Result:      r.Result,
			})
		}
	}

	return outcome.Success, summary
}

// CreateExpectationSuite builds a suite from the ordered expectation
// configs and persists it, replacing any suite of the same name.
func (v *SuiteValidator) CreateExpectationSuite(ctx context.Context, suiteName string, configs []expectation.Config) error {
	if v.store == nil {
		return fmt.Errorf("no suite store configured")
	}
	suite := &expectation.Suite{
		Name:         suiteName,
		Expectations: configs,
		CreatedAt:    core.NewTimestamp(v.clock.Now().UTC()),
	}
	if err := v.store.SaveSuite(ctx, suite); err != nil {
		return fmt.Errorf("failed to save suite %s: %w", suiteName, err)
	}
	log.Printf("[SuiteValidator] created expectation suite: %s", suiteName)
	return nil
}
