package expectations

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"dataqc/domain/core"
	"dataqc/domain/expectation"
	"dataqc/domain/frame"
	"dataqc/domain/validation"
)

// maxUnexpectedSample caps the partial_unexpected_list in result details.
const maxUnexpectedSample = 20

// Engine is the default expectation-suite execution collaborator: it
// resolves suites from a store and evaluates a closed set of expectation
// types against an in-memory batch. Any rule engine implementing
// validation.SuiteRunner can replace it.
type Engine struct {
	store validation.SuiteStore
}

// NewEngine creates an expectation engine over the given suite store.
func NewEngine(store validation.SuiteStore) *Engine {
	return &Engine{store: store}
}

// RunSuite resolves the named suite and evaluates every expectation against
// the batch. The outcome's overall success flag is true iff every
// per-expectation success flag is true, keeping the flag consistent with
// the failed-expectations list.
func (e *Engine) RunSuite(ctx context.Context, req expectation.BatchRequest, suiteName string) (*expectation.Outcome, error) {
	if req.Data == nil {
		return nil, core.ErrEmptyDataset
	}

	suite, err := e.store.GetSuite(ctx, suiteName)
	if err != nil {
		return nil, err
	}

	outcome := &expectation.Outcome{
		Success: true,
		Results: make([]expectation.Result, 0, len(suite.Expectations)),
	}

	successful := 0
	for _, cfg := range suite.Expectations {
		result, err := e.evaluate(req.Data, cfg)
		if err != nil {
			return nil, err
		}
		if result.Success {
			successful++
		} else {
			outcome.Success = false
		}
		outcome.Results = append(outcome.Results, result)
	}

	evaluated := len(suite.Expectations)
	successPercent := 100.0
	if evaluated > 0 {
		successPercent = float64(successful) / float64(evaluated) * 100
	}
	outcome.Statistics = map[string]interface{}{
		"evaluated_expectations":    evaluated,
		"successful_expectations":   successful,
		"unsuccessful_expectations": evaluated - successful,
		"success_percent":           successPercent,
	}

	return outcome, nil
}

func (e *Engine) evaluate(f *frame.Frame, cfg expectation.Config) (expectation.Result, error) {
	var (
		success bool
		detail  map[string]interface{}
		err     error
	)

	switch cfg.Type {
	case "expect_column_to_exist":
		success, detail, err = e.columnExists(f, cfg)
	case "expect_column_values_to_not_be_null":
		success, detail, err = e.columnMap(f, cfg, func(v interface{}) bool { return !isNull(v) })
	case "expect_column_values_to_be_between":
		success, detail, err = e.valuesBetween(f, cfg)
	case "expect_column_values_to_be_in_set":
		success, detail, err = e.valuesInSet(f, cfg)
	case "expect_column_values_to_be_unique":
		success, detail, err = e.valuesUnique(f, cfg)
	case "expect_table_row_count_to_be_between":
		success, detail, err = e.rowCountBetween(f, cfg)
	case "expect_column_mean_to_be_between":
		success, detail, err = e.meanBetween(f, cfg)
	default:
		return expectation.Result{}, fmt.Errorf("%w: %s", core.ErrUnknownExpectation, cfg.Type)
	}
	if err != nil {
		return expectation.Result{}, err
	}

	return expectation.Result{
		Success: success,
		Config:  cfg,
		Result:  detail,
	}, nil
}

func (e *Engine) columnExists(f *frame.Frame, cfg expectation.Config) (bool, map[string]interface{}, error) {
	col, err := kwColumn(cfg)
	if err != nil {
		return false, nil, err
	}
	return f.HasColumn(col), map[string]interface{}{
		"observed_value": f.HasColumn(col),
	}, nil
}

// columnMap evaluates a per-value predicate over a column, honoring the
// optional "mostly" kwarg (minimum passing fraction, default 1.0).
func (e *Engine) columnMap(f *frame.Frame, cfg expectation.Config, pred func(interface{}) bool) (bool, map[string]interface{}, error) {
	col, err := kwColumn(cfg)
	if err != nil {
		return false, nil, err
	}
	if !f.HasColumn(col) {
		return false, nil, core.NewColumnNotFoundError(col)
	}

	values := f.Column(col)
	unexpected := make([]interface{}, 0)
	for _, v := range values {
		if !pred(v) {
			if len(unexpected) < maxUnexpectedSample {
				unexpected = append(unexpected, v)
			}
		}
	}

	elementCount := len(values)
	unexpectedCount := countFailures(values, pred)
	unexpectedPercent := 0.0
	if elementCount > 0 {
		unexpectedPercent = float64(unexpectedCount) / float64(elementCount) * 100
	}

	mostly := kwFloatDefault(cfg.Kwargs, "mostly", 1.0)
	success := elementCount == 0 || (1-unexpectedPercent/100) >= mostly

	return success, map[string]interface{}{
		"element_count":           elementCount,
		"unexpected_count":        unexpectedCount,
		"unexpected_percent":      unexpectedPercent,
		"partial_unexpected_list": unexpected,
	}, nil
}

func (e *Engine) valuesBetween(f *frame.Frame, cfg expectation.Config) (bool, map[string]interface{}, error) {
	minValue, hasMin := kwFloat(cfg.Kwargs, "min_value")
	maxValue, hasMax := kwFloat(cfg.Kwargs, "max_value")
	if !hasMin && !hasMax {
		return false, nil, core.NewExpectationArgError(cfg.Type, "min_value or max_value required")
	}
	return e.columnMap(f, cfg, func(v interface{}) bool {
		n, ok := toFloat(v)
		if !ok {
			// Nulls do not count against range expectations.
			return isNull(v)
		}
		if hasMin && n < minValue {
			return false
		}
		if hasMax && n > maxValue {
			return false
		}
		return true
	})
}

func (e *Engine) valuesInSet(f *frame.Frame, cfg expectation.Config) (bool, map[string]interface{}, error) {
	rawSet, ok := cfg.Kwargs["value_set"].([]interface{})
	if !ok {
		return false, nil, core.NewExpectationArgError(cfg.Type, "value_set must be a list")
	}
	return e.columnMap(f, cfg, func(v interface{}) bool {
		if isNull(v) {
			return true
		}
		for _, allowed := range rawSet {
			if valueEqual(v, allowed) {
				return true
			}
		}
		return false
	})
}

func (e *Engine) valuesUnique(f *frame.Frame, cfg expectation.Config) (bool, map[string]interface{}, error) {
	col, err := kwColumn(cfg)
	if err != nil {
		return false, nil, err
	}
	if !f.HasColumn(col) {
		return false, nil, core.NewColumnNotFoundError(col)
	}

	seen := make(map[string]int)
	for _, v := range f.Column(col) {
		if isNull(v) {
			continue
		}
		seen[fmt.Sprint(v)]++
	}

	duplicates := 0
	for _, n := range seen {
		if n > 1 {
			duplicates += n
		}
	}
	elementCount := f.RowCount()
	unexpectedPercent := 0.0
	if elementCount > 0 {
		unexpectedPercent = float64(duplicates) / float64(elementCount) * 100
	}

	return duplicates == 0, map[string]interface{}{
		"element_count":      elementCount,
		"unexpected_count":   duplicates,
		"unexpected_percent": unexpectedPercent,
	}, nil
}

func (e *Engine) rowCountBetween(f *frame.Frame, cfg expectation.Config) (bool, map[string]interface{}, error) {
	minValue, hasMin := kwFloat(cfg.Kwargs, "min_value")
	maxValue, hasMax := kwFloat(cfg.Kwargs, "max_value")
	if !hasMin && !hasMax {
		return false, nil, core.NewExpectationArgError(cfg.Type, "min_value or max_value required")
	}

	count := float64(f.RowCount())
	success := true
	if hasMin && count < minValue {
		success = false
	}
	if hasMax && count > maxValue {
		success = false
	}
	return success, map[string]interface{}{
		"observed_value": f.RowCount(),
	}, nil
}

func (e *Engine) meanBetween(f *frame.Frame, cfg expectation.Config) (bool, map[string]interface{}, error) {
	col, err := kwColumn(cfg)
	if err != nil {
		return false, nil, err
	}
	if !f.HasColumn(col) {
		return false, nil, core.NewColumnNotFoundError(col)
	}
	minValue, hasMin := kwFloat(cfg.Kwargs, "min_value")
	maxValue, hasMax := kwFloat(cfg.Kwargs, "max_value")
	if !hasMin && !hasMax {
		return false, nil, core.NewExpectationArgError(cfg.Type, "min_value or max_value required")
	}

	values, _ := f.Float64Column(col)
	mean, err := stats.Mean(values)
	if err != nil || math.IsNaN(mean) {
		return false, map[string]interface{}{"observed_value": nil}, nil
	}

	success := true
	if hasMin && mean < minValue {
		success = false
	}
	if hasMax && mean > maxValue {
		success = false
	}
	return success, map[string]interface{}{
		"observed_value": mean,
	}, nil
}

func countFailures(values []interface{}, pred func(interface{}) bool) int {
	n := 0
	for _, v := range values {
		if !pred(v) {
			n++
		}
	}
	return n
}

func kwColumn(cfg expectation.Config) (string, error) {
	col, ok := cfg.Kwargs["column"].(string)
	if !ok || col == "" {
		return "", core.NewExpectationArgError(cfg.Type, "column is required")
	}
	return col, nil
}

func kwFloat(kwargs map[string]interface{}, key string) (float64, bool) {
	v, ok := kwargs[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func kwFloatDefault(kwargs map[string]interface{}, key string, fallback float64) float64 {
	if v, ok := kwFloat(kwargs, key); ok {
		return v
	}
	return fallback
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	if n, ok := v.(float64); ok && math.IsNaN(n) {
		return true
	}
	return false
}

func valueEqual(a, b interface{}) bool {
	an, aok := toFloat(a)
	bn, bok := toFloat(b)
	if aok && bok {
		return an == bn
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
