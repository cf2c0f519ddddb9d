package validation

import (
	"dataqc/domain/core"
)

// Type identifies which validator produced a result.
type Type string

const (
	TypeSchema      Type = "schema"
	TypeStatistical Type = "statistical"
	TypeFreshness   Type = "freshness"
	TypeSuite       Type = "suite"
)

// Schema error kinds
const (
	ErrKindEmptyDataset      = "empty_dataframe"
	ErrKindMissingColumns    = "missing_columns"
	ErrKindUnexpectedColumns = "unexpected_columns"
	ErrKindDtypeMismatch     = "dtype_mismatch"
)

// Statistical violation kinds
const (
	ViolationBelowMin = "below_min"
	ViolationAboveMax = "above_max"
)

// DtypeMismatch records one column whose concrete dtype is incompatible
// with the expected family.
type DtypeMismatch struct {
	Column   string `json:"column"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// SchemaError is one schema-level finding. Depending on Kind it carries a
// message, a column list, or a mismatch list.
type SchemaError struct {
	Kind       string          `json:"type"`
	Message    string          `json:"message,omitempty"`
	Columns    []string        `json:"columns,omitempty"`
	Mismatches []DtypeMismatch `json:"mismatches,omitempty"`
}

// StatViolation is a single statistic breaching one of its bounds.
type StatViolation struct {
	Stat      string  `json:"stat"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Kind      string  `json:"type"`
}

// ColumnViolations groups all threshold violations of one column.
type ColumnViolations struct {
	Column     string          `json:"column"`
	Violations []StatViolation `json:"violations"`
}

// FreshnessDetails reports the staleness computation. Error is set when the
// timestamp column is absent or staleness exceeds the budget.
type FreshnessDetails struct {
	LatestTimestamp   string  `json:"latest_timestamp,omitempty"`
	CurrentTime       string  `json:"current_time,omitempty"`
	StalenessHours    float64 `json:"staleness_hours"`
	MaxStalenessHours float64 `json:"max_staleness_hours"`
	Error             string  `json:"error,omitempty"`
}

// FailedExpectation is one suite expectation that did not hold, reduced to
// its identifying config and result detail.
type FailedExpectation struct {
	Expectation string                 `json:"expectation"`
	Kwargs      map[string]interface{} `json:"kwargs"`
	Result      map[string]interface{} `json:"result"`
}

// Result is the outcome of a single validator call. Exactly one of the
// type-specific detail fields is populated, matching Type:
// Errors (schema), Violations (statistical), Details (freshness),
// SuiteName/Statistics/FailedExpectations/Error (suite).
// A Result is immutable once produced.
type Result struct {
	Timestamp core.Timestamp `json:"timestamp"`
	Type      Type           `json:"validation_type"`
	Passed    bool           `json:"passed"`

	Errors     []SchemaError      `json:"errors,omitempty"`
	Violations []ColumnViolations `json:"violations,omitempty"`
	Details    *FreshnessDetails  `json:"details,omitempty"`

	SuiteName          string                 `json:"suite_name,omitempty"`
	Statistics         map[string]interface{} `json:"statistics,omitempty"`
	FailedExpectations []FailedExpectation    `json:"failed_expectations,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

// Report aggregates the results of one validation run.
type Report struct {
	Timestamp        core.Timestamp `json:"timestamp"`
	TotalValidations int            `json:"total_validations"`
	Passed           int            `json:"passed"`
	Failed           int            `json:"failed"`
	Results          []Result       `json:"results"`
}

// ExpectedSchema pairs the required column set with per-column expected
// dtype families.
type ExpectedSchema struct {
	Columns []string          `json:"columns" yaml:"columns"`
	Dtypes  map[string]string `json:"dtypes" yaml:"dtypes"`
}

// Thresholds maps column name to statistic bounds keyed "{stat}_{min|max}",
// e.g. {"amount": {"mean_min": 10, "null_rate_max": 0.05}}.
type Thresholds map[string]map[string]float64
