package validation

import (
	"sort"

	"dataqc/domain/core"
	"dataqc/domain/frame"
)

// SchemaValidator checks a frame's column set and dtypes against an
// expected schema. It holds no state across calls.
type SchemaValidator struct {
	clock core.Clock
}

// NewSchemaValidator creates a schema validator using the given clock for
// result timestamps (nil means the system clock).
func NewSchemaValidator(clock core.Clock) *SchemaValidator {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &SchemaValidator{clock: clock}
}

// ValidateSchema compares the frame against the expected column set and
// dtype families. Findings accumulate: missing columns and dtype mismatches
// fail the result, unexpected columns are recorded as a warning only. An
// empty or nil frame short-circuits with a single empty_dataframe error.
func (v *SchemaValidator) ValidateSchema(f *frame.Frame, expectedColumns []string, expectedDtypes map[string]string) Result {
	result := Result{
		Timestamp: core.NewTimestamp(v.clock.Now().UTC()),
		Type:      TypeSchema,
		Passed:    true,
	}

	if f.IsEmpty() {
		result.Passed = false
		result.Errors = []SchemaError{{
			Kind:    ErrKindEmptyDataset,
			Message: "dataset is nil or empty",
		}}
		return result
	}

	actual := f.ColumnSet()
	expected := make(map[string]bool, len(expectedColumns))
	for _, c := range expectedColumns {
		expected[c] = true
	}

	var missing []string
	for c := range expected {
		if !actual[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		result.Passed = false
		result.Errors = append(result.Errors, SchemaError{
			Kind:    ErrKindMissingColumns,
			Columns: missing,
		})
	}

	var unexpected []string
	for c := range actual {
		if !expected[c] {
			unexpected = append(unexpected, c)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		// Extra columns are a warning, not a failure.
		result.Errors = append(result.Errors, SchemaError{
			Kind:    ErrKindUnexpectedColumns,
			Columns: unexpected,
		})
	}

	var mismatches []DtypeMismatch
	for _, col := range sortedKeys(expectedDtypes) {
		if !actual[col] {
			continue
		}
		expectedDtype := expectedDtypes[col]
		actualDtype := f.Dtype(col)
		if !DtypeCompatible(actualDtype, expectedDtype) {
			mismatches = append(mismatches, DtypeMismatch{
				Column:   col,
				Expected: expectedDtype,
				Actual:   actualDtype,
			})
		}
	}
	if len(mismatches) > 0 {
		result.Passed = false
		result.Errors = append(result.Errors, SchemaError{
			Kind:       ErrKindDtypeMismatch,
			Mismatches: mismatches,
		})
	}

	return result
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
