package validation

import (
	"reflect"
	"testing"
	"time"

	"dataqc/domain/core"
	"dataqc/domain/frame"
)

var testClock = core.FixedClock{At: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

func makeFrame(columns []string, dtypes map[string]string, rows ...map[string]interface{}) *frame.Frame {
	return frame.FromRows(columns, dtypes, rows)
}

func TestValidateSchema_EmptyDataset(t *testing.T) {
	v := NewSchemaValidator(testClock)

	for name, f := range map[string]*frame.Frame{
		"nil":     nil,
		"no rows": frame.New([]string{"a"}, map[string]string{"a": "int64"}),
	} {
		result := v.ValidateSchema(f, []string{"a"}, nil)
		if result.Passed {
			t.Errorf("%s: expected failure", name)
		}
		if len(result.Errors) != 1 || result.Errors[0].Kind != ErrKindEmptyDataset {
			t.Errorf("%s: expected single %s error, got %+v", name, ErrKindEmptyDataset, result.Errors)
		}
	}
}

func TestValidateSchema_MissingColumns(t *testing.T) {
	v := NewSchemaValidator(testClock)
	f := makeFrame([]string{"a"}, map[string]string{"a": "int64"},
		map[string]interface{}{"a": int64(1)})

	result := v.ValidateSchema(f, []string{"a", "b", "c"}, nil)

	if result.Passed {
		t.Fatal("expected failure when columns are missing")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %d", len(result.Errors))
	}
	e := result.Errors[0]
	if e.Kind != ErrKindMissingColumns {
		t.Fatalf("expected %s, got %s", ErrKindMissingColumns, e.Kind)
	}
	if !reflect.DeepEqual(e.Columns, []string{"b", "c"}) {
		t.Errorf("expected missing columns [b c], got %v", e.Columns)
	}
}

func TestValidateSchema_UnexpectedColumnsAreWarningOnly(t *testing.T) {
	v := NewSchemaValidator(testClock)
	f := makeFrame([]string{"a", "extra"}, map[string]string{"a": "int64", "extra": "string"},
		map[string]interface{}{"a": int64(1), "extra": "x"})

	result := v.ValidateSchema(f, []string{"a"}, nil)

	if !result.Passed {
		t.Error("extra columns alone must not fail the result")
	}
	if len(result.Errors) != 1 || result.Errors[0].Kind != ErrKindUnexpectedColumns {
		t.Fatalf("expected one %s entry, got %+v", ErrKindUnexpectedColumns, result.Errors)
	}
	if !reflect.DeepEqual(result.Errors[0].Columns, []string{"extra"}) {
		t.Errorf("expected [extra], got %v", result.Errors[0].Columns)
	}
}

func TestValidateSchema_DtypeMismatch(t *testing.T) {
	v := NewSchemaValidator(testClock)
	f := makeFrame([]string{"a", "b"}, map[string]string{"a": "float64", "b": "int32"},
		map[string]interface{}{"a": 1.5, "b": int32(2)})

	result := v.ValidateSchema(f, []string{"a", "b"}, map[string]string{"a": "int", "b": "int"})

	if result.Passed {
		t.Fatal("expected dtype mismatch to fail the result")
	}
	if len(result.Errors) != 1 || result.Errors[0].Kind != ErrKindDtypeMismatch {
		t.Fatalf("expected one %s entry, got %+v", ErrKindDtypeMismatch, result.Errors)
	}
	mismatches := result.Errors[0].Mismatches
	if len(mismatches) != 1 {
		t.Fatalf("expected one mismatch, got %+v", mismatches)
	}
	m := mismatches[0]
	if m.Column != "a" || m.Expected != "int" || m.Actual != "float64" {
		t.Errorf("unexpected mismatch entry: %+v", m)
	}
}

func TestValidateSchema_ErrorsAccumulate(t *testing.T) {
	v := NewSchemaValidator(testClock)
	f := makeFrame([]string{"a", "extra"}, map[string]string{"a": "float64", "extra": "string"},
		map[string]interface{}{"a": 1.5, "extra": "x"})

	result := v.ValidateSchema(f, []string{"a", "b"}, map[string]string{"a": "int"})

	if result.Passed {
		t.Fatal("expected failure")
	}
	kinds := make(map[string]bool)
	for _, e := range result.Errors {
		kinds[e.Kind] = true
	}
	for _, want := range []string{ErrKindMissingColumns, ErrKindUnexpectedColumns, ErrKindDtypeMismatch} {
		if !kinds[want] {
			t.Errorf("expected %s entry, got kinds %v", want, kinds)
		}
	}
}

func TestValidateSchema_UndeclaredColumnsSkipDtypeCheck(t *testing.T) {
	v := NewSchemaValidator(testClock)
	f := makeFrame([]string{"a"}, map[string]string{"a": "float64"},
		map[string]interface{}{"a": 1.5})

	// "b" has an expected dtype but is not in the frame; no error expected
	// beyond the missing column from the expected set.
	result := v.ValidateSchema(f, []string{"a"}, map[string]string{"a": "float", "b": "int"})

	if !result.Passed {
		t.Errorf("expected pass, got errors %+v", result.Errors)
	}
}
