package validation

import "testing"

func TestDtypeCompatible_Families(t *testing.T) {
	cases := []struct {
		actual   string
		expected string
		want     bool
	}{
		{"int32", "int", true},
		{"int64", "int", true},
		{"Int64", "int", true},
		{"float64", "int", false},
		{"float32", "float", true},
		{"Float64", "float", true},
		{"int64", "float", false},
		{"object", "string", true},
		{"string", "string", true},
		{"category", "string", true},
		{"datetime64[ns]", "datetime", true},
		{"datetime64[ns, UTC]", "datetime", true},
		{"int64", "datetime", false},
		{"bool", "bool", true},
		{"boolean", "bool", true},
		{"int8", "bool", false},
	}

	for _, tc := range cases {
		if got := DtypeCompatible(tc.actual, tc.expected); got != tc.want {
			t.Errorf("DtypeCompatible(%q, %q) = %v, want %v", tc.actual, tc.expected, got, tc.want)
		}
	}
}

func TestDtypeCompatible_UnknownFamilyFallsBackToEquality(t *testing.T) {
	if !DtypeCompatible("decimal128", "decimal128") {
		t.Error("identical unknown dtypes should be compatible")
	}
	if DtypeCompatible("decimal128", "decimal64") {
		t.Error("different unknown dtypes should not be compatible")
	}
}
