package validation

import "strings"

// dtypeFamilies is the fixed table of conceptual type families and the
// concrete representations considered interchangeable within each. Widths
// and nullable variants of the same conceptual type share one family.
var dtypeFamilies = map[string][]string{
	"int":      {"int8", "int16", "int32", "int64", "Int8", "Int16", "Int32", "Int64"},
	"float":    {"float16", "float32", "float64", "Float32", "Float64"},
	"string":   {"object", "string", "category"},
	"datetime": {"datetime64", "datetime64[ns]", "datetime64[ns, UTC]"},
	"bool":     {"bool", "boolean"},
}

// DtypeCompatible reports whether a concrete dtype satisfies an expected
// family. When expected names a known family, actual matches if it contains
// any of the family's representations; otherwise the check falls back to
// exact string equality.
func DtypeCompatible(actual, expected string) bool {
	if members, ok := dtypeFamilies[expected]; ok {
		for _, m := range members {
			if strings.Contains(actual, m) {
				return true
			}
		}
		return false
	}
	return actual == expected
}
