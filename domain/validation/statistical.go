package validation

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"dataqc/domain/core"
	"dataqc/domain/frame"
)

// statOrder fixes the evaluation order of per-column statistics so that
// violation lists are deterministic. The first five are the summary
// statistics; skewness and kurtosis are distribution-shape extras that
// participate in the same {stat}_{min|max} threshold mechanism.
var statOrder = []string{"mean", "std", "min", "max", "null_rate", "skewness", "kurtosis"}

// StatisticalValidator computes summary statistics per numeric column and
// compares them against per-column threshold rules.
type StatisticalValidator struct {
	clock core.Clock
}

// NewStatisticalValidator creates a statistical validator (nil clock means
// the system clock).
func NewStatisticalValidator(clock core.Clock) *StatisticalValidator {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &StatisticalValidator{clock: clock}
}

// ValidateStatisticalProperties checks each listed numeric column against
// its threshold entry. Columns absent from the frame are skipped silently,
// so a nil or empty frame produces a passing result; columns without a
// threshold entry contribute no violations. A NaN
// statistic (e.g. sample std of a single row) never violates a bound.
func (v *StatisticalValidator) ValidateStatisticalProperties(f *frame.Frame, numericColumns []string, thresholds Thresholds) Result {
	result := Result{
		Timestamp: core.NewTimestamp(v.clock.Now().UTC()),
		Type:      TypeStatistical,
		Passed:    true,
	}

	for _, col := range numericColumns {
		if !f.HasColumn(col) {
			continue
		}

		columnStats := v.computeColumnStats(f, col)

		colThresholds, ok := thresholds[col]
		if !ok {
			continue
		}

		var violations []StatViolation
		for _, statName := range statOrder {
			value := columnStats[statName]
			// NaN statistics (undefined std, empty column) pass
			// silently rather than comparing false by accident.
			if math.IsNaN(value) {
				continue
			}
			if minBound, ok := colThresholds[statName+"_min"]; ok && value < minBound {
				violations = append(violations, StatViolation{
					Stat:      statName,
					Value:     value,
					Threshold: minBound,
					Kind:      ViolationBelowMin,
				})
			}
			if maxBound, ok := colThresholds[statName+"_max"]; ok && value > maxBound {
				violations = append(violations, StatViolation{
					Stat:      statName,
					Value:     value,
					Threshold: maxBound,
					Kind:      ViolationAboveMax,
				})
			}
		}

		if len(violations) > 0 {
			result.Passed = false
			result.Violations = append(result.Violations, ColumnViolations{
				Column:     col,
				Violations: violations,
			})
		}
	}

	return result
}

// computeColumnStats extracts the non-missing numeric values of a column
// and computes its statistics. Undefined statistics come back as NaN.
func (v *StatisticalValidator) computeColumnStats(f *frame.Frame, col string) map[string]float64 {
	values, missing := f.Float64Column(col)
	total := f.RowCount()

	nullRate := math.NaN()
	if total > 0 {
		nullRate = float64(missing) / float64(total)
	}

	return map[string]float64{
		"mean":      nanOnErr(stats.Mean(values)),
		"std":       nanOnErr(stats.StandardDeviationSample(values)),
		"min":       nanOnErr(stats.Min(values)),
		"max":       nanOnErr(stats.Max(values)),
		"null_rate": nullRate,
		"skewness":  sampleSkewness(values),
		"kurtosis":  sampleKurtosis(values),
	}
}

func nanOnErr(value float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return value
}

func sampleSkewness(values []float64) float64 {
	if len(values) < 3 {
		return math.NaN()
	}
	return stat.Skew(values, nil)
}

func sampleKurtosis(values []float64) float64 {
	if len(values) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(values, nil)
}
