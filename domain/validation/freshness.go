package validation

import (
	"fmt"
	"time"

	"dataqc/domain/core"
	"dataqc/domain/frame"
)

// DefaultMaxStalenessHours is the staleness budget applied when the caller
// does not configure one.
const DefaultMaxStalenessHours = 24

// timestampLayouts are tried in order when a timestamp cell arrives as a
// string. Layouts without a zone yield a naive timestamp (UTC location).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FreshnessValidator measures how stale a dataset is relative to the clock,
// using a designated timestamp column.
type FreshnessValidator struct {
	clock core.Clock
}

// NewFreshnessValidator creates a freshness validator (nil clock means the
// system clock).
func NewFreshnessValidator(clock core.Clock) *FreshnessValidator {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &FreshnessValidator{clock: clock}
}

// ValidateFreshness parses the timestamp column on a private copy of the
// frame, takes the latest timestamp and compares its age against
// maxStalenessHours (<= 0 selects the default budget). The current time is
// evaluated in the latest timestamp's zone so aware and naive values both
// subtract cleanly.
func (v *FreshnessValidator) ValidateFreshness(f *frame.Frame, timestampColumn string, maxStalenessHours float64) Result {
	if maxStalenessHours <= 0 {
		maxStalenessHours = DefaultMaxStalenessHours
	}

	result := Result{
		Timestamp: core.NewTimestamp(v.clock.Now().UTC()),
		Type:      TypeFreshness,
		Passed:    true,
		Details:   &FreshnessDetails{},
	}

	if f.IsEmpty() {
		result.Passed = false
		result.Details.Error = "dataset is empty"
		return result
	}
	if !f.HasColumn(timestampColumn) {
		result.Passed = false
		result.Details.Error = fmt.Sprintf("timestamp column '%s' not found", timestampColumn)
		return result
	}

	// Normalize on a copy; the caller's frame is never mutated.
	private := f.Copy()
	raw := private.Column(timestampColumn)
	parsed := make([]interface{}, len(raw))
	var latest time.Time
	found := false
	for i, cell := range raw {
		ts, ok := parseTimestamp(cell)
		if !ok {
			parsed[i] = nil
			continue
		}
		parsed[i] = ts
		if !found || ts.After(latest) {
			latest = ts
			found = true
		}
	}
	_ = private.SetColumn(timestampColumn, parsed)

	if !found {
		result.Passed = false
		result.Details.Error = fmt.Sprintf("timestamp column '%s' has no parseable timestamps", timestampColumn)
		return result
	}

	currentTime := v.clock.Now().In(latest.Location())
	stalenessHours := currentTime.Sub(latest).Hours()

	result.Details = &FreshnessDetails{
		LatestTimestamp:   latest.Format(time.RFC3339),
		CurrentTime:       currentTime.Format(time.RFC3339),
		StalenessHours:    stalenessHours,
		MaxStalenessHours: maxStalenessHours,
	}

	if stalenessHours > maxStalenessHours {
		result.Passed = false
		result.Details.Error = fmt.Sprintf("data is %.2f hours old, exceeds max of %g hours", stalenessHours, maxStalenessHours)
	}

	return result
}

func parseTimestamp(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, true
	case core.Timestamp:
		return t.Time(), true
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
