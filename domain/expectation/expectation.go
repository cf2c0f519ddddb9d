package expectation

import (
	"dataqc/domain/core"
	"dataqc/domain/frame"
)

// Config is one declarative expectation: a type name plus its kwargs,
// mirroring the collaborator's expectation configuration shape.
type Config struct {
	Type   string                 `json:"expectation_type" yaml:"expectation_type"`
	Kwargs map[string]interface{} `json:"kwargs" yaml:"kwargs"`
}

// Suite is a named, persisted collection of expectations.
type Suite struct {
	Name         string         `json:"expectation_suite_name"`
	Expectations []Config       `json:"expectations"`
	CreatedAt    core.Timestamp `json:"created_at"`
}

// Result is the per-expectation outcome of a suite run.
type Result struct {
	Success bool                   `json:"success"`
	Config  Config                 `json:"expectation_config"`
	Result  map[string]interface{} `json:"result"`
}

// Outcome is the structured result of executing a suite against a batch.
// Statistics carries the run counters (evaluated_expectations,
// successful_expectations, unsuccessful_expectations, success_percent).
type Outcome struct {
	Success    bool                   `json:"success"`
	Statistics map[string]interface{} `json:"statistics"`
	Results    []Result               `json:"results"`
}

// BatchRequest identifies an in-memory batch of data for suite execution.
type BatchRequest struct {
	DatasourceName    string
	DataConnectorName string
	DataAssetName     string
	BatchIdentifier   string
	Data              *frame.Frame
}
