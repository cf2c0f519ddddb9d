package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dataqc/domain/validation"
	"dataqc/internal/errors"
)

// CheckConfig is one validation run described as a file: the dataset to
// load, which checks to apply, and where the report goes.
type CheckConfig struct {
	Dataset string       `yaml:"dataset"`
	Report  string       `yaml:"report,omitempty"`
	Checks  ChecksConfig `yaml:"checks"`
}

// ChecksConfig selects and parameterizes the individual checks. A nil
// section disables that check.
type ChecksConfig struct {
	Schema      *SchemaCheck      `yaml:"schema,omitempty"`
	Statistical *StatisticalCheck `yaml:"statistical,omitempty"`
	Freshness   *FreshnessCheck   `yaml:"freshness,omitempty"`
	Suites      []string          `yaml:"suites,omitempty"`
}

// SchemaCheck configures the schema validator.
type SchemaCheck struct {
	Columns []string          `yaml:"columns"`
	Dtypes  map[string]string `yaml:"dtypes,omitempty"`
}

// StatisticalCheck configures the statistical validator.
type StatisticalCheck struct {
	NumericColumns []string              `yaml:"numeric_columns"`
	Thresholds     validation.Thresholds `yaml:"thresholds,omitempty"`
}

// FreshnessCheck configures the freshness validator.
type FreshnessCheck struct {
	TimestampColumn   string  `yaml:"timestamp_column"`
	MaxStalenessHours float64 `yaml:"max_staleness_hours,omitempty"`
}

// LoadCheckConfig reads and validates a YAML check config file.
func LoadCheckConfig(path string) (*CheckConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read check config %s", path)
	}

	var cfg CheckConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse check config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configs that select no dataset or no checks.
func (c *CheckConfig) Validate() error {
	if c.Dataset == "" {
		return errors.InvalidInput("check config: dataset is required")
	}
	if c.Checks.Schema == nil && c.Checks.Statistical == nil &&
		c.Checks.Freshness == nil && len(c.Checks.Suites) == 0 {
		return errors.InvalidInput("check config: no checks configured")
	}
	if c.Checks.Schema != nil && len(c.Checks.Schema.Columns) == 0 {
		return errors.InvalidInput("check config: schema check requires columns")
	}
	if c.Checks.Statistical != nil && len(c.Checks.Statistical.NumericColumns) == 0 {
		return errors.InvalidInput("check config: statistical check requires numeric_columns")
	}
	if c.Checks.Freshness != nil && c.Checks.Freshness.TimestampColumn == "" {
		return errors.InvalidInput("check config: freshness check requires timestamp_column")
	}
	return nil
}

// SuiteDefinition is the YAML form of an expectation suite used by the
// suite-management entry point.
type SuiteDefinition struct {
	Name         string             `yaml:"name"`
	Expectations []SuiteExpectation `yaml:"expectations"`
}

// SuiteExpectation is one declarative expectation in a suite definition.
type SuiteExpectation struct {
	Type   string                 `yaml:"expectation_type"`
	Kwargs map[string]interface{} `yaml:"kwargs"`
}

// LoadSuiteDefinition reads a YAML suite definition file.
func LoadSuiteDefinition(path string) (*SuiteDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read suite definition %s", path)
	}

	var def SuiteDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrapf(err, "failed to parse suite definition %s", path)
	}
	if def.Name == "" {
		return nil, errors.InvalidInput(fmt.Sprintf("suite definition %s: name is required", path))
	}
	if len(def.Expectations) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("suite definition %s: expectations are required", path))
	}
	return &def, nil
}
