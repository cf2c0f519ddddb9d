package expectations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dataqc/domain/core"
	"dataqc/domain/expectation"
)

// FileSuiteStore persists expectation suites as JSON files, one per suite,
// under a root directory. Saving a suite replaces any previous file of the
// same name.
type FileSuiteStore struct {
	dir string
}

// NewFileSuiteStore creates a file-backed suite store rooted at dir.
func NewFileSuiteStore(dir string) *FileSuiteStore {
	return &FileSuiteStore{dir: dir}
}

// SaveSuite writes the suite to <dir>/<name>.json, creating the directory
// if needed and overwriting any existing suite of the same name.
func (s *FileSuiteStore) SaveSuite(ctx context.Context, suite *expectation.Suite) error {
	if suite.Name == "" {
		return fmt.Errorf("suite name is required")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create suite directory: %w", err)
	}

	data, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode suite %s: %w", suite.Name, err)
	}

	path := s.suitePath(suite.Name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write suite %s: %w", suite.Name, err)
	}

	log.Printf("[FileSuiteStore] saved suite %s (%d expectations)", suite.Name, len(suite.Expectations))
	return nil
}

// GetSuite loads a suite by name. A missing file maps to ErrSuiteNotFound.
func (s *FileSuiteStore) GetSuite(ctx context.Context, name string) (*expectation.Suite, error) {
	data, err := os.ReadFile(s.suitePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrSuiteNotFound, name)
		}
		return nil, fmt.Errorf("failed to read suite %s: %w", name, err)
	}

	var suite expectation.Suite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to decode suite %s: %w", name, err)
	}
	return &suite, nil
}

func (s *FileSuiteStore) suitePath(name string) string {
	// Suite names become file names; path separators are not allowed.
	safe := strings.ReplaceAll(name, string(filepath.Separator), "_")
	return filepath.Join(s.dir, safe+".json")
}
