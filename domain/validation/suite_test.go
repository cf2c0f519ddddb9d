package validation

import (
	"context"
	"errors"
	"testing"

	"dataqc/domain/expectation"
	"dataqc/domain/frame"
)

type fakeRunner struct {
	lastReq   expectation.BatchRequest
	lastSuite string
	outcome   *expectation.Outcome
	err       error
}

func (r *fakeRunner) RunSuite(ctx context.Context, req expectation.BatchRequest, suiteName string) (*expectation.Outcome, error) {
	r.lastReq = req
	r.lastSuite = suiteName
	return r.outcome, r.err
}

type fakeStore struct {
	saved map[string]*expectation.Suite
}

func (s *fakeStore) SaveSuite(ctx context.Context, suite *expectation.Suite) error {
	if s.saved == nil {
		s.saved = make(map[string]*expectation.Suite)
	}
	s.saved[suite.Name] = suite
	return nil
}

func (s *fakeStore) GetSuite(ctx context.Context, name string) (*expectation.Suite, error) {
	suite, ok := s.saved[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return suite, nil
}

func TestValidateDataQuality_Success(t *testing.T) {
	runner := &fakeRunner{outcome: &expectation.Outcome{
		Success:    true,
		Statistics: map[string]interface{}{"evaluated_expectations": 2},
		Results: []expectation.Result{
			{Success: true, Config: expectation.Config{Type: "expect_column_to_exist"}},
			{Success: true, Config: expectation.Config{Type: "expect_column_values_to_be_unique"}},
		},
	}}
	v := NewSuiteValidator(runner, nil, testClock)
	f := frame.FromRows([]string{"a"}, map[string]string{"a": "int64"},
		[]map[string]interface{}{{"a": int64(1)}})

	passed, summary := v.ValidateDataQuality(context.Background(), f, "basic", nil)

	if !passed || !summary.Passed {
		t.Fatal("expected success")
	}
	if summary.SuiteName != "basic" || summary.Type != TypeSuite {
		t.Errorf("unexpected summary identity: %+v", summary)
	}
	if len(summary.FailedExpectations) != 0 {
		t.Errorf("passing run must list no failed expectations, got %+v", summary.FailedExpectations)
	}
	if runner.lastReq.DatasourceName != DefaultDatasourceName ||
		runner.lastReq.DataConnectorName != DefaultDataConnectorName ||
		runner.lastReq.DataAssetName != DefaultDataAssetName {
		t.Errorf("default batch naming not applied: %+v", runner.lastReq)
	}
}

func TestValidateDataQuality_FailedExpectationsReduced(t *testing.T) {
	runner := &fakeRunner{outcome: &expectation.Outcome{
		Success: false,
		Results: []expectation.Result{
			{Success: true, Config: expectation.Config{Type: "expect_column_to_exist"}},
			{
				Success: false,
				Config: expectation.Config{
					Type:   "expect_column_values_to_not_be_null",
					Kwargs: map[string]interface{}{"column": "a"},
				},
				Result: map[string]interface{}{"unexpected_count": 3},
			},
		},
	}}
	v := NewSuiteValidator(runner, nil, testClock)
	f := frame.FromRows([]string{"a"}, map[string]string{"a": "int64"},
		[]map[string]interface{}{{"a": nil}})

	passed, summary := v.ValidateDataQuality(context.Background(), f, "basic", nil)

	if passed || summary.Passed {
		t.Fatal("expected failure")
	}
	if len(summary.FailedExpectations) != 1 {
		t.Fatalf("expected only the failing entry, got %+v", summary.FailedExpectations)
	}
	fe := summary.FailedExpectations[0]
	if fe.Expectation != "expect_column_values_to_not_be_null" {
		t.Errorf("unexpected expectation type: %s", fe.Expectation)
	}
	if fe.Kwargs["column"] != "a" {
		t.Errorf("kwargs not carried: %+v", fe.Kwargs)
	}
	if fe.Result["unexpected_count"] != 3 {
		t.Errorf("result detail not carried: %+v", fe.Result)
	}
}

func TestValidateDataQuality_DelegationFailureIsSwallowed(t *testing.T) {
	runner := &fakeRunner{err: errors.New("suite exploded")}
	v := NewSuiteValidator(runner, nil, testClock)
	f := frame.FromRows([]string{"a"}, map[string]string{"a": "int64"},
		[]map[string]interface{}{{"a": int64(1)}})

	passed, summary := v.ValidateDataQuality(context.Background(), f, "broken", nil)

	if passed {
		t.Fatal("delegation failure must report false")
	}
	if summary.Error != "suite exploded" {
		t.Errorf("expected the collaborator message, got %q", summary.Error)
	}
	if summary.Passed {
		t.Error("summary must be marked failed")
	}
}

func TestValidateDataQuality_BatchOptionsOverride(t *testing.T) {
	runner := &fakeRunner{outcome: &expectation.Outcome{Success: true}}
	v := NewSuiteValidator(runner, nil, testClock)
	f := frame.FromRows([]string{"a"}, map[string]string{"a": "int64"},
		[]map[string]interface{}{{"a": int64(1)}})

	v.ValidateDataQuality(context.Background(), f, "basic", &BatchOptions{
		DatasourceName: "warehouse",
		DataAssetName:  "orders",
	})

	if runner.lastReq.DatasourceName != "warehouse" || runner.lastReq.DataAssetName != "orders" {
		t.Errorf("batch options not applied: %+v", runner.lastReq)
	}
}

func TestCreateExpectationSuite_ReplacesAndPersists(t *testing.T) {
	store := &fakeStore{}
	v := NewSuiteValidator(nil, store, testClock)

	first := []expectation.Config{{Type: "expect_column_to_exist", Kwargs: map[string]interface{}{"column": "a"}}}
	second := []expectation.Config{
		{Type: "expect_column_to_exist", Kwargs: map[string]interface{}{"column": "a"}},
		{Type: "expect_column_values_to_be_unique", Kwargs: map[string]interface{}{"column": "a"}},
	}

	if err := v.CreateExpectationSuite(context.Background(), "basic", first); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := v.CreateExpectationSuite(context.Background(), "basic", second); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	saved := store.saved["basic"]
	if saved == nil {
		t.Fatal("suite not persisted")
	}
	if len(saved.Expectations) != 2 {
		t.Errorf("expected the replacement suite, got %+v", saved.Expectations)
	}
}
