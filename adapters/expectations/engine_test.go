package expectations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataqc/domain/core"
	"dataqc/domain/expectation"
	"dataqc/domain/frame"
)

func testFrame() *frame.Frame {
	f := frame.New([]string{"id", "amount"}, map[string]string{"id": "int64", "amount": "float64"})
	f.AppendRow(map[string]interface{}{"id": int64(1), "amount": 10.0})
	f.AppendRow(map[string]interface{}{"id": int64(2), "amount": 20.0})
	f.AppendRow(map[string]interface{}{"id": int64(3), "amount": nil})
	return f
}

func testEngine(t *testing.T, configs []expectation.Config) *Engine {
	t.Helper()
	store := NewFileSuiteStore(t.TempDir())
	suite := &expectation.Suite{Name: "orders", Expectations: configs, CreatedAt: core.Now()}
	require.NoError(t, store.SaveSuite(context.Background(), suite))
	return NewEngine(store)
}

func runSuite(t *testing.T, engine *Engine, name string) *expectation.Outcome {
	t.Helper()
	outcome, err := engine.RunSuite(context.Background(), expectation.BatchRequest{Data: testFrame()}, name)
	require.NoError(t, err)
	return outcome
}

func TestRunSuite_AllPassing(t *testing.T) {
	engine := testEngine(t, []expectation.Config{
		{Type: "expect_column_to_exist", Kwargs: map[string]interface{}{"column": "id"}},
		{Type: "expect_column_values_to_be_unique", Kwargs: map[string]interface{}{"column": "id"}},
		{Type: "expect_table_row_count_to_be_between", Kwargs: map[string]interface{}{"min_value": 1.0, "max_value": 10.0}},
	})

	outcome := runSuite(t, engine, "orders")

	assert.True(t, outcome.Success)
	assert.Len(t, outcome.Results, 3)
	assert.Equal(t, 3, outcome.Statistics["evaluated_expectations"])
	assert.Equal(t, 3, outcome.Statistics["successful_expectations"])
	assert.Equal(t, 0, outcome.Statistics["unsuccessful_expectations"])
	assert.Equal(t, 100.0, outcome.Statistics["success_percent"])
}

func TestRunSuite_NotNullFails(t *testing.T) {
	engine := testEngine(t, []expectation.Config{
		{Type: "expect_column_values_to_not_be_null", Kwargs: map[string]interface{}{"column": "amount"}},
	})

	outcome := runSuite(t, engine, "orders")

	require.False(t, outcome.Success)
	require.Len(t, outcome.Results, 1)
	result := outcome.Results[0]
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Result["unexpected_count"])
	assert.Equal(t, 3, result.Result["element_count"])
}

func TestRunSuite_NotNullWithMostly(t *testing.T) {
	engine := testEngine(t, []expectation.Config{
		{Type: "expect_column_values_to_not_be_null", Kwargs: map[string]interface{}{"column": "amount", "mostly": 0.5}},
	})

	outcome := runSuite(t, engine, "orders")
	assert.True(t, outcome.Success, "1/3 nulls should pass with mostly 0.5")
}

func TestRunSuite_ValuesBetween(t *testing.T) {
	engine := testEngine(t, []expectation.Config{
		{Type: "expect_column_values_to_be_between", Kwargs: map[string]interface{}{
			"column": "amount", "min_value": 0.0, "max_value": 15.0,
		}},
	})

	outcome := runSuite(t, engine, "orders")

	require.False(t, outcome.Success)
	// amount 20 is out of range; the null does not count.
	assert.Equal(t, 1, outcome.Results[0].Result["unexpected_count"])
}

func TestRunSuite_ValuesInSet(t *testing.T) {
	engine := testEngine(t, []expectation.Config{
		{Type: "expect_column_values_to_be_in_set", Kwargs: map[string]interface{}{
			"column": "id", "value_set": []interface{}{1.0, 2.0, 3.0},
		}},
	})

	outcome := runSuite(t, engine, "orders")
	assert.True(t, outcome.Success, "numeric set membership compares by value, not representation")
}

func TestRunSuite_MeanBetween(t *testing.T) {
	engine := testEngine(t, []expectation.Config{
		{Type: "expect_column_mean_to_be_between", Kwargs: map[string]interface{}{
			"column": "amount", "min_value": 14.0, "max_value": 16.0,
		}},
	})

	outcome := runSuite(t, engine, "orders")

	require.True(t, outcome.Success)
	assert.Equal(t, 15.0, outcome.Results[0].Result["observed_value"])
}

func TestRunSuite_UnknownExpectation(t *testing.T) {
	engine := testEngine(t, []expectation.Config{
		{Type: "expect_the_spanish_inquisition", Kwargs: map[string]interface{}{}},
	})

	_, err := engine.RunSuite(context.Background(), expectation.BatchRequest{Data: testFrame()}, "orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownExpectation)
}

func TestRunSuite_SuiteNotFound(t *testing.T) {
	store := NewFileSuiteStore(t.TempDir())
	engine := NewEngine(store)

	_, err := engine.RunSuite(context.Background(), expectation.BatchRequest{Data: testFrame()}, "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSuiteNotFound)
}

func TestFileSuiteStore_OverwriteAndReload(t *testing.T) {
	store := NewFileSuiteStore(t.TempDir())
	ctx := context.Background()

	first := &expectation.Suite{Name: "s", Expectations: []expectation.Config{
		{Type: "expect_column_to_exist", Kwargs: map[string]interface{}{"column": "a"}},
	}, CreatedAt: core.Now()}
	require.NoError(t, store.SaveSuite(ctx, first))

	second := &expectation.Suite{Name: "s", Expectations: []expectation.Config{
		{Type: "expect_column_to_exist", Kwargs: map[string]interface{}{"column": "a"}},
		{Type: "expect_column_to_exist", Kwargs: map[string]interface{}{"column": "b"}},
	}, CreatedAt: core.Now()}
	require.NoError(t, store.SaveSuite(ctx, second))

	loaded, err := store.GetSuite(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, loaded.Expectations, 2)
}
