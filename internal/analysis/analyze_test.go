package analysis_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thepoff1327/N-and-N/internal/analysis"
	"github.com/thepoff1327/N-and-N/internal/symbolic"
)

func analyze(t *testing.T, input, set, variable string, bindings map[string]*big.Rat) *analysis.Result {
	t.Helper()
	expr, err := symbolic.Parse(input)
	require.NoError(t, err)
	s, err := analysis.ParseSet(set)
	require.NoError(t, err)
	res, err := analysis.New(nil).Analyze(input, expr, s, variable, bindings)
	require.NoError(t, err)
	return res
}

// The spec example: n² over N samples n = 0..9 and yields the squares with
// alternating parity (0 even K=0, 1 odd K=0, 4 even K=2, 9 odd K=4, ...).
func TestAnalyze_SquareOverN(t *testing.T) {
	res := analyze(t, "n²", "N", "n", nil)

	require.Len(t, res.Samples, 10)
	assert.Empty(t, res.Problematic)

	wantValues := []int64{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}
	wantEven := []bool{true, false, true, false, true, false, true, false, true, false}
	wantK := []int64{0, 0, 2, 4, 8, 12, 18, 24, 32, 40}
	for i, pt := range res.Samples {
		require.NoError(t, pt.Err)
		assert.Equal(t, int64(i), pt.Input)
		assert.Zero(t, pt.Result.Cmp(big.NewRat(wantValues[i], 1)), "n = %d", i)
		assert.True(t, pt.Report.InSet, "n = %d", i)
		require.NotNil(t, pt.Report.Parity)
		assert.Equal(t, wantEven[i], pt.Report.Parity.Even, "n = %d", i)
		assert.Equal(t, wantK[i], pt.Report.Parity.K.Int64(), "n = %d", i)
	}
	assert.Equal(t, analysis.PatternMixed, res.Pattern)
	assert.Equal(t, analysis.DependsOnVar, res.Mod2)
}

func TestAnalyze_NStarStartsAtOne(t *testing.T) {
	res := analyze(t, "n", "N*", "n", nil)
	require.Len(t, res.Samples, 10)
	assert.Equal(t, int64(1), res.Samples[0].Input)
	assert.Equal(t, int64(10), res.Samples[9].Input)
	assert.Empty(t, res.Problematic)
}

func TestAnalyze_FlagsValuesOutsideSet(t *testing.T) {
	res := analyze(t, "n - 5", "N", "n", nil)
	// n = 0..4 give negative results.
	require.Len(t, res.Problematic, 5)
	for _, pt := range res.Problematic {
		assert.False(t, pt.Report.InSet)
		assert.True(t, pt.Result.Sign() < 0)
	}
}

func TestAnalyze_FactoredForm(t *testing.T) {
	res := analyze(t, "n^2 + 3n + 2", "N", "n", nil)
	assert.Equal(t, "(n + 1)*(n + 2)", res.Factored)
	assert.Equal(t, analysis.AlwaysEven, res.Mod2)
}

func TestAnalyze_MonomialHasNoFactoredForm(t *testing.T) {
	for _, input := range []string{"2n", "n^2", "n"} {
		res := analyze(t, input, "N", "n", nil)
		assert.Empty(t, res.Factored, input)
	}
}

func TestAnalyze_Constant(t *testing.T) {
	res := analyze(t, "10", "N", "", nil)
	require.NotNil(t, res.Constant)
	assert.True(t, res.Constant.InSet)
	require.NotNil(t, res.Constant.Parity)
	assert.True(t, res.Constant.Parity.Even)
	assert.Equal(t, int64(5), res.Constant.Parity.K.Int64())
	assert.Equal(t, analysis.ClassComposite, res.Constant.Class)
	assert.Equal(t, []int64{1, 2, 5, 10}, res.Constant.Divisors)
}

func TestAnalyze_ConstantFraction(t *testing.T) {
	res := analyze(t, "7/2", "N", "", nil)
	require.NotNil(t, res.Constant)
	assert.False(t, res.Constant.InSet)
	assert.False(t, res.Constant.IsInteger)
}

func TestAnalyze_BindsSecondaryVariables(t *testing.T) {
	res := analyze(t, "n + m", "N", "n", map[string]*big.Rat{"m": big.NewRat(2, 1)})
	require.Len(t, res.Samples, 10)
	assert.Equal(t, "2", analysis.FormatRat(res.Samples[0].Result))
	assert.Equal(t, "11", analysis.FormatRat(res.Samples[9].Result))
}

func TestAnalyze_UnboundVariableIsAnError(t *testing.T) {
	expr := symbolic.MustParse("n + m")
	_, err := analysis.New(nil).Analyze("n + m", expr, analysis.SetN, "n", nil)
	assert.Error(t, err)
}

func TestAnalyze_WrongVariableIsAnError(t *testing.T) {
	expr := symbolic.MustParse("n + 1")
	_, err := analysis.New(nil).Analyze("n + 1", expr, analysis.SetN, "x", nil)
	assert.Error(t, err)
}

func TestAnalyze_PrimeCapSkipsLargeResults(t *testing.T) {
	a := analysis.New(nil)
	a.PrimeCap = 100
	expr := symbolic.MustParse("n^3")
	res, err := a.Analyze("n^3", expr, analysis.SetN, "n", nil)
	require.NoError(t, err)
	// 5^3 = 125 exceeds the cap.
	assert.Equal(t, analysis.ClassSkipped, res.Samples[5].Report.Class)
	// 2^3 = 8 stays classified.
	assert.Equal(t, analysis.ClassComposite, res.Samples[2].Report.Class)
}

func TestEvalAt(t *testing.T) {
	a := analysis.New(nil)
	expr := symbolic.MustParse("n^2 + m")
	got, err := a.EvalAt(expr, "n", map[string]*big.Rat{"m": big.NewRat(1, 1)}, big.NewRat(4, 1))
	require.NoError(t, err)
	assert.Equal(t, "17", analysis.FormatRat(got))
}

func TestMod2(t *testing.T) {
	tests := []struct {
		expr string
		want analysis.SymbolicParity
	}{
		{"2n", analysis.AlwaysEven},
		{"2n + 1", analysis.AlwaysOdd},
		{"n^2 + n", analysis.AlwaysEven}, // product of consecutive integers
		{"n(n+1)", analysis.AlwaysEven},
		{"n", analysis.DependsOnVar},
		{"n^2", analysis.DependsOnVar},
		{"n + 3", analysis.DependsOnVar},
		{"4", analysis.AlwaysEven},
		{"7", analysis.AlwaysOdd},
		{"n/2", analysis.ParityUnknown},
		{"n + m", analysis.ParityUnknown},
	}
	for _, tt := range tests {
		got := analysis.Mod2(symbolic.MustParse(tt.expr), "n")
		assert.Equal(t, tt.want, got, tt.expr)
	}
}
