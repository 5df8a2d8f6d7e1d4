package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thepoff1327/N-and-N/internal/symbolic"
)

func TestParse_Rewrites(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2n", "2*n"},
		{"n2", "2*n"},
		{"25n", "25*n"},
		{"n(n+1)", "n*(n + 1)"},
		{"(n+1)n", "n*(n + 1)"},
		{"(n+1)(n+2)", "(n + 1)*(n + 2)"},
		{"xy", "x*y"},
		{"2xy", "2*x*y"},
		{"n²", "n^2"},
		{"n³", "n^3"},
		{"n² + 1", "n^2 + 1"},
		{"n^2", "n^2"},
		{"2 × n", "2*n"},
		{"n − 1", "n + -1"},
	}
	for _, tt := range tests {
		expr, err := symbolic.Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, expr.String(), tt.input)
	}
}

func TestParse_Precedence(t *testing.T) {
	// 2n^2 is 2*(n^2), not (2n)^2.
	expr := symbolic.MustParse("2n^2")
	v, ok := symbolic.SubValue(expr, "n", symbolic.N(3)).Eval()
	require.True(t, ok)
	assert.Equal(t, "18", v.String())
}

func TestParse_PowerIsRightAssociative(t *testing.T) {
	// 2^3^2 = 2^9 = 512
	expr := symbolic.MustParse("2^3^2")
	v, ok := expr.Eval()
	require.True(t, ok)
	assert.Equal(t, "512", v.String())
}

func TestParse_UnaryMinus(t *testing.T) {
	expr := symbolic.MustParse("-n + 5")
	v, ok := symbolic.SubValue(expr, "n", symbolic.N(2)).Eval()
	require.True(t, ok)
	assert.Equal(t, "3", v.String())
}

func TestParse_Division(t *testing.T) {
	expr := symbolic.MustParse("n/2")
	v, ok := symbolic.SubValue(expr, "n", symbolic.N(5)).Eval()
	require.True(t, ok)
	assert.Equal(t, "5/2", v.String())
}

func TestParse_Decimals(t *testing.T) {
	expr := symbolic.MustParse("0.5n")
	v, ok := symbolic.SubValue(expr, "n", symbolic.N(4)).Eval()
	require.True(t, ok)
	assert.Equal(t, "2", v.String())
}

func TestParse_Functions(t *testing.T) {
	v, ok := symbolic.MustParse("abs(-7)").Eval()
	require.True(t, ok)
	assert.Equal(t, "7", v.String())

	v, ok = symbolic.MustParse("sqrt(4)").Eval()
	require.True(t, ok)
	assert.Equal(t, "2", v.String())

	v, ok = symbolic.MustParse("floor(7/2)").Eval()
	require.True(t, ok)
	assert.Equal(t, "3", v.String())
}

func TestParse_FunctionNameStaysWhole(t *testing.T) {
	// "abs" followed by a parenthesis is a call, not a*b*s*(...).
	expr := symbolic.MustParse("abs(n)")
	assert.Equal(t, []string{"n"}, symbolic.Variables(expr))
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"2 +",
		"((n+1)",
		"n+1)",
		"1..2",
		"n $ 2",
		"1/0",
		"*n",
	} {
		_, err := symbolic.Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}
