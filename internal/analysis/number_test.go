package analysis_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thepoff1327/N-and-N/internal/analysis"
)

func TestParseSet(t *testing.T) {
	s, err := analysis.ParseSet("n")
	require.NoError(t, err)
	assert.Equal(t, analysis.SetN, s)

	s, err = analysis.ParseSet(" N* ")
	require.NoError(t, err)
	assert.Equal(t, analysis.SetNStar, s)

	_, err = analysis.ParseSet("Z")
	assert.Error(t, err)
}

func TestSet_Min(t *testing.T) {
	assert.Equal(t, int64(0), analysis.SetN.Min())
	assert.Equal(t, int64(1), analysis.SetNStar.Min())
}

func TestSet_Contains(t *testing.T) {
	rat := func(a, b int64) *big.Rat { return big.NewRat(a, b) }
	tests := []struct {
		set  analysis.Set
		v    *big.Rat
		want bool
	}{
		{analysis.SetN, rat(0, 1), true},
		{analysis.SetN, rat(5, 1), true},
		{analysis.SetN, rat(-1, 1), false},
		{analysis.SetN, rat(1, 2), false},
		{analysis.SetNStar, rat(0, 1), false},
		{analysis.SetNStar, rat(1, 1), true},
		{analysis.SetNStar, rat(-3, 1), false},
		{analysis.SetNStar, rat(3, 2), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.set.Contains(tt.v), "%s contains %s", tt.set, tt.v)
	}
	assert.False(t, analysis.SetN.Contains(nil))
}

func TestParityOf(t *testing.T) {
	tests := []struct {
		n    int64
		even bool
		k    int64
	}{
		{0, true, 0},
		{1, false, 0},
		{4, true, 2},
		{9, false, 4},
		{81, false, 40},
		{-4, true, -2},
		{-3, false, -2}, // -3 = 2*(-2) + 1
	}
	for _, tt := range tests {
		p := analysis.ParityOf(tt.n)
		assert.Equal(t, tt.even, p.Even, "parity of %d", tt.n)
		assert.Equal(t, tt.k, p.K.Int64(), "K of %d", tt.n)
		// The decomposition must reconstruct n.
		if p.Even {
			assert.Equal(t, tt.n, 2*p.K.Int64())
		} else {
			assert.Equal(t, tt.n, 2*p.K.Int64()+1)
		}
	}
}

func TestIsPrime(t *testing.T) {
	primes := []int64{2, 3, 5, 7, 11, 13, 97, 541, 997}
	for _, p := range primes {
		assert.True(t, analysis.IsPrime(p), "%d should be prime", p)
	}
	composites := []int64{-7, 0, 1, 4, 9, 15, 25, 91, 1000}
	for _, c := range composites {
		assert.False(t, analysis.IsPrime(c), "%d should not be prime", c)
	}
}

func TestDivisors(t *testing.T) {
	assert.Equal(t, []int64{1}, analysis.Divisors(1))
	assert.Equal(t, []int64{1, 2, 3, 4, 6, 12}, analysis.Divisors(12))
	assert.Equal(t, []int64{1, 2, 3, 4, 6, 9, 12, 18, 36}, analysis.Divisors(36))
	assert.Equal(t, []int64{1, 7}, analysis.Divisors(7))
	assert.Nil(t, analysis.Divisors(0))
	assert.Nil(t, analysis.Divisors(-4))
}

// Divisor enumeration is symmetric and complete: every returned d divides n,
// the list matches brute force, and d is in the list iff n/d is.
func TestDivisors_CompleteAndSymmetric(t *testing.T) {
	for n := int64(1); n <= 300; n++ {
		got := analysis.Divisors(n)
		var want []int64
		for d := int64(1); d <= n; d++ {
			if n%d == 0 {
				want = append(want, d)
			}
		}
		require.Equal(t, want, got, "divisors of %d", n)
		set := map[int64]bool{}
		for _, d := range got {
			assert.Zero(t, n%d, "%d must divide %d", d, n)
			set[d] = true
		}
		for _, d := range got {
			assert.True(t, set[n/d], "pair %d of divisor %d missing for %d", n/d, d, n)
		}
	}
}

func TestClassify(t *testing.T) {
	rat := func(a, b int64) *big.Rat { return big.NewRat(a, b) }

	rep := analysis.Classify(rat(7, 1), analysis.SetN, 1000)
	assert.True(t, rep.InSet)
	assert.True(t, rep.IsInteger)
	assert.Equal(t, analysis.ClassPrime, rep.Class)

	rep = analysis.Classify(rat(12, 1), analysis.SetN, 1000)
	assert.Equal(t, analysis.ClassComposite, rep.Class)
	assert.Equal(t, []int64{1, 2, 3, 4, 6, 12}, rep.Divisors)

	rep = analysis.Classify(rat(1, 1), analysis.SetNStar, 1000)
	assert.Equal(t, analysis.ClassUnit, rep.Class)

	rep = analysis.Classify(rat(0, 1), analysis.SetN, 1000)
	assert.True(t, rep.InSet)
	assert.Equal(t, analysis.ClassZero, rep.Class)

	rep = analysis.Classify(rat(-5, 1), analysis.SetN, 1000)
	assert.False(t, rep.InSet)
	assert.Equal(t, analysis.ClassNegative, rep.Class)
	require.NotNil(t, rep.Parity)
	assert.False(t, rep.Parity.Even)

	rep = analysis.Classify(rat(2026, 1), analysis.SetN, 1000)
	assert.Equal(t, analysis.ClassSkipped, rep.Class)

	// Uncapped, the same value gets classified.
	rep = analysis.Classify(rat(2026, 1), analysis.SetN, 0)
	assert.Equal(t, analysis.ClassComposite, rep.Class)

	rep = analysis.Classify(rat(3, 2), analysis.SetN, 1000)
	assert.False(t, rep.IsInteger)
	assert.Nil(t, rep.Parity)
	assert.Equal(t, analysis.ClassNonInteger, rep.Class)
}

// Integers beyond int64 still get membership and an exact 2K/2K+1
// decomposition; only the trial-division annotation is skipped.
func TestClassify_BigInteger(t *testing.T) {
	v, ok := new(big.Rat).SetString("12157665459056928801") // 3^40
	require.True(t, ok)

	rep := analysis.Classify(v, analysis.SetN, 1000)
	assert.True(t, rep.IsInteger)
	assert.True(t, rep.InSet)
	assert.Equal(t, analysis.ClassSkipped, rep.Class)
	require.NotNil(t, rep.Parity)
	assert.False(t, rep.Parity.Even)
	recon := new(big.Int).Add(new(big.Int).Mul(rep.Parity.K, big.NewInt(2)), big.NewInt(1))
	assert.Zero(t, recon.Cmp(v.Num()))

	neg := new(big.Rat).Neg(v)
	rep = analysis.Classify(neg, analysis.SetN, 1000)
	assert.True(t, rep.IsInteger)
	assert.False(t, rep.InSet)
	assert.Equal(t, analysis.ClassNegative, rep.Class)
	require.NotNil(t, rep.Parity)
	assert.False(t, rep.Parity.Even)
}

func TestFormatRat(t *testing.T) {
	assert.Equal(t, "5", analysis.FormatRat(big.NewRat(5, 1)))
	assert.Equal(t, "2.5", analysis.FormatRat(big.NewRat(5, 2)))
	assert.Equal(t, "?", analysis.FormatRat(nil))
}
