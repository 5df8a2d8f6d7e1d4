// Package analysis classifies the numeric outputs of an expression:
// membership in N or N*, parity decomposition (2K / 2K+1), primality and
// divisor structure, over a sampled window and at user-chosen points.
package analysis

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Set is the number set the user picked as the sampling domain.
type Set int

const (
	SetN     Set = iota // non-negative integers, n >= 0
	SetNStar            // positive integers, n >= 1
)

func ParseSet(s string) (Set, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N":
		return SetN, nil
	case "N*":
		return SetNStar, nil
	}
	return 0, fmt.Errorf("unknown set %q (want N or N*)", s)
}

func (s Set) String() string {
	if s == SetNStar {
		return "N*"
	}
	return "N"
}

// Min is the smallest valid sample value for the set.
func (s Set) Min() int64 {
	if s == SetNStar {
		return 1
	}
	return 0
}

// Contains reports whether v is a member: integral and >= 0 for N,
// integral and > 0 for N*.
func (s Set) Contains(v *big.Rat) bool {
	if v == nil || !v.IsInt() {
		return false
	}
	if s == SetNStar {
		return v.Sign() > 0
	}
	return v.Sign() >= 0
}

// ParityInfo is the decomposition of an integer as 2K (even) or 2K+1 (odd).
type ParityInfo struct {
	Even bool
	K    *big.Int
}

func ParityOf(n int64) ParityInfo {
	return parityOfBig(big.NewInt(n))
}

// parityOfBig uses Euclidean division (remainder 0 or 1), so negative odd
// numbers still satisfy n = 2K+1 exactly.
func parityOfBig(n *big.Int) ParityInfo {
	k, r := new(big.Int), new(big.Int)
	k.DivMod(n, big.NewInt(2), r)
	return ParityInfo{Even: r.Sign() == 0, K: k}
}

// IsPrime tests primality by trial division up to sqrt(n).
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := int64(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// Divisors enumerates all positive divisors of n using paired trial
// division up to sqrt(n). The result is sorted ascending. n <= 0 yields nil.
func Divisors(n int64) []int64 {
	if n <= 0 {
		return nil
	}
	var divisors []int64
	for i := int64(1); i*i <= n; i++ {
		if n%i == 0 {
			divisors = append(divisors, i)
			if i != n/i {
				divisors = append(divisors, n/i)
			}
		}
	}
	sort.Slice(divisors, func(i, j int) bool { return divisors[i] < divisors[j] })
	return divisors
}

// IntegerClass is the primality classification of an integer result.
type IntegerClass int

const (
	ClassNonInteger IntegerClass = iota
	ClassNegative                // primality not applicable
	ClassZero                    // neither prime nor composite
	ClassUnit                    // 1: neither prime nor composite
	ClassPrime
	ClassComposite
	ClassSkipped // integer above the prime-annotation cap
)

func (c IntegerClass) String() string {
	switch c {
	case ClassNegative:
		return "negative"
	case ClassZero:
		return "zero"
	case ClassUnit:
		return "unit"
	case ClassPrime:
		return "prime"
	case ClassComposite:
		return "composite"
	case ClassSkipped:
		return "skipped"
	}
	return "non-integer"
}

// ValueReport is the full classification of a single numeric result.
type ValueReport struct {
	Value     *big.Rat
	IsInteger bool
	InSet     bool
	Parity    *ParityInfo // nil for non-integer results
	Class     IntegerClass
	Divisors  []int64 // populated for composite results
}

// Classify builds the report for one value. primeCap bounds the primality
// test (0 means unbounded); results above the cap are marked ClassSkipped
// and keep their parity data. Integers too large for int64 keep membership
// and parity too; only trial division is skipped for them.
func Classify(v *big.Rat, set Set, primeCap int64) ValueReport {
	r := ValueReport{Value: v, InSet: set.Contains(v)}
	if v == nil || !v.IsInt() {
		return r
	}
	r.IsInteger = true
	p := parityOfBig(v.Num())
	r.Parity = &p
	if !v.Num().IsInt64() {
		if v.Sign() < 0 {
			r.Class = ClassNegative
		} else {
			r.Class = ClassSkipped
		}
		return r
	}
	n := v.Num().Int64()
	switch {
	case n < 0:
		r.Class = ClassNegative
	case n == 0:
		r.Class = ClassZero
	case n == 1:
		r.Class = ClassUnit
	case primeCap > 0 && n > primeCap:
		r.Class = ClassSkipped
	case IsPrime(n):
		r.Class = ClassPrime
	default:
		r.Class = ClassComposite
		r.Divisors = Divisors(n)
	}
	return r
}

// FormatRat renders a rational for display: integers plainly, everything
// else as a decimal.
func FormatRat(v *big.Rat) string {
	if v == nil {
		return "?"
	}
	if v.IsInt() {
		return v.Num().String()
	}
	f, _ := v.Float64()
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", f), "0"), ".")
}
