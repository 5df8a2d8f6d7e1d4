package analysis

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/thepoff1327/N-and-N/internal/symbolic"
)

// DefaultWindow is the number of sample points taken from the set minimum.
const DefaultWindow = 10

// DefaultPrimeCap bounds prime annotation of sampled results.
const DefaultPrimeCap = 1000

// Analyzer runs the full classification pipeline over an expression.
type Analyzer struct {
	Window   int
	PrimeCap int64
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{Window: DefaultWindow, PrimeCap: DefaultPrimeCap, logger: logger}
}

// SamplePoint is one (input, result) pair with its classification.
type SamplePoint struct {
	Input  int64
	Result *big.Rat // nil when evaluation failed
	Err    error
	Report ValueReport
}

// ParityPattern summarizes the parity of the sampled results.
type ParityPattern int

const (
	PatternUnclear ParityPattern = iota // no integer results observed
	PatternAllEven
	PatternAllOdd
	PatternMixed
)

func (p ParityPattern) String() string {
	switch p {
	case PatternAllEven:
		return "all-even"
	case PatternAllOdd:
		return "all-odd"
	case PatternMixed:
		return "mixed"
	}
	return "unclear"
}

// SymbolicParity is the mod-2 classification of the expression itself.
type SymbolicParity int

const (
	ParityUnknown SymbolicParity = iota // not an integer-coefficient polynomial
	AlwaysEven
	AlwaysOdd
	DependsOnVar
)

func (p SymbolicParity) String() string {
	switch p {
	case AlwaysEven:
		return "always-even"
	case AlwaysOdd:
		return "always-odd"
	case DependsOnVar:
		return "depends-on-variable"
	}
	return "unknown"
}

// Result is everything the reports (terminal and HTTP) need.
type Result struct {
	Original   string
	Expanded   string
	Simplified string
	Factored   string // empty when no factorization was found
	LaTeX      string

	Set       Set
	Variable  string
	Variables []string

	// Constant is set instead of the sampling fields when the expression
	// has no free variables.
	Constant *ValueReport

	Samples     []SamplePoint
	Problematic []SamplePoint
	Pattern     ParityPattern
	Mod2        SymbolicParity
}

// Analyze parses nothing: it takes an already-parsed expression, the raw
// input for display, the chosen set, the primary variable, and fixed
// bindings for any other free variables.
func (a *Analyzer) Analyze(raw string, expr symbolic.Expr, set Set, variable string, bindings map[string]*big.Rat) (*Result, error) {
	bound := expr
	for name, v := range bindings {
		bound = symbolic.SubValue(bound, name, symbolic.NRat(v))
	}

	simplified := symbolic.Simplify(bound)
	expanded := symbolic.Expand(bound)

	res := &Result{
		Original:   raw,
		Expanded:   expanded.String(),
		Simplified: simplified.String(),
		LaTeX:      symbolic.LaTeX(simplified),
		Set:        set,
		Variable:   variable,
		Variables:  symbolic.Variables(expr),
	}

	free := symbolic.FreeSymbols(bound)
	if len(free) == 0 {
		v, ok := simplified.Eval()
		if !ok {
			return nil, fmt.Errorf("could not evaluate constant expression %q", raw)
		}
		report := Classify(v.Rat(), set, 0)
		res.Constant = &report
		a.logger.Debug("analyzed constant", zap.String("expr", raw), zap.String("value", FormatRat(v.Rat())))
		return res, nil
	}
	if _, ok := free[variable]; !ok {
		return nil, fmt.Errorf("variable %q does not occur in %q", variable, raw)
	}
	if len(free) > 1 {
		missing := []string{}
		for name := range free {
			if name != variable {
				missing = append(missing, name)
			}
		}
		return nil, fmt.Errorf("unbound variables besides %q: %v", variable, missing)
	}

	if fr := symbolic.Factor(expanded, variable); fr.Success {
		res.Factored = fr.String()
	}

	res.Samples, res.Problematic = a.sample(bound, set, variable)
	res.Pattern = patternOf(res.Samples)
	res.Mod2 = Mod2(bound, variable)

	a.logger.Debug("analyzed expression",
		zap.String("expr", raw),
		zap.String("set", set.String()),
		zap.String("variable", variable),
		zap.Int("samples", len(res.Samples)),
		zap.Int("problematic", len(res.Problematic)))
	return res, nil
}

// EvalAt evaluates expr at a single point of the primary variable, applying
// the same fixed bindings used for sampling.
func (a *Analyzer) EvalAt(expr symbolic.Expr, variable string, bindings map[string]*big.Rat, value *big.Rat) (*big.Rat, error) {
	bound := expr
	for name, v := range bindings {
		bound = symbolic.SubValue(bound, name, symbolic.NRat(v))
	}
	subbed := symbolic.SubValue(bound, variable, symbolic.NRat(value))
	n, ok := subbed.Eval()
	if !ok {
		return nil, fmt.Errorf("could not evaluate at %s = %s", variable, FormatRat(value))
	}
	return n.Rat(), nil
}

func (a *Analyzer) sample(expr symbolic.Expr, set Set, variable string) (points, problematic []SamplePoint) {
	window := a.Window
	if window <= 0 {
		window = DefaultWindow
	}
	min := set.Min()
	for i := int64(0); i < int64(window); i++ {
		in := min + i
		pt := SamplePoint{Input: in}
		subbed := symbolic.SubValue(expr, variable, symbolic.N(in))
		if v, ok := subbed.Eval(); ok {
			pt.Result = v.Rat()
			pt.Report = Classify(pt.Result, set, a.PrimeCap)
			if !pt.Report.InSet {
				problematic = append(problematic, pt)
			}
		} else {
			pt.Err = fmt.Errorf("could not evaluate at %s = %d", variable, in)
		}
		points = append(points, pt)
	}
	return points, problematic
}

func patternOf(points []SamplePoint) ParityPattern {
	evens, odds := 0, 0
	for _, pt := range points {
		if pt.Report.Parity == nil {
			continue
		}
		if pt.Report.Parity.Even {
			evens++
		} else {
			odds++
		}
	}
	switch {
	case evens > 0 && odds > 0:
		return PatternMixed
	case evens > 0:
		return PatternAllEven
	case odds > 0:
		return PatternAllOdd
	}
	return PatternUnclear
}

// Mod2 determines the parity of an integer-coefficient polynomial
// symbolically. Since n^k ≡ n (mod 2) for k >= 1,
//
//	f(n) ≡ c0 + (c1 + c2 + ... + cd)·n  (mod 2)
//
// so f is AlwaysEven or AlwaysOdd when the non-constant coefficients sum to
// an even number, and DependsOnVar otherwise.
func Mod2(expr symbolic.Expr, variable string) SymbolicParity {
	coeffs, ok := symbolic.NumericCoeffs(expr, variable)
	if !ok {
		return ParityUnknown
	}
	c0 := big.NewInt(0)
	slope := big.NewInt(0)
	for deg, c := range coeffs {
		if !c.IsInt() {
			return ParityUnknown
		}
		if deg == 0 {
			c0.Set(c.Num())
		} else {
			slope.Add(slope, c.Num())
		}
	}
	two := big.NewInt(2)
	if new(big.Int).Mod(slope, two).Sign() != 0 {
		return DependsOnVar
	}
	if new(big.Int).Mod(c0, two).Sign() == 0 {
		return AlwaysEven
	}
	return AlwaysOdd
}
