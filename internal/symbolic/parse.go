package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Parse turns user input like "2n(n+1)" or "n² - 3n + 2" into an Expr.
//
// Beyond the usual infix grammar (+ - * / ^, parentheses, unary minus,
// function calls) it normalizes the shorthand people actually type:
//
//	2n      -> 2*n
//	n2      -> n*2
//	n(n+1)  -> n*(n+1)
//	(n+1)n  -> (n+1)*n
//	xy      -> x*y (single-letter variables; known function names stay whole)
//	n²      -> n^2
func Parse(input string) (Expr, error) {
	p := &parser{}
	if err := p.lex(normalizeSuperscripts(input)); err != nil {
		return nil, err
	}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q", p.tokens[p.pos].text)
	}
	return e.Simplify(), nil
}

// MustParse is Parse for expressions known to be valid, used in tests and
// examples.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic("symbolic: " + err.Error())
	}
	return e
}

var superscripts = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

func normalizeSuperscripts(s string) string {
	var sb strings.Builder
	prevSuper := false
	for _, r := range s {
		if d, ok := superscripts[r]; ok {
			if !prevSuper {
				sb.WriteRune('^')
			}
			sb.WriteRune(d)
			prevSuper = true
			continue
		}
		prevSuper = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// knownFuncs are identifiers treated as function applications when followed
// by an opening parenthesis. Anything else is split into variables.
var knownFuncs = map[string]bool{
	"sin": true, "cos": true, "exp": true, "ln": true,
	"abs": true, "floor": true, "ceil": true, "sqrt": true,
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp     // + - * / ^
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) lex(input string) error {
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9' || r == '.':
			start := i
			seenDot := false
			for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9' || runes[i] == '.') {
				if runes[i] == '.' {
					if seenDot {
						return fmt.Errorf("invalid number near %q", string(runes[start:i+1]))
					}
					seenDot = true
				}
				i++
			}
			text := string(runes[start:i])
			if text == "." {
				return fmt.Errorf("invalid number %q", text)
			}
			p.tokens = append(p.tokens, token{tokNumber, text})
		case unicode.IsLetter(r):
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			p.tokens = append(p.tokens, token{tokIdent, string(runes[start:i])})
		case r == '(':
			p.tokens = append(p.tokens, token{tokLParen, "("})
			i++
		case r == ')':
			p.tokens = append(p.tokens, token{tokRParen, ")"})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			p.tokens = append(p.tokens, token{tokOp, string(r)})
			i++
		case r == '×' || r == '·':
			p.tokens = append(p.tokens, token{tokOp, "*"})
			i++
		case r == '−': // Unicode minus
			p.tokens = append(p.tokens, token{tokOp, "-"})
			i++
		case r == '÷':
			p.tokens = append(p.tokens, token{tokOp, "/"})
			i++
		default:
			return fmt.Errorf("unexpected character %q", string(r))
		}
	}
	return nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind tokenKind, text string) bool {
	if t, ok := p.peek(); ok && t.kind == kind && (text == "" || t.text == text) {
		p.pos++
		return true
	}
	return false
}

// sum := product (('+' | '-') product)*
func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for {
		if p.accept(tokOp, "+") {
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			terms = append(terms, right)
		} else if p.accept(tokOp, "-") {
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			terms = append(terms, MulOf(N(-1), right))
		} else {
			break
		}
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return AddOf(terms...), nil
}

// product := unary (('*' | '/') unary | unary-juxtaposed)*
//
// Juxtaposition (a number, identifier or parenthesis directly following a
// factor) is implicit multiplication.
func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for {
		if p.accept(tokOp, "*") {
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, right)
			continue
		}
		if p.accept(tokOp, "/") {
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if n, ok := right.(*Num); ok && n.IsZero() {
				return nil, fmt.Errorf("division by zero")
			}
			factors = append(factors, PowOf(right, N(-1)))
			continue
		}
		if t, ok := p.peek(); ok && (t.kind == tokNumber || t.kind == tokIdent || t.kind == tokLParen) {
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			factors = append(factors, right)
			continue
		}
		break
	}
	if len(factors) == 1 {
		return factors[0], nil
	}
	return MulOf(factors...), nil
}

// unary := '-' unary | power
func (p *parser) parseUnary() (Expr, error) {
	if p.accept(tokOp, "-") {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), inner), nil
	}
	p.accept(tokOp, "+")
	return p.parsePower()
}

// power := atom ('^' unary)?   (right associative)
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.accept(tokOp, "^") {
		// The exponent recurses through unary -> power, so x^a^b
		// parses right-associatively as x^(a^b).
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (Expr, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		return parseNumber(t.text)
	case tokIdent:
		p.pos++
		if knownFuncs[t.text] {
			if p.accept(tokLParen, "") {
				arg, err := p.parseSum()
				if err != nil {
					return nil, err
				}
				if !p.accept(tokRParen, "") {
					return nil, fmt.Errorf("missing closing parenthesis after %s(", t.text)
				}
				if t.text == "sqrt" {
					return SqrtOf(arg), nil
				}
				return funcOf(t.text, arg).Simplify(), nil
			}
		}
		// A multi-letter identifier is a juxtaposed product of
		// single-letter variables.
		letters := []rune(t.text)
		if len(letters) == 1 {
			return S(t.text), nil
		}
		factors := make([]Expr, len(letters))
		for i, r := range letters {
			factors[i] = S(string(r))
		}
		return MulOf(factors...), nil
	case tokLParen:
		p.pos++
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokRParen, "") {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		return inner, nil
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}

func parseNumber(text string) (Expr, error) {
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return NRat(r), nil
}
