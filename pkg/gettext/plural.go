package gettext

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePluralForms parses a gettext Plural-Forms header value such as
//
//	nplurals=3; plural=n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2;
//
// and compiles the plural expression into a PluralFunc. The expression
// grammar is the C subset used by gettext: the ternary operator, ||, &&,
// equality and relational comparisons, modulo, logical negation,
// parentheses, the variable n and decimal integers.
func ParsePluralForms(header string) (nplurals int, fn PluralFunc, err error) {
	var expr string
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "nplurals="); ok {
			nplurals, err = strconv.Atoi(strings.TrimSpace(v))
			if err != nil || nplurals < 1 {
				return 0, nil, fmt.Errorf("%w: bad nplurals in %q", ErrInvalidPluralForms, header)
			}
		} else if v, ok := strings.CutPrefix(part, "plural="); ok {
			expr = v
		}
	}
	if nplurals == 0 || expr == "" {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidPluralForms, header)
	}

	p := &pluralParser{input: expr}
	node, err := p.parseTernary()
	if err != nil {
		return 0, nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, nil, fmt.Errorf("%w: trailing input at %q", ErrInvalidPluralForms, p.input[p.pos:])
	}
	return nplurals, node, nil
}

// pluralParser is a recursive-descent parser over the plural expression.
// Each production returns a PluralFunc evaluating its subtree; boolean
// subexpressions use C semantics (0 is false, anything else true).
type pluralParser struct {
	input string
	pos   int
}

func (p *pluralParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *pluralParser) accept(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], tok) {
		// Avoid consuming "<" when the operator is "<=" and vice versa.
		if (tok == "<" || tok == ">" || tok == "=" || tok == "!") && p.pos+1 < len(p.input) && p.input[p.pos+1] == '=' {
			return false
		}
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *pluralParser) parseTernary() (PluralFunc, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.accept("?") {
		return cond, nil
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.accept(":") {
		return nil, fmt.Errorf("%w: expected ':' at %q", ErrInvalidPluralForms, p.input[p.pos:])
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return func(n int) int {
		if cond(n) != 0 {
			return then(n)
		}
		return els(n)
	}, nil
}

func (p *pluralParser) parseOr() (PluralFunc, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept("||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(n int) int {
			if l(n) != 0 || r(n) != 0 {
				return 1
			}
			return 0
		}
	}
	return left, nil
}

func (p *pluralParser) parseAnd() (PluralFunc, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.accept("&&") {
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(n int) int {
			if l(n) != 0 && r(n) != 0 {
				return 1
			}
			return 0
		}
	}
	return left, nil
}

func (p *pluralParser) parseEquality() (PluralFunc, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var cmp func(a, b int) bool
		switch {
		case p.accept("=="):
			cmp = func(a, b int) bool { return a == b }
		case p.accept("!="):
			cmp = func(a, b int) bool { return a != b }
		default:
			return left, nil
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = boolOp(left, right, cmp)
	}
}

func (p *pluralParser) parseRelational() (PluralFunc, error) {
	left, err := p.parseModulo()
	if err != nil {
		return nil, err
	}
	for {
		var cmp func(a, b int) bool
		switch {
		case p.accept("<="):
			cmp = func(a, b int) bool { return a <= b }
		case p.accept(">="):
			cmp = func(a, b int) bool { return a >= b }
		case p.accept("<"):
			cmp = func(a, b int) bool { return a < b }
		case p.accept(">"):
			cmp = func(a, b int) bool { return a > b }
		default:
			return left, nil
		}
		right, err := p.parseModulo()
		if err != nil {
			return nil, err
		}
		left = boolOp(left, right, cmp)
	}
}

func boolOp(l, r PluralFunc, cmp func(a, b int) bool) PluralFunc {
	return func(n int) int {
		if cmp(l(n), r(n)) {
			return 1
		}
		return 0
	}
}

func (p *pluralParser) parseModulo() (PluralFunc, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept("%") {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(n int) int {
			d := r(n)
			if d == 0 {
				return 0
			}
			return l(n) % d
		}
	}
	return left, nil
}

func (p *pluralParser) parseUnary() (PluralFunc, error) {
	if p.accept("!") {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(n int) int {
			if inner(n) == 0 {
				return 1
			}
			return 0
		}, nil
	}
	return p.parsePrimary()
}

func (p *pluralParser) parsePrimary() (PluralFunc, error) {
	if p.accept("(") {
		inner, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if !p.accept(")") {
			return nil, fmt.Errorf("%w: expected ')' at %q", ErrInvalidPluralForms, p.input[p.pos:])
		}
		return inner, nil
	}
	if p.accept("n") {
		return func(n int) int { return n }, nil
	}

	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("%w: unexpected token at %q", ErrInvalidPluralForms, p.input[start:])
	}
	v, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPluralForms, p.input[start:p.pos])
	}
	return func(int) int { return v }, nil
}
