package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Cmp is the relation between the two sides of a dependency expression.
type Cmp uint8

const (
	// CmpNone marks a bare name without a version constraint.
	CmpNone Cmp = iota
	// CmpEQ is "=".
	CmpEQ
	// CmpLT is "<".
	CmpLT
	// CmpLTE is "<=".
	CmpLTE
	// CmpGT is ">".
	CmpGT
	// CmpGTE is ">=".
	CmpGTE

	// CmpAnd is the rich operator "and".
	CmpAnd
	// CmpOr is the rich operator "or".
	CmpOr
	// CmpIf is the rich operator "if".
	CmpIf
	// CmpUnless is the rich operator "unless".
	CmpUnless
	// CmpElse is the rich operator "else".
	CmpElse
	// CmpWith is the rich operator "with".
	CmpWith
	// CmpWithout is the rich operator "without".
	CmpWithout
)

var cmpSymbols = map[Cmp]string{
	CmpEQ:      "=",
	CmpLT:      "<",
	CmpLTE:     "<=",
	CmpGT:      ">",
	CmpGTE:     ">=",
	CmpAnd:     "and",
	CmpOr:      "or",
	CmpIf:      "if",
	CmpUnless:  "unless",
	CmpElse:    "else",
	CmpWith:    "with",
	CmpWithout: "without",
}

// String returns the operator as written in a dependency expression.
func (c Cmp) String() string {
	return cmpSymbols[c]
}

// IsRich reports whether c is a boolean operator of a rich dependency.
func (c Cmp) IsRich() bool {
	return c >= CmpAnd
}

// ParseCmp parses a version comparison operator.
func ParseCmp(s string) (Cmp, bool) {
	switch s {
	case "=":
		return CmpEQ, true
	case "<":
		return CmpLT, true
	case "<=":
		return CmpLTE, true
	case ">":
		return CmpGT, true
	case ">=":
		return CmpGTE, true
	default:
		return CmpNone, false
	}
}

func parseRichOp(s string) (Cmp, bool) {
	for c := CmpAnd; c <= CmpWithout; c++ {
		if cmpSymbols[c] == s {
			return c, true
		}
	}
	return CmpNone, false
}

// Dependency is a parsed dependency expression: either a name with an
// optional version constraint or a rich boolean expression.
type Dependency struct {
	// Name is the package or capability name. For rich dependencies it is
	// the textual form of the left operand.
	Name string
	// Cmp relates Name to EVR.
	Cmp Cmp
	// EVR is the version operand. For rich dependencies it is the textual
	// form of the right operand.
	EVR string

	left, right *Dependency
}

// NewDependency returns a simple dependency.
func NewDependency(name string, cmp Cmp, evr string) Dependency {
	if cmp == CmpNone {
		evr = ""
	}
	return Dependency{Name: name, Cmp: cmp, EVR: evr}
}

// IsRich reports whether the dependency is a rich boolean expression.
func (d Dependency) IsRich() bool {
	return d.Cmp.IsRich()
}

// Relation returns the operator padded with spaces, or "" for a bare name.
func (d Dependency) Relation() string {
	if d.Cmp == CmpNone {
		return ""
	}
	return " " + d.Cmp.String() + " "
}

// Left returns the left operand of a rich dependency.
func (d Dependency) Left() (Dependency, bool) {
	if d.left == nil {
		return Dependency{}, false
	}
	return *d.left, true
}

// Right returns the right operand of a rich dependency.
func (d Dependency) Right() (Dependency, bool) {
	if d.right == nil {
		return Dependency{}, false
	}
	return *d.right, true
}

// String returns the canonical textual form of the dependency.
func (d Dependency) String() string {
	if d.IsRich() {
		return "(" + d.inner() + ")"
	}
	if d.Cmp == CmpNone {
		return d.Name
	}
	return d.Name + d.Relation() + d.EVR
}

func (d Dependency) inner() string {
	right := d.EVR
	if d.right != nil && d.right.IsRich() && chains(d.Cmp, d.right.Cmp) {
		right = d.right.inner()
	}
	return d.Name + d.Relation() + right
}

// chains reports whether a right operand using inner can be written without
// parentheses after outer.
func chains(outer, inner Cmp) bool {
	switch outer {
	case CmpAnd, CmpOr, CmpWith:
		return outer == inner
	case CmpIf, CmpUnless:
		return inner == CmpElse
	default:
		return false
	}
}

// ParseDependency parses a dependency expression such as "name",
// "name >= 1.0-1" or "(a if b)".
func ParseDependency(text string) (Dependency, error) {
	if strings.HasPrefix(text, "(") {
		return parseRich(text)
	}
	return parseSimple(text)
}

func invalidReldep(text string) error {
	return zerr.With(zerr.Wrap(ErrInvalidReldep, "cannot parse dependency"), "reldep", text)
}

// parseSimple accepts a name, or a name followed by an operator and a version.
// A leading space or any extra token is rejected.
func parseSimple(text string) (Dependency, error) {
	name, rest := nextToken(text)
	rest = strings.TrimLeft(rest, " \t\n")
	op, rest := nextToken(rest)
	rest = strings.TrimLeft(rest, " \t\n")
	evr, rest := nextToken(rest)

	if name == "" || rest != "" || (op == "") != (evr == "") {
		return Dependency{}, invalidReldep(text)
	}
	if op == "" {
		return NewDependency(name, CmpNone, ""), nil
	}
	cmp, ok := ParseCmp(op)
	if !ok {
		return Dependency{}, invalidReldep(text)
	}
	return NewDependency(name, cmp, evr), nil
}

func nextToken(s string) (token, rest string) {
	i := strings.IndexAny(s, " \t\n")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// richParser is a recursive descent parser over rich dependency tokens.
type richParser struct {
	tokens []string
	pos    int
}

func parseRich(text string) (Dependency, error) {
	p := &richParser{tokens: tokenizeRich(text)}
	d, ok := p.parseGroup()
	if !ok || p.pos != len(p.tokens) {
		return Dependency{}, invalidReldep(text)
	}
	return d, nil
}

func tokenizeRich(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		switch r {
		case '(', ')':
			flush()
			tokens = append(tokens, string(r))
		case ' ', '\t', '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func (p *richParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *richParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

// parseGroup parses "(" operand (op operand)* ")".
func (p *richParser) parseGroup() (Dependency, bool) {
	if p.next() != "(" {
		return Dependency{}, false
	}
	first, ok := p.parseOperand()
	if !ok {
		return Dependency{}, false
	}

	operands := []Dependency{first}
	var ops []Cmp
	for p.peek() != ")" {
		op, isOp := parseRichOp(p.next())
		if !isOp {
			return Dependency{}, false
		}
		operand, ok := p.parseOperand()
		if !ok {
			return Dependency{}, false
		}
		ops = append(ops, op)
		operands = append(operands, operand)
	}
	p.next()

	if len(ops) == 0 {
		// "(a)" is just a parenthesized operand.
		return first, true
	}
	if !validChain(ops) {
		return Dependency{}, false
	}
	return buildChain(operands, ops), true
}

func validChain(ops []Cmp) bool {
	switch ops[0] {
	case CmpIf, CmpUnless:
		return len(ops) == 1 || (len(ops) == 2 && ops[1] == CmpElse)
	case CmpElse, CmpWithout:
		return len(ops) == 1
	default:
		for _, op := range ops[1:] {
			if op != ops[0] {
				return false
			}
		}
		return true
	}
}

// buildChain folds operands right-associatively.
func buildChain(operands []Dependency, ops []Cmp) Dependency {
	right := operands[len(operands)-1]
	for i := len(ops) - 1; i >= 0; i-- {
		left, r := operands[i], right
		node := Dependency{
			Name:  left.String(),
			Cmp:   ops[i],
			left:  &left,
			right: &r,
		}
		if right.IsRich() && chains(ops[i], right.Cmp) {
			node.EVR = right.inner()
		} else {
			node.EVR = right.String()
		}
		right = node
	}
	return right
}

// parseOperand parses a nested group or a simple "name [op evr]" operand.
func (p *richParser) parseOperand() (Dependency, bool) {
	if p.peek() == "(" {
		return p.parseGroup()
	}
	name := p.next()
	if name == "" || name == ")" {
		return Dependency{}, false
	}
	if _, isOp := parseRichOp(name); isOp {
		return Dependency{}, false
	}
	if cmp, ok := ParseCmp(p.peek()); ok {
		p.next()
		evr := p.next()
		if evr == "" || evr == "(" || evr == ")" {
			return Dependency{}, false
		}
		return NewDependency(name, cmp, evr), true
	}
	return NewDependency(name, CmpNone, ""), true
}

// Satisfies reports whether provide fulfills the simple requirement d.
// Names must match; a missing version on either side matches any version.
func (d Dependency) Satisfies(provide Dependency) bool {
	if d.IsRich() || provide.IsRich() || d.Name != provide.Name {
		return false
	}
	if d.Cmp == CmpNone || provide.Cmp == CmpNone {
		return true
	}
	return rangesOverlap(provide.Cmp, ParseEVR(provide.EVR), d.Cmp, ParseEVR(d.EVR))
}

// rangesOverlap reports whether the version ranges "x pc pv" and "x rc rv" intersect.
func rangesOverlap(pc Cmp, pv EVR, rc Cmp, rv EVR) bool {
	c := CompareEVRLoose(pv, rv)
	lt, eq, gt := includes(pc, CmpLT), includes(pc, CmpEQ), includes(pc, CmpGT)
	rlt, req, rgt := includes(rc, CmpLT), includes(rc, CmpEQ), includes(rc, CmpGT)
	switch {
	case c == 0:
		return (eq && req) || (lt && rlt) || (gt && rgt)
	case c < 0:
		// pv < rv: overlap if provide reaches upward or requirement reaches downward.
		return gt || rlt
	default:
		return lt || rgt
	}
}

func includes(c, part Cmp) bool {
	switch c {
	case CmpEQ:
		return part == CmpEQ
	case CmpLT:
		return part == CmpLT
	case CmpGT:
		return part == CmpGT
	case CmpLTE:
		return part == CmpLT || part == CmpEQ
	case CmpGTE:
		return part == CmpGT || part == CmpEQ
	default:
		return false
	}
}
