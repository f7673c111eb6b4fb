// Package formula builds and serializes the textual linear-integer-
// arithmetic formula the decider gateway hands to the external SMT/LIA
// decider: an SMT-LIB-style dialect with a QF_LIA prologue, one integer
// declaration per decision variable, one assertion per constraint, and a
// trailing satisfiability-check/model-request directive (spec.md §6).
package formula

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Formula accumulates variable declarations and assertions in emission
// order. Declaring the same name twice is a no-op — F2 and F6 legitimately
// re-reference variables F1 already introduced in the same batch.
type Formula struct {
	declared map[string]struct{}
	decls    []string
	asserts  []string
}

// New returns an empty formula.
func New() *Formula {
	return &Formula{declared: make(map[string]struct{})}
}

// DeclareInt introduces an integer decision variable. Idempotent.
func (f *Formula) DeclareInt(name string) {
	if _, ok := f.declared[name]; ok {
		return
	}
	f.declared[name] = struct{}{}
	f.decls = append(f.decls, name)
}

// Declared reports whether name has already been introduced in this
// formula.
func (f *Formula) Declared(name string) bool {
	_, ok := f.declared[name]
	return ok
}

// Assert adds a single assertion, given as a pre-built s-expression body
// (see Var/Lit/Add/Mul/Leq/... helpers below).
func (f *Formula) Assert(expr string) {
	f.asserts = append(f.asserts, expr)
}

// NumDecls and NumAsserts expose counts for tests and telemetry without
// leaking the slices themselves.
func (f *Formula) NumDecls() int   { return len(f.decls) }
func (f *Formula) NumAsserts() int { return len(f.asserts) }

// Names returns the declared variable names in emission order, so a
// caller (the scheduling strategy, absorbing a decided model) can walk
// every variable this formula introduced without re-deriving them.
func (f *Formula) Names() []string {
	out := make([]string, len(f.decls))
	copy(out, f.decls)
	return out
}

// WriteTo serializes the formula in the wire format described by
// spec.md §6: "(set-logic QF_LIA)" prologue, one "(declare-const name
// Int)" per variable, one "(assert ...)" per constraint, then
// "(check-sat)" and "(get-model)".
func (f *Formula) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("(set-logic QF_LIA)\n"); err != nil {
		return err
	}
	for _, name := range f.decls {
		if _, err := fmt.Fprintf(bw, "(declare-const %s Int)\n", name); err != nil {
			return err
		}
	}
	for _, a := range f.asserts {
		if _, err := fmt.Fprintf(bw, "(assert %s)\n", a); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("(check-sat)\n(get-model)\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// String renders the formula to a string, primarily for tests.
func (f *Formula) String() string {
	var sb strings.Builder
	_ = f.WriteTo(&sb)
	return sb.String()
}

// --- Linear-expression builders ---
//
// These build s-expression fragments over a small, fixed vocabulary:
// variable references, integer literals, sums, scalar products, and the
// comparison/boolean connectives the six constraint families need.

func Var(name string) string { return name }

func Lit(v int64) string { return strconv.FormatInt(v, 10) }

// Add sums two or more terms: (+ a b c ...).
func Add(terms ...string) string {
	if len(terms) == 1 {
		return terms[0]
	}
	return "(+ " + strings.Join(terms, " ") + ")"
}

// Mul scales a term by an integer coefficient: (* term k).
func Mul(term string, k int64) string {
	if k == 1 {
		return term
	}
	return fmt.Sprintf("(* %s %d)", term, k)
}

// Neg negates a term.
func Neg(term string) string { return fmt.Sprintf("(- %s)", term) }

func Eq(a, b string) string  { return fmt.Sprintf("(= %s %s)", a, b) }
func Leq(a, b string) string { return fmt.Sprintf("(<= %s %s)", a, b) }
func Geq(a, b string) string { return fmt.Sprintf("(>= %s %s)", a, b) }
func Lt(a, b string) string  { return fmt.Sprintf("(< %s %s)", a, b) }
func Gt(a, b string) string  { return fmt.Sprintf("(> %s %s)", a, b) }

func And(exprs ...string) string {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return "(and " + strings.Join(exprs, " ") + ")"
}

func Or(exprs ...string) string {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return "(or " + strings.Join(exprs, " ") + ")"
}
