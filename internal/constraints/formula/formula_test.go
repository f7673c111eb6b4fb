package formula

import "testing"

func TestFormulaDeclareIntIsIdempotent(t *testing.T) {
	f := New()
	f.DeclareInt("x")
	f.DeclareInt("x")
	if f.NumDecls() != 1 {
		t.Fatalf("NumDecls() = %d, want 1", f.NumDecls())
	}
}

func TestFormulaWriteToShape(t *testing.T) {
	f := New()
	f.DeclareInt("Offset_0_0_0_0")
	f.Assert(Leq(Lit(0), Var("Offset_0_0_0_0")))
	f.Assert(Or(
		Leq(Add(Var("Offset_0_0_0_0"), Lit(10)), Var("Offset_1_0_0_0")),
		Geq(Var("Offset_0_0_0_0"), Add(Var("Offset_1_0_0_0"), Lit(20))),
	))

	out := f.String()
	wantSubstrings := []string{
		"(set-logic QF_LIA)",
		"(declare-const Offset_0_0_0_0 Int)",
		"(assert (<= 0 Offset_0_0_0_0))",
		"(check-sat)",
		"(get-model)",
	}
	for _, want := range wantSubstrings {
		if !contains(out, want) {
			t.Fatalf("formula output missing %q; got:\n%s", want, out)
		}
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
