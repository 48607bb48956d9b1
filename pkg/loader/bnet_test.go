package loader

import (
	"strings"
	"testing"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

func TestLoadBnetParsesOperatorsAndPrecedence(t *testing.T) {
	src := `targets, factors
A, B & !C
B, A | C
C, true
`
	net, err := LoadBnet(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadBnet: %v", err)
	}
	if len(net.Variables()) != 3 {
		t.Fatalf("Variables() = %v, want 3 entries", net.Variables())
	}
	// "!" binds tighter than "&": B & !C is B & (!C).
	fnA, ok := net.Function("A")
	if !ok {
		t.Fatalf("expected function for A")
	}
	if want := (bn.And{X: bn.Lit("B"), Y: bn.Not{X: bn.Lit("C")}}); fnA != bn.Expr(want) {
		t.Fatalf("Function(A) = %v, want %v", fnA, want)
	}
	fn, ok := net.Function("C")
	if !ok {
		t.Fatalf("expected function for C")
	}
	if fn != bn.Const(true) {
		t.Fatalf("Function(C) = %v, want Const(true)", fn)
	}
}

func TestLoadBnetSkipsCommentsAndBlankLines(t *testing.T) {
	src := "# comment\n\nA, true\n\n# trailing\n"
	net, err := LoadBnet(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadBnet: %v", err)
	}
	if !net.Has("A") {
		t.Fatalf("expected variable A")
	}
}

func TestLoadBnetRejectsDuplicateRule(t *testing.T) {
	src := "A, true\nA, false\n"
	if _, err := LoadBnet(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for a duplicate rule")
	}
}

func TestLoadBnetRejectsMissingComma(t *testing.T) {
	if _, err := LoadBnet(strings.NewReader("A true\n")); err == nil {
		t.Fatalf("expected an error for a missing ','")
	}
}

func TestLoadBnetRejectsUnbalancedParens(t *testing.T) {
	if _, err := LoadBnet(strings.NewReader("A, (B & C\n")); err == nil {
		t.Fatalf("expected an error for unbalanced parentheses")
	}
}

func TestLoadBnetFreeInput(t *testing.T) {
	net, err := LoadBnet(strings.NewReader("A, B\n"))
	if err != nil {
		t.Fatalf("LoadBnet: %v", err)
	}
	if !net.IsFreeInput("B") {
		t.Fatalf("expected B to be inferred as a free input")
	}
}
