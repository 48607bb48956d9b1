package bn

import "testing"

func TestNewRejectsInvalidNames(t *testing.T) {
	_, err := New(map[string]Expr{"gene-1": Const(true)})
	if err == nil {
		t.Fatalf("expected an error for an unsanitized name")
	}
}

func TestSanitizeResolvesCollisions(t *testing.T) {
	functions, mapping := Sanitize(map[string]Expr{
		"gene-1": Const(true),
		"gene_1": Lit("gene-1"),
	})

	if len(mapping) != 2 {
		t.Fatalf("expected 2 renamed variables, got %d", len(mapping))
	}
	names := map[string]bool{}
	for _, n := range mapping {
		if names[n] {
			t.Fatalf("sanitize produced a duplicate name: %v", mapping)
		}
		names[n] = true
	}

	net, err := New(functions)
	if err != nil {
		t.Fatalf("New on sanitized functions failed: %v", err)
	}
	if len(net.Variables()) != 2 {
		t.Fatalf("expected 2 variables, got %v", net.Variables())
	}
}

func TestSourceVariables(t *testing.T) {
	net, err := New(map[string]Expr{
		"A": Lit("S"),
		"B": Lit("A"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sources := net.SourceVariables()
	if len(sources) != 1 || sources[0] != "S" {
		t.Fatalf("SourceVariables = %v, want [S]", sources)
	}
	if !net.IsFreeInput("S") {
		t.Fatalf("S should be a free input")
	}
	if net.IsFreeInput("A") {
		t.Fatalf("A has an update function and should not be a free input")
	}
}
