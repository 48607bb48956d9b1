package bn

import "testing"

func TestDNFRoundTrip(t *testing.T) {
	// (a & !b) | c
	expr := Or{And{Lit("a"), Not{Lit("b")}}, Lit("c")}

	clauses := DNF(expr)
	if len(clauses) == 0 {
		t.Fatalf("expected at least one clause")
	}

	// Every satisfying assignment of the original expression must be
	// satisfied by some clause, and vice versa (round-trip through
	// enumeration of all 8 states).
	for a := uint8(0); a <= 1; a++ {
		for b := uint8(0); b <= 1; b++ {
			for c := uint8(0); c <= 1; c++ {
				state := Subspace{"a": a, "b": b, "c": c}
				want, _ := Eval(expr, state)
				got := uint8(0)
				if DNFIsTrue(clauses, state) {
					got = 1
				}
				if got != want {
					t.Fatalf("state %v: DNF says %d, expr says %d", state, got, want)
				}
			}
		}
	}
}

func TestDNFConstants(t *testing.T) {
	if clauses := DNF(Const(false)); clauses != nil {
		t.Fatalf("DNF(false) = %v, want nil", clauses)
	}
	clauses := DNF(Const(true))
	if len(clauses) != 1 || len(clauses[0]) != 0 {
		t.Fatalf("DNF(true) = %v, want a single empty clause", clauses)
	}
}
