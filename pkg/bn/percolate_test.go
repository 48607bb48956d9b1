package bn

import "testing"

func TestPercolateCycleNetwork(t *testing.T) {
	// a=b; b=c; c=a
	net, err := New(map[string]Expr{
		"a": Lit("b"),
		"b": Lit("c"),
		"c": Lit("a"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := Percolate(net, Subspace{"a": 0})
	want := Subspace{"a": 0, "b": 0, "c": 0}
	if !got.Equal(want) {
		t.Fatalf("Percolate = %v, want %v", got, want)
	}
}

func TestPercolateConflict(t *testing.T) {
	// a=b; b=!c; c=a
	net, err := New(map[string]Expr{
		"a": Lit("b"),
		"b": Not{Lit("c")},
		"c": Lit("a"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	space := Subspace{"a": 0, "b": 0, "c": 0}

	t.Run("strict drops the conflicting variable", func(t *testing.T) {
		got := PercolateStrict(net, space)
		want := Subspace{"a": 0, "c": 0}
		if !got.Equal(want) {
			t.Fatalf("PercolateStrict = %v, want %v", got, want)
		}
	})

	t.Run("non-strict preserves the original conflicting value", func(t *testing.T) {
		got := Percolate(net, space)
		if !got.Equal(space) {
			t.Fatalf("Percolate = %v, want %v (input unchanged)", got, space)
		}
	})
}

func TestPercolateIdempotent(t *testing.T) {
	net, err := New(map[string]Expr{
		"A": Lit("B"),
		"B": Lit("A"),
		"C": Not{Lit("C")}, // C=!C, never percolates
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	once := Percolate(net, Subspace{"A": 1})
	twice := Percolate(net, once)
	if !once.Equal(twice) {
		t.Fatalf("Percolate not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestPercolateNetworkFreeInputFixed(t *testing.T) {
	// A=B, with B a free input (no update function of its own).
	net, err := New(map[string]Expr{"A": Lit("B")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	reduced := PercolateNetwork(net, Subspace{"B": 1}, false)
	fn, ok := reduced.Function("A")
	if !ok {
		t.Fatalf("A should still have a function in the reduced network")
	}
	if c, ok := Simplify(fn).(Const); !ok || !bool(c) {
		t.Fatalf("A's update function should have collapsed to Const(true), got %v", fn)
	}
	bFn, ok := reduced.Function("B")
	if !ok {
		t.Fatalf("B should have been fixed to a constant function")
	}
	if c, ok := Simplify(bFn).(Const); !ok || !bool(c) {
		t.Fatalf("B's update function should be Const(true), got %v", bFn)
	}
}
