package bn

import (
	"math/big"
	"testing"
)

func TestSpaceKeyDistinctAndOrdered(t *testing.T) {
	net, err := New(map[string]Expr{
		"A": Lit("B"),
		"B": Lit("A"),
		"C": Const(true),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spaces := []Subspace{
		{},
		{"A": 0},
		{"A": 1},
		{"A": 0, "B": 1},
		{"A": 1, "B": 1, "C": 0},
	}

	// The spaces above are listed in increasing key order: 0, 2, 3, 14, 47.
	seen := map[string]Subspace{}
	var prev *big.Int
	for _, s := range spaces {
		key, err := SpaceKey(net, s)
		if err != nil {
			t.Fatalf("SpaceKey(%v): %v", s, err)
		}
		if other, ok := seen[key.String()]; ok {
			t.Fatalf("distinct spaces %v and %v produced the same key %s", s, other, key)
		}
		seen[key.String()] = s
		if prev != nil && key.Cmp(prev) <= 0 {
			t.Fatalf("SpaceKey(%v) = %s, want it greater than the previous key %s", s, key, prev)
		}
		prev = key
	}
}

func TestSpaceKeyUnknownVariable(t *testing.T) {
	net, err := New(map[string]Expr{"A": Const(true)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := SpaceKey(net, Subspace{"Z": 1}); err == nil {
		t.Fatalf("expected an error for an unknown variable")
	}
}
