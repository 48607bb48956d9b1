package bn

import "testing"

func TestIntersect(t *testing.T) {
	tests := []struct {
		name    string
		x, y    Subspace
		want    Subspace
		wantOK  bool
	}{
		{"disjoint", Subspace{"a": 0}, Subspace{"b": 1}, Subspace{"a": 0, "b": 1}, true},
		{"agreeing overlap", Subspace{"a": 0, "b": 1}, Subspace{"b": 1}, Subspace{"a": 0, "b": 1}, true},
		{"conflicting overlap", Subspace{"a": 0}, Subspace{"a": 1}, nil, false},
		{"empty both", Subspace{}, Subspace{}, Subspace{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersect(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("Intersect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSubspace(t *testing.T) {
	tests := []struct {
		name string
		x, y Subspace
		want bool
	}{
		{"x fixes everything y needs", Subspace{"a": 0, "b": 1}, Subspace{"a": 0}, true},
		{"x missing a y coordinate", Subspace{"a": 0}, Subspace{"a": 0, "b": 1}, false},
		{"conflicting value", Subspace{"a": 1}, Subspace{"a": 0}, false},
		{"y empty is always satisfied", Subspace{"a": 1}, Subspace{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSubspace(tt.x, tt.y); got != tt.want {
				t.Fatalf("IsSubspace = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDNFIsTrueAndRemoveStateFromDNF(t *testing.T) {
	dnf := []Subspace{
		{"a": 1, "b": 0},
		{"c": 1},
	}

	if !DNFIsTrue(dnf, Subspace{"a": 1, "b": 0, "c": 0}) {
		t.Fatalf("expected first clause to be satisfied")
	}
	if !DNFIsTrue(dnf, Subspace{"c": 1}) {
		t.Fatalf("expected second clause to be satisfied")
	}
	if DNFIsTrue(dnf, Subspace{"a": 0}) {
		t.Fatalf("no clause should be satisfied")
	}

	reduced := RemoveStateFromDNF(dnf, Subspace{"a": 1, "b": 0, "c": 1})
	if len(reduced) != 0 {
		t.Fatalf("expected both clauses removed, got %v", reduced)
	}
}
