package bn

import (
	"fmt"
	"regexp"
	"sort"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
var invalidChar = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Network is an asynchronous Boolean network: a set of variables, each with
// an update function (an Expr) or, for free inputs, no update function at
// all.
//
// A Network is immutable after construction. All variable lookups are
// performed by name; Index additionally exposes each variable's position in
// a fixed, sorted ordering used for SpaceKey encoding and every other
// operation in this module that needs a deterministic variable order.
type Network struct {
	variables []string // sorted
	index     map[string]int
	functions map[string]Expr // absent entry => free input
}

// New builds a Network from update functions keyed by variable name. Any
// variable referenced by an update function's Support but missing from
// functions is treated as a free input (no entry). Every variable name must
// match [A-Za-z0-9_]+; use Sanitize first if that is not already the case.
//
// New fails with ErrInvalidName if any name is not sanitized, matching the
// PN-Encoder's documented failure mode.
func New(functions map[string]Expr) (*Network, error) {
	names := map[string]bool{}
	for name, fn := range functions {
		names[name] = true
		for _, v := range Support(fn) {
			names[v] = true
		}
	}

	variables := make([]string, 0, len(names))
	for name := range names {
		if !validName.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		variables = append(variables, name)
	}
	sort.Strings(variables)

	index := make(map[string]int, len(variables))
	for i, v := range variables {
		index[v] = i
	}

	fns := make(map[string]Expr, len(functions))
	for k, v := range functions {
		fns[k] = v
	}

	return &Network{variables: variables, index: index, functions: fns}, nil
}

// Sanitize renames variables so that every name matches [A-Za-z0-9_]+,
// replacing every invalid character with an underscore and prefixing an
// extra underscore to resolve any resulting name collision. It returns the
// renamed update functions together with the old->new name mapping.
func Sanitize(functions map[string]Expr) (renamed map[string]Expr, mapping map[string]string) {
	mapping = make(map[string]string, len(functions))
	used := map[string]bool{}

	// Pre-compute new names for every variable that appears anywhere,
	// including free inputs that never occur as a map key.
	allNames := map[string]bool{}
	for name, fn := range functions {
		allNames[name] = true
		for _, v := range Support(fn) {
			allNames[v] = true
		}
	}

	names := make([]string, 0, len(allNames))
	for n := range allNames {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		newName := name
		if !validName.MatchString(newName) {
			newName = invalidChar.ReplaceAllString(newName, "_")
		}
		for used[newName] {
			newName = "_" + newName
		}
		used[newName] = true
		mapping[name] = newName
	}

	rename := func(e Expr) Expr {
		switch e := e.(type) {
		case Lit:
			return Lit(mapping[string(e)])
		default:
			return e
		}
	}
	var walk func(Expr) Expr
	walk = func(e Expr) Expr {
		switch e := e.(type) {
		case Const:
			return e
		case Lit:
			return rename(e)
		case Not:
			return Not{walk(e.X)}
		case And:
			return And{walk(e.X), walk(e.Y)}
		case Or:
			return Or{walk(e.X), walk(e.Y)}
		default:
			return e
		}
	}

	renamed = make(map[string]Expr, len(functions))
	for name, fn := range functions {
		renamed[mapping[name]] = walk(fn)
	}
	return renamed, mapping
}

// Variables returns the network's variable names in their fixed, sorted
// order.
func (n *Network) Variables() []string {
	return n.variables
}

// Index returns the position of name in the fixed variable ordering.
func (n *Network) Index(name string) (int, bool) {
	i, ok := n.index[name]
	return i, ok
}

// Function returns the update function of name. ok is false if name is a
// free input (no update function) or unknown; use Has to distinguish the
// two.
func (n *Network) Function(name string) (Expr, bool) {
	fn, ok := n.functions[name]
	return fn, ok
}

// Has reports whether name is a variable of the network.
func (n *Network) Has(name string) bool {
	_, ok := n.index[name]
	return ok
}

// IsFreeInput reports whether name has no update function, i.e. it is a free
// (source) input of the network.
func (n *Network) IsFreeInput(name string) bool {
	if !n.Has(name) {
		return false
	}
	_, ok := n.functions[name]
	return !ok
}

// SourceVariables returns the names of every free-input variable, sorted.
func (n *Network) SourceVariables() []string {
	var out []string
	for _, v := range n.variables {
		if n.IsFreeInput(v) {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a Network with the same variables but a fresh copy of the
// update-function map, suitable as a basis for With.
func (n *Network) Clone() *Network {
	fns := make(map[string]Expr, len(n.functions))
	for k, v := range n.functions {
		fns[k] = v
	}
	vars := make([]string, len(n.variables))
	copy(vars, n.variables)
	idx := make(map[string]int, len(n.index))
	for k, v := range n.index {
		idx[k] = v
	}
	return &Network{variables: vars, index: idx, functions: fns}
}

// With returns a new Network identical to n except that update replaces the
// update functions named in update (existing variables only).
func (n *Network) With(update map[string]Expr) *Network {
	clone := n.Clone()
	for k, v := range update {
		if _, ok := clone.index[k]; ok {
			clone.functions[k] = v
		}
	}
	return clone
}
