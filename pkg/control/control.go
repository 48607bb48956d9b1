// Package control implements the Control component of spec.md §4.8/scenario
// S3: enumerating the successions (sequences of nested trap spaces) that
// lead into a target subspace, and searching each succession's steps for
// minimal driver node sets that force the network into it.
package control

import (
	"context"
	"errors"
	"sort"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/expansion"
	"github.com/jcrozum/biobalm-sub000/pkg/sdgraph"
)

// ErrUnknownStrategy is returned for any driver-search strategy other than
// "internal" or "all".
var ErrUnknownStrategy = errors.New("control: unknown driver search strategy")

// Succession is a sequence of stable motifs, each reduced to the variable
// set still free after the previous motifs in the sequence, describing one
// path through the succession diagram into the target.
type Succession []bn.Subspace

// SuccessionsToTarget finds every succession (sequence of nested, reduced
// stable motifs) from g's root leading to a node whose space is a subspace
// of target, expanding g toward target first.
func SuccessionsToTarget(ctx context.Context, g *sdgraph.Net, target bn.Subspace) ([]Succession, error) {
	if _, err := expansion.ToTarget(ctx, g, g.Root(), target, 0); err != nil {
		return nil, err
	}

	var out []Succession
	for _, id := range g.NodeIDs() {
		space, err := g.NodeSpace(id)
		if err != nil {
			return nil, err
		}
		if !bn.IsSubspace(space, target) {
			continue
		}
		paths, err := allSimplePaths(ctx, g, g.Root(), id)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			var succession Succession
			for i := 0; i+1 < len(path); i++ {
				motif, err := g.EdgeStableMotif(path[i], path[i+1], true)
				if err != nil {
					return nil, err
				}
				succession = append(succession, motif)
			}
			out = append(out, succession)
		}
	}
	return out, nil
}

// allSimplePaths enumerates every directed path from src to dst in g's
// already-materialized node/edge set. g is a DAG, so the walk needs no
// cycle guard.
func allSimplePaths(ctx context.Context, g *sdgraph.Net, src, dst int) ([][]int, error) {
	var out [][]int
	var walk func(cur int, path []int) error
	walk = func(cur int, path []int) error {
		path = append(path, cur)
		if cur == dst {
			cp := append([]int(nil), path...)
			out = append(out, cp)
			return nil
		}
		children, err := g.NodeSuccessors(ctx, cur, false)
		if err != nil {
			return nil // a stub on this branch simply contributes no paths through it
		}
		for _, c := range children {
			if err := walk(c, path); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(src, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// DriverSet is one set of variables (with the values they must be driven
// to) sufficient to force a succession step.
type DriverSet = bn.Subspace

// DriversOfSuccession finds, for each step of succession, every minimal
// driver set that forces the network into that step's motif, given that
// every earlier step's motif (and its percolation closure) already holds.
func DriversOfSuccession(net *bn.Network, succession Succession, strategy string, maxDriversPerNode *int, forbiddenDrivers map[string]bool) ([][]DriverSet, error) {
	var controls [][]DriverSet
	assumeFixed := bn.Subspace{}
	for _, step := range succession {
		drivers, err := FindDrivers(net, step, strategy, assumeFixed, maxDriversPerNode, forbiddenDrivers)
		if err != nil {
			return nil, err
		}
		controls = append(controls, drivers)

		union, ok := bn.Intersect(step, assumeFixed)
		if !ok {
			union = step.Clone()
		}
		ldoi := bn.Percolate(net, union)
		for k, v := range ldoi {
			assumeFixed[k] = v
		}
	}
	return controls, nil
}

// FindDrivers finds every minimal driver set (a set of variable overrides)
// that, combined with assumeFixed and percolated, forces every coordinate
// of targetTrapSpace. "internal" restricts candidate drivers to
// targetTrapSpace's own variables; "all" allows any network variable.
func FindDrivers(net *bn.Network, targetTrapSpace bn.Subspace, strategy string, assumeFixed bn.Subspace, maxDriversPerNode *int, forbiddenDrivers map[string]bool) ([]DriverSet, error) {
	if strategy != "internal" && strategy != "all" {
		return nil, ErrUnknownStrategy
	}

	inner := bn.Subspace{}
	for k, v := range targetTrapSpace {
		if _, fixed := assumeFixed[k]; !fixed {
			inner[k] = v
		}
	}

	var pool []string
	if strategy == "internal" {
		pool = inner.Names()
	} else {
		pool = append([]string(nil), net.Variables()...)
	}
	if forbiddenDrivers != nil {
		filtered := pool[:0:0]
		for _, v := range pool {
			if !forbiddenDrivers[v] {
				filtered = append(filtered, v)
			}
		}
		pool = filtered
	}
	sort.Strings(pool)

	maxSize := len(inner)
	if maxDriversPerNode != nil {
		maxSize = *maxDriversPerNode
	}

	var drivers []DriverSet
	isSuperset := func(candidate []string) bool {
		for _, d := range drivers {
			subset := true
			for name := range d {
				found := false
				for _, c := range candidate {
					if c == name {
						found = true
						break
					}
				}
				if !found {
					subset = false
					break
				}
			}
			if subset {
				return true
			}
		}
		return false
	}

	for size := 0; size <= maxSize && size <= len(pool); size++ {
		for _, combo := range combinations(pool, size) {
			if isSuperset(combo) {
				continue
			}
			if strategy == "internal" {
				driver := bn.Subspace{}
				for _, v := range combo {
					driver[v] = inner[v]
				}
				if driverSucceeds(net, driver, assumeFixed, targetTrapSpace) {
					drivers = append(drivers, driver)
				}
				continue
			}
			for _, vals := range booleanAssignments(len(combo)) {
				driver := bn.Subspace{}
				for i, v := range combo {
					driver[v] = vals[i]
				}
				if driverSucceeds(net, driver, assumeFixed, targetTrapSpace) {
					drivers = append(drivers, driver)
				}
			}
		}
	}
	return drivers, nil
}

func driverSucceeds(net *bn.Network, driver, assumeFixed, target bn.Subspace) bool {
	union, ok := bn.Intersect(driver, assumeFixed)
	if !ok {
		return false
	}
	ldoi := bn.Percolate(net, union)
	for k, v := range target {
		if lv, ok := ldoi[k]; !ok || lv != v {
			return false
		}
	}
	return true
}

// combinations returns every size-length subset of items, in lexicographic
// index order.
func combinations(items []string, size int) [][]string {
	if size == 0 {
		return [][]string{{}}
	}
	if size > len(items) {
		return nil
	}
	var out [][]string
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]string, size)
		for i, v := range idx {
			combo[i] = items[v]
		}
		out = append(out, combo)

		i := size - 1
		for i >= 0 && idx[i] == len(items)-size+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

// booleanAssignments enumerates every {0,1}^n assignment in index order.
func booleanAssignments(n int) [][]uint8 {
	if n == 0 {
		return [][]uint8{{}}
	}
	total := 1 << n
	out := make([][]uint8, total)
	for i := 0; i < total; i++ {
		assignment := make([]uint8, n)
		for b := 0; b < n; b++ {
			assignment[b] = uint8((i >> b) & 1)
		}
		out[i] = assignment
	}
	return out
}
