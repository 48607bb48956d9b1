// Package expansion implements the Expansion Strategies of spec.md §4.8:
// bounded traversals that decide which stub nodes of a succession diagram
// to materialize and in what order. Every strategy respects a caller-
// supplied size limit and reports false (never an error) if the limit was
// hit before the traversal finished; the diagram is left in a consistent
// partial state either way.
package expansion

import (
	"context"

	"github.com/jcrozum/biobalm-sub000/pkg/aspsolver"
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/sdgraph"
)

// budget tracks a size_limit across a traversal; zero means unlimited.
type budget struct {
	remaining int
	unlimited bool
}

func newBudget(sizeLimit int) *budget {
	if sizeLimit <= 0 {
		return &budget{unlimited: true}
	}
	return &budget{remaining: sizeLimit}
}

func (b *budget) take() bool {
	if b.unlimited {
		return true
	}
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// BFS expands every reachable stub from start in breadth-first order,
// stopping (and returning false) once sizeLimit expansions have occurred.
func BFS(ctx context.Context, g *sdgraph.Net, start, sizeLimit int) (bool, error) {
	b := newBudget(sizeLimit)
	queue := []int{start}
	visited := map[int]bool{}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		expanded, err := g.IsExpanded(id)
		if err != nil {
			return false, err
		}
		skipped, err := g.IsSkipped(id)
		if err != nil {
			return false, err
		}
		if !expanded && !skipped {
			if !b.take() {
				return false, nil
			}
			if err := g.ExpandNode(ctx, id); err != nil {
				return false, err
			}
		}
		children, err := g.NodeSuccessors(ctx, id, true)
		if err != nil {
			return false, err
		}
		queue = append(queue, children...)
	}
	return true, nil
}

// DFS expands every reachable stub from start in depth-first order, under
// the same size_limit semantics as BFS.
func DFS(ctx context.Context, g *sdgraph.Net, start, sizeLimit int) (bool, error) {
	b := newBudget(sizeLimit)
	stack := []int{start}
	visited := map[int]bool{}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		expanded, err := g.IsExpanded(id)
		if err != nil {
			return false, err
		}
		skipped, err := g.IsSkipped(id)
		if err != nil {
			return false, err
		}
		if !expanded && !skipped {
			if !b.take() {
				return false, nil
			}
			if err := g.ExpandNode(ctx, id); err != nil {
				return false, err
			}
		}
		children, err := g.NodeSuccessors(ctx, id, true)
		if err != nil {
			return false, err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return true, nil
}

// rootMinimalSpaces enumerates the minimal trap spaces of start's own
// percolated Petri net, expressed over the original network's variables.
func rootMinimalSpaces(g *sdgraph.Net, start int) ([]bn.Subspace, error) {
	pn, err := g.NodePercolatedPetriNet(start, true)
	if err != nil {
		return nil, err
	}
	startSpace, err := g.NodeSpace(start)
	if err != nil {
		return nil, err
	}
	reduced, err := aspsolver.All(defaultSolver(g), pn, aspsolver.Min, aspsolver.Options{})
	if err != nil {
		return nil, err
	}
	out := make([]bn.Subspace, len(reduced))
	for i, m := range reduced {
		out[i], _ = bn.Intersect(startSpace, m)
	}
	return out, nil
}

// defaultSolver returns the diagram's own configured solver;
// MinimalSpaces/AttractorSeeds need direct Trap-Solver access rather than
// going through a node's cached motifs.
func defaultSolver(g *sdgraph.Net) aspsolver.Solver { return g.Solver() }

func keyOf(g *sdgraph.Net, s bn.Subspace) string {
	k, err := bn.SpaceKey(g.Network(), s)
	if err != nil {
		return ""
	}
	return k.String()
}

// MinimalSpaces computes the minimal trap spaces M of start's percolated
// network, then traverses from start, expanding only nodes whose space
// still contains an m in M not already covered by an already-expanded or
// already-skipped descendant. When skipUncovered is true, a node with an
// uncovered minimal trap space is shortcut straight to its minimal trap
// spaces (SkipToMinimal) instead of fully expanded, producing a shallower
// diagram that still reaches every minimal trap.
func MinimalSpaces(ctx context.Context, g *sdgraph.Net, start, sizeLimit int, skipUncovered bool) (bool, error) {
	minimal, err := rootMinimalSpaces(g, start)
	if err != nil {
		return false, err
	}
	covered := map[string]bool{}

	b := newBudget(sizeLimit)
	queue := []int{start}
	visited := map[int]bool{}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		space, err := g.NodeSpace(id)
		if err != nil {
			return false, err
		}

		uncovered := false
		for _, m := range minimal {
			if covered[keyOf(g, m)] {
				continue
			}
			if bn.IsSubspace(m, space) {
				if space.Equal(m) {
					covered[keyOf(g, m)] = true
					continue
				}
				uncovered = true
			}
		}
		if !uncovered {
			continue
		}

		expanded, err := g.IsExpanded(id)
		if err != nil {
			return false, err
		}
		skipped, err := g.IsSkipped(id)
		if err != nil {
			return false, err
		}
		if expanded || skipped {
			children, err := g.NodeSuccessors(ctx, id, true)
			if err != nil {
				return false, err
			}
			queue = append(queue, children...)
			continue
		}

		if !b.take() {
			return false, nil
		}
		if skipUncovered {
			if err := g.SkipToMinimal(ctx, id); err != nil {
				return false, err
			}
			continue
		}
		if err := g.ExpandNode(ctx, id); err != nil {
			return false, err
		}
		children, err := g.NodeSuccessors(ctx, id, true)
		if err != nil {
			return false, err
		}
		queue = append(queue, children...)
	}
	return true, nil
}

// AttractorSeeds first runs MinimalSpaces (without shortcutting), then
// continues a DFS-like traversal that expands a stub only when it still
// admits a fixed point (NodeHasCandidate, called with no avoid list, so
// fixed points lying in already-expanded siblings also count). This
// guarantees every attractor has a nearest expanded enclosing trap space
// while avoiding spurious expansion
// of branches known to contribute nothing new.
func AttractorSeeds(ctx context.Context, g *sdgraph.Net, start, sizeLimit int) (bool, error) {
	if ok, err := MinimalSpaces(ctx, g, start, sizeLimit, false); err != nil || !ok {
		return ok, err
	}

	b := newBudget(sizeLimit)
	stack := []int{start}
	visited := map[int]bool{}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		expanded, err := g.IsExpanded(id)
		if err != nil {
			return false, err
		}
		skipped, err := g.IsSkipped(id)
		if err != nil {
			return false, err
		}
		if !expanded && !skipped {
			has, err := g.NodeHasCandidate(id, nil)
			if err != nil {
				return false, err
			}
			if !has {
				continue
			}
			if !b.take() {
				return false, nil
			}
			if err := g.ExpandNode(ctx, id); err != nil {
				return false, err
			}
		}
		children, err := g.NodeSuccessors(ctx, id, true)
		if err != nil {
			return false, err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return true, nil
}

// ToTarget is a BFS that only expands nodes whose space intersects target
// but is not already a subspace of it, stopping once every frontier node
// either lies fully inside target or cannot reach it.
func ToTarget(ctx context.Context, g *sdgraph.Net, start int, target bn.Subspace, sizeLimit int) (bool, error) {
	b := newBudget(sizeLimit)
	queue := []int{start}
	visited := map[int]bool{}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		space, err := g.NodeSpace(id)
		if err != nil {
			return false, err
		}
		if _, ok := bn.Intersect(space, target); !ok {
			continue
		}
		if bn.IsSubspace(space, target) {
			continue
		}

		expanded, err := g.IsExpanded(id)
		if err != nil {
			return false, err
		}
		if !expanded {
			if !b.take() {
				return false, nil
			}
			if err := g.ExpandNode(ctx, id); err != nil {
				return false, err
			}
		}
		children, err := g.NodeSuccessors(ctx, id, true)
		if err != nil {
			return false, err
		}
		queue = append(queue, children...)
	}
	return true, nil
}
