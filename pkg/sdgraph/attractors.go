package sdgraph

import (
	"context"
	"fmt"

	"github.com/jcrozum/biobalm-sub000/pkg/attractor"
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/symbolic"
)

// reducedChildSpace returns child's fixed coordinates with every coordinate
// already fixed by parent removed, i.e. the child's space expressed over
// the parent's percolated (reduced) variable set — the "reduced" stable
// motif attractor.Request.ChildSpaces expects.
func reducedChildSpace(parent, child bn.Subspace) bn.Subspace {
	out := bn.Subspace{}
	for v, val := range child {
		if _, fixed := parent[v]; !fixed {
			out[v] = val
		}
	}
	return out
}

// computeAttractors runs Attractor-Core for id if its results are not
// already cached.
func (g *Net) computeAttractors(ctx context.Context, id int) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	if n.attractorsComputed {
		return nil
	}

	net, err := g.NodePercolatedNetwork(id, true)
	if err != nil {
		return err
	}
	pn, err := g.NodePercolatedPetriNet(id, true)
	if err != nil {
		return err
	}
	nf, err := g.NodePercolatedNFVS(id, true)
	if err != nil {
		return err
	}

	var childSpaces []bn.Subspace
	if n.expanded {
		for _, e := range n.succ {
			child := g.nodes[e.child]
			childSpaces = append(childSpaces, reducedChildSpace(n.space, child.space))
		}
	}
	sortSpacesByKey(net, childSpaces)

	result, err := attractor.Compute(ctx, attractor.Request{
		Network:     net,
		PN:          pn,
		ChildSpaces: childSpaces,
		NFVS:        nf,
		Solver:      g.solver,
		Sym:         symbolic.New(net),
		Oracle:      g.oracle,
		Config:      g.cfg,
		Seed:        g.seed + int64(id),
	})
	if err != nil {
		return fmt.Errorf("sdgraph: node %d: %w", id, err)
	}

	n.candidates = result.Candidates
	n.seeds = result.Seeds
	n.sets = result.Sets
	n.candidatesComputed = true
	n.attractorsComputed = true
	return nil
}

// unionWithNodeSpace re-expresses every state in states (fixed over the
// node's percolated, reduced network) as a state over the original
// network's full variable set, by unioning in the node's own fixed
// coordinates.
func unionWithNodeSpace(nodeSpace bn.Subspace, states []bn.Subspace) []bn.Subspace {
	out := make([]bn.Subspace, len(states))
	for i, s := range states {
		u, _ := bn.Intersect(nodeSpace, s)
		out[i] = u
	}
	return out
}

// NodeAttractorCandidates returns id's attractor candidate states (see
// spec.md §4.6), expressed over the original network's full variable set.
func (g *Net) NodeAttractorCandidates(ctx context.Context, id int, compute bool) ([]bn.Subspace, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if !n.candidatesComputed {
		if !compute {
			return nil, fmt.Errorf("%w: node %d attractor candidates", ErrNotComputed, id)
		}
		if err := g.computeAttractors(ctx, id); err != nil {
			return nil, err
		}
	}
	return unionWithNodeSpace(n.space, n.candidates), nil
}

// NodeAttractorSeeds returns exactly one state per attractor witnessed in
// id (see spec.md §4.6), expressed over the original network's full
// variable set.
func (g *Net) NodeAttractorSeeds(ctx context.Context, id int, compute bool) ([]bn.Subspace, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if !n.attractorsComputed {
		if !compute {
			return nil, fmt.Errorf("%w: node %d attractor seeds", ErrNotComputed, id)
		}
		if err := g.computeAttractors(ctx, id); err != nil {
			return nil, err
		}
	}
	return unionWithNodeSpace(n.space, n.seeds), nil
}

// NodeAttractorSets returns the full attractor state sets witnessed in id.
func (g *Net) NodeAttractorSets(ctx context.Context, id int, compute bool) ([]*symbolic.StateSet, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if !n.attractorsComputed {
		if !compute {
			return nil, fmt.Errorf("%w: node %d attractor sets", ErrNotComputed, id)
		}
		if err := g.computeAttractors(ctx, id); err != nil {
			return nil, err
		}
	}
	return n.sets, nil
}

// ExpandedAttractorCandidates returns attractor candidates for every
// expanded node, computing them where not already known.
func (g *Net) ExpandedAttractorCandidates(ctx context.Context) (map[int][]bn.Subspace, error) {
	out := map[int][]bn.Subspace{}
	for _, id := range g.ExpandedIDs() {
		atts, err := g.NodeAttractorCandidates(ctx, id, true)
		if err != nil {
			return nil, err
		}
		if len(atts) > 0 {
			out[id] = atts
		}
	}
	return out, nil
}

// ExpandedAttractorSeeds returns attractor seeds for every expanded node,
// computing them where not already known.
func (g *Net) ExpandedAttractorSeeds(ctx context.Context) (map[int][]bn.Subspace, error) {
	out := map[int][]bn.Subspace{}
	for _, id := range g.ExpandedIDs() {
		atts, err := g.NodeAttractorSeeds(ctx, id, true)
		if err != nil {
			return nil, err
		}
		if len(atts) > 0 {
			out[id] = atts
		}
	}
	return out, nil
}

// ExpandedAttractorSets returns attractor sets for every expanded node,
// computing them where not already known.
func (g *Net) ExpandedAttractorSets(ctx context.Context) (map[int][]*symbolic.StateSet, error) {
	out := map[int][]*symbolic.StateSet{}
	for _, id := range g.ExpandedIDs() {
		atts, err := g.NodeAttractorSets(ctx, id, true)
		if err != nil {
			return nil, err
		}
		if len(atts) > 0 {
			out[id] = atts
		}
	}
	return out, nil
}

// AllAttractorSeeds returns exactly one state per distinct attractor
// witnessed anywhere in the diagram, deduplicated by state across skip
// nodes (spec.md §9's third documented open question: this module resolves
// it by deduplicating rather than leaving duplicates to the caller).
func (g *Net) AllAttractorSeeds(ctx context.Context) ([]bn.Subspace, error) {
	seen := map[string]bool{}
	var out []bn.Subspace
	for _, id := range g.NodeIDs() {
		n := g.nodes[id]
		if !n.expanded && !n.skipped {
			continue
		}
		seeds, err := g.NodeAttractorSeeds(ctx, id, true)
		if err != nil {
			return nil, err
		}
		for _, s := range seeds {
			key, err := bn.SpaceKey(g.network, s)
			if err != nil {
				return nil, err
			}
			if seen[key.String()] {
				continue
			}
			seen[key.String()] = true
			out = append(out, s)
		}
	}
	sortSpacesByKey(g.network, out)
	return out, nil
}

// MinimalTrapSpaces returns the spaces of every node currently known to be
// a minimal trap space of the network: nodes discovered as a Skip target,
// plus expanded nodes with no successors of their own.
func (g *Net) MinimalTrapSpaces() []bn.Subspace {
	var out []bn.Subspace
	for _, n := range g.nodes {
		if n.knownMinimal || (n.expanded && len(n.succ) == 0) {
			out = append(out, n.space.Clone())
		}
	}
	sortSpacesByKey(g.network, out)
	return out
}
