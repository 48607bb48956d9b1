package sdgraph

import (
	"context"
	"fmt"

	"github.com/jcrozum/biobalm-sub000/pkg/aspsolver"
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/nfvs"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

// NodePercolatedNetwork returns id's network percolated to its own space,
// with constants inlined and removed, computing and caching it if compute
// is true and it is not already cached.
func (g *Net) NodePercolatedNetwork(id int, compute bool) (*bn.Network, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if n.percNetwork == nil {
		if !compute {
			return nil, fmt.Errorf("%w: node %d percolated network", ErrNotComputed, id)
		}
		n.percNetwork = bn.PercolateNetwork(g.network, n.space, true)
	}
	return n.percNetwork, nil
}

// NodePercolatedPetriNet returns id's Petri net restricted to its own
// space. It always restricts the global Petri net by the node's full space;
// a parent's cached Petri net is not reused.
func (g *Net) NodePercolatedPetriNet(id int, compute bool) (*petrinet.Net, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if n.percPN == nil {
		if !compute {
			return nil, fmt.Errorf("%w: node %d percolated petri net", ErrNotComputed, id)
		}
		n.percPN = petrinet.Restrict(g.globalPN, n.space)
	}
	return n.percPN, nil
}

// NodePercolatedNFVS returns the (negative) feedback vertex set of id's
// percolated network.
func (g *Net) NodePercolatedNFVS(id int, compute bool) ([]string, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if !n.nfvsComputed {
		if !compute {
			return nil, fmt.Errorf("%w: node %d percolated nfvs", ErrNotComputed, id)
		}
		net, err := g.NodePercolatedNetwork(id, true)
		if err != nil {
			return nil, err
		}
		n.percNFVS = nfvs.Compute(net, g.cfg.NFVSSizeThreshold)
		n.nfvsComputed = true
	}
	return n.percNFVS, nil
}

// ExpandNode materializes id's successors: the maximal trap spaces strictly
// inside id's space, each percolated into a (possibly shared) child node.
// Expanding an already-expanded node is a no-op.
func (g *Net) ExpandNode(ctx context.Context, id int) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	if n.expanded || n.skipped {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pn, err := g.NodePercolatedPetriNet(id, true)
	if err != nil {
		return err
	}

	var motifs []bn.Subspace
	err = g.solver.Enumerate(pn, aspsolver.Max, aspsolver.Options{}, func(space bn.Subspace) bool {
		motifs = append(motifs, space)
		return true
	})
	if err != nil {
		return err
	}
	if limit := g.cfg.MaxMotifsPerNode; limit > 0 && len(motifs) > limit {
		return fmt.Errorf("sdgraph: node %d: %w (%d motifs)", id, aspsolver.ErrLimitExceeded, len(motifs))
	}
	sortSpacesByKey(g.network, motifs)

	for _, motif := range motifs {
		if _, _, err := g.ensureNode(&id, motif, false); err != nil {
			return err
		}
	}
	g.nodes[id].expanded = true
	return nil
}

// SkipToMinimal materializes direct shortcut edges from id to every minimal
// trap space contained in id's space, without expanding the maximal stable
// motifs in between.
func (g *Net) SkipToMinimal(ctx context.Context, id int) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	if n.expanded || n.skipped {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pn, err := g.NodePercolatedPetriNet(id, true)
	if err != nil {
		return err
	}

	var minimal []bn.Subspace
	err = g.solver.Enumerate(pn, aspsolver.Min, aspsolver.Options{}, func(space bn.Subspace) bool {
		minimal = append(minimal, space)
		return true
	})
	if err != nil {
		return err
	}
	sortSpacesByKey(g.network, minimal)

	for _, motif := range minimal {
		if _, _, err := g.ensureNode(&id, motif, true); err != nil {
			return err
		}
	}
	g.nodes[id].skipped = true
	return nil
}

// SkipRemaining bulk-skips every currently-known stub reachable from id
// (via already-materialized edges) straight to its minimal trap spaces,
// leaving every already-expanded or already-skipped node untouched. This
// does not expand any new node beyond what Skip/Expand already reached; it
// only shortcuts stubs that are sitting in the frontier.
func (g *Net) SkipRemaining(ctx context.Context, id int) error {
	visited := map[int]bool{}
	var walk func(int) error
	walk = func(cur int) error {
		if visited[cur] {
			return nil
		}
		visited[cur] = true
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := g.node(cur)
		if err != nil {
			return err
		}
		if !n.expanded && !n.skipped {
			return g.SkipToMinimal(ctx, cur)
		}
		for _, e := range n.succ {
			if err := walk(e.child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(id)
}

// ReclaimNodeData clears id's rebuildable caches (percolated network,
// Petri net, NFVS, and the attractor candidate/seed/set caches) while
// preserving space, depth, expanded, skipped, and the successor edges.
func (g *Net) ReclaimNodeData(id int) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	n.percNetwork = nil
	n.percPN = nil
	n.percNFVS = nil
	n.nfvsComputed = false
	n.candidates = nil
	n.candidatesComputed = false
	n.seeds = nil
	n.sets = nil
	n.attractorsComputed = false
	return nil
}
