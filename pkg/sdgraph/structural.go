package sdgraph

import (
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

// Summary is a plain-data snapshot of a diagram's size, used for quick
// reporting and for IsIsomorphic's shape check.
type Summary struct {
	Nodes    int
	Edges    int
	Expanded int
	Skipped  int
	Depth    int
}

// Summarize returns the diagram's overall shape.
func (g *Net) Summarize() Summary {
	s := Summary{Nodes: len(g.nodes), Depth: g.Depth()}
	for _, n := range g.nodes {
		s.Edges += len(n.succ)
		if n.expanded {
			s.Expanded++
		}
		if n.skipped {
			s.Skipped++
		}
	}
	return s
}

// IsSubgraph reports whether every node space currently materialized in
// other also appears (under the same percolated key) in g, and every edge
// between two such nodes in other also exists in g.
func (g *Net) IsSubgraph(other *Net) bool {
	idMap := map[int]int{}
	for _, oid := range other.NodeIDs() {
		on := other.nodes[oid]
		gid, ok := g.FindNode(on.space)
		if !ok {
			return false
		}
		idMap[oid] = gid
	}
	for _, oid := range other.NodeIDs() {
		on := other.nodes[oid]
		gid := idMap[oid]
		gn := g.nodes[gid]
		for _, oe := range on.succ {
			target, ok := idMap[oe.child]
			if !ok {
				return false
			}
			found := false
			for _, ge := range gn.succ {
				if ge.child == target {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// IsIsomorphic reports whether g and other have the same node spaces (as a
// set, modulo each diagram's own percolation) wired by the same edges, i.e.
// each is a subgraph of the other.
func (g *Net) IsIsomorphic(other *Net) bool {
	return g.Summarize() == other.Summarize() && g.IsSubgraph(other) && other.IsSubgraph(g)
}

// ComponentSubdiagram builds a fresh succession diagram over the
// backward-closed sub-network spanned by variables (see
// petrinet.BackwardClosure), restricted to the space of node (the root
// diagram if node is nil). This is the building block for block/source-SCC
// expansion: each component of the percolated network is solved as its own
// small diagram. The returned diagram is independent of g; nothing attaches
// it back onto g's current branch.
func (g *Net) ComponentSubdiagram(node *int, variables []string) (*Net, error) {
	id := g.Root()
	if node != nil {
		id = *node
	}
	net, err := g.NodePercolatedNetwork(id, true)
	if err != nil {
		return nil, err
	}
	closed := petrinet.BackwardClosure(net, variables)
	functions := map[string]bn.Expr{}
	for _, v := range closed {
		if fn, ok := net.Function(v); ok {
			functions[v] = fn
		}
	}
	sub, err := bn.New(functions)
	if err != nil {
		return nil, err
	}
	return New(sub, WithSolver(g.solver), WithConfig(g.cfg), WithOracle(g.oracle), WithSeed(g.seed))
}

// SourceSCCSubdiagrams returns one component subdiagram per source SCC of
// the percolated network at node (the root if node is nil), together with
// the defining variable sets in the same order.
func (g *Net) SourceSCCSubdiagrams(node *int) ([]*Net, [][]string, error) {
	id := g.Root()
	if node != nil {
		id = *node
	}
	net, err := g.NodePercolatedNetwork(id, true)
	if err != nil {
		return nil, nil, err
	}
	sccs := petrinet.SourceSCCs(net)
	diagrams := make([]*Net, len(sccs))
	for i, scc := range sccs {
		sub, err := g.ComponentSubdiagram(node, scc)
		if err != nil {
			return nil, nil, err
		}
		diagrams[i] = sub
	}
	return diagrams, sccs, nil
}

// Snapshot is an opaque, restorable copy of a diagram's current node/edge
// state, produced by Snapshot and consumed by Restore. It intentionally
// does not capture cached percolated networks/Petri nets/NFVS/attractor
// data: Restore rebuilds those lazily exactly like any other cache miss.
type Snapshot struct {
	nodes    []*node
	keyIndex map[string]int
}

// Snapshot captures g's current node/edge state for later Restore.
func (g *Net) Snapshot() Snapshot {
	nodes := make([]*node, len(g.nodes))
	for i, n := range g.nodes {
		cp := *n
		cp.space = n.space.Clone()
		cp.succ = append([]edge(nil), n.succ...)
		cp.percNetwork, cp.percPN, cp.percNFVS = nil, nil, nil
		cp.nfvsComputed, cp.candidatesComputed, cp.attractorsComputed = false, false, false
		cp.candidates, cp.seeds, cp.sets = nil, nil, nil
		nodes[i] = &cp
	}
	keyIndex := make(map[string]int, len(g.keyIndex))
	for k, v := range g.keyIndex {
		keyIndex[k] = v
	}
	return Snapshot{nodes: nodes, keyIndex: keyIndex}
}

// Restore resets g to a previously captured Snapshot, discarding any nodes
// or edges materialized since.
func (g *Net) Restore(s Snapshot) {
	nodes := make([]*node, len(s.nodes))
	for i, n := range s.nodes {
		cp := *n
		cp.space = n.space.Clone()
		cp.succ = append([]edge(nil), n.succ...)
		nodes[i] = &cp
	}
	g.nodes = nodes
	keyIndex := make(map[string]int, len(s.keyIndex))
	for k, v := range s.keyIndex {
		keyIndex[k] = v
	}
	g.keyIndex = keyIndex
}

// Network exposes the diagram's underlying (unpercolated) Boolean network,
// needed by callers building further subdiagrams or expansion strategies.
func (g *Net) Network() *bn.Network { return g.network }
