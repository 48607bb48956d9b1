// Package sdgraph implements the SD-Graph component: the lazily-expanded
// succession diagram itself — a directed acyclic graph of integer node ids,
// each carrying a (percolated) trap-space subspace plus the cached
// per-node data described in spec.md §3/§4.7 (percolated network/Petri
// net/NFVS, attractor candidates/seeds/sets). Nodes are born as stubs and
// materialize their successors on demand, via Expand (maximal trap spaces)
// or Skip (direct shortcut to minimal trap spaces).
package sdgraph

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jcrozum/biobalm-sub000/pkg/aspsolver"
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/config"
	"github.com/jcrozum/biobalm-sub000/pkg/nfvs"
	"github.com/jcrozum/biobalm-sub000/pkg/oracle"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
	"github.com/jcrozum/biobalm-sub000/pkg/symbolic"
)

// Sentinel errors, per spec.md §7.
var (
	// ErrUnknownNode is returned for any operation on an id outside [0, Len()).
	ErrUnknownNode = errors.New("sdgraph: unknown node id")
	// ErrNotComputed is the KeyError-equivalent raised by a query on
	// not-yet-computed data when compute=false.
	ErrNotComputed = errors.New("sdgraph: data not computed and compute=false")
)

// edge records one outgoing successor: the child id and the stable motif
// (over the parent's percolated, reduced variable set) whose percolation
// produced it. Per spec.md §9's documented open question, at most one edge
// is ever recorded between a given pair of nodes; the first motif wins.
type edge struct {
	child int
	motif bn.Subspace
}

type node struct {
	space    bn.Subspace
	depth    int
	expanded bool
	skipped  bool
	parent   *int
	succ     []edge

	// knownMinimal is set for nodes discovered as the direct target of a
	// Skip operation (they are minimal trap spaces by construction, even
	// before/without ever being Expanded themselves).
	knownMinimal bool

	percNetwork  *bn.Network
	percPN       *petrinet.Net
	percNFVS     []string
	nfvsComputed bool

	candidates         []bn.Subspace
	candidatesComputed bool
	seeds              []bn.Subspace
	sets               []*symbolic.StateSet
	attractorsComputed bool
}

// Net is the succession diagram itself.
type Net struct {
	network  *bn.Network
	globalPN *petrinet.Net
	solver   aspsolver.Solver
	oracle   oracle.Oracle
	cfg      config.Config
	seed     int64

	nodes    []*node
	keyIndex map[string]int // big.Int key string -> node id
}

// Option configures New.
type Option func(*Net)

// WithSolver overrides the Trap-Solver back end (default aspsolver.Default).
func WithSolver(s aspsolver.Solver) Option { return func(g *Net) { g.solver = s } }

// WithConfig overrides the engine configuration (default config.Default()).
func WithConfig(cfg config.Config) Option { return func(g *Net) { g.cfg = cfg } }

// WithOracle attaches an external reachability oracle (default: none).
func WithOracle(o oracle.Oracle) Option { return func(g *Net) { g.oracle = o } }

// WithSeed fixes the base seed used by Attractor-Core's simulation pruning
// (default 0), for reproducible test output.
func WithSeed(seed int64) Option { return func(g *Net) { g.seed = seed } }

// New builds a succession diagram for net, with a single unexpanded root
// representing the globally percolated subspace. net must already have
// sanitized names and no parameters (bn.Network has no parameter concept —
// every variable is either governed by an update function or a free input
// — so the "explicit or non-input implicit parameter" failure mode of
// spec.md §4.1 cannot arise in this port).
func New(net *bn.Network, opts ...Option) (*Net, error) {
	pn, err := petrinet.Encode(net)
	if err != nil {
		return nil, err
	}
	g := &Net{
		network:  net,
		globalPN: pn,
		solver:   aspsolver.Default,
		cfg:      config.Default(),
		keyIndex: map[string]int{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if _, _, err := g.ensureNode(nil, bn.Subspace{}, false); err != nil {
		return nil, err
	}
	return g, nil
}

// Root returns the id of the root node, always 0.
func (g *Net) Root() int { return 0 }

// Solver exposes the diagram's configured Trap-Solver back end, for callers
// (e.g. the expansion strategies) that need direct enumeration access
// beyond the per-node cached operations.
func (g *Net) Solver() aspsolver.Solver { return g.solver }

// Len returns the number of nodes currently in the diagram.
func (g *Net) Len() int { return len(g.nodes) }

// Depth returns the maximum depth over all current nodes.
func (g *Net) Depth() int {
	max := 0
	for _, n := range g.nodes {
		if n.depth > max {
			max = n.depth
		}
	}
	return max
}

func (g *Net) node(id int) (*node, error) {
	if id < 0 || id >= len(g.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return g.nodes[id], nil
}

// NodeSpace returns the (percolated) subspace of id.
func (g *Net) NodeSpace(id int) (bn.Subspace, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	return n.space.Clone(), nil
}

// NodeDepth returns the longest-path depth of id from the root.
func (g *Net) NodeDepth(id int) (int, error) {
	n, err := g.node(id)
	if err != nil {
		return 0, err
	}
	return n.depth, nil
}

// IsExpanded reports whether id's outgoing edges have been materialized.
func (g *Net) IsExpanded(id int) (bool, error) {
	n, err := g.node(id)
	if err != nil {
		return false, err
	}
	return n.expanded, nil
}

// IsSkipped reports whether id's outgoing edges short-circuit to minimal
// trap spaces instead of maximal stable motifs.
func (g *Net) IsSkipped(id int) (bool, error) {
	n, err := g.node(id)
	if err != nil {
		return false, err
	}
	return n.skipped, nil
}

// FindNode returns the id of the node whose space equals the percolation of
// space, if one exists.
func (g *Net) FindNode(space bn.Subspace) (int, bool) {
	perc := bn.Percolate(g.network, space)
	key, err := bn.SpaceKey(g.network, perc)
	if err != nil {
		return 0, false
	}
	id, ok := g.keyIndex[key.String()]
	return id, ok
}

// NodeIDs returns every node id currently in the diagram, in creation
// order (0..Len()-1).
func (g *Net) NodeIDs() []int {
	out := make([]int, len(g.nodes))
	for i := range out {
		out[i] = i
	}
	return out
}

// StubIDs returns the ids of every unexpanded, unskipped node.
func (g *Net) StubIDs() []int {
	var out []int
	for i, n := range g.nodes {
		if !n.expanded && !n.skipped {
			out = append(out, i)
		}
	}
	return out
}

// ExpandedIDs returns the ids of every expanded node.
func (g *Net) ExpandedIDs() []int {
	var out []int
	for i, n := range g.nodes {
		if n.expanded {
			out = append(out, i)
		}
	}
	return out
}

// NodeSuccessors returns id's children, materializing them via Expand first
// if id is a stub and compute is true. If id is a stub and compute is
// false, it returns ErrNotComputed.
func (g *Net) NodeSuccessors(ctx context.Context, id int, compute bool) ([]int, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if !n.expanded && !n.skipped {
		if !compute {
			return nil, fmt.Errorf("%w: node %d successors", ErrNotComputed, id)
		}
		if err := g.ExpandNode(ctx, id); err != nil {
			return nil, err
		}
		n = g.nodes[id]
	}
	out := make([]int, len(n.succ))
	for i, e := range n.succ {
		out[i] = e.child
	}
	return out, nil
}

// EdgeStableMotif returns the motif recorded on the edge parent->child. If
// reduced is false, the motif is unioned with parent's own fixed
// coordinates (restoring the original network's variable set).
func (g *Net) EdgeStableMotif(parent, child int, reduced bool) (bn.Subspace, error) {
	p, err := g.node(parent)
	if err != nil {
		return nil, err
	}
	for _, e := range p.succ {
		if e.child == child {
			if reduced {
				return e.motif.Clone(), nil
			}
			out, _ := bn.Intersect(p.space, e.motif)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: no edge %d->%d", ErrUnknownNode, parent, child)
}

// ensureNode percolates stableMotif within parent's own space (None for the
// root) and returns the resulting node's id, allocating a new node if this
// exact space has not been seen before. If parentID is non-nil, the parent
// edge is added (first motif wins, per spec.md §9) and the child's depth is
// updated to the maximum observed value.
func (g *Net) ensureNode(parentID *int, stableMotif bn.Subspace, minimal bool) (int, bool, error) {
	var base bn.Subspace
	if parentID == nil {
		base = stableMotif
	} else {
		parent := g.nodes[*parentID]
		union, ok := bn.Intersect(parent.space, stableMotif)
		if !ok {
			return 0, false, fmt.Errorf("sdgraph: motif conflicts with parent space")
		}
		base = union
	}

	fixed := bn.Percolate(g.network, base)
	key, err := bn.SpaceKey(g.network, fixed)
	if err != nil {
		return 0, false, err
	}

	created := false
	childID, ok := g.keyIndex[key.String()]
	if !ok {
		childID = len(g.nodes)
		g.nodes = append(g.nodes, &node{space: fixed})
		g.keyIndex[key.String()] = childID
		created = true
	}
	if minimal {
		g.nodes[childID].knownMinimal = true
	}

	if parentID != nil {
		g.ensureEdge(*parentID, childID, stableMotif)
	}
	return childID, created, nil
}

// ensureEdge adds the edge parent->child (recording motif only if this is
// the first edge between the pair, per spec.md §9's documented behavior)
// and refreshes child's depth to the maximum observed value.
func (g *Net) ensureEdge(parentID, childID int, motif bn.Subspace) {
	parent := g.nodes[parentID]
	child := g.nodes[childID]

	hasEdge := false
	for _, e := range parent.succ {
		if e.child == childID {
			hasEdge = true
			break
		}
	}
	if !hasEdge {
		parent.succ = append(parent.succ, edge{child: childID, motif: motif.Clone()})
	}
	if parent.depth+1 > child.depth {
		child.depth = parent.depth + 1
	}
}

// bigKeyLess orders two subspaces by their bn.SpaceKey encoding, the
// canonical deterministic ordering spec.md §5 requires for every iteration
// whose order could affect results.
func bigKeyLess(net *bn.Network, a, b bn.Subspace) bool {
	ka, _ := bn.SpaceKey(net, a)
	kb, _ := bn.SpaceKey(net, b)
	if ka == nil || kb == nil {
		return false
	}
	return ka.Cmp(kb) < 0
}

func sortSpacesByKey(net *bn.Network, spaces []bn.Subspace) {
	sort.Slice(spaces, func(i, j int) bool { return bigKeyLess(net, spaces[i], spaces[j]) })
}
