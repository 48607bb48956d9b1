package expansion

import (
	"context"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
	"github.com/jcrozum/biobalm-sub000/pkg/sdgraph"
)

// hasMAA reports whether sub's root exhibits a motif-avoidant attractor: an
// attractor candidate surviving outside every already-expanded child.
func hasMAA(ctx context.Context, sub *sdgraph.Net) (bool, error) {
	if _, err := BFS(ctx, sub, sub.Root(), 0); err != nil {
		return false, err
	}
	candidates, err := sub.NodeAttractorCandidates(ctx, sub.Root(), true)
	if err != nil {
		return false, err
	}
	return len(candidates) > 0, nil
}

// SourceSCCs expands start by first materializing its maximal stable
// motifs (which, per Trap-Solver's Max semantics, already fixes the
// percolated network's source variables jointly), then recurses into each
// child. At a node whose percolated network still has source SCCs, a
// component subdiagram is built for each SCC and, when maaCheck is set,
// BFS-expanded and checked for a motif-avoidant attractor; these
// subdiagrams are not attached to g, and the check does not change which of
// g's nodes are expanded. Once no source SCCs remain the branch finishes
// with BFS.
func SourceSCCs(ctx context.Context, g *sdgraph.Net, start, sizeLimit int, maaCheck bool) (bool, error) {
	b := newBudget(sizeLimit)
	var walk func(id int) (bool, error)
	walk = func(id int) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
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

		_, sccs, err := g.SourceSCCSubdiagrams(&id)
		if err != nil {
			return false, err
		}
		if len(sccs) == 0 {
			return BFS(ctx, g, id, remainingOf(b))
		}

		for _, scc := range sccs {
			sub, err := g.ComponentSubdiagram(&id, scc)
			if err != nil {
				return false, err
			}
			if maaCheck {
				maa, err := hasMAA(ctx, sub)
				if err != nil {
					return false, err
				}
				if maa {
					continue
				}
			}
		}

		children, err := g.NodeSuccessors(ctx, id, true)
		if err != nil {
			return false, err
		}
		for _, c := range children {
			if ok, err := walk(c); err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	}
	return walk(start)
}

// stableMotifBlocks returns the backward closure of every variable fixed by
// each of net's source-SCC-grounded stable motifs, deduplicated, smallest
// first: the "stable-motif blocks" of spec.md's Source Blocks strategy.
func stableMotifBlocks(net *bn.Network, motifs []bn.Subspace) [][]string {
	seen := map[string]bool{}
	var blocks [][]string
	for _, m := range motifs {
		closed := petrinet.BackwardClosure(net, m.Names())
		key := ""
		for _, v := range closed {
			key += v + ","
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		blocks = append(blocks, closed)
	}
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if len(blocks[j]) < len(blocks[i]) {
				blocks[i], blocks[j] = blocks[j], blocks[i]
			}
		}
	}
	return blocks
}

// SourceBlocks operates like SourceSCCs but groups by stable-motif block
// (the backward closure of a motif's fixed variables) rather than by raw
// source SCC. When maaCheck is off, only successors inside the chosen
// minimal block are expanded; when on, blocks are tried smallest-first
// until one whose component subdiagram has no attractor candidates (no
// witnessed MAA) is found.
func SourceBlocks(ctx context.Context, g *sdgraph.Net, start, sizeLimit int, maaCheck bool) (bool, error) {
	b := newBudget(sizeLimit)
	expanded, err := g.IsExpanded(start)
	if err != nil {
		return false, err
	}
	if !expanded {
		if !b.take() {
			return false, nil
		}
		if err := g.ExpandNode(ctx, start); err != nil {
			return false, err
		}
	}

	motifs, err := g.NodeSuccessors(ctx, start, true)
	if err != nil {
		return false, err
	}
	var spaces []bn.Subspace
	for _, m := range motifs {
		sp, err := g.EdgeStableMotif(start, m, true)
		if err != nil {
			return false, err
		}
		spaces = append(spaces, sp)
	}
	net, err := g.NodePercolatedNetwork(start, true)
	if err != nil {
		return false, err
	}
	blocks := stableMotifBlocks(net, spaces)

	var chosen []string
	for _, block := range blocks {
		sub, err := g.ComponentSubdiagram(&start, block)
		if err != nil {
			return false, err
		}
		if !maaCheck {
			chosen = block
			break
		}
		candidates, err := sub.NodeAttractorCandidates(ctx, sub.Root(), true)
		if err != nil {
			return false, err
		}
		if len(candidates) == 0 {
			chosen = block
			break
		}
	}
	if chosen == nil && len(blocks) > 0 {
		chosen = blocks[0]
	}

	chosenSet := map[string]bool{}
	for _, v := range chosen {
		chosenSet[v] = true
	}
	for _, childID := range motifs {
		space, err := g.NodeSpace(childID)
		if err != nil {
			return false, err
		}
		insideBlock := true
		for v := range space {
			if !chosenSet[v] {
				insideBlock = false
				break
			}
		}
		if insideBlock {
			if ok, err := BFS(ctx, g, childID, remainingOf(b)); err != nil || !ok {
				return ok, err
			}
		}
	}
	return true, nil
}

func remainingOf(b *budget) int {
	if b.unlimited {
		return 0
	}
	return b.remaining
}
