// Command sdctl builds a succession diagram for a .bnet Boolean network
// model and expands it using a chosen strategy, printing a summary of the
// resulting diagram and its attractor seeds.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/expansion"
	"github.com/jcrozum/biobalm-sub000/pkg/loader"
	"github.com/jcrozum/biobalm-sub000/pkg/sdgraph"
)

var cli struct {
	Model         string `arg:"" help:"Path to a .bnet model file."`
	Strategy      string `default:"bfs" enum:"bfs,dfs,minimal,attractors" help:"Expansion strategy to run."`
	SizeLimit     int    `default:"0" help:"Maximum number of node expansions (0 = unlimited)."`
	SkipUncovered bool   `help:"With --strategy=minimal, shortcut uncovered nodes straight to their minimal trap spaces."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Description("Expand and summarize a Boolean-network succession diagram."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(run(cli.Model, cli.Strategy, cli.SizeLimit, cli.SkipUncovered))
}

func run(path, strategy string, sizeLimit int, skip bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	net, err := loader.LoadBnet(f)
	if err != nil {
		return err
	}

	sd, err := sdgraph.New(net)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var ok bool
	switch strategy {
	case "bfs":
		ok, err = expansion.BFS(ctx, sd, sd.Root(), sizeLimit)
	case "dfs":
		ok, err = expansion.DFS(ctx, sd, sd.Root(), sizeLimit)
	case "minimal":
		ok, err = expansion.MinimalSpaces(ctx, sd, sd.Root(), sizeLimit, skip)
	case "attractors":
		ok, err = expansion.AttractorSeeds(ctx, sd, sd.Root(), sizeLimit)
	default:
		return fmt.Errorf("unknown strategy %q", strategy)
	}
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("expansion stopped early: size_limit reached")
	}

	summary := sd.Summarize()
	fmt.Printf("nodes: %d  edges: %d  expanded: %d  skipped: %d  depth: %d\n",
		summary.Nodes, summary.Edges, summary.Expanded, summary.Skipped, summary.Depth)

	for _, space := range sd.MinimalTrapSpaces() {
		fmt.Println("minimal trap space:", formatSpace(space))
	}

	seeds, err := sd.AllAttractorSeeds(ctx)
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		fmt.Println("attractor seed:", formatSpace(seed))
	}
	return nil
}

func formatSpace(s bn.Subspace) string {
	out := "{"
	for i, name := range s.Names() {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", name, s[name])
	}
	return out + "}"
}
