package oracle

import (
	"strings"
	"testing"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

func TestEncodeEmitsVariablesTransitionsAndGoal(t *testing.T) {
	net, err := bn.New(map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
	})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}
	pn, err := petrinet.Encode(net)
	if err != nil {
		t.Fatalf("petrinet.Encode: %v", err)
	}

	wire := Encode(pn, bn.Subspace{"A": 0, "B": 0}, []bn.Subspace{{"A": 1}, {"B": 1}}, 8192)

	if !strings.Contains(wire, `"A" [0,1]`) || !strings.Contains(wire, `"B" [0,1]`) {
		t.Fatalf("Encode output missing variable declarations:\n%s", wire)
	}
	if !strings.Contains(wire, "init ") {
		t.Fatalf("Encode output missing init line:\n%s", wire)
	}
	if !strings.Contains(wire, `"A"=1`) || !strings.Contains(wire, `"B"=1`) {
		t.Fatalf("Encode output missing goal literals:\n%s", wire)
	}
}

func TestEncodeClipsGoalToSizeLimit(t *testing.T) {
	net, err := bn.New(map[string]bn.Expr{"A": bn.Lit("B"), "B": bn.Lit("A")})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}
	pn, err := petrinet.Encode(net)
	if err != nil {
		t.Fatalf("petrinet.Encode: %v", err)
	}

	wire := Encode(pn, bn.Subspace{}, []bn.Subspace{{"A": 1, "B": 1}}, 1)
	goalLine := wire[strings.Index(wire, "goal "):]
	if strings.Count(goalLine, "=") != 1 {
		t.Fatalf("goal line = %q, want exactly one literal under a size limit of 1", goalLine)
	}
}
