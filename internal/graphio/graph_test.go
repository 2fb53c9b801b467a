package graphio_test

import (
	"strings"
	"testing"

	"github.com/KvGeijer/multiqueue-experiments/internal/graphio"
)

const sampleGraph = `c this is a comment
c DIMACS shortest path graph
p sp 4 4
a 1 2 5
a 1 3 1
a 3 2 1
a 2 4 2
`

func TestReadGraph_BuildsCSRAdjacency(t *testing.T) {
	g, err := graphio.ReadGraph(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.NumNodes() != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.NumNodes())
	}
	if len(g.Edges) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(g.Edges))
	}

	n0 := g.Neighbors(0)
	if len(n0) != 2 {
		t.Fatalf("expected node 0 to have 2 outgoing edges, got %d", len(n0))
	}
	var sawNode1, sawNode2 bool
	for _, e := range n0 {
		switch e.Target {
		case 1:
			sawNode1 = true
			if e.Weight != 5 {
				t.Fatalf("expected weight 5 on edge 0->1, got %d", e.Weight)
			}
		case 2:
			sawNode2 = true
			if e.Weight != 1 {
				t.Fatalf("expected weight 1 on edge 0->2, got %d", e.Weight)
			}
		}
	}
	if !sawNode1 || !sawNode2 {
		t.Fatalf("missing expected edges from node 0: %v", n0)
	}

	if len(g.Neighbors(3)) != 0 {
		t.Fatalf("expected node 3 to have no outgoing edges, got %v", g.Neighbors(3))
	}
}

func TestReadGraph_RejectsArcBeforeProblemLine(t *testing.T) {
	_, err := graphio.ReadGraph(strings.NewReader("a 1 2 5\n"))
	if err == nil {
		t.Fatal("expected an error for an arc line preceding the problem line")
	}
}

func TestReadGraph_RejectsMalformedProblemLine(t *testing.T) {
	_, err := graphio.ReadGraph(strings.NewReader("p sp 4\n"))
	if err == nil {
		t.Fatal("expected an error for a truncated problem line")
	}
}

func TestReadSolution_ParsesDistances(t *testing.T) {
	const sol = "1 0\n2 5\n3 1\n4 7\n"
	got, err := graphio.ReadSolution(strings.NewReader(sol))
	if err != nil {
		t.Fatalf("ReadSolution: %v", err)
	}
	want := []uint32{0, 5, 1, 7}
	if len(got) != len(want) {
		t.Fatalf("expected %d distances, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("distance %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}
