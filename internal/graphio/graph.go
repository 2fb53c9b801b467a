// Package graphio reads the DIMACS shortest-path graph format and its
// matching flat solution files, and exposes the result as a CSR-style
// adjacency list ready for the SSSP engine.
//
// Grounded on benchmarks/shortest_path.cpp's read_graph/read_solution
// (original_source): a two-pass build (collect edges per source node,
// then flatten into prefix-summed offsets) over the DIMACS `c`/`p sp N M`/
// `a u v w` line grammar, with DIMACS's 1-based node numbering converted
// to 0-based.
package graphio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Edge is one adjacency-list entry: the edge's target node and weight.
type Edge struct {
	Target uint32
	Weight uint32
}

// Graph is a CSR-style adjacency list: Nodes has len(edges-per-node)+1
// entries, Nodes[i]:Nodes[i+1] bounds node i's slice of Edges.
type Graph struct {
	Nodes []uint32
	Edges []Edge
}

func (g *Graph) NumNodes() int {
	if len(g.Nodes) == 0 {
		return 0
	}
	return len(g.Nodes) - 1
}

// Neighbors returns node's outgoing edges.
func (g *Graph) Neighbors(node uint32) []Edge {
	return g.Edges[g.Nodes[node]:g.Nodes[node+1]]
}

// ReadGraph parses a DIMACS .gr stream: comment lines ("c ..."), exactly
// one problem line ("p sp N M"), and M arc lines ("a u v w") with
// 1-based endpoints, converted to 0-based on the way in.
func ReadGraph(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var numNodes int
	haveProblem := false
	var edgesPerNode [][]Edge
	var g Graph
	lineNo := 0

	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "c":
			continue
		case "p":
			if haveProblem {
				return nil, fmt.Errorf("graphio: line %d: duplicate problem line", lineNo)
			}
			if len(fields) != 4 || fields[1] != "sp" {
				return nil, fmt.Errorf("graphio: line %d: malformed problem line %q", lineNo, sc.Text())
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("graphio: line %d: parsing node count: %w", lineNo, err)
			}
			m, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("graphio: line %d: parsing edge count: %w", lineNo, err)
			}
			numNodes = n
			g.Nodes = make([]uint32, numNodes+1)
			edgesPerNode = make([][]Edge, numNodes)
			g.Edges = make([]Edge, 0, m)
			haveProblem = true
		case "a":
			if !haveProblem {
				return nil, fmt.Errorf("graphio: line %d: arc line before problem line", lineNo)
			}
			if len(fields) != 4 {
				return nil, fmt.Errorf("graphio: line %d: malformed arc line %q", lineNo, sc.Text())
			}
			src, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("graphio: line %d: parsing arc source: %w", lineNo, err)
			}
			dst, err := strconv.ParseUint(fields[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("graphio: line %d: parsing arc target: %w", lineNo, err)
			}
			weight, err := strconv.ParseUint(fields[3], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("graphio: line %d: parsing arc weight: %w", lineNo, err)
			}
			if src < 1 || int(src) > numNodes {
				return nil, fmt.Errorf("graphio: line %d: arc source %d out of range [1,%d]", lineNo, src, numNodes)
			}
			edgesPerNode[src-1] = append(edgesPerNode[src-1], Edge{Target: uint32(dst) - 1, Weight: uint32(weight)})
		default:
			return nil, fmt.Errorf("graphio: line %d: unexpected line type %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graphio: reading graph: %w", err)
	}
	if !haveProblem {
		return nil, fmt.Errorf("graphio: missing problem line")
	}

	for i, edges := range edgesPerNode {
		g.Nodes[i+1] = g.Nodes[i] + uint32(len(edges))
		g.Edges = append(g.Edges, edges...)
	}
	return &g, nil
}

// ReadSolution parses a flat "<node> <distance>" solution file into a
// distance slice in file order; the node column is checked to be a number
// but not used, so entry i is the distance on the file's i-th line.
func ReadSolution(r io.Reader) ([]uint32, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	var solution []uint32
	for sc.Scan() {
		if _, err := strconv.ParseUint(sc.Text(), 10, 32); err != nil {
			return nil, fmt.Errorf("graphio: parsing solution node: %w", err)
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("graphio: truncated solution line")
		}
		dist, err := strconv.ParseUint(sc.Text(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("graphio: parsing solution distance: %w", err)
		}
		solution = append(solution, uint32(dist))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graphio: reading solution: %w", err)
	}
	return solution, nil
}
