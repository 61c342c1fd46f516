package circuit

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
)

// NetNode is a graph vertex standing for a circuit node
type NetNode struct {
	id   int64
	name string
}

func (n NetNode) ID() int64     { return n.id }
func (n NetNode) Name() string  { return n.name }
func (n NetNode) DOTID() string { return n.name }

// Graph is the connectivity graph of a circuit: one vertex per non-ground
// node, numbered in sorted name order, and an edge between every pair of
// nodes shared by a device.
type Graph struct {
	*simple.UndirectedGraph
	name  string
	names []string
	ids   map[string]int64
}

// ConnectivityGraph builds the graph for the current devices. It is derived
// on every call and never cached.
func (c *Circuit) ConnectivityGraph() *Graph {
	g := &Graph{
		UndirectedGraph: simple.NewUndirectedGraph(),
		name:            c.name,
		ids:             make(map[string]int64),
	}

	for _, n := range c.Nodes() {
		if n == device.Ground {
			continue
		}
		id := int64(len(g.names))
		g.names = append(g.names, n)
		g.ids[n] = id
		g.AddNode(NetNode{id: id, name: n})
	}

	for _, d := range c.devices {
		var ids []int64
		for _, n := range d.Nodes() {
			if id, ok := g.ids[n]; ok {
				ids = append(ids, id)
			}
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if ids[i] == ids[j] || g.HasEdgeBetween(ids[i], ids[j]) {
					continue
				}
				g.SetEdge(simple.Edge{F: g.Node(ids[i]), T: g.Node(ids[j])})
			}
		}
	}

	return g
}

// DOTID names the graph after its circuit
func (g *Graph) DOTID() string {
	return g.name
}

// NodeName returns the circuit node for a vertex ID
func (g *Graph) NodeName(id int64) string {
	if id < 0 || id >= int64(len(g.names)) {
		return ""
	}
	return g.names[id]
}

// NodeID returns the vertex ID of a circuit node
func (g *Graph) NodeID(name string) (int64, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Order returns the number of vertices
func (g *Graph) Order() int {
	return len(g.names)
}

// Size returns the number of edges
func (g *Graph) Size() int {
	return len(graph.EdgesOf(g.Edges()))
}

// EdgeList returns every edge once as a sorted pair of node names
func (g *Graph) EdgeList() [][2]string {
	var out [][2]string
	for _, e := range graph.EdgesOf(g.Edges()) {
		a, b := e.From().ID(), e.To().ID()
		if a > b {
			a, b = b, a
		}
		out = append(out, [2]string{g.names[a], g.names[b]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Neighbors returns the nodes sharing a device with name, sorted
func (g *Graph) Neighbors(name string) []string {
	id, ok := g.ids[name]
	if !ok {
		return nil
	}
	var out []string
	for _, n := range graph.NodesOf(g.From(id)) {
		out = append(out, g.names[n.ID()])
	}
	sort.Strings(out)
	return out
}

// Components returns the connected components as sorted node name lists,
// ordered by their first node.
func (g *Graph) Components() [][]string {
	var out [][]string
	for _, cc := range topo.ConnectedComponents(g) {
		names := make([]string, len(cc))
		for i, n := range cc {
			names[i] = g.names[n.ID()]
		}
		sort.Strings(names)
		out = append(out, names)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// MarshalDOT renders the graph in GraphViz DOT syntax
func (g *Graph) MarshalDOT() ([]byte, error) {
	return dot.Marshal(g, "", "", "\t")
}
