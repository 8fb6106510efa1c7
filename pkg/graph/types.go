package graph

import (
	"encoding/json"
	"fmt"
	"maps"
)

// =============================================================================
// Topology - Serialization Format
// =============================================================================

// Topology is the node-link serialization format for a [Graph].
// Round trips preserve node order, edge order, weights and metadata.
type Topology struct {
	Nodes []Node `json:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" toml:"edges"`
}

// Node is a serialized graph node.
type Node struct {
	ID    string         `json:"id" toml:"id"`
	Label string         `json:"label,omitempty" toml:"label,omitempty"` // Display label (defaults to ID)
	Meta  map[string]any `json:"meta,omitempty" toml:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is one undirected weighted edge.
type Edge struct {
	From   string  `json:"from" toml:"from"`
	To     string  `json:"to" toml:"to"`
	Weight float64 `json:"weight,omitempty" toml:"weight,omitempty"`
}

// metaLabel stores the display label inside node metadata.
const metaLabel = "_label"

// =============================================================================
// Graph ↔ Topology Conversion
// =============================================================================

// FromGraph converts a graph to its serialization format.
func FromGraph(g *Graph) Topology {
	out := Topology{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: g.Edges(),
	}
	for _, id := range g.order {
		n := Node{ID: id}
		if m := g.meta[id]; len(m) > 0 {
			n.Meta = maps.Clone(m)
			if label, ok := n.Meta[metaLabel].(string); ok {
				n.Label = label
				delete(n.Meta, metaLabel)
			}
			if len(n.Meta) == 0 {
				n.Meta = nil
			}
		}
		out.Nodes = append(out.Nodes, n)
	}
	return out
}

// ToGraph builds a graph from a topology. Nodes listed in Nodes come first in
// their listed order; endpoints only mentioned by edges follow.
func ToGraph(t Topology) (*Graph, error) {
	g := New()
	for _, n := range t.Nodes {
		meta := Metadata(maps.Clone(n.Meta))
		if n.Label != "" {
			if meta == nil {
				meta = Metadata{}
			}
			meta[metaLabel] = n.Label
		}
		if err := g.AddNode(n.ID, meta); err != nil {
			return nil, fmt.Errorf("add node %q: %w", n.ID, err)
		}
	}
	for _, e := range t.Edges {
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			return nil, fmt.Errorf("add edge %s–%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// UnmarshalTopology deserializes JSON bytes to a Topology.
func UnmarshalTopology(data []byte) (Topology, error) {
	var t Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return Topology{}, err
	}
	return t, nil
}
