package graph

import (
	"errors"
	"math"

	"github.com/matzehuels/agrikit/pkg/heap"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge]
	// when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrNegativeWeight is returned by [Graph.AddEdge] for weights below zero,
	// which would break shortest-path search.
	ErrNegativeWeight = errors.New("edge weight must not be negative")
)

// Metadata stores arbitrary key-value pairs attached to a node, such as the
// region name or ISP of a topology node.
type Metadata map[string]any

// HalfEdge is one direction of an undirected edge as seen from its owner.
type HalfEdge struct {
	To     string
	Weight float64
}

// Graph is an undirected weighted graph stored as adjacency lists.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	order []string              // node IDs in insertion order
	adj   map[string][]HalfEdge // node -> neighbours in insertion order
	meta  map[string]Metadata
	edges []Edge // each undirected edge once, insertion order
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		adj:  make(map[string][]HalfEdge),
		meta: make(map[string]Metadata),
	}
}

// AddNode adds an isolated node, or merges meta into an existing node.
func (g *Graph) AddNode(id string, meta Metadata) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	g.ensure(id)
	for k, v := range meta {
		if g.meta[id] == nil {
			g.meta[id] = Metadata{}
		}
		g.meta[id][k] = v
	}
	return nil
}

// AddEdge connects u and v with the given weight in both directions,
// creating either node if absent. Parallel edges are kept.
func (g *Graph) AddEdge(u, v string, weight float64) error {
	if u == "" || v == "" {
		return ErrInvalidNodeID
	}
	if weight < 0 || math.IsNaN(weight) {
		return ErrNegativeWeight
	}
	g.ensure(u)
	g.ensure(v)
	g.adj[u] = append(g.adj[u], HalfEdge{To: v, Weight: weight})
	g.adj[v] = append(g.adj[v], HalfEdge{To: u, Weight: weight})
	g.edges = append(g.edges, Edge{From: u, To: v, Weight: weight})
	return nil
}

func (g *Graph) ensure(id string) {
	if _, ok := g.adj[id]; ok {
		return
	}
	g.adj[id] = []HalfEdge{}
	g.order = append(g.order, id)
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// Nodes returns the node IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Neighbors returns the half-edges leaving id.
func (g *Graph) Neighbors(id string) []HalfEdge {
	out := make([]HalfEdge, len(g.adj[id]))
	copy(out, g.adj[id])
	return out
}

// Meta returns the metadata of id, or nil.
func (g *Graph) Meta(id string) Metadata { return g.meta[id] }

// Edges returns every undirected edge once, in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// ReachableFrom returns every node reachable from start in breadth-first
// layer order, start first. Weights are ignored. A start that is not in the
// graph is returned on its own.
func (g *Graph) ReachableFrom(start string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		out = append(out, u)
		for _, e := range g.adj[u] {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return out
}

// Reachable is ReachableFrom as a set.
func (g *Graph) Reachable(start string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, id := range g.ReachableFrom(start) {
		set[id] = struct{}{}
	}
	return set
}

// ShortestPath returns the minimum-weight path from one node to another and
// its total weight, using Dijkstra's algorithm. ok is false when either node
// is missing or no path exists.
func (g *Graph) ShortestPath(from, to string) (path []string, cost float64, ok bool) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil, 0, false
	}

	dist := map[string]float64{from: 0}
	prev := make(map[string]string)
	done := make(map[string]bool)
	pq := heap.New[string](len(g.order))
	pq.Push(from, 0)

	for pq.Len() > 0 {
		u, d, _ := pq.PopMinPriority()
		if done[u] {
			continue // stale entry, no decrease-key
		}
		done[u] = true
		if u == to {
			break
		}
		for _, e := range g.adj[u] {
			nd := d + e.Weight
			if old, seen := dist[e.To]; !seen || nd < old {
				dist[e.To] = nd
				prev[e.To] = u
				pq.Push(e.To, nd)
			}
		}
	}

	if !done[to] {
		return nil, 0, false
	}
	for at := to; ; at = prev[at] {
		path = append(path, at)
		if at == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[to], true
}
