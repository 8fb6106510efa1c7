package toolkit

import (
	"io"

	"github.com/matzehuels/agrikit/pkg/graph"
)

// AddLink adds an undirected link to the network topology.
func (t *Toolkit) AddLink(from, to string, weight float64) error {
	t.topoMu.Lock()
	defer t.topoMu.Unlock()
	return t.topology.AddEdge(from, to, weight)
}

// AddDevice adds a node with metadata, or updates its metadata.
func (t *Toolkit) AddDevice(id string, meta graph.Metadata) error {
	t.topoMu.Lock()
	defer t.topoMu.Unlock()
	return t.topology.AddNode(id, meta)
}

// Reachable returns the nodes reachable from start in BFS layer order,
// start first.
func (t *Toolkit) Reachable(start string) []string {
	t.topoMu.RLock()
	defer t.topoMu.RUnlock()
	return t.topology.ReachableFrom(start)
}

// Route returns the cheapest path between two nodes.
func (t *Toolkit) Route(from, to string) ([]string, float64, bool) {
	t.topoMu.RLock()
	defer t.topoMu.RUnlock()
	return t.topology.ShortestPath(from, to)
}

// WriteTopology writes the topology as JSON.
func (t *Toolkit) WriteTopology(w io.Writer) error {
	t.topoMu.RLock()
	defer t.topoMu.RUnlock()
	return graph.WriteTopology(t.topology, w)
}

// TopologyDOT returns the topology in Graphviz DOT form.
func (t *Toolkit) TopologyDOT() string {
	t.topoMu.RLock()
	defer t.topoMu.RUnlock()
	return graph.ToDOT(t.topology)
}
