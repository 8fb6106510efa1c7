// Package graph provides the undirected, weighted adjacency-list graph used
// to model the network topology between regions, ISPs and service nodes.
//
// # Building
//
// [Graph.AddEdge] creates missing endpoints and records the relationship in
// both directions with the same weight. Isolated nodes are added with
// [Graph.AddNode]:
//
//	g := graph.New()
//	g.AddEdge("north", "jio", 45)
//	g.AddEdge("jio", "api", 12)
//	g.AddNode("south", nil)
//
// # Queries
//
//   - [Graph.ReachableFrom]: breadth-first reachability in layer order.
//     Edge weights are stored but ignored by this traversal.
//   - [Graph.ShortestPath]: Dijkstra over the weights, using package heap.
//
// # Serialization
//
// Topologies use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "north"}, {"id": "jio"}],
//	  "edges": [{"from": "north", "to": "jio", "weight": 45}]
//	}
//
// See [ReadTopology], [WriteTopology] and [MarshalTopology]. [ToDOT] and
// [RenderSVG] produce Graphviz output for dashboards.
//
// # Concurrency
//
// Graph is not safe for concurrent writes. Reads are safe once building is
// finished.
package graph
