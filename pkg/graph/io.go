package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalTopology converts a graph to indented JSON bytes.
func MarshalTopology(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTopology(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTopology writes a graph as JSON to w.
func WriteTopology(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTopologyFile writes a graph to a JSON file.
func WriteTopologyFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTopology(g, f)
}

// ReadTopology decodes a JSON topology from r into a graph.
func ReadTopology(r io.Reader) (*Graph, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(t)
}

// ReadTopologyFile reads a JSON topology file.
func ReadTopologyFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTopology(f)
}
