// Package decision evaluates small threshold decision trees, such as the crop
// recommendation rules shipped with a deployment.
//
// A tree is a binary structure of split nodes and leaves. A split compares
// one numeric feature against its threshold: values less than or equal to
// the threshold go left, larger values go right. A leaf carries the label
// that [Tree.Predict] returns. Features absent from the input read as 0.
//
// Trees decode from JSON. A leaf may be written either as an object with a
// "label" field or as a bare string:
//
//	{"feature": "rainfall", "threshold": 100,
//	 "left": "millet",
//	 "right": {"feature": "temperature", "threshold": 25,
//	           "left": "wheat", "right": "rice"}}
package decision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/agrikit/pkg/errors"
)

// Node is either a leaf (Label set, no children) or a split (Left and Right
// set).
type Node struct {
	Feature   string  `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
	Label     string  `json:"label,omitempty"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// UnmarshalJSON accepts a node object or a bare string leaf.
func (n *Node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*n = Node{Label: label}
		return nil
	}
	type plain Node
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Node(p)
	return nil
}

// Tree is a decision tree rooted at Root.
type Tree struct {
	Root *Node
}

// MarshalJSON writes the root node directly.
func (t Tree) MarshalJSON() ([]byte, error) { return json.Marshal(t.Root) }

// UnmarshalJSON reads the root node directly.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	t.Root = &root
	return nil
}

// Validate checks that every split has a feature and both children.
func (t *Tree) Validate() error {
	if t == nil || t.Root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "decision tree has no root")
	}
	return validateNode(t.Root, "root")
}

func validateNode(n *Node, path string) error {
	if n.IsLeaf() {
		return nil
	}
	if n.Left == nil || n.Right == nil {
		return errors.New(errors.ErrCodeInvalidInput, "split at %s needs both children", path)
	}
	if n.Feature == "" {
		return errors.New(errors.ErrCodeInvalidInput, "split at %s has no feature", path)
	}
	if err := validateNode(n.Left, path+".left"); err != nil {
		return err
	}
	return validateNode(n.Right, path+".right")
}

// Predict walks the tree for features and returns the leaf label. A nil
// tree predicts "". A split missing one child falls through to the other.
func (t *Tree) Predict(features map[string]float64) string {
	if t == nil {
		return ""
	}
	n := t.Root
	for n != nil && !n.IsLeaf() {
		next := n.Right
		if features[n.Feature] <= n.Threshold {
			next = n.Left
		}
		if next == nil {
			next = n.Left
			if next == nil {
				next = n.Right
			}
		}
		n = next
	}
	if n == nil {
		return ""
	}
	return n.Label
}

// Depth returns the number of splits on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	return depth(t.Root)
}

func depth(n *Node) int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}

// Read decodes and validates a tree.
func Read(r io.Reader) (*Tree, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode decision tree")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadFile decodes and validates a tree from path.
func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
