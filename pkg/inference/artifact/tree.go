package artifact

import (
	"errors"
	"fmt"
)

// Tree is a binary decision tree classifier.
type Tree struct {
	features int
	root     *Node
	classes  []float64
}

func newTree(doc Document, classes []float64) (*Tree, error) {
	if doc.Tree == nil {
		return nil, errors.New("artifact: tree model requires a tree")
	}
	if err := checkNode(doc.Tree, doc.Features, len(classes)); err != nil {
		return nil, err
	}
	return &Tree{features: doc.Features, root: doc.Tree, classes: classes}, nil
}

func checkNode(n *Node, features, classes int) error {
	if n.Leaf() {
		if len(n.Counts) != classes {
			return fmt.Errorf("artifact: leaf has %d counts for %d classes", len(n.Counts), classes)
		}
		return nil
	}
	if n.Left == nil || n.Right == nil {
		return errors.New("artifact: split node requires both branches")
	}
	if n.Feature < 0 || (features > 0 && n.Feature >= features) {
		return fmt.Errorf("artifact: split on feature %d out of range", n.Feature)
	}
	if err := checkNode(n.Left, features, classes); err != nil {
		return err
	}
	return checkNode(n.Right, features, classes)
}

func (t *Tree) leaf(x []float64) (*Node, error) {
	if err := checkShape(t.features, x); err != nil {
		return nil, err
	}
	node := t.root
	for !node.Leaf() {
		if node.Feature >= len(x) {
			return nil, fmt.Errorf("%w: split on feature %d, vector has %d", ErrShape, node.Feature, len(x))
		}
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node, nil
}

// Predict returns the majority class of the reached leaf.
func (t *Tree) Predict(x []float64) (float64, error) {
	node, err := t.leaf(x)
	if err != nil {
		return 0, err
	}
	if node.Counts[1] > node.Counts[0] {
		return t.classes[1], nil
	}
	return t.classes[0], nil
}

// PredictProba returns the class frequencies of the reached leaf.
func (t *Tree) PredictProba(x []float64) ([]float64, error) {
	node, err := t.leaf(x)
	if err != nil {
		return nil, err
	}
	total := node.Counts[0] + node.Counts[1]
	if total <= 0 {
		return nil, errors.New("artifact: leaf has no samples")
	}
	return []float64{node.Counts[0] / total, node.Counts[1] / total}, nil
}
