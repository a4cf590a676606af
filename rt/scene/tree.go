package scene

import (
	"errors"
	"fmt"

	"github.com/gekko3d/svo/rt/octree"
)

var (
	ErrInvalidScene  = errors.New("scene: invalid description")
	ErrUnknownFormat = errors.New("scene: unknown file format")
)

const (
	KindEmpty   = "empty"
	KindSolid   = "solid"
	KindPartial = "partial"
)

// NodeSpec describes one octree node in a scene file. Children of a partial
// node are listed in builder order c0..c7, see octree.PartialOrder.
type NodeSpec struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Color    []float32  `json:"color,omitempty" yaml:"color,omitempty"`
	Children []NodeSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// OpSpec is one raw builder call. Children refer to the indices returned by
// earlier ops, counted from zero in file order.
type OpSpec struct {
	Push     string    `json:"push" yaml:"push"`
	Color    []float32 `json:"color,omitempty" yaml:"color,omitempty"`
	Children []int     `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is the JSON/YAML scene file. Exactly one of Root and Ops is set;
// with Ops the last op is the root.
type Document struct {
	Root *NodeSpec `json:"root,omitempty" yaml:"root,omitempty"`
	Ops  []OpSpec  `json:"ops,omitempty" yaml:"ops,omitempty"`
}

func Solid(r, g, b float32) NodeSpec {
	return NodeSpec{Kind: KindSolid, Color: []float32{r, g, b}}
}

func Empty() NodeSpec {
	return NodeSpec{Kind: KindEmpty}
}

func Partial(c ...NodeSpec) NodeSpec {
	return NodeSpec{Kind: KindPartial, Children: c}
}

func color3(c []float32) (r, g, b float32, err error) {
	if len(c) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: colour needs 3 components, got %d", ErrInvalidScene, len(c))
	}
	return c[0], c[1], c[2], nil
}

// Emit pushes the subtree rooted at n bottom-up and returns its index.
func Emit(n NodeSpec, b octree.Builder) (octree.Index, error) {
	switch n.Kind {
	case KindEmpty:
		return b.PushEmpty()
	case KindSolid:
		r, g, bl, err := color3(n.Color)
		if err != nil {
			return 0, err
		}
		return b.PushSolid(r, g, bl)
	case KindPartial:
		if len(n.Children) != 8 {
			return 0, fmt.Errorf("%w: partial node needs 8 children, got %d", ErrInvalidScene, len(n.Children))
		}
		var c [8]octree.Index
		for i := range n.Children {
			idx, err := Emit(n.Children[i], b)
			if err != nil {
				return 0, err
			}
			c[i] = idx
		}
		return b.PushPartial(c)
	default:
		return 0, fmt.Errorf("%w: unknown node kind %q", ErrInvalidScene, n.Kind)
	}
}

// Replay runs raw builder ops in order and returns the index of the last one.
func Replay(ops []OpSpec, b octree.Builder) (octree.Index, error) {
	if len(ops) == 0 {
		return 0, fmt.Errorf("%w: no ops", ErrInvalidScene)
	}
	var last octree.Index
	for i, op := range ops {
		var err error
		switch op.Push {
		case KindEmpty:
			last, err = b.PushEmpty()
		case KindSolid:
			var r, g, bl float32
			if r, g, bl, err = color3(op.Color); err == nil {
				last, err = b.PushSolid(r, g, bl)
			}
		case KindPartial:
			if len(op.Children) != 8 {
				err = fmt.Errorf("%w: partial needs 8 children, got %d", ErrInvalidScene, len(op.Children))
				break
			}
			var c [8]octree.Index
			for k, v := range op.Children {
				c[k] = octree.Index(v)
			}
			last, err = b.PushPartial(c)
		default:
			err = fmt.Errorf("%w: unknown push %q", ErrInvalidScene, op.Push)
		}
		if err != nil {
			return 0, fmt.Errorf("op %d: %w", i, err)
		}
	}
	return last, nil
}

func (d *Document) build(b octree.Builder) (octree.Index, error) {
	switch {
	case d.Root != nil && len(d.Ops) > 0:
		return 0, fmt.Errorf("%w: both root and ops given", ErrInvalidScene)
	case d.Root != nil:
		return Emit(*d.Root, b)
	default:
		return Replay(d.Ops, b)
	}
}
