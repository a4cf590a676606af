package octree

import (
	"errors"
	"fmt"

	"github.com/gekko3d/svo/rt/geom"
	"github.com/gekko3d/svo/rt/logging"

	"github.com/google/uuid"
)

var (
	ErrCapacity     = errors.New("octree: arena capacity exceeded")
	ErrInvalidChild = errors.New("octree: invalid child index")
	ErrChildReused  = errors.New("octree: child already has a parent")
	ErrSealed       = errors.New("octree: arena is sealed")
	ErrNotSealed    = errors.New("octree: arena is not sealed")
	ErrEmpty        = errors.New("octree: arena has no nodes")
	ErrOrphan       = errors.New("octree: node is not reachable from the root")
	ErrCorrupt      = errors.New("octree: inconsistent parent/child links")
)

// DefaultCapacity is the initial slot count; the arena grows past it.
const DefaultCapacity = 32

// Builder is the construction surface driven by scene loaders.
type Builder interface {
	PushEmpty() (Index, error)
	PushSolid(r, g, b float32) (Index, error)
	PushPartial(c [8]Index) (Index, error)
}

type Options struct {
	Capacity int
	// MaxNodes caps the arena; 0 means unbounded.
	MaxNodes int
	// Origin and RootSize place the root cube in world space.
	Origin   geom.Point3f
	RootSize float32
	Logger   logging.Logger
}

func DefaultOptions() Options {
	return Options{Capacity: DefaultCapacity, RootSize: 1}
}

// Arena owns every node of one octree. It is appended to during
// construction and read-only once sealed, so concurrent traversal of a
// sealed arena needs no locking.
type Arena struct {
	nodes      []Node
	maxNodes   int
	sealed     bool
	generation uuid.UUID

	origin   geom.Point3f
	rootSize float32
	logger   logging.Logger
}

func NewArena(opts Options) *Arena {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.RootSize <= 0 {
		opts.RootSize = 1
	}
	return &Arena{
		nodes:    make([]Node, 0, opts.Capacity),
		maxNodes: opts.MaxNodes,
		origin:   opts.Origin,
		rootSize: opts.RootSize,
		logger:   logging.OrNop(opts.Logger),
	}
}

func (a *Arena) push(n Node) (Index, error) {
	if a.sealed {
		return 0, ErrSealed
	}
	if a.maxNodes > 0 && len(a.nodes) >= a.maxNodes {
		return 0, fmt.Errorf("%w: limit is %d nodes", ErrCapacity, a.maxNodes)
	}
	n.Parent = NoParent
	a.nodes = append(a.nodes, n)
	return Index(len(a.nodes) - 1), nil
}

func (a *Arena) PushEmpty() (Index, error) {
	a.logger.Debugf("Pushing empty")
	return a.push(Node{Kind: Empty})
}

// PushSolid appends a voxel of uniform colour. Alpha is left at zero.
func (a *Arena) PushSolid(r, g, b float32) (Index, error) {
	a.logger.Debugf("Pushing solid %f %f %f", r, g, b)
	return a.push(Node{Kind: Solid, color: geom.Color4f{R: r, G: g, B: b}})
}

// PushPartial appends a subdivided node. c[i] is stored at PartialOrder[i]
// and each child gets its parent and octant hint set. Every child must be an
// existing node that has no parent yet.
func (a *Arena) PushPartial(c [8]Index) (Index, error) {
	a.logger.Debugf("Pushing partial %d %d %d %d %d %d %d %d", c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7])
	if a.sealed {
		return 0, ErrSealed
	}
	for i, ci := range c {
		if ci < 0 || int(ci) >= len(a.nodes) {
			return 0, fmt.Errorf("%w: c%d=%d, arena length %d", ErrInvalidChild, i, ci, len(a.nodes))
		}
	}
	for i, ci := range c {
		if a.nodes[ci].Parent != NoParent {
			return 0, fmt.Errorf("%w: c%d=%d belongs to %d", ErrChildReused, i, ci, a.nodes[ci].Parent)
		}
		for j := 0; j < i; j++ {
			if c[j] == ci {
				return 0, fmt.Errorf("%w: c%d and c%d are both %d", ErrChildReused, j, i, ci)
			}
		}
	}

	var n Node
	n.Kind = Partial
	for i, ci := range c {
		o := PartialOrder[i]
		n.children[o.X][o.Y][o.Z] = ci
	}
	idx, err := a.push(n)
	if err != nil {
		return 0, err
	}
	for i, ci := range c {
		a.nodes[ci].Parent = idx
		a.nodes[ci].Octant = PartialOrder[i]
	}
	return idx, nil
}

// Seal finishes construction. The last pushed node becomes the root and is
// moved to index 0; every other node must hang below it.
func (a *Arena) Seal() error {
	if a.sealed {
		return ErrSealed
	}
	if len(a.nodes) == 0 {
		return ErrEmpty
	}
	r := Index(len(a.nodes) - 1)
	for i := Index(0); i < r; i++ {
		if a.nodes[i].Parent == NoParent {
			return fmt.Errorf("%w: node %d", ErrOrphan, i)
		}
	}

	if r != 0 {
		remap := func(i Index) Index {
			switch i {
			case 0:
				return r
			case r:
				return 0
			}
			return i
		}
		a.nodes[0], a.nodes[r] = a.nodes[r], a.nodes[0]
		for i := range a.nodes {
			n := &a.nodes[i]
			if n.Parent != NoParent {
				n.Parent = remap(n.Parent)
			}
			if n.Kind == Partial {
				for x := 0; x < 2; x++ {
					for y := 0; y < 2; y++ {
						for z := 0; z < 2; z++ {
							n.children[x][y][z] = remap(n.children[x][y][z])
						}
					}
				}
			}
		}
	}
	a.nodes[0].Parent = NoParent
	a.nodes[0].Octant = Octant{}

	if err := a.Validate(); err != nil {
		return err
	}
	a.sealed = true
	a.generation = uuid.New()
	a.logger.Debugf("Arena sealed: %d nodes, generation %s", len(a.nodes), a.generation)
	return nil
}

func (a *Arena) Len() int             { return len(a.nodes) }
func (a *Arena) Sealed() bool         { return a.sealed }
func (a *Arena) Root() Index          { return 0 }
func (a *Arena) Origin() geom.Point3f { return a.origin }
func (a *Arena) RootSize() float32    { return a.rootSize }

// Generation identifies one sealed build of the arena. GPU uploads are
// keyed on it.
func (a *Arena) Generation() uuid.UUID { return a.generation }

func (a *Arena) Valid(i Index) bool {
	return i >= 0 && int(i) < len(a.nodes)
}

// Node returns a copy of node i. It panics when i is out of range.
func (a *Arena) Node(i Index) Node {
	return a.nodes[i]
}

// Child returns the child of partial node i at octant (x,y,z).
func (a *Arena) Child(i Index, x, y, z uint8) (Index, bool) {
	if !a.Valid(i) {
		return 0, false
	}
	return a.nodes[i].Child(Octant{x, y, z})
}
