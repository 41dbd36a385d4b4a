package devtree

import (
	"errors"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// DefaultRoot is the physical path of the whole device tree.
const DefaultRoot = "/"

// Done is returned by the Next method of every walker once it is exhausted.
var Done = errors.New("no more items in walk")

// Option configures a snapshot capture.
type Option func(*options)

type options struct {
	root  string
	flags uint
}

// WithRoot captures only the subtree at the given physical path.
func WithRoot(path string) Option {
	return func(o *options) {
		o.root = path
	}
}

// WithForceLoad attaches every driver before capturing. This is a privileged
// operation and is considerably slower than a plain capture.
func WithForceLoad() Option {
	return func(o *options) {
		o.flags |= hal.ForceLoad
	}
}

// Snapshot owns one capture of the device tree.
type Snapshot struct {
	tree hal.Tree // nil once released
	root string
}

// Open captures the device tree using [DefaultSystem].
func Open(opts ...Option) (*Snapshot, error) {
	return NewSnapshot(DefaultSystem(), opts...)
}

// NewSnapshot captures the device tree from sys.
func NewSnapshot(sys hal.System, opts ...Option) (*Snapshot, error) {
	o := options{root: DefaultRoot}
	for _, opt := range opts {
		opt(&o)
	}
	if o.root == "" {
		return nil, pkg.NewOpError("di_init", pkg.ErrInit, pkg.ErrInvalidParameter)
	}

	tree, err := sys.OpenTree(o.root, o.flags)
	if err != nil {
		return nil, pkg.NewOpError("di_init", pkg.ErrInit, err)
	}

	pkg.LogDebug(pkg.ComponentSnapshot, "snapshot captured",
		"root", o.root,
		"force", o.flags&hal.ForceLoad != 0)
	return &Snapshot{tree: tree, root: o.root}, nil
}

// With captures a snapshot from sys, passes it to fn, and releases it on
// every exit path. Views derived from the snapshot must not escape fn.
func With(sys hal.System, fn func(*Snapshot) error, opts ...Option) (err error) {
	s, err := NewSnapshot(sys, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Root returns the physical path the snapshot was captured at.
func (s *Snapshot) Root() string {
	return s.root
}

// Released reports whether the snapshot has been closed.
func (s *Snapshot) Released() bool {
	return s == nil || s.tree == nil
}

// Close releases the capture. Every view derived from the snapshot becomes
// invalid. Only the first call reaches the provider; later calls return
// [pkg.ErrReleased].
func (s *Snapshot) Close() error {
	if s.Released() {
		return pkg.ErrReleased
	}
	tree := s.tree
	s.tree = nil

	pkg.LogDebug(pkg.ComponentSnapshot, "snapshot released", "root", s.root)
	return tree.Close()
}

// RootNode returns the root node of the capture.
func (s *Snapshot) RootNode() (Node, error) {
	tree, err := s.live()
	if err != nil {
		return Node{}, err
	}
	return Node{snap: s, id: tree.Root()}, nil
}

// WalkNodes returns a pre-order walk over every node in the capture.
func (s *Snapshot) WalkNodes() *NodeWalk {
	return &NodeWalk{snap: s}
}

// WalkDriver returns a walk over every node bound to the named driver.
func (s *Snapshot) WalkDriver(driver string) *DriverWalk {
	return &DriverWalk{snap: s, driver: driver}
}

// live returns the tree, or ErrReleased once the snapshot is closed.
func (s *Snapshot) live() (hal.Tree, error) {
	if s.Released() {
		return nil, pkg.ErrReleased
	}
	return s.tree, nil
}

// mustTree returns the tree and panics once the snapshot is closed.
func (s *Snapshot) mustTree() hal.Tree {
	if s.Released() {
		panic(pkg.ErrReleased)
	}
	return s.tree
}
