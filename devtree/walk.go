package devtree

import (
	"errors"
	"iter"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// =============================================================================
// Node Walk
// =============================================================================

type walkState uint8

const (
	walkStart  walkState = iota // Nothing yielded yet
	walkAt                      // Positioned on the most recently yielded node
	walkAscend                  // Looking for the next sibling of an ancestor
	walkDone                    // Exhausted
)

// NodeWalk is a pre-order, depth-first walk over a snapshot. The root is
// always yielded first and a parent is always yielded before its children.
type NodeWalk struct {
	snap  *Snapshot
	node  hal.NodeID
	state walkState
	skip  bool
}

// SkipChildren prunes the children of the node most recently returned by
// Next. The pruning applies to the very next call of Next only.
func (w *NodeWalk) SkipChildren() {
	if w.state == walkAt {
		w.skip = true
	}
}

// Next advances the walk and returns the next node. It returns [Done] when
// the walk is exhausted and [pkg.ErrReleased] once the snapshot is closed.
//
// A provider failure is returned as a step error and leaves the walk
// consistent: after a failed child lookup the walk continues as though the
// node had no children, and after a failed sibling lookup it continues with
// the ancestors. A failed parent lookup ends the walk, since there is no
// position left to continue from.
func (w *NodeWalk) Next() (Node, error) {
	tree, err := w.snap.live()
	if err != nil {
		return Node{}, err
	}

	switch w.state {
	case walkDone:
		return Node{}, Done

	case walkStart:
		return w.visit(tree.Root()), nil

	case walkAt:
		if w.skip {
			w.skip = false
		} else {
			child, err := tree.Child(w.node)
			if err != nil {
				w.skip = true
				return Node{}, stepError("di_child_node", err)
			}
			if child != hal.NilNode {
				return w.visit(child), nil
			}
		}

		if w.node == tree.Root() {
			w.state = walkDone
			return Node{}, Done
		}

		w.state = walkAscend
		sib, err := tree.Sibling(w.node)
		if err != nil {
			return Node{}, stepError("di_sibling_node", err)
		}
		if sib != hal.NilNode {
			return w.visit(sib), nil
		}
	}

	// No children and no siblings at this level. Walk up until an ancestor
	// has a sibling, or the top of the capture is reached. The root of a
	// subtree capture has no reachable parent and libdevinfo reports ENOTSUP
	// for it, so the walk stops at the root without asking.
	for {
		if w.node == tree.Root() {
			w.state = walkDone
			return Node{}, Done
		}
		parent, err := tree.Parent(w.node)
		if err != nil {
			w.state = walkDone
			return Node{}, stepError("di_parent_node", err)
		}
		if parent == hal.NilNode {
			w.state = walkDone
			return Node{}, Done
		}
		w.node = parent

		sib, err := tree.Sibling(w.node)
		if err != nil {
			return Node{}, stepError("di_sibling_node", err)
		}
		if sib != hal.NilNode {
			return w.visit(sib), nil
		}
	}
}

// All returns an iterator over the remaining nodes of the walk. Step errors
// are yielded alongside a zero Node; the iterator stops at [Done] or when
// the snapshot is released. SkipChildren may be called from the loop body.
func (w *NodeWalk) All() iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		for {
			n, err := w.Next()
			if errors.Is(err, Done) {
				return
			}
			if !yield(n, err) || errors.Is(err, pkg.ErrReleased) {
				return
			}
		}
	}
}

func (w *NodeWalk) visit(id hal.NodeID) Node {
	w.node = id
	w.state = walkAt
	w.skip = false
	return Node{snap: w.snap, id: id}
}

// =============================================================================
// Driver Walk
// =============================================================================

// DriverWalk visits every node bound to one driver, in the order of the
// tree's per-driver index.
type DriverWalk struct {
	snap    *Snapshot
	driver  string
	node    hal.NodeID
	started bool
	done    bool
}

// Driver returns the driver name the walk is filtered on.
func (w *DriverWalk) Driver() string {
	return w.driver
}

// Next returns the next node bound to the driver, or [Done]. A provider
// failure ends the walk.
func (w *DriverWalk) Next() (Node, error) {
	tree, err := w.snap.live()
	if err != nil {
		return Node{}, err
	}
	if w.done {
		return Node{}, Done
	}

	var next hal.NodeID
	if !w.started {
		w.started = true
		next, err = tree.DriverFirst(w.driver)
		if err != nil {
			w.done = true
			return Node{}, stepError("di_drv_first_node", err)
		}
	} else {
		next, err = tree.DriverNext(w.node)
		if err != nil {
			w.done = true
			return Node{}, stepError("di_drv_next_node", err)
		}
	}

	if next == hal.NilNode {
		w.done = true
		return Node{}, Done
	}
	w.node = next
	return Node{snap: w.snap, id: next}, nil
}

// All returns an iterator over the remaining nodes of the walk.
func (w *DriverWalk) All() iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		for {
			n, err := w.Next()
			if errors.Is(err, Done) {
				return
			}
			if !yield(n, err) || err != nil {
				return
			}
		}
	}
}

func stepError(op string, err error) error {
	pkg.LogDebug(pkg.ComponentWalk, "walk step failed", "op", op, "error", err)
	return pkg.NewOpError(op, pkg.ErrStep, err)
}
