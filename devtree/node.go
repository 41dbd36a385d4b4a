package devtree

import (
	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// Node is a view of one device tree node. It is valid only while the
// snapshot that produced it is open.
type Node struct {
	snap *Snapshot
	id   hal.NodeID
}

// Snapshot returns the snapshot the node belongs to.
func (n Node) Snapshot() *Snapshot {
	return n.snap
}

// Name returns the node name, e.g. "pci" or "disk".
func (n Node) Name() string {
	return n.snap.mustTree().NodeName(n.id)
}

// DriverName returns the name of the bound driver. It reports false if no
// driver is bound.
func (n Node) DriverName() (string, bool) {
	return n.snap.mustTree().DriverName(n.id)
}

// Instance returns the driver instance number. It reports false if no
// driver is bound.
func (n Node) Instance() (int, bool) {
	v := n.snap.mustTree().Instance(n.id)
	if v == hal.NoInstance {
		return 0, false
	}
	return v, true
}

// Depth returns the depth of the node in the capture. The root is at depth 1.
func (n Node) Depth() int {
	tree := n.snap.mustTree()
	root := tree.Root()
	d := 0
	for id := n.id; id != hal.NilNode; d++ {
		if id == root {
			return d + 1
		}
		p, err := tree.Parent(id)
		if err != nil {
			// Count what we could reach; the node itself is always one level.
			return d + 1
		}
		id = p
	}
	return d
}

// Parent returns the parent node. At the root of a full capture it returns
// false and a nil error. The root of a subtree capture has no reachable
// parent and libdevinfo fails the lookup, which is reported as a step error
// like any other failure.
func (n Node) Parent() (Node, bool, error) {
	tree, err := n.snap.live()
	if err != nil {
		return Node{}, false, err
	}
	p, err := tree.Parent(n.id)
	if err != nil {
		return Node{}, false, stepError("di_parent_node", err)
	}
	if p == hal.NilNode {
		return Node{}, false, nil
	}
	return Node{snap: n.snap, id: p}, true, nil
}

// DevfsPath returns the device-filesystem path of the node, e.g.
// "/pci@0,0/pci1022,1483@1,1".
func (n Node) DevfsPath() (string, error) {
	tree, err := n.snap.live()
	if err != nil {
		return "", err
	}
	p, err := tree.DevfsPath(n.id)
	if err != nil {
		return "", pkg.NewOpError("di_devfs_path", pkg.ErrResolve, err)
	}
	return p, nil
}

// Props returns a walk over the properties of the node.
func (n Node) Props() *PropertyWalk {
	return &PropertyWalk{snap: n.snap, node: n.id}
}

// Minors returns a walk over the minor nodes of the node.
func (n Node) Minors() *MinorWalk {
	return &MinorWalk{snap: n.snap, node: n.id}
}

// StringProps returns the value of every single-valued string property of
// the node, keyed by property name. Properties with no value or several
// values are left out, as are those that cannot be read or are not valid
// UTF-8. A later property with a duplicate name replaces an earlier one.
func (n Node) StringProps() map[string]string {
	out := make(map[string]string)
	w := n.Props()
	for {
		p, err := w.Next()
		if err != nil {
			return out
		}
		if p.Type() != PropString {
			continue
		}
		if vals, ok := p.StringValues(); ok && len(vals) == 1 {
			out[p.Name()] = vals[0]
		}
	}
}
