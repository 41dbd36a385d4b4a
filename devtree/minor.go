package devtree

import (
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// Block device node types. Disks carry NodeTypeBlock or a subtype of it with
// a suffix after the colon, e.g. "ddi_block:channel".
const (
	NodeTypeBlock       = "ddi_block"
	NodeTypeBlockPrefix = NodeTypeBlock + ":"
)

// SpecType classifies a minor node as character or block access.
type SpecType uint8

// Spec types.
const (
	SpecChar SpecType = iota + 1
	SpecBlock
)

// String returns "char" or "block".
func (t SpecType) String() string {
	switch t {
	case SpecChar:
		return "char"
	case SpecBlock:
		return "block"
	default:
		return "invalid"
	}
}

// decodeSpecType panics with a *pkg.IntegrityError on anything other than
// S_IFCHR or S_IFBLK.
func decodeSpecType(raw uint32) SpecType {
	switch raw {
	case unix.S_IFCHR:
		return SpecChar
	case unix.S_IFBLK:
		return SpecBlock
	default:
		panic(&pkg.IntegrityError{What: "spec type", Raw: int64(raw)})
	}
}

// =============================================================================
// Minor Walk
// =============================================================================

// MinorWalk visits the minor nodes of one node in native order.
type MinorWalk struct {
	snap  *Snapshot
	node  hal.NodeID
	minor hal.MinorID
	done  bool
}

// Next returns the next minor node, or [Done].
func (w *MinorWalk) Next() (Minor, error) {
	tree, err := w.snap.live()
	if err != nil {
		return Minor{}, err
	}
	if w.done {
		return Minor{}, Done
	}

	m, err := tree.MinorNext(w.node, w.minor)
	if err != nil {
		w.done = true
		return Minor{}, stepError("di_minor_next", err)
	}
	if m == hal.NilMinor {
		w.done = true
		return Minor{}, Done
	}
	w.minor = m
	return Minor{snap: w.snap, id: m}, nil
}

// =============================================================================
// Minor
// =============================================================================

// Minor is a view of one device special file exposed by a node.
type Minor struct {
	snap *Snapshot
	id   hal.MinorID
}

// Name returns the minor name, e.g. "a" or "wd,raw".
func (m Minor) Name() string {
	return m.snap.mustTree().MinorName(m.id)
}

// NodeType returns the node type string, e.g. "ddi_block:channel".
func (m Minor) NodeType() string {
	return m.snap.mustTree().MinorNodeType(m.id)
}

// SpecType returns the access classification of the minor. It panics with a
// *pkg.IntegrityError if the provider reports neither character nor block.
func (m Minor) SpecType() SpecType {
	return decodeSpecType(m.snap.mustTree().MinorSpecType(m.id))
}

// DevfsPath returns the device-filesystem path of the minor, e.g.
// "/pci@0,0/pci1022,1483@1,1/pci1344,3100@0/blkdev@w00A0750130082207,0:a".
// Placeholder nodes have no path; this is reported as a resolution error.
func (m Minor) DevfsPath() (string, error) {
	tree, err := m.snap.live()
	if err != nil {
		return "", err
	}
	p, err := tree.MinorDevfsPath(m.id)
	if err != nil {
		return "", pkg.NewOpError("di_devfs_minor_path", pkg.ErrResolve, err)
	}
	return p, nil
}

// IsBlockNodeType reports whether the minor's node type is the block device
// type or one of its subtypes.
func (m Minor) IsBlockNodeType() bool {
	nt := m.NodeType()
	return nt == NodeTypeBlock || strings.HasPrefix(nt, NodeTypeBlockPrefix)
}

// IsRawDisk reports whether the minor is the raw (character) device of a
// disk.
func (m Minor) IsRawDisk() bool {
	return m.IsBlockNodeType() && m.SpecType() == SpecChar
}
