package memory

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
)

// Node fault names.
const (
	FaultChild      = "child"
	FaultSibling    = "sibling"
	FaultParent     = "parent"
	FaultDevfs      = "devfs"
	FaultProps      = "props"
	FaultMinors     = "minors"
	FaultDriverNext = "driver_next"
)

type memNode struct {
	spec    *NodeSpec
	path    string
	parent  hal.NodeID
	child   hal.NodeID
	sibling hal.NodeID
	drvNext hal.NodeID
	props   []hal.PropID
	minors  []hal.MinorID
	faults  map[string]bool
}

type memProp struct {
	spec *PropSpec
	typ  int
}

type memMinor struct {
	spec     *MinorSpec
	specType uint32
	path     string
}

// tree is one capture of a fixture. IDs are 1-based indexes.
type tree struct {
	sys     *System
	nodes   []memNode
	props   []memProp
	minors  []memMinor
	drivers map[string]hal.NodeID
	closed  bool
	subtree bool
}

var _ hal.Tree = (*tree)(nil)

// OpenTree captures the subtree at the physical path root.
func (s *System) OpenTree(root string, _ uint) (hal.Tree, error) {
	if s.OpenTreeErr != nil {
		return nil, s.OpenTreeErr
	}

	spec, path := &s.fixture.Root, "/"
	if root != "/" {
		spec = findNode(spec, path, root)
		if spec == nil {
			return nil, unix.ENXIO
		}
		path = root
	}

	t, err := compile(s, spec, path)
	if err != nil {
		return nil, err
	}
	s.open(HandleTree)
	return t, nil
}

func childPath(parent string, spec *NodeSpec) string {
	name := spec.Name
	if spec.Addr != "" {
		name += "@" + spec.Addr
	}
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

func findNode(spec *NodeSpec, path, want string) *NodeSpec {
	if path == want {
		return spec
	}
	for i := range spec.Children {
		c := &spec.Children[i]
		if found := findNode(c, childPath(path, c), want); found != nil {
			return found
		}
	}
	return nil
}

// compile flattens the subtree at spec in pre-order.
func compile(sys *System, spec *NodeSpec, path string) (*tree, error) {
	t := &tree{sys: sys, drivers: make(map[string]hal.NodeID), subtree: path != "/"}
	last := make(map[string]hal.NodeID)
	if _, err := t.add(spec, path, hal.NilNode, last); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *tree) add(spec *NodeSpec, path string, parent hal.NodeID, last map[string]hal.NodeID) (hal.NodeID, error) {
	t.nodes = append(t.nodes, memNode{
		spec:   spec,
		path:   path,
		parent: parent,
		faults: make(map[string]bool),
	})
	id := hal.NodeID(len(t.nodes))
	n := &t.nodes[id-1]

	for _, f := range spec.Faults {
		n.faults[f] = true
	}

	if spec.Driver != "" {
		if prev, ok := last[spec.Driver]; ok {
			t.nodes[prev-1].drvNext = id
		} else {
			t.drivers[spec.Driver] = id
		}
		last[spec.Driver] = id
	}

	for i := range spec.Props {
		p := &spec.Props[i]
		typ, err := parsePropType(p.Type)
		if err != nil {
			return hal.NilNode, fmt.Errorf("%s: %w", path, err)
		}
		t.props = append(t.props, memProp{spec: p, typ: typ})
		n.props = append(n.props, hal.PropID(len(t.props)))
	}

	for i := range spec.Minors {
		m := &spec.Minors[i]
		st, err := parseSpecType(m.SpecType)
		if err != nil {
			return hal.NilNode, fmt.Errorf("%s: %w", path, err)
		}
		t.minors = append(t.minors, memMinor{spec: m, specType: st, path: path + ":" + m.Name})
		n.minors = append(n.minors, hal.MinorID(len(t.minors)))
	}

	var prev hal.NodeID
	for i := range spec.Children {
		c := &spec.Children[i]
		cid, err := t.add(c, childPath(path, c), id, last)
		if err != nil {
			return hal.NilNode, err
		}
		// Appending may have moved the slice; index afresh.
		if prev == hal.NilNode {
			t.nodes[id-1].child = cid
		} else {
			t.nodes[prev-1].sibling = cid
		}
		prev = cid
	}
	return id, nil
}

func (t *tree) node(id hal.NodeID) *memNode {
	if t.closed {
		panic("memory: use of closed tree")
	}
	return &t.nodes[id-1]
}

func (t *tree) fault(id hal.NodeID, op string) error {
	if t.node(id).faults[op] {
		return unix.EIO
	}
	return nil
}

// =============================================================================
// Nodes
// =============================================================================

func (t *tree) Root() hal.NodeID {
	return 1
}

func (t *tree) Child(n hal.NodeID) (hal.NodeID, error) {
	if err := t.fault(n, FaultChild); err != nil {
		return hal.NilNode, err
	}
	return t.node(n).child, nil
}

func (t *tree) Sibling(n hal.NodeID) (hal.NodeID, error) {
	if err := t.fault(n, FaultSibling); err != nil {
		return hal.NilNode, err
	}
	return t.node(n).sibling, nil
}

func (t *tree) Parent(n hal.NodeID) (hal.NodeID, error) {
	if err := t.fault(n, FaultParent); err != nil {
		return hal.NilNode, err
	}
	// libdevinfo cannot climb out of a subtree capture.
	if t.subtree && n == t.Root() {
		return hal.NilNode, unix.ENOTSUP
	}
	return t.node(n).parent, nil
}

func (t *tree) DriverFirst(driver string) (hal.NodeID, error) {
	if t.closed {
		panic("memory: use of closed tree")
	}
	return t.drivers[driver], nil
}

func (t *tree) DriverNext(n hal.NodeID) (hal.NodeID, error) {
	if err := t.fault(n, FaultDriverNext); err != nil {
		return hal.NilNode, err
	}
	return t.node(n).drvNext, nil
}

func (t *tree) NodeName(n hal.NodeID) string {
	return t.node(n).spec.Name
}

func (t *tree) DriverName(n hal.NodeID) (string, bool) {
	d := t.node(n).spec.Driver
	return d, d != ""
}

func (t *tree) Instance(n hal.NodeID) int {
	spec := t.node(n).spec
	if spec.Driver == "" || spec.Instance == nil {
		return hal.NoInstance
	}
	return *spec.Instance
}

func (t *tree) DevfsPath(n hal.NodeID) (string, error) {
	if err := t.fault(n, FaultDevfs); err != nil {
		return "", err
	}
	return t.node(n).path, nil
}

// =============================================================================
// Properties
// =============================================================================

func (t *tree) PropNext(n hal.NodeID, p hal.PropID) (hal.PropID, error) {
	if err := t.fault(n, FaultProps); err != nil {
		return hal.NilProp, err
	}
	return nextID(t.node(n).props, p), nil
}

func (t *tree) prop(p hal.PropID) *memProp {
	if t.closed {
		panic("memory: use of closed tree")
	}
	return &t.props[p-1]
}

func (t *tree) PropName(p hal.PropID) string {
	return t.prop(p).spec.Name
}

func (t *tree) PropType(p hal.PropID) int {
	return t.prop(p).typ
}

// readable mirrors libdevinfo, which rejects a value read of the wrong type
// with EINVAL.
func (t *tree) readable(p hal.PropID, typ int) (*PropSpec, error) {
	mp := t.prop(p)
	if mp.spec.Unreadable || mp.typ != typ {
		return nil, unix.EINVAL
	}
	return mp.spec, nil
}

func (t *tree) PropInts(p hal.PropID) ([]int32, error) {
	spec, err := t.readable(p, hal.PropTypeInt)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(spec.Ints))
	for i, v := range spec.Ints {
		out[i] = int32(v)
	}
	return out, nil
}

func (t *tree) PropInt64s(p hal.PropID) ([]int64, error) {
	spec, err := t.readable(p, hal.PropTypeInt64)
	if err != nil {
		return nil, err
	}
	return append([]int64{}, spec.Ints...), nil
}

func (t *tree) PropStrings(p hal.PropID) ([][]byte, error) {
	spec, err := t.readable(p, hal.PropTypeString)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(spec.Strings))
	for i, s := range spec.Strings {
		out[i] = []byte(s)
	}
	return out, nil
}

func (t *tree) PropBytes(p hal.PropID) ([]byte, error) {
	spec, err := t.readable(p, hal.PropTypeByte)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, spec.Bytes...), nil
}

// =============================================================================
// Minors
// =============================================================================

func (t *tree) MinorNext(n hal.NodeID, m hal.MinorID) (hal.MinorID, error) {
	if err := t.fault(n, FaultMinors); err != nil {
		return hal.NilMinor, err
	}
	return nextID(t.node(n).minors, m), nil
}

func (t *tree) minor(m hal.MinorID) *memMinor {
	if t.closed {
		panic("memory: use of closed tree")
	}
	return &t.minors[m-1]
}

func (t *tree) MinorName(m hal.MinorID) string {
	return t.minor(m).spec.Name
}

func (t *tree) MinorNodeType(m hal.MinorID) string {
	return t.minor(m).spec.NodeType
}

func (t *tree) MinorSpecType(m hal.MinorID) uint32 {
	return t.minor(m).specType
}

func (t *tree) MinorDevfsPath(m hal.MinorID) (string, error) {
	mm := t.minor(m)
	if mm.spec.Unresolvable {
		return "", unix.ENXIO
	}
	return mm.path, nil
}

// Close releases the capture. A second Close is a provider contract
// violation and panics.
func (t *tree) Close() error {
	if t.closed {
		panic("memory: tree closed twice")
	}
	t.closed = true
	if t.sys != nil {
		t.sys.close(HandleTree)
	}
	return nil
}

// nextID returns the element after cur in ids, the first element when cur
// is zero, or zero at the end.
func nextID[T ~uintptr](ids []T, cur T) T {
	if cur == 0 {
		if len(ids) == 0 {
			return 0
		}
		return ids[0]
	}
	for i, id := range ids {
		if id == cur && i+1 < len(ids) {
			return ids[i+1]
		}
	}
	return 0
}
