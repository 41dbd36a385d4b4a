package hal

// NodeID is an opaque handle to a device tree node. Zero is the nil node.
type NodeID uintptr

// PropID is an opaque handle to a node property. Zero is the nil property.
type PropID uintptr

// MinorID is an opaque handle to a minor node. Zero is the nil minor.
type MinorID uintptr

// Nil handles.
const (
	NilNode  NodeID  = 0
	NilProp  PropID  = 0
	NilMinor MinorID = 0
)

// NoInstance is the raw instance number of a node with no driver bound.
const NoInstance = -1

// Property type codes, matching DI_PROP_TYPE_* in libdevinfo.
const (
	PropTypeBoolean   = 0
	PropTypeInt       = 1
	PropTypeString    = 2
	PropTypeByte      = 3
	PropTypeUnknown   = 4
	PropTypeUndefined = 5
	PropTypeInt64     = 6
)

// Link type codes, matching DI_PRIMARY_LINK and DI_SECONDARY_LINK.
// LinkTypeError is reported when the type could not be read.
const (
	LinkTypeError     = -1
	LinkTypePrimary   = 0x01
	LinkTypeSecondary = 0x02
)

// Tree flags.
const (
	// ForceLoad asks the provider to attach all drivers before capturing
	// the tree. Requires privilege.
	ForceLoad uint = 1 << iota
)

// System opens the three independent handles a provider offers.
type System interface {
	// OpenTree captures the device tree rooted at the physical path root.
	OpenTree(root string, flags uint) (Tree, error)

	// OpenLinkDB opens the device-link database. If makeLinks is set, the
	// provider creates missing links as a side effect.
	OpenLinkDB(makeLinks bool) (LinkDB, error)

	// OpenInstanceMap opens a driver/instance to path lookup context.
	OpenInstanceMap() (InstanceMap, error)
}

// Tree is one captured device tree. All methods answer a single step; a nil
// handle with a nil error means "none". Errors are provider failures.
type Tree interface {
	// Root returns the root node of the capture.
	Root() NodeID

	// Child returns the first child of n.
	Child(n NodeID) (NodeID, error)

	// Sibling returns the next sibling of n.
	Sibling(n NodeID) (NodeID, error)

	// Parent returns the parent of n, or NilNode with a nil error at the root
	// of a full capture. At the root of a subtree capture it fails with
	// ENOTSUP.
	Parent(n NodeID) (NodeID, error)

	// DriverFirst returns the first node bound to driver.
	DriverFirst(driver string) (NodeID, error)

	// DriverNext returns the next node bound to the same driver as n.
	DriverNext(n NodeID) (NodeID, error)

	// NodeName returns the node name of n.
	NodeName(n NodeID) string

	// DriverName returns the bound driver of n, if any.
	DriverName(n NodeID) (string, bool)

	// Instance returns the raw instance number of n, or NoInstance.
	Instance(n NodeID) int

	// DevfsPath returns the device-filesystem path of n.
	DevfsPath(n NodeID) (string, error)

	// PropNext returns the property following p on n. NilProp starts the list.
	PropNext(n NodeID, p PropID) (PropID, error)

	// PropName returns the name of p.
	PropName(p PropID) string

	// PropType returns the raw type code of p.
	PropType(p PropID) int

	// PropInts returns the 32-bit integer values of p.
	PropInts(p PropID) ([]int32, error)

	// PropInt64s returns the 64-bit integer values of p.
	PropInt64s(p PropID) ([]int64, error)

	// PropStrings returns the string values of p as raw bytes, one slice
	// per string without the terminator.
	PropStrings(p PropID) ([][]byte, error)

	// PropBytes returns the byte array value of p.
	PropBytes(p PropID) ([]byte, error)

	// MinorNext returns the minor following m on n. NilMinor starts the list.
	MinorNext(n NodeID, m MinorID) (MinorID, error)

	// MinorName returns the name of m.
	MinorName(m MinorID) string

	// MinorNodeType returns the node type string of m.
	MinorNodeType(m MinorID) string

	// MinorSpecType returns the raw file mode spec type of m.
	MinorSpecType(m MinorID) uint32

	// MinorDevfsPath returns the device-filesystem path of m.
	MinorDevfsPath(m MinorID) (string, error)

	// Close releases the capture.
	Close() error
}

// RawLink is one device link as reported by a LinkDB walk. Path and Target
// are nil when the provider could not read them.
type RawLink struct {
	Path   []byte
	Target []byte
	Type   int
}

// LinkDB is an open device-link database.
type LinkDB interface {
	// Walk calls visit once for every link pointing at the minor path.
	Walk(minorPath string, visit func(RawLink)) error

	// Close releases the database handle.
	Close() error
}

// InstanceMap translates driver instances to device paths.
type InstanceMap interface {
	// PathDev returns the /dev path for the driver, instance, and minor.
	PathDev(driver string, instance int, minor string) (string, bool)

	// Close releases the lookup context.
	Close() error
}
