package devtree

import (
	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// LinkType classifies a device link.
type LinkType uint8

// Link types.
const (
	LinkPrimary   LinkType = iota + 1 // The canonical /dev name
	LinkSecondary                     // An alias of a primary link
)

// String returns "primary" or "secondary".
func (t LinkType) String() string {
	switch t {
	case LinkPrimary:
		return "primary"
	case LinkSecondary:
		return "secondary"
	default:
		return "invalid"
	}
}

// decodeLinkType panics with a *pkg.IntegrityError on any type code other
// than primary or secondary.
func decodeLinkType(raw int) LinkType {
	switch raw {
	case hal.LinkTypePrimary:
		return LinkPrimary
	case hal.LinkTypeSecondary:
		return LinkSecondary
	default:
		panic(&pkg.IntegrityError{What: "link type", Raw: int64(raw)})
	}
}

// DevLink is one symbolic link in /dev. It is an owned value and remains
// valid after the [DevLinks] handle that produced it is closed.
type DevLink struct {
	Path   string   // Link path, e.g. "/dev/rdsk/c1t0d0"
	Target string   // Link content, e.g. "../../devices/pci@0,0/...:a,raw"
	Type   LinkType // Primary or secondary
}

// LinkOption configures a [DevLinks] handle.
type LinkOption func(*linkOptions)

type linkOptions struct {
	makeLinks bool
}

// WithMakeLinks asks the link database to create missing links while it is
// opened. This is a privileged operation.
func WithMakeLinks() LinkOption {
	return func(o *linkOptions) {
		o.makeLinks = true
	}
}

// DevLinks is an open handle on the device-link database. Its lifetime is
// independent of any [Snapshot].
type DevLinks struct {
	db hal.LinkDB // nil once released
}

// OpenDevLinks opens the device-link database using [DefaultSystem].
func OpenDevLinks(opts ...LinkOption) (*DevLinks, error) {
	return NewDevLinks(DefaultSystem(), opts...)
}

// NewDevLinks opens the device-link database from sys.
func NewDevLinks(sys hal.System, opts ...LinkOption) (*DevLinks, error) {
	var o linkOptions
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sys.OpenLinkDB(o.makeLinks)
	if err != nil {
		return nil, pkg.NewOpError("di_devlink_init", pkg.ErrInit, err)
	}

	pkg.LogDebug(pkg.ComponentDevLink, "link database opened", "make_links", o.makeLinks)
	return &DevLinks{db: db}, nil
}

// Close releases the handle. Only the first call reaches the provider;
// later calls return [pkg.ErrReleased].
func (d *DevLinks) Close() error {
	if d == nil || d.db == nil {
		return pkg.ErrReleased
	}
	db := d.db
	d.db = nil

	pkg.LogDebug(pkg.ComponentDevLink, "link database released")
	return db.Close()
}

// LinksForPath returns every link that points at the device-filesystem path
// of a minor node, as returned by [Minor.DevfsPath]. A path with no links
// yields an empty slice.
//
// Links whose path, target, or type cannot be read are skipped. If the
// enumeration itself fails, the links gathered so far are discarded and a
// walk error is returned.
func (d *DevLinks) LinksForPath(path string) ([]DevLink, error) {
	if d == nil || d.db == nil {
		return nil, pkg.ErrReleased
	}

	acc := newLinkAccumulator(path)
	if err := d.db.Walk(path, acc.add); err != nil {
		pkg.LogError(pkg.ComponentDevLink, "link walk failed",
			"path", path,
			"discarded", len(acc.links),
			"error", err)
		return nil, pkg.NewOpError("di_devlink_walk", pkg.ErrWalk, err)
	}

	pkg.LogDebug(pkg.ComponentDevLink, "links resolved",
		"path", path,
		"links", len(acc.links),
		"skipped", acc.skipped)
	return acc.links, nil
}

// linkAccumulator collects links pushed by a provider walk.
type linkAccumulator struct {
	path    string
	links   []DevLink
	skipped int
}

func newLinkAccumulator(path string) *linkAccumulator {
	return &linkAccumulator{path: path, links: []DevLink{}}
}

func (a *linkAccumulator) add(raw hal.RawLink) {
	if raw.Path == nil || raw.Target == nil || raw.Type == hal.LinkTypeError {
		a.skipped++
		pkg.LogWarn(pkg.ComponentDevLink, "skipping unreadable link",
			"path", a.path,
			"link", string(raw.Path),
			"type", raw.Type)
		return
	}

	a.links = append(a.links, DevLink{
		Path:   string(raw.Path),
		Target: string(raw.Target),
		Type:   decodeLinkType(raw.Type),
	})
}
