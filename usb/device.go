package usb

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ardnew/devinfo/devtree"
	"github.com/ardnew/devinfo/pkg"
)

// Property names published by the USB framework.
const (
	PropVendorID    = "usb-vendor-id"
	PropProductID   = "usb-product-id"
	PropVendorName  = "usb-vendor-name"
	PropProductName = "usb-product-name"
	PropSerial      = "usb-serialno"
)

// DefaultExcludedDrivers lists the drivers whose nodes [Scan] skips by
// default.
var DefaultExcludedDrivers = []string{"hubd"}

// Device is the identity of one USB device node.
type Device struct {
	Path        string // devfs path of the node
	Driver      string // bound driver, or "" if none
	VendorID    uint16
	ProductID   uint16
	VendorName  string // "" if unknown
	ProductName string // "" if unknown
	Serial      string // "" if the device has no serial number
}

// ID returns the vendor and product IDs as "vvvv,pppp".
func (d Device) ID() string {
	return fmt.Sprintf("%4x,%4x", d.VendorID, d.ProductID)
}

// Matches reports whether d has the given identity.
func (d Device) Matches(vid, pid uint16, serial string) bool {
	return d.VendorID == vid && d.ProductID == pid && d.Serial == serial
}

// Names resolves vendor and product names from numeric IDs. It is satisfied
// by *usbid.Database.
type Names interface {
	Vendor(vid uint16) (string, bool)
	Product(vid, pid uint16) (string, bool)
}

// Option configures [FromNode] and [Scan].
type Option func(*options)

type options struct {
	names   Names
	exclude []string
}

// WithNames fills names missing from a node's properties from db.
func WithNames(db Names) Option {
	return func(o *options) {
		o.names = db
	}
}

// WithExcludedDrivers replaces [DefaultExcludedDrivers]. With no arguments
// no node is skipped.
func WithExcludedDrivers(drivers ...string) Option {
	return func(o *options) {
		o.exclude = drivers
	}
}

func newOptions(opts []Option) options {
	o := options{exclude: DefaultExcludedDrivers}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FromNode extracts the USB identity of n. The second result is false if n
// lacks either ID property or an ID is outside the 16-bit range. Name
// properties that are absent or not valid UTF-8 are left empty unless a
// [Names] source supplies them.
func FromNode(n devtree.Node, opts ...Option) (Device, bool, error) {
	o := newOptions(opts)
	return fromNode(n, &o)
}

func fromNode(n devtree.Node, o *options) (Device, bool, error) {
	var (
		d        Device
		vid, pid int32
		haveVID  bool
		havePID  bool
	)

	w := n.Props()
	for {
		p, err := w.Next()
		if errors.Is(err, devtree.Done) {
			break
		}
		if err != nil {
			return Device{}, false, err
		}

		switch p.Name() {
		case PropVendorID:
			vid, haveVID = p.Int32()
		case PropProductID:
			pid, havePID = p.Int32()
		case PropVendorName:
			d.VendorName, _ = p.StringValue()
		case PropProductName:
			d.ProductName, _ = p.StringValue()
		case PropSerial:
			d.Serial, _ = p.StringValue()
		}
	}

	if !haveVID || !havePID {
		return Device{}, false, nil
	}
	if !validID(vid) || !validID(pid) {
		pkg.LogWarn(pkg.ComponentUSB, "usb id out of range",
			"node", n.Name(),
			"vendor", vid,
			"product", pid)
		return Device{}, false, nil
	}
	d.VendorID, d.ProductID = uint16(vid), uint16(pid)

	path, err := n.DevfsPath()
	if err != nil {
		return Device{}, false, err
	}
	d.Path = path
	d.Driver, _ = n.DriverName()

	if o.names != nil {
		if d.VendorName == "" {
			d.VendorName, _ = o.names.Vendor(d.VendorID)
		}
		if d.ProductName == "" {
			d.ProductName, _ = o.names.Product(d.VendorID, d.ProductID)
		}
	}
	return d, true, nil
}

func validID(v int32) bool {
	return v >= 0 && v <= 0xffff
}

// Scan returns the USB devices in snap in walk order. Nodes bound to an
// excluded driver are skipped. Step errors of the node walk are returned
// immediately.
func Scan(snap *devtree.Snapshot, opts ...Option) ([]Device, error) {
	o := newOptions(opts)

	var devices []Device
	for n, err := range snap.WalkNodes().All() {
		if err != nil {
			return nil, err
		}
		if drv, ok := n.DriverName(); ok && slices.Contains(o.exclude, drv) {
			continue
		}
		d, ok, err := fromNode(n, &o)
		if err != nil {
			return nil, err
		}
		if ok {
			devices = append(devices, d)
		}
	}

	pkg.LogDebug(pkg.ComponentUSB, "usb scan complete", "devices", len(devices))
	return devices, nil
}

// Display returns s with surrounding whitespace removed, or "-" if empty.
// Descriptor strings are often padded with spaces.
func Display(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}
