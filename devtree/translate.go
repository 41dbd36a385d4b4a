package devtree

import (
	"math"
	"strings"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// Disk naming.
const (
	// DiskPathPrefix is stripped from a block device path to form the
	// public disk name.
	DiskPathPrefix = "/dev/dsk/"

	// MinorWholeDisk is the minor name of the whole-disk device on disks
	// with an EFI label.
	MinorWholeDisk = "wd"

	// MinorLegacySlice is the minor name of slice 0 on disks without a
	// whole-disk minor.
	MinorLegacySlice = "a"

	// SliceSuffix is the slice 0 suffix removed from resolved disk names.
	SliceSuffix = "s0"
)

// diskMinors lists the candidate minors of LookupDiskName in order.
var diskMinors = [...]string{MinorWholeDisk, MinorLegacySlice}

// Translator maps driver instances to public device paths without a
// snapshot. Its lifetime is independent of any [Snapshot] or [DevLinks].
type Translator struct {
	m hal.InstanceMap // nil once released
}

// OpenTranslator opens a lookup context using [DefaultSystem].
func OpenTranslator() (*Translator, error) {
	return NewTranslator(DefaultSystem())
}

// NewTranslator opens a lookup context from sys.
func NewTranslator(sys hal.System) (*Translator, error) {
	m, err := sys.OpenInstanceMap()
	if err != nil {
		return nil, pkg.NewOpError("di_dim_init", pkg.ErrInit, err)
	}
	pkg.LogDebug(pkg.ComponentTranslate, "instance map opened")
	return &Translator{m: m}, nil
}

// Close releases the lookup context. Only the first call reaches the
// provider; later calls return [pkg.ErrReleased].
func (t *Translator) Close() error {
	if t == nil || t.m == nil {
		return pkg.ErrReleased
	}
	m := t.m
	t.m = nil

	pkg.LogDebug(pkg.ComponentTranslate, "instance map released")
	return m.Close()
}

// LookupDev returns the primary /dev path of a minor of a driver instance;
// e.g. driver "blkdev", instance 0, minor "wd" might map to
// "/dev/dsk/c1t0025385C9150D623d0". It reports false if there is no such
// path. It panics with [pkg.ErrReleased] after Close.
func (t *Translator) LookupDev(driver string, instance uint32, minor string) (string, bool) {
	if t == nil || t.m == nil {
		panic(pkg.ErrReleased)
	}
	if instance > math.MaxInt32 || hasNUL(driver) || hasNUL(minor) {
		return "", false
	}
	return t.m.PathDev(driver, int(instance), minor)
}

// LookupDiskName returns the public name of a disk driver instance; e.g.
// driver "blkdev", instance 0 might map to "c1t0025385C9150D623d0". This is
// the translation iostat -n performs.
//
// The whole-disk minor is tried first, then slice 0. A path without the
// /dev/dsk/ prefix is not a mapping. A trailing slice 0 suffix is removed
// whichever minor resolved. It reports false if no candidate resolves.
func (t *Translator) LookupDiskName(driver string, instance uint32) (string, bool) {
	for _, minor := range diskMinors {
		p, ok := t.LookupDev(driver, instance, minor)
		if !ok {
			continue
		}

		name, ok := strings.CutPrefix(p, DiskPathPrefix)
		if !ok {
			pkg.LogDebug(pkg.ComponentTranslate, "unexpected disk path",
				"driver", driver,
				"instance", instance,
				"path", p)
			continue
		}

		return strings.TrimSuffix(name, SliceSuffix), true
	}
	return "", false
}

func hasNUL(s string) bool {
	return strings.IndexByte(s, 0) >= 0
}
