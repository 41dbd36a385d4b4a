//go:build illumos && cgo

package illumos

/*
#cgo LDFLAGS: -ldevinfo
#include <stdint.h>
#include <stdlib.h>
#include <libdevinfo.h>

extern int devinfoVisitLink(di_devlink_t, uintptr_t);

static int
visit_link(di_devlink_t link, void *arg)
{
	return (devinfoVisitLink(link, (uintptr_t)arg));
}

static int
walk_links(di_devlink_handle_t h, const char *minor_path, uintptr_t arg)
{
	return (di_devlink_walk(h, NULL, minor_path, 0, (void *)arg,
	    visit_link));
}
*/
import "C"

import (
	"runtime/cgo"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// linkDB is an open di_devlink handle.
type linkDB struct {
	h C.di_devlink_handle_t
}

var _ hal.LinkDB = (*linkDB)(nil)

// OpenLinkDB opens the link database, with DI_MAKE_LINK if makeLinks is set.
func (System) OpenLinkDB(makeLinks bool) (hal.LinkDB, error) {
	var flags C.uint_t
	if makeLinks {
		flags |= C.DI_MAKE_LINK
	}

	h, err := C.di_devlink_init(nil, flags)
	if h == nil {
		return nil, errnoOr(err, unix.EINVAL)
	}

	pkg.LogDebug(pkg.ComponentProvider, "di_devlink_init", "make_links", makeLinks)
	return &linkDB{h: h}, nil
}

// linkWalk is the state handed to devinfoVisitLink for one walk.
type linkWalk struct {
	visit func(hal.RawLink)
	fault any // panic recovered from visit
}

// Walk enumerates the links of minorPath. The visitor crosses into C as a
// cgo.Handle that is deleted when Walk returns.
func (d *linkDB) Walk(minorPath string, visit func(hal.RawLink)) error {
	if strings.IndexByte(minorPath, 0) >= 0 {
		return unix.EINVAL
	}
	cpath := C.CString(minorPath)
	defer C.free(unsafe.Pointer(cpath))

	w := &linkWalk{visit: visit}
	h := cgo.NewHandle(w)
	defer h.Delete()

	r, err := C.walk_links(d.h, cpath, C.uintptr_t(h))
	if w.fault != nil {
		panic(w.fault)
	}
	if r != 0 {
		return errnoOr(err, unix.EIO)
	}
	return nil
}

// Close calls di_devlink_fini. The core guarantees it is called once.
func (d *linkDB) Close() error {
	r, err := C.di_devlink_fini(&d.h)
	if r != 0 {
		return errnoOr(err, unix.EIO)
	}
	return nil
}
