//go:build illumos && cgo

package illumos

/*
#cgo LDFLAGS: -ldevinfo
#include <stdlib.h>
#include <libdevinfo.h>
*/
import "C"

import (
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// instanceMap is an open di_dim handle.
type instanceMap struct {
	dim C.di_dim_t
}

var _ hal.InstanceMap = (*instanceMap)(nil)

// OpenInstanceMap calls di_dim_init.
func (System) OpenInstanceMap() (hal.InstanceMap, error) {
	dim, err := C.di_dim_init()
	if dim == nil {
		return nil, errnoOr(err, unix.ENOMEM)
	}

	pkg.LogDebug(pkg.ComponentProvider, "di_dim_init")
	return &instanceMap{dim: dim}, nil
}

// PathDev calls di_dim_path_dev, the lookup behind iostat -n.
func (m *instanceMap) PathDev(driver string, instance int, minor string) (string, bool) {
	if strings.IndexByte(driver, 0) >= 0 || strings.IndexByte(minor, 0) >= 0 {
		return "", false
	}
	cdrv := C.CString(driver)
	defer C.free(unsafe.Pointer(cdrv))
	cmin := C.CString(minor)
	defer C.free(unsafe.Pointer(cmin))

	p := C.di_dim_path_dev(m.dim, cdrv, C.int(instance), cmin)
	if p == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(p))

	s := C.GoString(p)
	if !utf8.ValidString(s) {
		return "", false
	}
	return s, true
}

// Close calls di_dim_fini. The core guarantees it is called once.
func (m *instanceMap) Close() error {
	C.di_dim_fini(m.dim)
	m.dim = nil
	return nil
}
