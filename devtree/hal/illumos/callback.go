//go:build illumos && cgo

package illumos

// This file exports Go functions to C, so its preamble may hold
// declarations only.

/*
#include <stdint.h>
#include <string.h>
#include <libdevinfo.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/ardnew/devinfo/devtree/hal"
)

//export devinfoVisitLink
func devinfoVisitLink(link C.di_devlink_t, arg C.uintptr_t) (rc C.int) {
	w := cgo.Handle(arg).Value().(*linkWalk)

	defer func() {
		if r := recover(); r != nil {
			w.fault = r
			rc = C.DI_WALK_TERMINATE
		}
	}()

	w.visit(readLink(link))
	return C.DI_WALK_CONTINUE
}

// readLink copies one link out of libdevinfo. Fields that cannot be read are
// left nil, and a type that cannot be read is hal.LinkTypeError.
func readLink(link C.di_devlink_t) hal.RawLink {
	raw := hal.RawLink{Type: int(C.di_devlink_type(link))}
	if p := C.di_devlink_path(link); p != nil {
		raw.Path = C.GoBytes(unsafe.Pointer(p), C.int(C.strlen(p)))
	}
	if c := C.di_devlink_content(link); c != nil {
		raw.Target = C.GoBytes(unsafe.Pointer(c), C.int(C.strlen(c)))
	}
	return raw
}
