//go:build illumos && cgo

package illumos

import (
	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
)

// System is the libdevinfo provider. The zero value is ready to use.
type System struct{}

var _ hal.System = System{}

// errnoOr returns err, or fallback when the library failed without setting
// errno.
func errnoOr(err error, fallback unix.Errno) error {
	if err == nil {
		return fallback
	}
	return err
}

// absent reports whether a nil handle returned with err means "no such
// item" rather than a failure. libdevinfo sets ENXIO at the end of a list.
func absent(err error) bool {
	return err == nil || err == unix.ENXIO
}
