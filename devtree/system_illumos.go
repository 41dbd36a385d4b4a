//go:build illumos && cgo

package devtree

import (
	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/devtree/hal/illumos"
)

// DefaultSystem returns the libdevinfo provider.
func DefaultSystem() hal.System {
	return illumos.System{}
}
