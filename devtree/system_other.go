//go:build !(illumos && cgo)

package devtree

import (
	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// DefaultSystem returns a provider whose handles all fail with
// [pkg.ErrNotSupported]; the live device tree exists only on illumos.
func DefaultSystem() hal.System {
	return unsupportedSystem{}
}

type unsupportedSystem struct{}

func (unsupportedSystem) OpenTree(string, uint) (hal.Tree, error) {
	return nil, pkg.ErrNotSupported
}

func (unsupportedSystem) OpenLinkDB(bool) (hal.LinkDB, error) {
	return nil, pkg.ErrNotSupported
}

func (unsupportedSystem) OpenInstanceMap() (hal.InstanceMap, error) {
	return nil, pkg.ErrNotSupported
}
