// Package illumos provides the device tree provider for illumos, a cgo
// binding to libdevinfo(3LIB).
//
// Three independent handles are exposed through [System]:
//
//   - a tree capture from di_init(3DEVINFO), released with di_fini
//   - the device-link database from di_devlink_init(3DEVINFO)
//   - an instance map from the private di_dim interfaces, which translate a
//     driver instance and minor name into a /dev path
//
// # Requirements
//
// The package is built only with cgo on illumos and links against
// libdevinfo. Capturing with [hal.ForceLoad] and opening the link database
// with links creation enabled both require privilege.
//
// # Callbacks
//
// di_devlink_walk pushes each link to a C callback. The Go visitor crosses
// the boundary as a [runtime/cgo.Handle] passed in the opaque argument; the
// handle is deleted as soon as the walk returns, whatever its outcome. A
// panic raised by the visitor is recovered in the callback, the walk is
// terminated, and the panic is raised again once control is back in Go.
package illumos
