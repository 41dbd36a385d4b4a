//go:build illumos && cgo

package illumos

/*
#cgo LDFLAGS: -ldevinfo
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
#include <sys/types.h>
#include <sys/stat.h>
#include <libdevinfo.h>
#include <sys/devinfo_impl.h>

static di_node_t
node_ptr(uintptr_t v)
{
	return ((di_node_t)v);
}

static di_prop_t
prop_ptr(uintptr_t v)
{
	return ((di_prop_t)v);
}

static di_minor_t
minor_ptr(uintptr_t v)
{
	return ((di_minor_t)v);
}
*/
import "C"

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/pkg"
)

// tree is one di_init capture.
type tree struct {
	root C.di_node_t
}

var _ hal.Tree = (*tree)(nil)

// OpenTree captures the tree with DINFOCPYALL, adding DINFOFORCE when
// hal.ForceLoad is set.
func (System) OpenTree(root string, flags uint) (hal.Tree, error) {
	if strings.IndexByte(root, 0) >= 0 {
		return nil, unix.EINVAL
	}
	croot := C.CString(root)
	defer C.free(unsafe.Pointer(croot))

	f := C.uint_t(C.DINFOCPYALL)
	if flags&hal.ForceLoad != 0 {
		f |= C.DINFOFORCE
	}

	n, err := C.di_init(croot, f)
	if n == nil {
		return nil, errnoOr(err, unix.EINVAL)
	}

	pkg.LogDebug(pkg.ComponentProvider, "di_init", "root", root, "flags", uint(f))
	return &tree{root: n}, nil
}

func nodeID(n C.di_node_t) hal.NodeID {
	return hal.NodeID(uintptr(unsafe.Pointer(n)))
}

func node(id hal.NodeID) C.di_node_t {
	return C.node_ptr(C.uintptr_t(id))
}

func prop(id hal.PropID) C.di_prop_t {
	return C.prop_ptr(C.uintptr_t(id))
}

func minor(id hal.MinorID) C.di_minor_t {
	return C.minor_ptr(C.uintptr_t(id))
}

func nodeResult(n C.di_node_t, err error) (hal.NodeID, error) {
	if n != nil {
		return nodeID(n), nil
	}
	if absent(err) {
		return hal.NilNode, nil
	}
	return hal.NilNode, err
}

// goBytes copies a NUL-terminated C string, excluding the terminator.
func goBytes(s *C.char) []byte {
	return C.GoBytes(unsafe.Pointer(s), C.int(C.strlen(s)))
}

// =============================================================================
// Nodes
// =============================================================================

func (t *tree) Root() hal.NodeID {
	return nodeID(t.root)
}

func (t *tree) Child(n hal.NodeID) (hal.NodeID, error) {
	c, err := C.di_child_node(node(n))
	return nodeResult(c, err)
}

func (t *tree) Sibling(n hal.NodeID) (hal.NodeID, error) {
	s, err := C.di_sibling_node(node(n))
	return nodeResult(s, err)
}

func (t *tree) Parent(n hal.NodeID) (hal.NodeID, error) {
	p, err := C.di_parent_node(node(n))
	return nodeResult(p, err)
}

func (t *tree) DriverFirst(driver string) (hal.NodeID, error) {
	if strings.IndexByte(driver, 0) >= 0 {
		return hal.NilNode, nil
	}
	cdrv := C.CString(driver)
	defer C.free(unsafe.Pointer(cdrv))

	n, err := C.di_drv_first_node(cdrv, t.root)
	return nodeResult(n, err)
}

func (t *tree) DriverNext(n hal.NodeID) (hal.NodeID, error) {
	next, err := C.di_drv_next_node(node(n))
	return nodeResult(next, err)
}

func (t *tree) NodeName(n hal.NodeID) string {
	return C.GoString(C.di_node_name(node(n)))
}

func (t *tree) DriverName(n hal.NodeID) (string, bool) {
	d := C.di_driver_name(node(n))
	if d == nil {
		return "", false
	}
	return C.GoString(d), true
}

func (t *tree) Instance(n hal.NodeID) int {
	return int(C.di_instance(node(n)))
}

func (t *tree) DevfsPath(n hal.NodeID) (string, error) {
	p, err := C.di_devfs_path(node(n))
	if p == nil {
		return "", errnoOr(err, unix.EINVAL)
	}
	defer C.di_devfs_path_free(p)
	return C.GoString(p), nil
}

// =============================================================================
// Properties
// =============================================================================

func (t *tree) PropNext(n hal.NodeID, p hal.PropID) (hal.PropID, error) {
	next, err := C.di_prop_next(node(n), prop(p))
	if next != nil {
		return hal.PropID(uintptr(unsafe.Pointer(next))), nil
	}
	if absent(err) {
		return hal.NilProp, nil
	}
	return hal.NilProp, err
}

func (t *tree) PropName(p hal.PropID) string {
	return C.GoString(C.di_prop_name(prop(p)))
}

func (t *tree) PropType(p hal.PropID) int {
	return int(C.di_prop_type(prop(p)))
}

func (t *tree) PropInts(p hal.PropID) ([]int32, error) {
	var data *C.int
	n, err := C.di_prop_ints(prop(p), &data)
	if n < 0 {
		return nil, errnoOr(err, unix.EINVAL)
	}
	out := make([]int32, n)
	if n > 0 {
		for i, v := range unsafe.Slice(data, int(n)) {
			out[i] = int32(v)
		}
	}
	return out, nil
}

func (t *tree) PropInt64s(p hal.PropID) ([]int64, error) {
	var data *C.int64_t
	n, err := C.di_prop_int64(prop(p), &data)
	if n < 0 {
		return nil, errnoOr(err, unix.EINVAL)
	}
	out := make([]int64, n)
	if n > 0 {
		for i, v := range unsafe.Slice(data, int(n)) {
			out[i] = int64(v)
		}
	}
	return out, nil
}

// PropStrings splits the packed value: n strings, each NUL-terminated, laid
// out back to back.
func (t *tree) PropStrings(p hal.PropID) ([][]byte, error) {
	var data *C.char
	n, err := C.di_prop_strings(prop(p), &data)
	if n < 0 {
		return nil, errnoOr(err, unix.EINVAL)
	}
	out := make([][]byte, 0, n)
	s := data
	for i := 0; i < int(n); i++ {
		b := goBytes(s)
		out = append(out, b)
		s = (*C.char)(unsafe.Add(unsafe.Pointer(s), len(b)+1))
	}
	return out, nil
}

func (t *tree) PropBytes(p hal.PropID) ([]byte, error) {
	var data *C.uchar
	n, err := C.di_prop_bytes(prop(p), &data)
	if n < 0 {
		return nil, errnoOr(err, unix.EINVAL)
	}
	if n == 0 {
		return []byte{}, nil
	}
	return C.GoBytes(unsafe.Pointer(data), n), nil
}

// =============================================================================
// Minors
// =============================================================================

func (t *tree) MinorNext(n hal.NodeID, m hal.MinorID) (hal.MinorID, error) {
	next, err := C.di_minor_next(node(n), minor(m))
	if next != nil {
		return hal.MinorID(uintptr(unsafe.Pointer(next))), nil
	}
	if absent(err) {
		return hal.NilMinor, nil
	}
	return hal.NilMinor, err
}

func (t *tree) MinorName(m hal.MinorID) string {
	return C.GoString(C.di_minor_name(minor(m)))
}

// MinorNodeType returns "" for minors without a node type.
func (t *tree) MinorNodeType(m hal.MinorID) string {
	nt := C.di_minor_nodetype(minor(m))
	if nt == nil {
		return ""
	}
	return C.GoString(nt)
}

func (t *tree) MinorSpecType(m hal.MinorID) uint32 {
	return uint32(C.di_minor_spectype(minor(m)))
}

func (t *tree) MinorDevfsPath(m hal.MinorID) (string, error) {
	p, err := C.di_devfs_minor_path(minor(m))
	if p == nil {
		return "", errnoOr(err, unix.EINVAL)
	}
	defer C.di_devfs_path_free(p)
	return C.GoString(p), nil
}

// Close calls di_fini. The core guarantees it is called once.
func (t *tree) Close() error {
	C.di_fini(t.root)
	t.root = nil
	return nil
}
