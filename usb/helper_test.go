package usb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/devinfo/devtree"
	"github.com/ardnew/devinfo/devtree/hal/memory"
)

const (
	hubPath    = "/pci@0,0/pci1022,1484@7,1/pci15d9,1d6@0,3/hub@1"
	ftdiPath   = hubPath + "/device@2"
	stlinkPath = hubPath + "/device@3"
)

func openFixture(t *testing.T, f *memory.Fixture) *devtree.Snapshot {
	t.Helper()
	if f == nil {
		var err error
		f, err = memory.LoadFile("../devtree/testdata/tree.yaml")
		require.NoError(t, err)
	}
	sys, err := memory.New(f)
	require.NoError(t, err)
	snap, err := devtree.NewSnapshot(sys)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, snap.Close())
		require.Zero(t, sys.Outstanding())
	})
	return snap
}

// fakeNames is a fixed name table.
type fakeNames map[uint32]string

func (f fakeNames) Vendor(vid uint16) (string, bool) {
	s, ok := f[uint32(vid)<<16|0xffff]
	return s, ok
}

func (f fakeNames) Product(vid, pid uint16) (string, bool) {
	s, ok := f[uint32(vid)<<16|uint32(pid)]
	return s, ok
}
