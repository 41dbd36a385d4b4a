package devtree

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/devtree/hal/memory"
	"github.com/ardnew/devinfo/pkg"
)

const targetPrefix = "../../devices"

func openLinks(t *testing.T, sys *memory.System) *DevLinks {
	t.Helper()
	d, err := NewDevLinks(sys, WithMakeLinks())
	require.NoError(t, err)
	t.Cleanup(func() {
		if d.db != nil {
			require.NoError(t, d.Close())
		}
	})
	return d
}

func TestLinkType_String(t *testing.T) {
	assert.Equal(t, "primary", LinkPrimary.String())
	assert.Equal(t, "secondary", LinkSecondary.String())
	assert.Equal(t, "invalid", LinkType(0).String())
}

func TestDevLinks_LinksForPath(t *testing.T) {
	d := openLinks(t, fixtureSystem(t))

	tests := []struct {
		name string
		path string
		want []DevLink
	}{
		{
			name: "single primary",
			path: rawAPath,
			want: []DevLink{
				{Path: "/dev/rdsk/c1t00A0750130082207d0s0", Target: targetPrefix + rawAPath, Type: LinkPrimary},
			},
		},
		{
			name: "primary and secondary",
			path: rawWDPath,
			want: []DevLink{
				{Path: "/dev/rdsk/c1t00A0750130082207d0", Target: targetPrefix + rawWDPath, Type: LinkPrimary},
				{Path: "/dev/rdsk/nvme0", Target: targetPrefix + rawWDPath, Type: LinkSecondary},
			},
		},
		{
			name: "no links",
			path: blkdevPath + ":a",
			want: []DevLink{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.LinksForPath(tt.path)
			require.NoError(t, err)
			require.NotNil(t, got, "an empty result is an empty slice")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDevLinks_ForMinorPaths(t *testing.T) {
	sys := fixtureSystem(t)
	s := openSnapshot(t, sys)
	d := openLinks(t, sys)

	var primaries []string
	for _, m := range minors(t, findNode(t, s, blkdevPath)) {
		if !m.IsRawDisk() {
			continue
		}
		p, err := m.DevfsPath()
		require.NoError(t, err)
		links, err := d.LinksForPath(p)
		require.NoError(t, err)
		for _, l := range links {
			if l.Type == LinkPrimary {
				primaries = append(primaries, l.Path)
			}
		}
	}
	assert.Equal(t, []string{
		"/dev/rdsk/c1t00A0750130082207d0s0",
		"/dev/rdsk/c1t00A0750130082207d0",
	}, primaries)
}

func TestDevLinks_SkipsUnreadable(t *testing.T) {
	const minor = "/pseudo/zfs:zfs"
	f := &memory.Fixture{
		Root: memory.NodeSpec{Name: "root"},
		Links: map[string][]memory.LinkSpec{
			minor: {
				{Path: strp("/dev/zfs"), Target: strp("../devices/pseudo/zfs@0:zfs"), Type: "primary"},
				{Target: strp("../devices/pseudo/zfs@0:zfs"), Type: "primary"},
				{Path: strp("/dev/zfs1"), Type: "secondary"},
				{Path: strp("/dev/zfs2"), Target: strp("x"), Type: "error"},
				{Path: strp("/dev/zfs3"), Target: strp("y"), Type: "secondary"},
			},
		},
	}
	d := openLinks(t, checkedSystem(t, f))

	got, err := d.LinksForPath(minor)
	require.NoError(t, err)
	assert.Equal(t, []DevLink{
		{Path: "/dev/zfs", Target: "../devices/pseudo/zfs@0:zfs", Type: LinkPrimary},
		{Path: "/dev/zfs3", Target: "y", Type: LinkSecondary},
	}, got)
}

func TestDevLinks_UnknownLinkType(t *testing.T) {
	const minor = "/pseudo/zfs:zfs"
	f := &memory.Fixture{
		Root: memory.NodeSpec{Name: "root"},
		Links: map[string][]memory.LinkSpec{
			minor: {{Path: strp("/dev/zfs"), Target: strp("t"), Type: "7"}},
		},
	}
	d := openLinks(t, checkedSystem(t, f))

	assert.PanicsWithError(t, "unknown link type 0x7", func() {
		_, _ = d.LinksForPath(minor)
	})
}

func TestDevLinks_WalkFault(t *testing.T) {
	f := &memory.Fixture{
		Root: memory.NodeSpec{Name: "root"},
		Links: map[string][]memory.LinkSpec{
			rawAPath: {{Path: strp("/dev/rdsk/c0d0s0"), Target: strp("t"), Type: "primary"}},
		},
		LinkFaults: []string{rawAPath},
	}
	d := openLinks(t, checkedSystem(t, f))

	var logs bytes.Buffer
	pkg.SetLogOutput(&logs, pkg.LogFormatText)
	t.Cleanup(func() { pkg.SetLogOutput(os.Stderr, pkg.LogFormatText) })

	got, err := d.LinksForPath(rawAPath)
	assert.Nil(t, got, "partial results are discarded")
	assert.Contains(t, logs.String(), `level=ERROR msg="link walk failed"`)
	assert.Contains(t, logs.String(), "discarded=1")
	assert.ErrorIs(t, err, pkg.ErrWalk)
	assert.ErrorIs(t, err, unix.EIO)

	var opErr *pkg.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "di_devlink_walk", opErr.Op)

	// The database remains usable after a failed walk.
	got, err = d.LinksForPath(rawWDPath)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDevLinks_InitError(t *testing.T) {
	sys := fixtureSystem(t)
	sys.OpenLinkDBErr = unix.EPERM

	d, err := NewDevLinks(sys)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, pkg.ErrInit)
	assert.ErrorIs(t, err, unix.EPERM)
	assert.Zero(t, sys.Opened(memory.HandleLinkDB))
}

func TestDevLinks_Close(t *testing.T) {
	sys := fixtureSystem(t)
	d, err := NewDevLinks(sys)
	require.NoError(t, err)

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Close(), pkg.ErrReleased)
	assert.Equal(t, 1, sys.Closed(memory.HandleLinkDB))

	_, err = d.LinksForPath(rawAPath)
	assert.ErrorIs(t, err, pkg.ErrReleased)
}

func TestLinkAccumulator(t *testing.T) {
	acc := newLinkAccumulator("/x:y")
	assert.NotNil(t, acc.links)

	acc.add(hal.RawLink{Path: []byte("/dev/a"), Target: []byte("t"), Type: hal.LinkTypePrimary})
	acc.add(hal.RawLink{Path: []byte("/dev/b"), Type: hal.LinkTypePrimary})
	acc.add(hal.RawLink{Path: []byte("/dev/c"), Target: []byte("t"), Type: hal.LinkTypeError})
	acc.add(hal.RawLink{Path: []byte(""), Target: []byte(""), Type: hal.LinkTypeSecondary})

	assert.Equal(t, 2, acc.skipped)
	assert.Equal(t, []DevLink{
		{Path: "/dev/a", Target: "t", Type: LinkPrimary},
		{Path: "", Target: "", Type: LinkSecondary},
	}, acc.links)
}
