package devtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal/memory"
	"github.com/ardnew/devinfo/pkg"
)

func openTranslator(t *testing.T, sys *memory.System) *Translator {
	t.Helper()
	tr, err := NewTranslator(sys)
	require.NoError(t, err)
	t.Cleanup(func() {
		if tr.m != nil {
			require.NoError(t, tr.Close())
		}
	})
	return tr
}

func TestTranslator_LookupDev(t *testing.T) {
	tr := openTranslator(t, fixtureSystem(t))

	tests := []struct {
		driver   string
		instance uint32
		minor    string
		want     string
		ok       bool
	}{
		{"blkdev", 0, "wd", "/dev/dsk/c1t00A0750130082207d0", true},
		{"blkdev", 0, "a", "/dev/dsk/c1t00A0750130082207d0s0", true},
		{"blkdev", 0, "b", "", false},
		{"blkdev", 1, "wd", "", false},
		{"sd", 1, "a", "/dev/dsk/c2t0d0s0", true},
		{"nvme", 0, "wd", "", false},
		{"blk\x00dev", 0, "wd", "", false},
		{"blkdev", 0, "w\x00d", "", false},
		{"blkdev", math.MaxInt32 + 1, "wd", "", false},
		{"blkdev", math.MaxUint32, "wd", "", false},
	}

	for _, tt := range tests {
		got, ok := tr.LookupDev(tt.driver, tt.instance, tt.minor)
		assert.Equal(t, tt.ok, ok, "%q %d %q", tt.driver, tt.instance, tt.minor)
		assert.Equal(t, tt.want, got, "%q %d %q", tt.driver, tt.instance, tt.minor)
	}
}

func TestTranslator_LookupDiskName(t *testing.T) {
	tests := []struct {
		name      string
		instances []memory.InstanceSpec
		driver    string
		instance  uint32
		want      string
		ok        bool
	}{
		{
			name: "whole disk preferred",
			instances: []memory.InstanceSpec{
				{Driver: "blkdev", Instance: 0, Minor: "a", Path: "/dev/dsk/c1t0d0s0"},
				{Driver: "blkdev", Instance: 0, Minor: "wd", Path: "/dev/dsk/c1t0d0"},
			},
			driver: "blkdev", want: "c1t0d0", ok: true,
		},
		{
			name: "legacy slice suffix stripped",
			instances: []memory.InstanceSpec{
				{Driver: "sd", Instance: 1, Minor: "a", Path: "/dev/dsk/c2t0d0s0"},
			},
			driver: "sd", instance: 1, want: "c2t0d0", ok: true,
		},
		{
			name: "whole disk suffix stripped",
			instances: []memory.InstanceSpec{
				{Driver: "sd", Instance: 0, Minor: "wd", Path: "/dev/dsk/c3t0d0s0"},
			},
			driver: "sd", want: "c3t0d0", ok: true,
		},
		{
			name: "legacy slice without suffix",
			instances: []memory.InstanceSpec{
				{Driver: "sd", Instance: 0, Minor: "a", Path: "/dev/dsk/c4t0d0"},
			},
			driver: "sd", want: "c4t0d0", ok: true,
		},
		{
			name: "prefix mismatch falls through",
			instances: []memory.InstanceSpec{
				{Driver: "sd", Instance: 0, Minor: "wd", Path: "/devices/pci@0,0/disk@0:wd"},
				{Driver: "sd", Instance: 0, Minor: "a", Path: "/dev/dsk/c5t0d0s0"},
			},
			driver: "sd", want: "c5t0d0", ok: true,
		},
		{
			name: "prefix mismatch everywhere",
			instances: []memory.InstanceSpec{
				{Driver: "sd", Instance: 0, Minor: "wd", Path: "/dev/rdsk/c6t0d0"},
				{Driver: "sd", Instance: 0, Minor: "a", Path: "dsk/c6t0d0s0"},
			},
			driver: "sd",
		},
		{
			name:   "unknown instance",
			driver: "sd", instance: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &memory.Fixture{Root: memory.NodeSpec{Name: "root"}, Instances: tt.instances}
			tr := openTranslator(t, checkedSystem(t, f))

			got, ok := tr.LookupDiskName(tt.driver, tt.instance)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslator_FixtureDisk(t *testing.T) {
	sys := fixtureSystem(t)
	s := openSnapshot(t, sys)
	tr := openTranslator(t, sys)

	var names []string
	for n, err := range s.WalkDriver("blkdev").All() {
		require.NoError(t, err)
		inst, ok := n.Instance()
		require.True(t, ok)
		name, ok := tr.LookupDiskName("blkdev", uint32(inst))
		require.True(t, ok)
		names = append(names, name)
	}
	assert.Equal(t, []string{"c1t00A0750130082207d0"}, names)
}

func TestTranslator_InitError(t *testing.T) {
	sys := fixtureSystem(t)
	sys.OpenInstanceMapErr = unix.ENOMEM

	tr, err := NewTranslator(sys)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, pkg.ErrInit)
	assert.ErrorIs(t, err, unix.ENOMEM)

	var opErr *pkg.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "di_dim_init", opErr.Op)
}

func TestTranslator_Close(t *testing.T) {
	sys := fixtureSystem(t)
	tr, err := NewTranslator(sys)
	require.NoError(t, err)

	require.NoError(t, tr.Close())
	assert.ErrorIs(t, tr.Close(), pkg.ErrReleased)
	assert.Equal(t, 1, sys.Closed(memory.HandleInstanceMap))

	assert.PanicsWithValue(t, pkg.ErrReleased, func() { tr.LookupDev("blkdev", 0, "wd") })
	assert.PanicsWithValue(t, pkg.ErrReleased, func() { tr.LookupDiskName("blkdev", 0) })
}
