package memory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
)

const sample = `
root:
  name: i86pc
  driver: rootnex
  instance: 0
  children:
    - name: pci
      addr: "0,0"
      driver: npe
      instance: 0
      props:
        - {name: device_type, type: string, strings: [pciex]}
        - {name: "#address-cells", type: int32, ints: [3]}
      children:
        - name: blkdev
          addr: "0"
          driver: blkdev
          instance: 3
          minors:
            - {name: "a,raw", nodetype: "ddi_block:channel", spectype: char}
    - name: fw
links:
  "/pci@0,0/blkdev@0:a,raw":
    - {path: /dev/rdsk/c1t0d0s0, target: ../../devices/pci@0,0/blkdev@0:a,raw, type: primary}
instances:
  - {driver: blkdev, instance: 3, minor: a, path: /dev/dsk/c1t0d0s0}
`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "i86pc", f.Root.Name)
	require.Len(t, f.Root.Children, 2)
	pci := f.Root.Children[0]
	assert.Equal(t, "0,0", pci.Addr)
	require.NotNil(t, pci.Instance)
	assert.Equal(t, 0, *pci.Instance)
	assert.Equal(t, []string{"pciex"}, pci.Props[0].Strings)
	assert.Equal(t, []int64{3}, pci.Props[1].Ints)
	assert.Nil(t, f.Root.Children[1].Instance)

	links := f.Links["/pci@0,0/blkdev@0:a,raw"]
	require.Len(t, links, 1)
	require.NotNil(t, links[0].Path)
	assert.Equal(t, "/dev/rdsk/c1t0d0s0", *links[0].Path)

	assert.Equal(t, []InstanceSpec{
		{Driver: "blkdev", Instance: 3, Minor: "a", Path: "/dev/dsk/c1t0d0s0"},
	}, f.Instances)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("root:\n  name: x\n  colour: red\n"))
	assert.ErrorContains(t, err, "colour")
}

func TestLoadFile(t *testing.T) {
	f, err := LoadFile("../../testdata/tree.yaml")
	require.NoError(t, err)
	assert.Equal(t, "i86pc", f.Root.Name)

	_, err = LoadFile("testdata/does-not-exist.yaml")
	assert.ErrorIs(t, err, unix.ENOENT)
}

func TestParsePropType(t *testing.T) {
	tests := []struct {
		in   string
		want int
		err  bool
	}{
		{"boolean", hal.PropTypeBoolean, false},
		{"int32", hal.PropTypeInt, false},
		{"int", hal.PropTypeInt, false},
		{"string", hal.PropTypeString, false},
		{"byte", hal.PropTypeByte, false},
		{"unknown", hal.PropTypeUnknown, false},
		{"undefined", hal.PropTypeUndefined, false},
		{"int64", hal.PropTypeInt64, false},
		{"42", 42, false},
		{"0x10", 16, false},
		{"float", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePropType(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSpecType(t *testing.T) {
	v, err := parseSpecType("char")
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.S_IFCHR), v)

	v, err = parseSpecType("block")
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.S_IFBLK), v)

	v, err = parseSpecType("0x1000")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1000), v)

	_, err = parseSpecType("fifo")
	assert.Error(t, err)
}

func TestParseLinkType(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"primary", hal.LinkTypePrimary},
		{"secondary", hal.LinkTypeSecondary},
		{"error", hal.LinkTypeError},
		{"7", 7},
		{"-1", hal.LinkTypeError},
	}
	for _, tt := range tests {
		got, err := parseLinkType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLinkType("tertiary")
	assert.Error(t, err)
}
