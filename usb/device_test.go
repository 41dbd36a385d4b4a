package usb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal/memory"
	"github.com/ardnew/devinfo/pkg"
	"github.com/ardnew/devinfo/pkg/usbid"
)

func TestScan_Fixture(t *testing.T) {
	snap := openFixture(t, nil)

	devices, err := Scan(snap)
	require.NoError(t, err)
	assert.Equal(t, []Device{
		{
			Path:        ftdiPath,
			Driver:      "usb_mid",
			VendorID:    0x403,
			ProductID:   0x6010,
			VendorName:  "FTDI",
			ProductName: "Dual RS232-HS  ",
			Serial:      "FT5X1WMX",
		},
		{
			Path:        stlinkPath,
			Driver:      "usb_mid",
			VendorID:    0x483,
			ProductID:   0x374e,
			VendorName:  "STMicroelectronics",
			ProductName: "STLINK-V3",
			Serial:      "003700313156501320323443",
		},
	}, devices)
}

func TestScan_Exclusion(t *testing.T) {
	snap := openFixture(t, nil)

	devices, err := Scan(snap, WithExcludedDrivers())
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, hubPath, devices[0].Path)
	assert.Equal(t, "hubd", devices[0].Driver)
	assert.Equal(t, "1d6b,   2", devices[0].ID())

	devices, err = Scan(snap, WithExcludedDrivers("hubd", "usb_mid"))
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestScan_WalkError(t *testing.T) {
	f := &memory.Fixture{Root: memory.NodeSpec{
		Name:   "root",
		Faults: []string{memory.FaultChild},
	}}
	snap := openFixture(t, f)

	_, err := Scan(snap)
	assert.ErrorIs(t, err, pkg.ErrStep)
}

func TestFromNode(t *testing.T) {
	ids := func(vid, pid int64) []memory.PropSpec {
		return []memory.PropSpec{
			{Name: PropVendorID, Type: "int32", Ints: []int64{vid}},
			{Name: PropProductID, Type: "int32", Ints: []int64{pid}},
		}
	}
	names := fakeNames{
		0x1234<<16 | 0xffff: "Acme",
		0x1234<<16 | 0x0001: "Widget",
	}

	tests := []struct {
		name   string
		props  []memory.PropSpec
		faults []string
		opts   []Option
		want   Device
		ok     bool
		err    error
	}{
		{
			name:  "ids only",
			props: ids(0x1234, 0x0001),
			want:  Device{Path: "/dev@1", VendorID: 0x1234, ProductID: 0x0001},
			ok:    true,
		},
		{
			name:  "names from database",
			props: ids(0x1234, 0x0001),
			opts:  []Option{WithNames(names)},
			want: Device{
				Path: "/dev@1", VendorID: 0x1234, ProductID: 0x0001,
				VendorName: "Acme", ProductName: "Widget",
			},
			ok: true,
		},
		{
			name: "properties take precedence",
			props: append(ids(0x1234, 0x0001),
				memory.PropSpec{Name: PropVendorName, Type: "string", Strings: []string{"Acme Corp"}}),
			opts: []Option{WithNames(names)},
			want: Device{
				Path: "/dev@1", VendorID: 0x1234, ProductID: 0x0001,
				VendorName: "Acme Corp", ProductName: "Widget",
			},
			ok: true,
		},
		{
			name: "invalid utf-8 serial",
			props: append(ids(0x1234, 0x0002),
				memory.PropSpec{Name: PropSerial, Type: "string", Strings: []string{"\xff"}}),
			want: Device{Path: "/dev@1", VendorID: 0x1234, ProductID: 0x0002},
			ok:   true,
		},
		{
			name:  "missing product id",
			props: ids(0x1234, 0x0001)[:1],
		},
		{
			name: "product id of the wrong type",
			props: []memory.PropSpec{
				{Name: PropVendorID, Type: "int32", Ints: []int64{0x1234}},
				{Name: PropProductID, Type: "string", Strings: []string{"0001"}},
			},
		},
		{
			name:  "negative id",
			props: ids(-1, 0x0001),
		},
		{
			name:  "id too wide",
			props: ids(0x1234, 0x10000),
		},
		{
			name:   "property walk failure",
			props:  ids(0x1234, 0x0001),
			faults: []string{memory.FaultProps},
			err:    pkg.ErrStep,
		},
		{
			name:   "unresolvable path",
			props:  ids(0x1234, 0x0001),
			faults: []string{memory.FaultDevfs},
			err:    pkg.ErrResolve,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &memory.Fixture{Root: memory.NodeSpec{
				Name: "root",
				Children: []memory.NodeSpec{
					{Name: "dev", Addr: "1", Props: tt.props, Faults: tt.faults},
				},
			}}
			snap := openFixture(t, f)

			w := snap.WalkNodes()
			_, err := w.Next()
			require.NoError(t, err)
			n, err := w.Next()
			require.NoError(t, err)

			got, ok, err := FromNode(n, tt.opts...)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.ErrorIs(t, err, unix.EIO)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromNode_UsbidDatabase(t *testing.T) {
	db, err := usbid.Parse(strings.NewReader("0403  Future Technology Devices International, Ltd\n\t6010  FT2232C/D/H Dual UART/FIFO IC\n"))
	require.NoError(t, err)

	f := &memory.Fixture{Root: memory.NodeSpec{
		Name: "device",
		Props: []memory.PropSpec{
			{Name: PropVendorID, Type: "int32", Ints: []int64{0x403}},
			{Name: PropProductID, Type: "int32", Ints: []int64{0x6010}},
		},
	}}
	snap := openFixture(t, f)
	root, err := snap.RootNode()
	require.NoError(t, err)

	d, ok, err := FromNode(root, WithNames(db))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Future Technology Devices International, Ltd", d.VendorName)
	assert.Equal(t, "FT2232C/D/H Dual UART/FIFO IC", d.ProductName)
}

func TestDevice_Matches(t *testing.T) {
	d := Device{VendorID: 0x483, ProductID: 0x374e, Serial: "ABC"}
	assert.True(t, d.Matches(0x483, 0x374e, "ABC"))
	assert.False(t, d.Matches(0x483, 0x374e, "abc"))
	assert.False(t, d.Matches(0x483, 0x374f, "ABC"))
	assert.False(t, d.Matches(0x403, 0x374e, "ABC"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "Dual RS232-HS", Display("Dual RS232-HS  "))
	assert.Equal(t, "-", Display(""))
	assert.Equal(t, "-", Display("   "))
}
