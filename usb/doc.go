// Package usb extracts USB device identities from a device tree snapshot and
// matches them against loom definitions.
//
// The USB framework publishes each attached device's descriptor fields as
// node properties (usb-vendor-id, usb-product-id, usb-vendor-name,
// usb-product-name, usb-serialno). [Scan] walks a snapshot and returns a
// [Device] for every node carrying both IDs, skipping hub nodes, which
// repeat the IDs of the hub's own upstream device.
//
// # Looms
//
// A loom is a named bundle of USB devices cabled to one system under test,
// such as a debug probe and a serial console. Each [Loom] lists its slots by
// vendor ID, product ID, and serial number. [Match] assigns scanned devices
// to slots and reports the devices no loom claims as spares:
//
//	looms, err := usb.LoadLoomsFile("looms.yaml")
//	devices, err := usb.Scan(snap)
//	report := usb.Match(looms, devices)
package usb
