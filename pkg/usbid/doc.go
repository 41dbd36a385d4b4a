// Package usbid looks up USB vendor and product names in the usb.ids
// database.
//
// Device nodes usually carry usb-vendor-name and usb-product-name properties
// read from the device's string descriptors, but devices without string
// descriptors only report numeric IDs. The database fills those gaps.
//
// # Usage
//
//	db := usbid.New()
//	if err := db.Load(); err != nil {
//		// No database installed; lookups report not found.
//	}
//	vendor, ok := db.Vendor(0x0403)
//	product, ok := db.Product(0x0403, 0x6010)
//
// # Database Locations
//
// [DefaultPaths] lists the locations searched, in order. illumos
// distributions ship the file with the hwdata package.
//
// All methods are safe for concurrent use.
package usbid
