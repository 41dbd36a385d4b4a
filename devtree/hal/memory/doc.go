// Package memory provides an in-memory device tree provider.
//
// The provider answers the same single-step questions as the libdevinfo
// binding, from a [Fixture] describing a tree, its device links, and an
// instance map. Fixtures are usually loaded from YAML:
//
//	root:
//	  name: i86pc
//	  driver: rootnex
//	  instance: 0
//	  children:
//	    - name: pci
//	      addr: "0,0"
//	      driver: npe
//	      instance: 0
//	      props:
//	        - {name: device_type, type: string, strings: [pciex]}
//	links:
//	  "/pci@0,0/blkdev@0:a,raw":
//	    - {path: /dev/rdsk/c1t0d0s0, target: ../../devices/pci@0,0/blkdev@0:a,raw, type: primary}
//	instances:
//	  - {driver: blkdev, instance: 0, minor: a, path: /dev/dsk/c1t0d0s0}
//
// # Fault Injection
//
// Nodes may list provider operations that fail with EIO ("child", "sibling",
// "parent", "devfs", "props", "minors", "driver_next"); minors may be marked
// unresolvable; properties may be marked unreadable; link paths listed in
// link_faults fail their walk after visiting every link. The open errors of
// each handle are set on [System] directly.
//
// # Accounting
//
// [System] counts how many handles of each kind were opened and closed, so
// tests can assert that every handle is released exactly once.
package memory
