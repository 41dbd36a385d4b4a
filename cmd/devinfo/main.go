// Command devinfo inspects the illumos device tree.
//
// Subcommands print the node hierarchy (prtconf), the raw disk minors and
// their /dev links (disks), the disk name of each disk driver instance
// (translate), the attached USB devices (usbconf), and the assignment of USB
// devices to looms (usblooms).
//
// The --fixture flag serves the tree, links, and instance map from a YAML
// fixture instead of the running system, which works on any platform.
package main

import (
	"fmt"
	"os"
)

var (
	version = "0.1.0"
	commit  = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
