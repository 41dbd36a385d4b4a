package usbid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ardnew/devinfo/pkg"
)

// DefaultPaths lists the standard locations for the USB ID database.
var DefaultPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/usr/share/misc/usb.ids",
	"/var/lib/usbutils/usb.ids",
}

// ErrNotFound is returned by Load when no database exists at any search path.
var ErrNotFound = fmt.Errorf("usb.ids database: %w", fs.ErrNotExist)

// Database caches vendor and product names from the USB ID database.
type Database struct {
	mu       sync.RWMutex
	paths    []string
	source   string
	loaded   bool
	vendors  map[uint16]string
	products map[uint32]string // vid<<16 | pid
}

// New returns an empty database that searches paths, or [DefaultPaths] when
// none are given.
func New(paths ...string) *Database {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	return &Database{
		paths:    paths,
		vendors:  make(map[uint16]string),
		products: make(map[uint32]string),
	}
}

// Parse reads a database in usb.ids format from r.
func Parse(r io.Reader) (*Database, error) {
	db := New()
	if err := db.parse(r); err != nil {
		return nil, err
	}
	db.loaded = true
	return db, nil
}

// Load parses the first database found on the search paths. Only the first
// call does any work; later calls return the first call's outcome.
func (db *Database) Load() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.loaded {
		if db.source == "" {
			return ErrNotFound
		}
		return nil
	}
	db.loaded = true

	for _, path := range db.paths {
		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		defer file.Close()

		if err := db.parse(file); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		db.source = path
		pkg.LogInfo(pkg.ComponentUSB, "usb.ids loaded",
			"path", path,
			"vendors", len(db.vendors),
			"products", len(db.products))
		return nil
	}
	return ErrNotFound
}

// parse fills the tables from r. Vendor lines are "vvvv  name" and product
// lines are "\tpppp  name" under the preceding vendor. Any other unindented
// line (device classes, languages, HID usages) ends the vendor section it
// follows, so indented entries under it are ignored.
func (db *Database) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var vendor uint16
	inVendor := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "\t"); ok {
			if !inVendor || strings.HasPrefix(rest, "\t") {
				continue
			}
			if id, name, ok := splitEntry(rest); ok {
				db.products[uint32(vendor)<<16|uint32(id)] = name
			}
			continue
		}

		id, name, ok := splitEntry(line)
		inVendor = ok
		if ok {
			vendor = id
			db.vendors[id] = name
		}
	}
	return scanner.Err()
}

// splitEntry splits "xxxx  name" into its hex ID and name.
func splitEntry(s string) (uint16, string, bool) {
	if len(s) < 6 || s[4] != ' ' {
		return 0, "", false
	}
	id, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, "", false
	}
	name := strings.TrimLeft(s[5:], " ")
	if name == "" {
		return 0, "", false
	}
	return uint16(id), name, true
}

// Vendor returns the vendor name for vid.
func (db *Database) Vendor(vid uint16) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	name, ok := db.vendors[vid]
	return name, ok
}

// Product returns the product name for vid and pid.
func (db *Database) Product(vid, pid uint16) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	name, ok := db.products[uint32(vid)<<16|uint32(pid)]
	return name, ok
}

// Source returns the path the database was loaded from, or "" if it was
// parsed from a reader or nothing was found.
func (db *Database) Source() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.source
}

// Len returns the number of vendors and products in the database.
func (db *Database) Len() (vendors, products int) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.vendors), len(db.products)
}
