package usb

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ardnew/devinfo/pkg"
)

//go:embed looms.yaml
var defaultLooms []byte

// Slot is one device position in a loom.
type Slot struct {
	Name      string `yaml:"slot"`
	VendorID  uint16 `yaml:"vendor"`
	ProductID uint16 `yaml:"product"`
	Serial    string `yaml:"serial"`
}

// Loom is a named set of slots.
type Loom struct {
	ID    string `yaml:"id"`
	Host  string `yaml:"host,omitempty"`
	Slots []Slot `yaml:"slots"`
}

type loomFile struct {
	Looms []Loom `yaml:"looms"`
}

// LoadLooms reads loom definitions in YAML from r. Loom IDs must be unique
// and slot names must be unique within a loom.
func LoadLooms(r io.Reader) ([]Loom, error) {
	var f loomFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode looms: %w", err)
	}
	if err := validate(f.Looms); err != nil {
		return nil, err
	}
	return f.Looms, nil
}

// LoadLoomsFile reads loom definitions from the named YAML file.
func LoadLoomsFile(path string) ([]Loom, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadLooms(file)
}

// DefaultLooms returns the loom definitions built into the binary.
func DefaultLooms() []Loom {
	looms, err := LoadLooms(bytes.NewReader(defaultLooms))
	if err != nil {
		panic(fmt.Sprintf("usb: built-in looms: %v", err))
	}
	return looms
}

func validate(looms []Loom) error {
	ids := make(map[string]bool)
	for i, l := range looms {
		if l.ID == "" {
			return fmt.Errorf("loom %d: %w: empty id", i, pkg.ErrInvalidParameter)
		}
		if ids[l.ID] {
			return fmt.Errorf("loom %q: %w: duplicate id", l.ID, pkg.ErrInvalidParameter)
		}
		ids[l.ID] = true

		slots := make(map[string]bool)
		for _, s := range l.Slots {
			if s.Name == "" || slots[s.Name] {
				return fmt.Errorf("loom %q: %w: slot name %q empty or repeated",
					l.ID, pkg.ErrInvalidParameter, s.Name)
			}
			slots[s.Name] = true
		}
	}
	return nil
}

// =============================================================================
// Matching
// =============================================================================

// Assignment pairs a slot with the device found in it. Device is nil if the
// slot is empty.
type Assignment struct {
	Slot   Slot
	Device *Device
}

// LoomMatch is a loom with at least one occupied slot.
type LoomMatch struct {
	Loom  Loom
	Slots []Assignment // in definition order
}

// Missing returns the names of the loom's empty slots.
func (m LoomMatch) Missing() []string {
	var out []string
	for _, a := range m.Slots {
		if a.Device == nil {
			out = append(out, a.Slot.Name)
		}
	}
	return out
}

// Report is the outcome of [Match].
type Report struct {
	Looms  []LoomMatch // looms with at least one device, in definition order
	Spares []Device    // devices no slot claimed, in scan order
}

// Match assigns each device to the first slot, in definition order, with the
// same vendor ID, product ID, and serial number. A slot holds one device; a
// second device matching an occupied slot is a spare.
func Match(looms []Loom, devices []Device) Report {
	taken := make(map[slotKey]*Device)

	var r Report
	for _, d := range devices {
		k, ok := findSlot(looms, d, taken)
		if !ok {
			r.Spares = append(r.Spares, d)
			continue
		}
		taken[k] = &d
	}

	for li, l := range looms {
		m := LoomMatch{Loom: l, Slots: make([]Assignment, len(l.Slots))}
		occupied := false
		for si, s := range l.Slots {
			d := taken[slotKey{li, si}]
			m.Slots[si] = Assignment{Slot: s, Device: d}
			occupied = occupied || d != nil
		}
		if occupied {
			r.Looms = append(r.Looms, m)
		}
	}

	pkg.LogDebug(pkg.ComponentUSB, "looms matched",
		"looms", len(r.Looms),
		"spares", len(r.Spares))
	return r
}

type slotKey struct{ loom, slot int }

func findSlot(looms []Loom, d Device, taken map[slotKey]*Device) (slotKey, bool) {
	for li, l := range looms {
		for si, s := range l.Slots {
			if !d.Matches(s.VendorID, s.ProductID, s.Serial) {
				continue
			}
			k := slotKey{li, si}
			if taken[k] != nil {
				pkg.LogWarn(pkg.ComponentUSB, "slot already occupied",
					"loom", l.ID,
					"slot", s.Name,
					"path", d.Path)
				return slotKey{}, false
			}
			return k, true
		}
	}
	return slotKey{}, false
}
