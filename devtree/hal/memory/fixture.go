package memory

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"

	"github.com/ardnew/devinfo/devtree/hal"
)

// Fixture describes a device tree, its device links, and an instance map.
type Fixture struct {
	Root       NodeSpec              `yaml:"root"`
	Links      map[string][]LinkSpec `yaml:"links,omitempty"`
	LinkFaults []string              `yaml:"link_faults,omitempty"`
	Instances  []InstanceSpec        `yaml:"instances,omitempty"`
}

// NodeSpec describes one node and its subtree.
type NodeSpec struct {
	Name     string      `yaml:"name"`
	Addr     string      `yaml:"addr,omitempty"`
	Driver   string      `yaml:"driver,omitempty"`
	Instance *int        `yaml:"instance,omitempty"`
	Props    []PropSpec  `yaml:"props,omitempty"`
	Minors   []MinorSpec `yaml:"minors,omitempty"`
	Children []NodeSpec  `yaml:"children,omitempty"`
	Faults   []string    `yaml:"faults,omitempty"`
}

// PropSpec describes one property. Type is a kind name (boolean, int32,
// int64, string, byte, unknown, undefined) or a raw numeric type code.
type PropSpec struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Ints       []int64  `yaml:"ints,omitempty"`
	Strings    []string `yaml:"strings,omitempty"`
	Bytes      []uint8  `yaml:"bytes,omitempty"`
	Unreadable bool     `yaml:"unreadable,omitempty"`
}

// MinorSpec describes one minor node. SpecType is "char", "block", or a raw
// numeric file mode.
type MinorSpec struct {
	Name         string `yaml:"name"`
	NodeType     string `yaml:"nodetype"`
	SpecType     string `yaml:"spectype"`
	Unresolvable bool   `yaml:"unresolvable,omitempty"`
}

// LinkSpec describes one device link. A nil Path or Target models a link the
// database cannot read. Type is "primary", "secondary", "error", or a raw
// numeric type code.
type LinkSpec struct {
	Path   *string `yaml:"path,omitempty"`
	Target *string `yaml:"target,omitempty"`
	Type   string  `yaml:"type"`
}

// InstanceSpec maps one driver instance and minor to a /dev path.
type InstanceSpec struct {
	Driver   string `yaml:"driver"`
	Instance int    `yaml:"instance"`
	Minor    string `yaml:"minor"`
	Path     string `yaml:"path"`
}

// Decode reads a YAML fixture from r.
func Decode(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFile reads a YAML fixture from the named file.
func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Decode(file)
}

// =============================================================================
// Raw Value Parsing
// =============================================================================

var propTypes = map[string]int{
	"boolean":   hal.PropTypeBoolean,
	"int32":     hal.PropTypeInt,
	"int":       hal.PropTypeInt,
	"string":    hal.PropTypeString,
	"byte":      hal.PropTypeByte,
	"unknown":   hal.PropTypeUnknown,
	"undefined": hal.PropTypeUndefined,
	"int64":     hal.PropTypeInt64,
}

func parsePropType(s string) (int, error) {
	if v, ok := propTypes[s]; ok {
		return v, nil
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("property type %q: %w", s, err)
	}
	return int(v), nil
}

func parseSpecType(s string) (uint32, error) {
	switch s {
	case "char":
		return unix.S_IFCHR, nil
	case "block":
		return unix.S_IFBLK, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("spec type %q: %w", s, err)
	}
	return uint32(v), nil
}

func parseLinkType(s string) (int, error) {
	switch s {
	case "primary":
		return hal.LinkTypePrimary, nil
	case "secondary":
		return hal.LinkTypeSecondary, nil
	case "error":
		return hal.LinkTypeError, nil
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("link type %q: %w", s, err)
	}
	return int(v), nil
}
