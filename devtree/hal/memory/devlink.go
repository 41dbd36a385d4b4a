package memory

import (
	"slices"

	"golang.org/x/sys/unix"

	"github.com/ardnew/devinfo/devtree/hal"
)

// linkDB serves the fixture's links.
type linkDB struct {
	sys    *System
	closed bool
}

var _ hal.LinkDB = (*linkDB)(nil)

// OpenLinkDB opens the fixture's link database. makeLinks has no effect.
func (s *System) OpenLinkDB(bool) (hal.LinkDB, error) {
	if s.OpenLinkDBErr != nil {
		return nil, s.OpenLinkDBErr
	}
	s.open(HandleLinkDB)
	return &linkDB{sys: s}, nil
}

// Walk visits every link registered for minorPath in fixture order. Paths
// listed in the fixture's link faults fail with EIO after the visits.
func (d *linkDB) Walk(minorPath string, visit func(hal.RawLink)) error {
	if d.closed {
		panic("memory: use of closed link database")
	}
	f := d.sys.fixture
	for _, l := range f.Links[minorPath] {
		typ, _ := parseLinkType(l.Type)
		raw := hal.RawLink{Type: typ}
		if l.Path != nil {
			raw.Path = []byte(*l.Path)
		}
		if l.Target != nil {
			raw.Target = []byte(*l.Target)
		}
		visit(raw)
	}
	if slices.Contains(f.LinkFaults, minorPath) {
		return unix.EIO
	}
	return nil
}

func (d *linkDB) Close() error {
	if d.closed {
		panic("memory: link database closed twice")
	}
	d.closed = true
	d.sys.close(HandleLinkDB)
	return nil
}

// instanceMap serves the fixture's instance map.
type instanceMap struct {
	sys    *System
	closed bool
}

var _ hal.InstanceMap = (*instanceMap)(nil)

// OpenInstanceMap opens the fixture's instance map.
func (s *System) OpenInstanceMap() (hal.InstanceMap, error) {
	if s.OpenInstanceMapErr != nil {
		return nil, s.OpenInstanceMapErr
	}
	s.open(HandleInstanceMap)
	return &instanceMap{sys: s}, nil
}

func (m *instanceMap) PathDev(driver string, instance int, minor string) (string, bool) {
	if m.closed {
		panic("memory: use of closed instance map")
	}
	for _, in := range m.sys.fixture.Instances {
		if in.Driver == driver && in.Instance == instance && in.Minor == minor {
			return in.Path, true
		}
	}
	return "", false
}

func (m *instanceMap) Close() error {
	if m.closed {
		panic("memory: instance map closed twice")
	}
	m.closed = true
	m.sys.close(HandleInstanceMap)
	return nil
}
