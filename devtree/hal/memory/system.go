package memory

import (
	"fmt"
	"sync"

	"github.com/ardnew/devinfo/devtree/hal"
)

// Handle identifies one of the three handle kinds for accounting.
type Handle int

// Handle kinds.
const (
	HandleTree Handle = iota
	HandleLinkDB
	HandleInstanceMap
	numHandles
)

// String returns the handle kind name.
func (h Handle) String() string {
	switch h {
	case HandleTree:
		return "tree"
	case HandleLinkDB:
		return "linkdb"
	case HandleInstanceMap:
		return "instancemap"
	default:
		return "invalid"
	}
}

// System serves handles from a fixture.
type System struct {
	// Errors returned by the corresponding Open method, if set.
	OpenTreeErr        error
	OpenLinkDBErr      error
	OpenInstanceMapErr error

	fixture *Fixture

	mu     sync.Mutex
	opened [numHandles]int
	closed [numHandles]int
}

var _ hal.System = (*System)(nil)

// New validates f and returns a system serving it.
func New(f *Fixture) (*System, error) {
	if f == nil {
		return nil, fmt.Errorf("nil fixture")
	}
	if _, err := compile(nil, &f.Root, "/"); err != nil {
		return nil, err
	}
	for path, links := range f.Links {
		for i, l := range links {
			if _, err := parseLinkType(l.Type); err != nil {
				return nil, fmt.Errorf("link %d of %s: %w", i, path, err)
			}
		}
	}
	return &System{fixture: f}, nil
}

// Opened returns how many handles of kind h were opened.
func (s *System) Opened(h Handle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened[h]
}

// Closed returns how many handles of kind h were closed.
func (s *System) Closed(h Handle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed[h]
}

// Outstanding returns the number of handles opened but not yet closed.
func (s *System) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for h := range s.opened {
		n += s.opened[h] - s.closed[h]
	}
	return n
}

func (s *System) open(h Handle) {
	s.mu.Lock()
	s.opened[h]++
	s.mu.Unlock()
}

func (s *System) close(h Handle) {
	s.mu.Lock()
	s.closed[h]++
	s.mu.Unlock()
}
