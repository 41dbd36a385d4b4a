package devtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/devinfo/devtree/hal/memory"
)

const (
	blkdevPath = "/pci@0,0/pci1022,1483@1,1/pci1344,3100@0/blkdev@w00A0750130082207,0"
	rawAPath   = blkdevPath + ":a,raw"
	rawWDPath  = blkdevPath + ":wd,raw"
)

// fixtureSystem returns a memory system serving testdata/tree.yaml and
// checks at cleanup that every handle was released exactly once.
func fixtureSystem(t *testing.T) *memory.System {
	t.Helper()
	f, err := memory.LoadFile("testdata/tree.yaml")
	require.NoError(t, err)
	return checkedSystem(t, f)
}

func checkedSystem(t *testing.T, f *memory.Fixture) *memory.System {
	t.Helper()
	sys, err := memory.New(f)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.Zero(t, sys.Outstanding(), "handles left open")
	})
	return sys
}

// openSnapshot captures the fixture and closes it at cleanup.
func openSnapshot(t *testing.T, sys *memory.System, opts ...Option) *Snapshot {
	t.Helper()
	s, err := NewSnapshot(sys, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if !s.Released() {
			require.NoError(t, s.Close())
		}
	})
	return s
}

// collect drains a walk into node names, failing on any step error.
func collect(t *testing.T, next func() (Node, error)) []string {
	t.Helper()
	var names []string
	for {
		n, err := next()
		if errors.Is(err, Done) {
			return names
		}
		require.NoError(t, err)
		names = append(names, n.Name())
	}
}

// findNode walks s until a node with the given devfs path is found.
func findNode(t *testing.T, s *Snapshot, path string) Node {
	t.Helper()
	w := s.WalkNodes()
	for {
		n, err := w.Next()
		require.NoError(t, err, "node %s not found", path)
		p, err := n.DevfsPath()
		require.NoError(t, err)
		if p == path {
			return n
		}
	}
}

func intp(v int) *int {
	return &v
}

func strp(s string) *string {
	return &s
}
