// Package devtree provides structured access to the live device tree.
//
// A [Snapshot] owns one capture of the operating system's device tree. Nodes
// are visited with a [NodeWalk] (pre-order, with subtree pruning) or a
// [DriverWalk] (every node bound to one driver). Each [Node] exposes its
// typed properties through a [PropertyWalk] and its device special files
// through a [MinorWalk].
//
// Two further handles are independent of any snapshot: [DevLinks] resolves
// the /dev symbolic links pointing at a device-filesystem path, and
// [Translator] maps a driver instance straight to a public device path.
//
// # Lifetime
//
// [Node], [Property], and [Minor] are views into the snapshot that produced
// them. They become invalid the moment the snapshot is closed. Accessors that
// return an error report [pkg.ErrReleased]; accessors that return a plain
// value panic with [pkg.ErrReleased]. Use [With] to scope a snapshot to a
// function so that no view can outlive it by accident:
//
//	err := devtree.With(devtree.DefaultSystem(), func(s *devtree.Snapshot) error {
//	    w := s.WalkNodes()
//	    for {
//	        n, err := w.Next()
//	        if errors.Is(err, devtree.Done) {
//	            return nil
//	        }
//	        if err != nil {
//	            return err
//	        }
//	        fmt.Println(n.Name())
//	        if n.Name() == "pseudo" {
//	            w.SkipChildren()
//	        }
//	    }
//	})
//
// # Concurrency
//
// Handles are not safe for concurrent use. Callers sharing a snapshot across
// goroutines must serialize access themselves.
//
// # Fatal Decoding
//
// The minor spec type and the device-link type are documented to take one of
// two values. Any other value means the external source broke its contract;
// decoding panics with a [*pkg.IntegrityError] rather than guessing.
package devtree
