// Package hal defines the provider interfaces the device tree core walks.
//
// A provider exposes an externally owned device tree, device-link database,
// and instance map through opaque handles. The core in
// [github.com/ardnew/devinfo/devtree] imposes iteration order, lifetime
// checks, and typed decoding on top of these handles; providers only answer
// single-step questions about them.
//
// # Handles
//
// [NodeID], [PropID], and [MinorID] are opaque, provider-defined values. The
// zero value of each is the "nil" handle that terminates a list. Handles are
// valid only while the [Tree] that produced them is open.
//
// # Raw Values
//
// Providers report values the way the operating system encodes them: the
// instance sentinel [NoInstance], property type codes (PropType*), file
// mode spec types, and link type codes (Link*). Decoding these into domain
// values is the core's job.
//
// # Implementations
//
//   - [github.com/ardnew/devinfo/devtree/hal/illumos]: cgo binding to
//     libdevinfo (illumos only)
//   - [github.com/ardnew/devinfo/devtree/hal/memory]: in-memory tree built
//     from YAML fixtures, for tests and offline use
package hal
