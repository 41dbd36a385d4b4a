// Package pkg provides shared utilities for the devinfo packages.
//
// This package contains common functionality used by the device tree core,
// its providers, and the command-line tools, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel and typed errors for the failure taxonomy of the core
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with component context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogDebug(pkg.ComponentSnapshot, "snapshot captured", "root", "/")
//
// # Errors
//
// Every failure surfaced by the core is an [*OpError] that matches both a
// failure class and the underlying OS error:
//
//	if errors.Is(err, pkg.ErrInit) && errors.Is(err, syscall.EPERM) {
//	    // Not privileged enough to capture the tree
//	}
//
// A broken assumption about the external source (an unknown spec type or
// link type) is not an error; it panics with an [*IntegrityError].
package pkg
