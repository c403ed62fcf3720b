// Package cmd implements the command-line interface for pKV, a process-local
// persistent key-value store with debounced saves. It provides a hierarchical
// command structure for inspecting and mutating stores on disk.
//
// The package is organized into several subpackages:
//
//   - store: Commands for store operations (get, set, delete, save, info, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See pkv -help for a list of all commands.
package cmd
