// Package registry provides a process-wide map from identifiers to shared
// store handles. It guarantees that concurrent callers asking for the same
// identifier receive the same store instance, so two parts of a process
// never race on the same file with independent stores.
//
// Get-or-create is atomic (xsync.MapOf.Compute): when two goroutines race
// to create the same store, exactly one construction runs and both receive
// its result. The first caller's options win; later callers' options are
// silently ignored.
//
// Shutdown is the process teardown hook: it closes every registered store,
// flushing dirty ones within the given context, and empties the registry.
package registry
