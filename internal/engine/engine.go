// Package engine provides the allocation engine for Foreman.
// The implementation is split across multiple files:
// - allocator.go: the allocation cycle and per-task execution
// - safegroup.go: panic-safe concurrency utilities for long-running loops
package engine
