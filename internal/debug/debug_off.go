//go:build !debug

// Package debug provides a centralized, categorized debug logging system.
// This is the no-op version for release builds.
package debug

// Category represents a debug logging category
type Category string

const (
	APP      Category = "APP"
	FS       Category = "FS"
	FS_ENTRY Category = "FS_ENTRY"
	FS_WALK  Category = "FS_WALK"
	SEARCH   Category = "SEARCH"
	CLIP     Category = "CLIP"
	SELECT   Category = "SELECT"
	STORE    Category = "STORE"
)

// Log is a no-op in release builds
func Log(cat Category, format string, args ...interface{}) {}

// Sync is a no-op in release builds
func Sync() {}
