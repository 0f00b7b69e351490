//go:build debug

// Package debug provides a centralized, categorized debug logging system.
// Build with -tags debug to enable logging.
package debug

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Category represents a debug logging category
type Category string

const (
	// Core categories
	APP    Category = "APP"    // Session orchestration, navigation, state
	FS     Category = "FS"     // Directory listing and file operations
	SEARCH Category = "SEARCH" // Search engine, query parsing, scoring
	CLIP   Category = "CLIP"   // Clipboard copy/cut/paste
	SELECT Category = "SELECT" // Selection changes
	STORE  Category = "STORE"  // Database operations

	// Detailed subcategories (use sparingly - can be verbose)
	FS_ENTRY Category = "FS_ENTRY" // Individual entry processing (very verbose)
	FS_WALK  Category = "FS_WALK"  // Directory walking during search
)

var (
	// enabledCategories controls which categories are active. It is only
	// written during init.
	enabledCategories = map[Category]bool{
		APP:    true,
		FS:     true,
		SEARCH: true,
		CLIP:   true,
		SELECT: true,
		STORE:  true,
		// Verbose categories disabled by default
		FS_ENTRY: false,
		FS_WALK:  false,
	}

	logger *zap.SugaredLogger
)

func init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug: zap init failed: %v\n", err)
		l = zap.NewNop()
	}
	logger = l.Sugar()

	// Format: RAZORFS_DEBUG=APP,FS,SEARCH or RAZORFS_DEBUG=all or RAZORFS_DEBUG=none
	if env := os.Getenv("RAZORFS_DEBUG"); env != "" {
		env = strings.ToUpper(env)
		switch env {
		case "ALL":
			for cat := range enabledCategories {
				enabledCategories[cat] = true
			}
		case "NONE":
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
		default:
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
			for _, cat := range strings.Split(env, ",") {
				enabledCategories[Category(strings.TrimSpace(cat))] = true
			}
		}
	}
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	if !enabledCategories[cat] {
		return
	}

	logger.Debugw(fmt.Sprintf(format, args...), "cat", string(cat))
}

// Sync flushes buffered log output.
func Sync() {
	_ = logger.Sync()
}
