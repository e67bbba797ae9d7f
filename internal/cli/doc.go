// Package cli defines the Cobra command tree for the templint CLI. Each file
// in this package registers one top-level command (lint, rules, new, etc.)
// with the root command. Command implementations delegate to internal
// packages for business logic and only handle flag parsing, I/O formatting
// and exit codes.
package cli
