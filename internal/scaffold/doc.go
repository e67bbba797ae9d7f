// Package scaffold generates new template bundles from embedded templates.
// A generated bundle lints clean, so authors start from a passing baseline
// and the linter only reports what they change.
package scaffold
