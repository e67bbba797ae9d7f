// Package engine runs the lint pipeline for template bundles: read the
// files, parse and build each one independently, evaluate the rule
// registry, collect diagnostics and produce a report. Several bundles are
// linted concurrently on a bounded worker pool, and results can be served
// from a content-addressed cache.
package engine
