// Package diag defines the diagnostic record produced by every stage of a
// template lint run, together with the collector that merges diagnostics from
// parsers, model builders and rules into one deterministic order.
package diag
