// Package report holds the structured lint result for a bundle and its two
// projections: the human-readable text report and the JSON record. Rendering
// is a pure function of the Report, so an unchanged bundle renders
// byte-identically.
package report
