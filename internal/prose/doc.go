// Package prose is the pluggable text-quality collaborator. A Checker reads
// free text and returns advice; the engine reports advice as info
// diagnostics with a PROSE_ code prefix. Advice never fails a template.
package prose
