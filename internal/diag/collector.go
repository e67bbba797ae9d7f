package diag

import (
	"sort"
	"sync"
)

// Collector accumulates diagnostics from independent producers. Each batch is
// tagged with the producer's origin (its fixed position in the pipeline of
// parsers, builders and rules), so the merged order does not depend on the
// order in which concurrent producers happened to finish.
type Collector struct {
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	origin   int
	position int
	d        Diagnostic
}

// Add appends a batch of diagnostics produced by origin.
func (c *Collector) Add(origin int, diagnostics ...Diagnostic) {
	if len(diagnostics) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range diagnostics {
		c.entries = append(c.entries, entry{origin: origin, position: i, d: d})
	}
}

// Len returns the number of diagnostics collected so far, duplicates included.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sorted returns the deduplicated diagnostics ordered by file, severity,
// code and first occurrence.
func (c *Collector) Sorted() []Diagnostic {
	c.mu.Lock()
	entries := make([]entry, len(c.entries))
	copy(entries, c.entries)
	c.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].origin != entries[j].origin {
			return entries[i].origin < entries[j].origin
		}
		return entries[i].position < entries[j].position
	})

	type key struct {
		file     File
		severity Severity
		code     Code
		message  string
		location string
	}
	seen := make(map[key]bool, len(entries))
	result := make([]Diagnostic, 0, len(entries))
	for _, e := range entries {
		k := key{e.d.File, e.d.Severity, e.d.Code, e.d.Message, e.d.Location}
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, e.d)
	}
	Sort(result)
	return result
}

// Sort orders diagnostics by file, severity and code. The sort is stable, so
// diagnostics that tie keep their relative (first occurrence) order.
func Sort(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i], diagnostics[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Code < b.Code
	})
}
