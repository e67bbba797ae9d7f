// Package parse turns the raw bytes of each template file into a generic
// tree. Parsers are stateless and never fail: a malformed document yields a
// nil or partial tree plus a single SYNTAX_ERROR diagnostic carrying the
// underlying parser's position when one is available.
package parse
