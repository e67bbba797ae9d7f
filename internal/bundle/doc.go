// Package bundle locates template bundles and reads their files through the
// viant/afs storage abstraction. A missing or unreadable file is recorded on
// the File, never returned as an error; only a target path that does not
// exist or is not a directory fails.
package bundle
