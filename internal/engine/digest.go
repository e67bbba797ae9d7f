package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/thisrohangupta/agents/internal/bundle"
)

// Digest addresses a bundle's content under a rule configuration: the
// directory name, each file's presence and bytes, and fingerprint.
func Digest(files *bundle.Files, fingerprint string) string {
	h := sha256.New()
	fmt.Fprintf(h, "dir %s\n", files.Dir)
	for _, f := range files.All() {
		fmt.Fprintf(h, "file %s %t %d\n", f.Name, f.Present, len(f.Data))
		h.Write(f.Data)
	}
	fmt.Fprintf(h, "rules %s\n", fingerprint)
	return hex.EncodeToString(h.Sum(nil))
}

// cacheable excludes bundles with read failures, whose diagnostics depend
// on the environment rather than on content.
func cacheable(files *bundle.Files) bool {
	for _, f := range files.All() {
		if f.Err != nil {
			return false
		}
	}
	return true
}
