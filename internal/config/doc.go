// Package config manages templint settings. The user file lives at
// ~/.templint/config.yaml, a project file .templint.yaml in the working
// directory is merged over it, and TEMPLINT_* environment variables override
// both. Besides output and cache settings it carries per-rule severity
// overrides under the rules key.
package config
