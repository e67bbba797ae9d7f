// Package crossfile holds the rules that compare two or more files of a
// bundle: metadata name against the directory name and the wiki title, and
// the wiki inputs table against the pipeline inputs. They are registered
// after the single-file rules.
package crossfile
