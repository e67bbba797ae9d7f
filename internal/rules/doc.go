// Package rules holds the rule records evaluated against a template bundle
// and the Registry that orders, configures and runs them.
//
// A rule is data: a code, the file it reports against, a default severity, a
// message template, a checklist title and a Check function over the bundle.
// Rules are independent and never fail; a rule whose required models are
// absent is skipped and contributes nothing.
package rules
