package rules

// Builtin returns the single-file rules in their documented order:
// metadata, pipeline, wiki, icon.
func Builtin() []Rule {
	var out []Rule
	out = append(out, metadataRules()...)
	out = append(out, pipelineRules()...)
	out = append(out, wikiRules()...)
	out = append(out, iconRules()...)
	return out
}
