package rules

import (
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
)

// RecommendedSections are the level-2 wiki headings every template should
// carry, matched by prefix.
var RecommendedSections = []string{"Overview", "Key Capabilities", model.InputsSection}

func wikiRules() []Rule {
	return []Rule{
		{
			Code:     diag.WikiTitleMissing,
			File:     diag.FileWiki,
			Severity: diag.Error,
			Message:  "Missing title (# heading)",
			Title:    "Title present",
			Needs:    NeedsWiki,
			Check: func(b *model.Bundle) []Finding {
				if b.Wiki.HasTitle {
					return nil
				}
				return []Finding{Found("")}
			},
		},
		{
			Code:     diag.WikiSectionMissing,
			File:     diag.FileWiki,
			Severity: diag.Warning,
			Message:  "Missing '%s' section (recommended)",
			Title:    "Recommended sections present",
			Needs:    NeedsWiki,
			Check: func(b *model.Bundle) []Finding {
				var out []Finding
				for _, section := range RecommendedSections {
					if !b.Wiki.HasSection(section) {
						out = append(out, Found("", section))
					}
				}
				return out
			},
		},
		{
			Code:     diag.CodeBlockLanguage,
			File:     diag.FileWiki,
			Severity: diag.Warning,
			Message:  "%d code block(s) missing language specifier",
			Title:    "All code blocks have language specifiers",
			Needs:    NeedsWiki,
			Check: func(b *model.Bundle) []Finding {
				n, first := 0, 0
				for _, block := range b.Wiki.CodeBlocks {
					if block.Lang == "" {
						if n == 0 {
							first = block.Line
						}
						n++
					}
				}
				if n == 0 {
					return nil
				}
				return []Finding{Found(diag.Line(first), n)}
			},
		},
	}
}

func iconRules() []Rule {
	return []Rule{
		{
			Code:     diag.IconNotSVG,
			File:     diag.FileIcon,
			Severity: diag.Warning,
			Message:  "Root element is <%s>, expected <svg>",
			Title:    "Root element is <svg>",
			Needs:    NeedsIcon,
			Check: func(b *model.Bundle) []Finding {
				if b.Icon.Root == "svg" {
					return nil
				}
				return []Finding{Found("", b.Icon.Root)}
			},
		},
	}
}
