package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
)

func TestWikiRules(t *testing.T) {
	b := wikiBundle(t, "## overview\n\ntext\n\n## Inputs\n\n```\nplain\n```\n\n```bash\nls\n```\n\n```\nmore\n```\n")
	assert.Equal(t, []string{"Missing title (# heading)"}, messages(evaluate(t, diag.WikiTitleMissing, b)))
	assert.Equal(t, []string{"Missing 'Key Capabilities' section (recommended)"}, messages(evaluate(t, diag.WikiSectionMissing, b)))
	ds := evaluate(t, diag.CodeBlockLanguage, b)
	assert.Equal(t, []string{"2 code block(s) missing language specifier"}, messages(ds))
	assert.Equal(t, "line 7", ds[0].Location)
}

func TestIconRule(t *testing.T) {
	assert.Empty(t, evaluate(t, diag.IconNotSVG, &model.Bundle{HasIcon: true, Icon: &model.Icon{Root: "svg"}}))
	assert.Equal(t, []string{"Root element is <html>, expected <svg>"},
		messages(evaluate(t, diag.IconNotSVG, &model.Bundle{HasIcon: true, Icon: &model.Icon{Root: "html"}})))
	assert.Empty(t, evaluate(t, diag.IconNotSVG, &model.Bundle{}))
}
