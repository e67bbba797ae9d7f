package rules

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
)

var namePattern = regexp.MustCompile(`^[a-z0-9 ]+$`)

func metadataRules() []Rule {
	return []Rule{
		{
			Code:     diag.NameFormat,
			File:     diag.FileMetadata,
			Severity: diag.Error,
			Message:  "'name' must be lowercase alphanumeric with spaces only, got '%s'",
			Title:    "'name' follows naming conventions",
			Needs:    NeedsMetadata,
			Check:    checkNameFormat,
		},
		{
			Code:     diag.DescriptionPunctuation,
			File:     diag.FileMetadata,
			Severity: diag.Warning,
			Message:  "'description' should end with punctuation (. ! or ?)",
			Title:    "'description' has proper punctuation",
			Needs:    NeedsMetadata,
			Check:    checkDescriptionPunctuation,
		},
		{
			Code:     diag.VersionFormat,
			File:     diag.FileMetadata,
			Severity: diag.Error,
			Message:  "'version' must follow semver (MAJOR.MINOR.PATCH), got '%s'",
			Title:    "'version' follows semver format",
			Needs:    NeedsMetadata,
			Check:    checkVersionFormat,
		},
	}
}

func checkNameFormat(b *model.Bundle) []Finding {
	m := b.Metadata
	if !m.Has(model.FieldName) || namePattern.MatchString(m.Name) {
		return nil
	}
	return []Finding{Found(diag.Line(m.Line(model.FieldName)), m.Name)}
}

func checkDescriptionPunctuation(b *model.Bundle) []Finding {
	m := b.Metadata
	if !m.Has(model.FieldDescription) {
		return nil
	}
	desc := strings.TrimRight(m.Description, " \t\r\n")
	if strings.HasSuffix(desc, ".") || strings.HasSuffix(desc, "!") || strings.HasSuffix(desc, "?") {
		return nil
	}
	return []Finding{Found(diag.Line(m.Line(model.FieldDescription)))}
}

// ValidVersion reports whether v is a plain MAJOR.MINOR.PATCH release.
func ValidVersion(v string) bool {
	parsed, err := semver.StrictNewVersion(v)
	if err != nil {
		return false
	}
	return parsed.Prerelease() == "" && parsed.Metadata() == ""
}

func checkVersionFormat(b *model.Bundle) []Finding {
	m := b.Metadata
	if !m.Has(model.FieldVersion) || ValidVersion(m.Version) {
		return nil
	}
	return []Finding{Found(diag.Line(m.Line(model.FieldVersion)), m.Version)}
}
