package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/diag"
)

func TestNameFormat(t *testing.T) {
	tests := []struct {
		name string
		bad  bool
	}{
		{"feature flag cleanup", false},
		{"code review 2", false},
		{"Feature-Flag-Cleanup", true},
		{"feature-flag-cleanup", true},
		{"Feature flag cleanup", true},
		{"flags_cleanup", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := metadataBundle(t, `{"name": "`+tt.name+`", "description": "x.", "version": "1.0.0"}`)
			ds := evaluate(t, diag.NameFormat, b)
			if !tt.bad {
				assert.Empty(t, ds)
				return
			}
			require.Len(t, ds, 1)
			assert.Equal(t, diag.Error, ds[0].Severity)
			assert.Equal(t, diag.FileMetadata, ds[0].File)
			assert.Contains(t, ds[0].Message, "'"+tt.name+"'")
			assert.Equal(t, "line 1", ds[0].Location)
		})
	}
}

func TestNameFormatSkipsMissingName(t *testing.T) {
	b := metadataBundle(t, `{"description": "x.", "version": "1.0.0"}`)
	assert.Empty(t, evaluate(t, diag.NameFormat, b))
}

func TestDescriptionPunctuation(t *testing.T) {
	for desc, want := range map[string]int{
		"Cleans flags.":  0,
		"Cleans flags!":  0,
		"Cleans flags? ": 0,
		"Cleans flags":   1,
		"Cleans flags,":  1,
	} {
		b := metadataBundle(t, `{"name": "a", "description": "`+desc+`", "version": "1.0.0"}`)
		ds := evaluate(t, diag.DescriptionPunctuation, b)
		assert.Len(t, ds, want, desc)
		for _, d := range ds {
			assert.Equal(t, diag.Warning, d.Severity)
		}
	}
}

func TestValidVersion(t *testing.T) {
	tests := map[string]bool{
		"1.0.0":       true,
		"10.20.30":    true,
		"1.0":         false,
		"v1.0.0":      false,
		"1.0.0-beta":  false,
		"1.0.0+build": false,
		"01.0.0":      false,
		"one":         false,
	}
	for v, want := range tests {
		assert.Equal(t, want, ValidVersion(v), v)
	}
}

func TestVersionFormatRule(t *testing.T) {
	b := metadataBundle(t, `{"name": "a", "description": "x.", "version": "1.0"}`)
	ds := evaluate(t, diag.VersionFormat, b)
	require.Len(t, ds, 1)
	assert.Equal(t, "'version' must follow semver (MAJOR.MINOR.PATCH), got '1.0'", ds[0].Message)
}
