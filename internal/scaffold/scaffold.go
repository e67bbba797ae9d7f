package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates
var templateFS embed.FS

const templatesDir = "templates/bundle"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Data holds the variables available to the bundle templates.
type Data struct {
	Slug        string // directory name, e.g. "flag-cleanup"
	Name        string // metadata name, e.g. "flag cleanup"
	Title       string // wiki title, e.g. "Flag Cleanup"
	Description string
	Version     string
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
}

// NewData derives the template variables from a directory name. The name
// must be lower-case letters and digits separated by single hyphens, which
// is what the naming rules accept.
func NewData(slug string) (*Data, error) {
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("invalid template name %q: use lower-case letters, digits and single hyphens", slug)
	}
	name := strings.ReplaceAll(slug, "-", " ")
	return &Data{
		Slug:        slug,
		Name:        name,
		Title:       cases.Title(language.English).String(name),
		Description: fmt.Sprintf("Describe what %s does.", name),
		Version:     "0.1.0",
	}, nil
}

// Generate writes a new bundle into outputDir, creating it if needed. It
// refuses to write into a directory that already has entries.
func Generate(data *Data, outputDir string) (*Result, error) {
	entries, err := fs.ReadDir(templateFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("reading bundle templates: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tmplPath := path.Join(templatesDir, entry.Name())
		tmplBytes, err := fs.ReadFile(templateFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outPath := filepath.Join(outputDir, outName)
		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, outName)
	}
	return result, nil
}
