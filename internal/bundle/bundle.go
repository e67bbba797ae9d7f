package bundle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Bundle file names.
const (
	MetadataFile = "metadata.json"
	PipelineFile = "pipeline.yaml"
	WikiFile     = "wiki.MD"
	IconFile     = "logo.svg"
)

var (
	ErrNotFound     = errors.New("path does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
)

// File is one bundle file as read from storage.
type File struct {
	Kind    diag.File
	Name    string
	Data    []byte
	Present bool
	Err     error // read failure of a present file
}

// Files is the raw content of one bundle directory.
type Files struct {
	Dir      string // directory base name
	Path     string
	Metadata File
	Pipeline File
	Wiki     File
	Icon     File
}

// All returns the four files in report order.
func (f *Files) All() []*File {
	return []*File{&f.Metadata, &f.Pipeline, &f.Wiki, &f.Icon}
}

// Loader reads bundles through an afs service.
type Loader struct {
	fs afs.Service
}

// NewLoader returns a Loader over the default afs service, which serves
// local paths and file:// URLs.
func NewLoader() *Loader {
	return &Loader{fs: afs.New()}
}

// NewLoaderWith returns a Loader over fs.
func NewLoaderWith(fs afs.Service) *Loader {
	return &Loader{fs: fs}
}

// location resolves path and checks that it is an existing directory.
func (l *Loader) location(ctx context.Context, path string) (string, error) {
	location := path
	if url.IsRelative(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", path, err)
		}
		location = abs
	}
	exists, err := l.fs.Exists(ctx, location)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	object, err := l.fs.Object(ctx, location)
	if err != nil {
		return "", fmt.Errorf("inspecting %s: %w", path, err)
	}
	if !object.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	return location, nil
}

// Load reads the four bundle files from the directory at path.
func (l *Loader) Load(ctx context.Context, path string) (*Files, error) {
	location, err := l.location(ctx, path)
	if err != nil {
		return nil, err
	}
	files := &Files{
		Dir:      baseName(location),
		Path:     path,
		Metadata: File{Kind: diag.FileMetadata, Name: MetadataFile},
		Pipeline: File{Kind: diag.FilePipeline, Name: PipelineFile},
		Wiki:     File{Kind: diag.FileWiki, Name: WikiFile},
		Icon:     File{Kind: diag.FileIcon, Name: IconFile},
	}
	for _, f := range files.All() {
		l.read(ctx, location, f)
	}
	return files, nil
}

func (l *Loader) read(ctx context.Context, location string, f *File) {
	fileURL := url.Join(location, f.Name)
	exists, err := l.fs.Exists(ctx, fileURL)
	if err != nil {
		f.Present, f.Err = true, err
		return
	}
	if !exists {
		return
	}
	f.Present = true
	f.Data, f.Err = l.fs.DownloadWithURL(ctx, fileURL)
}

// Discover lists the bundle directories under root. A root that itself
// holds metadata.json or pipeline.yaml is the single bundle; otherwise each
// non-hidden subdirectory holding either file is a bundle, sorted by name.
func (l *Loader) Discover(ctx context.Context, root string) ([]string, error) {
	location, err := l.location(ctx, root)
	if err != nil {
		return nil, err
	}
	if l.isBundle(ctx, location) {
		return []string{root}, nil
	}

	objects, err := l.fs.List(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	var names []string
	for _, object := range objects {
		if sameLocation(object.URL(), location) || !object.IsDir() || strings.HasPrefix(object.Name(), ".") {
			continue
		}
		if l.isBundle(ctx, object.URL()) {
			names = append(names, object.Name())
		}
	}
	slices.Sort(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(root, name)
	}
	return paths, nil
}

func (l *Loader) isBundle(ctx context.Context, location string) bool {
	for _, name := range []string{MetadataFile, PipelineFile} {
		if ok, _ := l.fs.Exists(ctx, url.Join(location, name)); ok {
			return true
		}
	}
	return false
}

// sameLocation matches the listed directory itself, which afs returns as
// the first listing entry.
func sameLocation(a, b string) bool {
	return url.Equals(a, b) || strings.TrimRight(url.Path(a), "/") == strings.TrimRight(url.Path(b), "/")
}

func baseName(location string) string {
	_, name := url.Split(strings.TrimRight(location, "/"), file.Scheme)
	if name == "" {
		name = filepath.Base(strings.TrimRight(location, "/"))
	}
	return name
}
