package templates

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"slices"

	"github.com/a-h/templ"
	"gopkg.in/yaml.v3"
)

// DefaultCatalogFile is the catalog path inside the template file system.
const DefaultCatalogFile = "catalog.yaml"

//go:embed catalog.yaml layout.html mail/*.html
var embedded embed.FS

// Entry describes one addressable template.
type Entry struct {
	Name    string `yaml:"-"`
	File    string `yaml:"file"`
	Subject string `yaml:"subject"`
	Tag     string `yaml:"tag"`
}

type catalogFile struct {
	Layout    string           `yaml:"layout"`
	Templates map[string]Entry `yaml:"templates"`
}

// Rendered is a template ready to be handed to an email sender.
type Rendered struct {
	Subject string
	Tag     string
	HTML    string
}

// Catalog holds the parsed templates keyed by name.
// It is safe for concurrent use once loaded.
type Catalog struct {
	entries  map[string]Entry
	compiled map[string]*template.Template
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(embedded, DefaultCatalogFile)
}

// MustDefault is Default that panics on error.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML catalog from fsys and parses every template it names.
// Each template file defines a "content" block executed inside the layout.
func Load(fsys fs.FS, catalogPath string) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, catalogPath)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if len(cf.Templates) == 0 {
		return nil, fmt.Errorf("%w: no templates defined", ErrInvalidCatalog)
	}

	c := &Catalog{
		entries:  make(map[string]Entry, len(cf.Templates)),
		compiled: make(map[string]*template.Template, len(cf.Templates)),
	}
	for name, entry := range cf.Templates {
		if entry.File == "" {
			return nil, fmt.Errorf("%w: template %q has no file", ErrInvalidCatalog, name)
		}
		entry.Name = name
		if entry.Tag == "" {
			entry.Tag = name
		}

		patterns := []string{entry.File}
		if cf.Layout != "" {
			patterns = []string{cf.Layout, entry.File}
		}
		tpl, err := template.New(path.Base(patterns[0])).Funcs(funcMap()).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("template %q: %w", name, err))
		}

		c.entries[name] = entry
		c.compiled[name] = tpl
	}
	return c, nil
}

// Names returns the catalog template names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the catalog entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Render executes the named template with data.
func (c *Catalog) Render(ctx context.Context, name string, data any) (Rendered, error) {
	entry, ok := c.entries[name]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	html, err := Render(ctx, templ.FromGoHTML(c.compiled[name], data))
	if err != nil {
		return Rendered{}, errors.Join(ErrTemplateRender, err)
	}

	return Rendered{Subject: entry.Subject, Tag: entry.Tag, HTML: html}, nil
}
