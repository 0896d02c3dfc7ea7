// Package catalog holds the fixed set of resume templates, language packs,
// editor pages and static resources the service is built with.
// Everything is loaded once at startup from an embedded filesystem.
package catalog

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"slices"

	"github.com/jonathan/resume-pdf/internal/rendering"
	"github.com/jonathan/resume-pdf/internal/types"
)

// Compiled-in enumerations. Adding an entry requires the matching file under
// the assets tree.
var (
	Templates = []string{"material-blue"}
	Languages = []string{"en", "de", "fr"}
	Pages     = []string{PageRaw, PageEditor}
)

// Editor page identifiers
const (
	PageRaw    = "raw"
	PageEditor = "editor"
)

const (
	templateDir     = "templates"
	languageDir     = "languages"
	pageDir         = "pages"
	staticDir       = "static"
	defaultResume   = "default-resume.json"
	templateFileExt = ".html"
	languageFileExt = ".json"
)

// LoadError is returned when a catalog resource is missing or malformed
type LoadError struct {
	Resource string
	Cause    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog: failed to load %s: %v", e.Resource, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Catalog is immutable after Load and safe for concurrent use.
type Catalog struct {
	templates     map[string]string
	languages     map[string]types.LanguagePack
	pages         map[string]*template.Template
	defaultResume []byte
	static        fs.FS
}

// Load reads every enumerated resource from fsys. Each template is parsed and
// each language pack decoded up front; the first failure is returned.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		templates: make(map[string]string, len(Templates)),
		languages: make(map[string]types.LanguagePack, len(Languages)),
		pages:     make(map[string]*template.Template, len(Pages)),
	}

	for _, id := range Templates {
		name := path.Join(templateDir, id+templateFileExt)
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &LoadError{Resource: name, Cause: err}
		}
		if _, err := rendering.ParseTemplate(id, string(src)); err != nil {
			return nil, &LoadError{Resource: name, Cause: err}
		}
		c.templates[id] = string(src)
	}

	for _, code := range Languages {
		name := path.Join(languageDir, code+languageFileExt)
		pack, err := loadLanguage(fsys, name)
		if err != nil {
			return nil, &LoadError{Resource: name, Cause: err}
		}
		pack.Code = code
		c.languages[code] = pack
	}

	for _, id := range Pages {
		name := path.Join(pageDir, id+templateFileExt)
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &LoadError{Resource: name, Cause: err}
		}
		tmpl, err := template.New(id).Parse(string(src))
		if err != nil {
			return nil, &LoadError{Resource: name, Cause: err}
		}
		c.pages[id] = tmpl
	}

	raw, err := fs.ReadFile(fsys, defaultResume)
	if err != nil {
		return nil, &LoadError{Resource: defaultResume, Cause: err}
	}
	if !json.Valid(raw) {
		return nil, &LoadError{Resource: defaultResume, Cause: fmt.Errorf("not valid JSON")}
	}
	c.defaultResume = raw

	static, err := fs.Sub(fsys, staticDir)
	if err != nil {
		return nil, &LoadError{Resource: staticDir, Cause: err}
	}
	if _, err := fs.ReadDir(static, "."); err != nil {
		return nil, &LoadError{Resource: staticDir, Cause: err}
	}
	c.static = static

	return c, nil
}

func loadLanguage(fsys fs.FS, name string) (types.LanguagePack, error) {
	var pack types.LanguagePack
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return pack, err
	}
	if err := json.Unmarshal(data, &pack); err != nil {
		return pack, err
	}
	h := pack.Headings
	if h.Contact == "" || h.Experience == "" || h.Education == "" || h.Skills == "" {
		return pack, fmt.Errorf("missing heading translations")
	}
	return pack, nil
}

// ListTemplates returns the template ids in sorted order.
func (c *Catalog) ListTemplates() []string {
	return sortedKeys(c.templates)
}

// ListLanguages returns the language codes in sorted order.
func (c *Catalog) ListLanguages() []string {
	return sortedKeys(c.languages)
}

func (c *Catalog) HasTemplate(id string) bool {
	_, ok := c.templates[id]
	return ok
}

func (c *Catalog) HasLanguage(code string) bool {
	_, ok := c.languages[code]
	return ok
}

// Template returns the source of a template.
func (c *Catalog) Template(id string) (string, bool) {
	src, ok := c.templates[id]
	return src, ok
}

// Language returns a copy of a language pack.
func (c *Catalog) Language(code string) (*types.LanguagePack, bool) {
	pack, ok := c.languages[code]
	if !ok {
		return nil, false
	}
	return &pack, true
}

// DefaultResume returns the example document shown in the editors.
func (c *Catalog) DefaultResume() []byte {
	return slices.Clone(c.defaultResume)
}

// Page returns a parsed editor page.
func (c *Catalog) Page(id string) (*template.Template, bool) {
	tmpl, ok := c.pages[id]
	return tmpl, ok
}

// Static returns the stylesheets and images shared by the editors and the
// renderer.
func (c *Catalog) Static() fs.FS {
	return c.static
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
