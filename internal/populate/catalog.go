package populate

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// ErrTemplate is returned for unknown template selectors and missing template files.
var ErrTemplate = errors.New("template error")

//go:embed templates/*.md
var embedded embed.FS

// selectors maps every accepted selector to its canonical template name.
var selectors = map[string]string{
	"modern":  "modern",
	"classic": "classic",
	"basic":   "basic",
	"library": "basic",
}

// Selectors returns the accepted template selectors, sorted.
func Selectors() []string {
	out := make([]string, 0, len(selectors))
	for k := range selectors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Catalog loads templates by selector from a directory or the built-in set.
type Catalog struct {
	fsys fs.FS
}

// NewCatalog returns a catalog reading notion_template_<name>.md files from
// dir. An empty dir uses the templates compiled into the binary.
func NewCatalog(dir string) *Catalog {
	if dir == "" {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			panic(err)
		}
		return &Catalog{fsys: sub}
	}
	return &Catalog{fsys: os.DirFS(dir)}
}

// Resolve returns the canonical name for a selector.
func (c *Catalog) Resolve(selector string) (string, error) {
	name, ok := selectors[strings.ToLower(strings.TrimSpace(selector))]
	if !ok {
		return "", fmt.Errorf("%w: unknown template %q", ErrTemplate, selector)
	}
	return name, nil
}

// Load returns the template text for a selector.
func (c *Catalog) Load(selector string) (string, error) {
	name, err := c.Resolve(selector)
	if err != nil {
		return "", err
	}
	data, err := fs.ReadFile(c.fsys, "notion_template_"+name+".md")
	if err != nil {
		return "", fmt.Errorf("%w: load %s: %w", ErrTemplate, name, err)
	}
	return string(data), nil
}
