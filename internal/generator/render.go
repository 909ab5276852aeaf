package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer handles template parsing and rendering with caching.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with built-in helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: template.FuncMap{
			"lower":  strings.ToLower,
			"upper":  strings.ToUpper,
			"camel":  camelCase,
			"pascal": pascalCase,
			"kebab":  kebabCase,
		},
		cache: make(map[string]*template.Template),
	}
}

// Render renders an embedded template by name. Rendering is pure: the same
// name and data always produce byte-identical output.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	path := "templates/" + name

	r.mu.RLock()
	tmpl, ok := r.cache[path]
	r.mu.RUnlock()

	if !ok {
		raw, err := templateFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		tmpl, err = template.New(name).Funcs(r.funcMap).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.mu.Lock()
		r.cache[path] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func pascalCase(s string) string {
	parts := splitWords(s)
	for i, p := range parts {
		if p == "" {
			continue
		}
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, "")
}

func camelCase(s string) string {
	p := pascalCase(s)
	if p == "" {
		return p
	}
	runes := []rune(p)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func kebabCase(s string) string {
	parts := splitWords(s)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, "-")
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	})
}
