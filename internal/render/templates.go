// Package render is the view boundary: handlers hand it a template name
// and a context map, and it writes the HTML response.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// Context carries the values a template renders.
type Context map[string]any

// Renderer holds parsed templates.
type Renderer struct {
	mu    sync.RWMutex
	cache map[string]*template.Template
	funcs template.FuncMap
}

// NewRenderer returns an empty renderer; call Load before rendering.
func NewRenderer() *Renderer {
	return &Renderer{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"inc": func(i int) int { return i + 1 },
		},
	}
}

// Load parses every HTML file in dir together with the shared base layout.
func (r *Renderer) Load(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := filepath.Join(dir, "base.html")
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no templates found in %s", dir)
	}

	for _, file := range files {
		name := filepath.Base(file)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(r.funcs).ParseFiles(base, file)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		r.cache[name] = tmpl
	}
	return nil
}

// Render writes the named template with the given context as an HTML
// response.
func (r *Renderer) Render(c *fiber.Ctx, status int, name string, data Context) error {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %s not loaded", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return fmt.Errorf("render template %s: %w", name, err)
	}

	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
