package frontend

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

// Pages holds one template set per page, each parsed together with the
// shared layout.
type Pages struct {
	sets map[string]*template.Template
}

// PageData is passed to every template. Data carries the page specific
// payload.
type PageData struct {
	Title  string
	Locale string
	Path   string
	Data   any
}

func placeholderFuncs() template.FuncMap {
	return template.FuncMap{
		"t":  func(string) string { return "" },
		"tn": func(string, int64) string { return "" },
	}
}

func NewPages() (*Pages, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	p := &Pages{sets: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		tmpl, err := template.New("layout.html").Funcs(placeholderFuncs()).ParseFS(templatesFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		p.sets[name] = tmpl
	}
	return p, nil
}

// Render executes page with messages bound to the t and tn helpers.
func (p *Pages) Render(page string, msgs *Messages, data PageData) ([]byte, error) {
	base, ok := p.sets[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	tmpl, err := base.Clone()
	if err != nil {
		return nil, err
	}
	tmpl.Funcs(template.FuncMap{"t": msgs.T, "tn": msgs.N})

	data.Locale = msgs.Locale
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}
