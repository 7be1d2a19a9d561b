package server

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"sync"
)

//go:embed templates/*
var templateFiles embed.FS

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
}

var (
	templateCacheMu sync.RWMutex
	templateCache   = map[string]*template.Template{}
)

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem. Parsed templates are
// cached since the filesystem never changes.
func ParseTemplate(name string) (*template.Template, error) {
	templateCacheMu.RLock()
	tmpl, ok := templateCache[name]
	templateCacheMu.RUnlock()
	if ok {
		return tmpl, nil
	}

	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	tmpl, err = template.New(name).Funcs(templateFuncs).Parse(string(content))
	if err != nil {
		return nil, err
	}

	templateCacheMu.Lock()
	templateCache[name] = tmpl
	templateCacheMu.Unlock()
	return tmpl, nil
}
