package compile

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// Values holds the variables available to output name template expansion.
type Values struct {
	Component  string // component name, e.g. "TodoItem"
	Scope      string // allocated scope token
	SourceFile string // source file base name without extension
	BuildID    string // build session id
}

func expandTemplate(name, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(name).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
