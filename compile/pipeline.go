// Package compile drives the per-component scoped-style pipeline: extract
// blocks, allocate the scope ID, rewrite scoped stylesheets, mark the
// template, emit results.
package compile

import (
	"strings"

	"go.uber.org/zap"

	"scopec/css"
	"scopec/marker"
	"scopec/scope"
	"scopec/sfc"
	"scopec/state"
)

// Artifacts is the compiled output of one component.
type Artifacts struct {
	Component string   // component name
	Scope     scope.ID // allocated scope ID
	CSS       string   // rewritten scoped css followed by passthrough globals
	Template  string   // marked template markup, empty when no template block
	Elements  int      // number of marked template elements
}

// Component compiles one single-file component. The transform is
// all-or-nothing: any failure produces no artifacts for the component and
// does not affect other components.
func Component(data []byte, path string, env *state.LocalEnv, log *zap.Logger) (*Artifacts, error) {
	ext := sfc.NewExtractor(log)
	comp, err := ext.Parse(data, path)
	if err != nil {
		return nil, err
	}

	identity, err := scope.NewIdentity(path, data)
	if err != nil {
		return nil, err
	}
	id := env.Scopes.Allocate(identity)
	log.Debug("Allocated scope", zap.String("component", comp.Name), zap.String("scope", id.String()))

	cssText, err := compileStyles(comp, id, log)
	if err != nil {
		return nil, err
	}

	art := &Artifacts{
		Component: comp.Name,
		Scope:     id,
		CSS:       cssText,
	}

	if comp.Template != "" {
		m := marker.NewMarker(log)
		marked, n, err := m.ApplyToTemplate(comp.Template, comp.Name, marker.For(id))
		if err != nil {
			return nil, err
		}
		art.Template = marked
		art.Elements = n
	}
	return art, nil
}

// compileStyles rewrites every scoped style block and passes non-scoped
// blocks through untouched. Scoped output comes first, then the globals in
// their original order.
func compileStyles(comp *sfc.Component, id scope.ID, log *zap.Logger) (string, error) {
	parser := css.NewParser(log)
	rewriter := css.NewRewriter(log)

	var scoped, global []string
	for _, block := range comp.Styles {
		if block.Lang != "" && block.Lang != "css" {
			// preprocessing is an upstream concern; by the time styles reach
			// the scoper they are expected to be plain css
			log.Warn("Style block language is not css, treating as plain css",
				zap.String("component", comp.Name), zap.String("lang", block.Lang))
		}

		if !block.Scoped {
			text := strings.TrimSpace(block.Content)
			if text != "" {
				global = append(global, text+"\n")
			}
			continue
		}

		sheet, err := parser.Parse([]byte(block.Content), comp.Path)
		if err != nil {
			return "", err
		}
		out := rewriter.Rewrite(sheet, id)
		if !out.Empty() {
			scoped = append(scoped, out.String())
		}
	}

	return strings.Join(append(scoped, global...), "\n"), nil
}
