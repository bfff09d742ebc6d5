// Package marker produces the attribute-injection instruction for scoped
// components and applies it to template markup.
//
// The instruction names a boolean data-attribute (value empty) that the
// template compiler attaches to every element node the component's own
// template constructs. The root element of a rendered child component
// additionally receives the instantiating parent's instruction, so parent
// rules scoped with the parent's ID can still style the child root for
// layout. Content injected as raw HTML at render time is never marked: only
// nodes present in the template markup are.
package marker

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"scopec/scope"
)

// Instruction is the attribute to inject, e.g. {Name: "data-v-f3f3eg9"}.
type Instruction struct {
	Name  string
	Value string
}

// For returns the attribute instruction for a scope ID. The value is empty
// by convention; presence is all the rewritten selectors test for.
func For(id scope.ID) Instruction {
	return Instruction{Name: id.Attr()}
}

// TemplateError reports template markup the marker cannot process.
type TemplateError struct {
	Component string
	Msg       string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s: template: %s", e.Component, e.Msg)
}

// Marker annotates template element trees with scope attributes.
type Marker struct {
	log *zap.Logger
}

// NewMarker creates a new template marker.
func NewMarker(log *zap.Logger) *Marker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Marker{log: log.Named("marker")}
}

// Apply adds the instruction to every element of the document and returns
// the number of elements marked. Elements already carrying the attribute
// are counted but not duplicated.
func (m *Marker) Apply(doc *etree.Document, inst Instruction) int {
	n := 0
	for _, el := range doc.ChildElements() {
		n += markTree(el, inst)
	}
	m.log.Debug("Marked template elements", zap.String("attr", inst.Name), zap.Int("elements", n))
	return n
}

// MarkChildRoot adds a parent component's instruction to the root element of
// a child component's template. Root-node attributes are jointly writable by
// the component itself and its direct instantiating parent; all other nodes
// stay private to the component, so only the root is touched.
func (m *Marker) MarkChildRoot(doc *etree.Document, parent Instruction) error {
	root := doc.Root()
	if root == nil {
		return &TemplateError{Msg: "no root element to mark"}
	}
	root.CreateAttr(parent.Name, parent.Value)
	return nil
}

// ApplyToTemplate parses template markup, marks every element and returns
// the marked markup together with the element count. The template must have
// exactly one root element so the parent-to-child attribute contract of
// MarkChildRoot is well defined.
func (m *Marker) ApplyToTemplate(template, component string, inst Instruction) (string, int, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(template); err != nil {
		return "", 0, &TemplateError{Component: component, Msg: err.Error()}
	}
	if len(doc.ChildElements()) != 1 {
		return "", 0, &TemplateError{
			Component: component,
			Msg:       fmt.Sprintf("template must have a single root element, found %d", len(doc.ChildElements())),
		}
	}

	n := m.Apply(doc, inst)

	out, err := doc.WriteToString()
	if err != nil {
		return "", 0, &TemplateError{Component: component, Msg: err.Error()}
	}
	return out, n, nil
}

func markTree(el *etree.Element, inst Instruction) int {
	if el.SelectAttr(inst.Name) == nil {
		el.CreateAttr(inst.Name, inst.Value)
	}
	n := 1
	for _, child := range el.ChildElements() {
		n += markTree(child, inst)
	}
	return n
}
