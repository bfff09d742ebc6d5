package css

import (
	"strings"
)

// Stylesheet is an ordered list of parsed rules. It is produced by Parser and
// transformed (non-destructively) by Rewriter; serialization is deterministic
// so the same sheet always renders to the same bytes.
type Stylesheet struct {
	Items []Item
}

// Item is a tagged variant holding exactly one kind of rule.
type Item struct {
	Qualified *QualifiedRule // selector-bearing rule, subject to scoping
	Nested    *NestedAtRule  // conditional group rule, recursed into
	Leaf      *LeafAtRule    // opaque at-rule, passed through untouched
}

// QualifiedRule is a plain style rule: a selector list and a declaration
// block. Index is the zero-based position among all qualified rules of the
// stylesheet in source order (nested rules included) and is used for error
// reporting.
type QualifiedRule struct {
	Selectors    []ComplexSelector
	Declarations []Declaration
	Index        int
}

// NestedAtRule is a conditional group rule (@media, @supports, ...) whose
// body is a rule list that scoping recurses into.
type NestedAtRule struct {
	Name    string // including "@", e.g. "@media"
	Prelude string // raw condition text, e.g. "screen and (max-width: 40em)"
	Items   []Item
}

// LeafAtRule is an at-rule whose body, if any, does not denote element
// selectors (@font-face, @keyframes, @import, @charset, @page). Scoping
// leaves it untouched: keyframe percentage keys are not element selectors.
type LeafAtRule struct {
	Name         string
	Prelude      string
	NoBody       bool          // statement form, e.g. @import "x";
	Declarations []Declaration // declaration-bodied form (@font-face, @page)
	Blocks       []KeyBlock    // keyed-block form (@keyframes)
}

// KeyBlock is one inner block of a keyed leaf at-rule, e.g. "0%" or "from"
// inside @keyframes.
type KeyBlock struct {
	Key          string
	Declarations []Declaration
}

// Declaration is a single property declaration with its raw value text.
type Declaration struct {
	Property string
	Value    string
}

// Combinator joins two compound selectors within a complex selector.
type Combinator int

const (
	Descendant Combinator = iota
	Child
	NextSibling
	SubsequentSibling
	// Deep is the author-facing escape hatch (">>>" or "/deep/"). It always
	// compiles to a plain descendant combinator; compounds to its right are
	// exempt from scoping.
	Deep
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return " > "
	case NextSibling:
		return " + "
	case SubsequentSibling:
		return " ~ "
	case Deep:
		return " >>> "
	default:
		return " "
	}
}

// SimpleKind classifies a simple selector within a compound.
type SimpleKind int

const (
	SimpleType SimpleKind = iota
	SimpleUniversal
	SimpleClass
	SimpleID
	SimpleAttribute
	SimplePseudoClass
	SimplePseudoElement
)

// SimpleSelector is one simple selector kept as raw text, e.g. "div",
// ".epigraph", "#main", "[data-v-f3f3eg9]", ":hover", "::before".
type SimpleSelector struct {
	Kind SimpleKind
	Raw  string
}

// CompoundSelector is a sequence of simple selectors matching a single
// element, with no combinators between them.
type CompoundSelector struct {
	Simples []SimpleSelector
}

func (c CompoundSelector) String() string {
	var sb strings.Builder
	for _, s := range c.Simples {
		sb.WriteString(s.Raw)
	}
	return sb.String()
}

// ComplexSelector is a sequence of compound selectors joined by combinators.
// len(Combinators) == len(Compounds)-1; Combinators[i] sits between
// Compounds[i] and Compounds[i+1].
type ComplexSelector struct {
	Compounds   []CompoundSelector
	Combinators []Combinator
}

func (s ComplexSelector) String() string {
	var sb strings.Builder
	for i, c := range s.Compounds {
		if i > 0 {
			sb.WriteString(s.Combinators[i-1].String())
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// clone helpers keep rewriting non-destructive.

func (s ComplexSelector) clone() ComplexSelector {
	out := ComplexSelector{
		Compounds:   make([]CompoundSelector, len(s.Compounds)),
		Combinators: append([]Combinator(nil), s.Combinators...),
	}
	for i, c := range s.Compounds {
		out.Compounds[i] = CompoundSelector{Simples: append([]SimpleSelector(nil), c.Simples...)}
	}
	return out
}

func (r *QualifiedRule) clone() *QualifiedRule {
	out := &QualifiedRule{
		Selectors:    make([]ComplexSelector, len(r.Selectors)),
		Declarations: append([]Declaration(nil), r.Declarations...),
		Index:        r.Index,
	}
	for i, s := range r.Selectors {
		out.Selectors[i] = s.clone()
	}
	return out
}

// String renders the stylesheet in the canonical output form.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	writeItems(&sb, s.Items, 0)
	return sb.String()
}

// Empty reports whether the stylesheet has no rules at all.
func (s *Stylesheet) Empty() bool {
	return s == nil || len(s.Items) == 0
}

func writeItems(sb *strings.Builder, items []Item, depth int) {
	for _, item := range items {
		switch {
		case item.Qualified != nil:
			writeQualified(sb, item.Qualified, depth)
		case item.Nested != nil:
			writeIndent(sb, depth)
			sb.WriteString(item.Nested.Name)
			if item.Nested.Prelude != "" {
				sb.WriteByte(' ')
				sb.WriteString(item.Nested.Prelude)
			}
			sb.WriteString(" {\n")
			writeItems(sb, item.Nested.Items, depth+1)
			writeIndent(sb, depth)
			sb.WriteString("}\n")
		case item.Leaf != nil:
			writeLeaf(sb, item.Leaf, depth)
		}
	}
}

func writeQualified(sb *strings.Builder, r *QualifiedRule, depth int) {
	writeIndent(sb, depth)
	for i, sel := range r.Selectors {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sel.String())
	}
	sb.WriteString(" {\n")
	writeDeclarations(sb, r.Declarations, depth+1)
	writeIndent(sb, depth)
	sb.WriteString("}\n")
}

func writeLeaf(sb *strings.Builder, l *LeafAtRule, depth int) {
	writeIndent(sb, depth)
	sb.WriteString(l.Name)
	if l.Prelude != "" {
		sb.WriteByte(' ')
		sb.WriteString(l.Prelude)
	}
	if l.NoBody {
		sb.WriteString(";\n")
		return
	}
	sb.WriteString(" {\n")
	writeDeclarations(sb, l.Declarations, depth+1)
	for _, b := range l.Blocks {
		writeIndent(sb, depth+1)
		sb.WriteString(b.Key)
		sb.WriteString(" {\n")
		writeDeclarations(sb, b.Declarations, depth+2)
		writeIndent(sb, depth+1)
		sb.WriteString("}\n")
	}
	writeIndent(sb, depth)
	sb.WriteString("}\n")
}

func writeDeclarations(sb *strings.Builder, decls []Declaration, depth int) {
	for _, d := range decls {
		writeIndent(sb, depth)
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(d.Value)
		sb.WriteString(";\n")
	}
}

func writeIndent(sb *strings.Builder, depth int) {
	for range depth {
		sb.WriteString("  ")
	}
}
