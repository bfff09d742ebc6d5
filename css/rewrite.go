package css

import (
	"go.uber.org/zap"

	"scopec/scope"
)

// Rewriter scopes stylesheets to a component by appending the component's
// scope-attribute predicate to compound selectors. The transform is pure and
// non-destructive: the input stylesheet is never mutated and the same input
// always produces byte-identical output.
type Rewriter struct {
	log *zap.Logger
}

// NewRewriter creates a new selector rewriter.
func NewRewriter(log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{log: log.Named("css-rewriter")}
}

// Rewrite returns a copy of the stylesheet with every compound selector
// constrained to the component identified by id:
//
//   - each compound selector gains exactly one attribute predicate
//     ("[data-v-<id>]") appended after its simple selectors, except that a
//     pseudo-element keeps its trailing position;
//   - a deep combinator (">>>" or "/deep/") compiles to a plain descendant
//     combinator and stops scoping for the rest of that selector, so rules
//     can reach into descendant components' own markup;
//   - conditional group at-rules (@media, @supports, ...) are recursed into;
//   - other at-rules pass through untouched: keyframe keys do not denote
//     elements;
//   - declarations pass through untouched.
//
// An empty stylesheet rewrites to itself.
func (r *Rewriter) Rewrite(sheet *Stylesheet, id scope.ID) *Stylesheet {
	if sheet.Empty() {
		return &Stylesheet{}
	}

	pred := SimpleSelector{Kind: SimpleAttribute, Raw: "[" + id.Attr() + "]"}
	out := &Stylesheet{Items: rewriteItems(sheet.Items, pred)}

	r.log.Debug("Rewrote stylesheet", zap.String("scope", id.String()), zap.Int("items", len(out.Items)))
	return out
}

func rewriteItems(items []Item, pred SimpleSelector) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		switch {
		case item.Qualified != nil:
			q := item.Qualified.clone()
			for i := range q.Selectors {
				q.Selectors[i] = rewriteSelector(q.Selectors[i], pred)
			}
			out = append(out, Item{Qualified: q})
		case item.Nested != nil:
			out = append(out, Item{Nested: &NestedAtRule{
				Name:    item.Nested.Name,
				Prelude: item.Nested.Prelude,
				Items:   rewriteItems(item.Nested.Items, pred),
			}})
		default:
			// leaf at-rules are shared: the rewrite never touches them
			out = append(out, item)
		}
	}
	return out
}

// rewriteSelector adds the scope predicate to every compound selector up to
// the first deep combinator and replaces every deep combinator with a plain
// descendant combinator. The selector is already a private clone.
func rewriteSelector(sel ComplexSelector, pred SimpleSelector) ComplexSelector {
	scoped := true
	for i := range sel.Compounds {
		if scoped {
			sel.Compounds[i] = addPredicate(sel.Compounds[i], pred)
		}
		if i < len(sel.Combinators) && sel.Combinators[i] == Deep {
			sel.Combinators[i] = Descendant
			scoped = false
		}
	}
	return sel
}

// addPredicate appends the scope predicate to the compound's simple-selector
// list, before any pseudo-element: a pseudo-element is not an independently
// attributable node and must stay last.
func addPredicate(c CompoundSelector, pred SimpleSelector) CompoundSelector {
	at := len(c.Simples)
	for i, s := range c.Simples {
		if s.Kind == SimplePseudoElement {
			at = i
			break
		}
	}
	simples := make([]SimpleSelector, 0, len(c.Simples)+1)
	simples = append(simples, c.Simples[:at]...)
	simples = append(simples, pred)
	simples = append(simples, c.Simples[at:]...)
	return CompoundSelector{Simples: simples}
}
