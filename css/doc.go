// Package css parses stylesheets and rewrites their selectors so that rules
// only match elements carrying a component's scope attribute.
//
// # Model
//
// A stylesheet parses into a list of tagged rule variants:
//
//   - qualified rules: selector list plus declarations
//   - nested at-rules (@media, @supports, @layer, ...): recursed into
//   - leaf at-rules (@font-face, @keyframes, @import, ...): passed through
//
// Selectors are structured: comma-separated complex selectors, each a chain
// of compound selectors joined by combinators. The deep markers ">>>" and
// "/deep/" are recognized as a distinct combinator during parsing.
//
// # Scoping
//
// Rewriter.Rewrite appends one attribute predicate to every compound
// selector left of the first deep marker and compiles deep markers to plain
// descendant combinators:
//
//	.example        ->  .example[data-v-f3f3eg9]
//	.a >>> .b       ->  .a[data-v-f3f3eg9] .b
//	.a /deep/ .b    ->  .a[data-v-f3f3eg9] .b
//	li::before      ->  li[data-v-f3f3eg9]::before
//
// Declarations, keyframe keys and leaf at-rules are never touched. The
// transform is deterministic and non-destructive; rewriting a stylesheet
// either succeeds completely or fails with *SelectorParseError carrying the
// rule index and character offset of the fault.
//
// # Usage
//
//	parser := css.NewParser(logger)
//	sheet, err := parser.Parse(cssBytes, "component.vue")
//	if err != nil { ... }
//
//	rewriter := css.NewRewriter(logger)
//	scoped := rewriter.Rewrite(sheet, id)
//	output := scoped.String()
package css
