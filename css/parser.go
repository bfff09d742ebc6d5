package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// at-rules whose body is a rule list that scoping must recurse into
var nestedAtRules = map[string]bool{
	"@media":          true,
	"@supports":       true,
	"@document":       true,
	"@layer":          true,
	"@container":      true,
	"@scope":          true,
	"@starting-style": true,
}

// Parser parses CSS text into a structured Stylesheet.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. The optional source parameter
// identifies what is being parsed and is carried into error messages.
// Malformed selector text fails with *SelectorParseError; the stylesheet
// either parses fully or not at all.
func (p *Parser) Parse(data []byte, source ...string) (*Stylesheet, error) {
	src := ""
	if len(source) > 0 {
		src = source[0]
	}
	p.log.Debug("Parsing CSS", zap.String("source", src), zap.Int("bytes", len(data)))

	input := parse.NewInput(bytes.NewReader(data))
	st := &parseState{
		p:      p,
		parser: css.NewParser(input, false),
		source: src,
	}

	items, err := st.parseItems(false)
	if err != nil {
		return nil, err
	}
	if err := st.parser.Err(); err != nil && !errors.Is(err, io.EOF) {
		// hard tokenizer faults (unterminated rule, bad input) are reported
		// the same way as selector faults: the whole stylesheet is rejected
		return nil, &SelectorParseError{Source: src, Rule: st.ruleIndex, Msg: err.Error()}
	}

	sheet := &Stylesheet{Items: items}
	p.log.Debug("Parsed CSS", zap.String("source", src), zap.Int("items", len(items)), zap.Int("rules", st.ruleIndex))
	return sheet, nil
}

type parseState struct {
	p         *Parser
	parser    *css.Parser
	source    string
	ruleIndex int
}

// parseItems consumes the grammar stream until end of input (top level) or
// the end of the enclosing at-rule block (nested). Selector text arrives
// either whole on BeginRulesetGrammar or split across QualifiedRuleGrammar
// occurrences at top-level commas; both shapes are handled.
func (st *parseState) parseItems(nested bool) ([]Item, error) {
	var items []Item
	var pendingSel strings.Builder

	for {
		gt, _, data := st.parser.Next()

		switch gt {
		case css.ErrorGrammar:
			return items, nil

		case css.EndAtRuleGrammar:
			if nested {
				return items, nil
			}
			// stray end at top level, ignore

		case css.BeginAtRuleGrammar:
			name := string(data)
			prelude := preludeText(st.parser.Values())
			if nestedAtRules[strings.ToLower(name)] {
				inner, err := st.parseItems(true)
				if err != nil {
					return nil, err
				}
				items = append(items, Item{Nested: &NestedAtRule{Name: name, Prelude: prelude, Items: inner}})
			} else {
				leaf, err := st.parseLeafBody(name, prelude)
				if err != nil {
					return nil, err
				}
				items = append(items, Item{Leaf: leaf})
			}

		case css.AtRuleGrammar:
			items = append(items, Item{Leaf: &LeafAtRule{
				Name:    string(data),
				Prelude: preludeText(st.parser.Values()),
				NoBody:  true,
			}})

		case css.QualifiedRuleGrammar:
			pendingSel.WriteString(rawTokenText(data, st.parser.Values()))
			pendingSel.WriteString(",")

		case css.BeginRulesetGrammar:
			selText := pendingSel.String() + rawTokenText(data, st.parser.Values())
			pendingSel.Reset()

			selectors, err := parseSelectorList(selText, st.ruleIndex, st.source)
			if err != nil {
				return nil, err
			}
			decls := st.parseDeclarations()
			items = append(items, Item{Qualified: &QualifiedRule{
				Selectors:    selectors,
				Declarations: decls,
				Index:        st.ruleIndex,
			}})
			st.ruleIndex++
		}
	}
}

// parseLeafBody consumes the body of a non-recursed at-rule (@font-face,
// @keyframes, @page, ...) keeping declarations and keyed blocks verbatim.
func (st *parseState) parseLeafBody(name, prelude string) (*LeafAtRule, error) {
	leaf := &LeafAtRule{Name: name, Prelude: prelude}

	for {
		gt, _, data := st.parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return leaf, nil

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			leaf.Declarations = append(leaf.Declarations, Declaration{
				Property: string(data),
				Value:    valueText(st.parser.Values()),
			})

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			// keyed block, e.g. a keyframe percentage; keys are not element
			// selectors and stay untouched
			key := preludeTextFrom(data, st.parser.Values())
			if gt == css.QualifiedRuleGrammar {
				// comma-separated keys ("from, 50%") arrive split
				continueKey := key
				gt2, _, data2 := st.parser.Next()
				for gt2 == css.QualifiedRuleGrammar {
					continueKey += ", " + preludeTextFrom(data2, st.parser.Values())
					gt2, _, data2 = st.parser.Next()
				}
				if gt2 == css.BeginRulesetGrammar {
					key = continueKey + ", " + preludeTextFrom(data2, st.parser.Values())
				} else {
					key = continueKey
				}
			}
			leaf.Blocks = append(leaf.Blocks, KeyBlock{
				Key:          key,
				Declarations: st.parseDeclarations(),
			})

		case css.BeginAtRuleGrammar:
			// unexpected nested at-rule inside a leaf body, skip it whole
			st.p.log.Debug("Skipping at-rule nested in leaf block", zap.String("rule", string(data)))
			st.skipAtRuleBlock()
		}
	}
}

// parseDeclarations collects property declarations until the end of the
// enclosing ruleset.
func (st *parseState) parseDeclarations() []Declaration {
	var decls []Declaration
	for {
		gt, _, data := st.parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, Declaration{
				Property: string(data),
				Value:    valueText(st.parser.Values()),
			})
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an at-rule block.
func (st *parseState) skipAtRuleBlock() {
	depth := 1
	for depth > 0 {
		gt, _, _ := st.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// rawTokenText reconstructs raw source text from grammar data plus value
// tokens, whitespace included.
func rawTokenText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return sb.String()
}

// preludeText renders at-rule prelude tokens with whitespace runs collapsed.
func preludeText(values []css.Token) string {
	return collapseWhitespace(nil, values)
}

func preludeTextFrom(data []byte, values []css.Token) string {
	return collapseWhitespace(data, values)
}

// valueText renders declaration value tokens with whitespace runs collapsed.
func valueText(values []css.Token) string {
	return collapseWhitespace(nil, values)
}

func collapseWhitespace(data []byte, values []css.Token) string {
	var parts []string
	if len(data) > 0 {
		parts = append(parts, string(data))
	}
	for _, t := range values {
		if t.TokenType == css.WhitespaceToken {
			if len(parts) > 0 {
				parts = append(parts, " ")
			}
			continue
		}
		parts = append(parts, string(t.Data))
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
