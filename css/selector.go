package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// legacy single-colon pseudo-element names (CSS1/CSS2 syntax)
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

type selToken struct {
	tt   css.TokenType
	data string
	off  int
}

// lexSelectorText tokenizes raw selector-list text, tracking byte offsets.
func lexSelectorText(raw string, rule int, source string) ([]selToken, error) {
	input := parse.NewInputString(raw)
	l := css.NewLexer(input)

	var toks []selToken
	off := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, &SelectorParseError{
					Source: source, Rule: rule, Offset: off,
					Selector: raw, Msg: err.Error(),
				}
			}
			return toks, nil
		}
		toks = append(toks, selToken{tt: tt, data: string(data), off: off})
		off += len(data)
	}
}

// parseSelectorList parses comma-separated selector text into complex
// selectors. Commas nested inside parentheses or brackets (e.g. ":not(a, b)")
// are not split points.
func parseSelectorList(raw string, rule int, source string) ([]ComplexSelector, error) {
	toks, err := lexSelectorText(raw, rule, source)
	if err != nil {
		return nil, err
	}

	fail := func(off int, msg string) error {
		return &SelectorParseError{Source: source, Rule: rule, Offset: off, Selector: raw, Msg: msg}
	}

	var selectors []ComplexSelector
	depth := 0
	start := 0
	flush := func(end int) error {
		group := toks[start:end]
		if isBlankGroup(group) {
			off := 0
			if start < len(toks) {
				off = toks[start].off
			}
			return fail(off, "empty selector")
		}
		sel, err := parseComplexSelector(group, raw, rule, source)
		if err != nil {
			return err
		}
		selectors = append(selectors, sel)
		return nil
	}

	for i, t := range toks {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
				start = i + 1
			}
		}
	}
	if err := flush(len(toks)); err != nil {
		return nil, err
	}
	return selectors, nil
}

func isBlankGroup(toks []selToken) bool {
	for _, t := range toks {
		if t.tt != css.WhitespaceToken && t.tt != css.CommentToken {
			return false
		}
	}
	return true
}

// parseComplexSelector parses one comma-free selector into its sequence of
// compound selectors and combinators, recognizing the deep markers ">>>"
// and "/deep/".
func parseComplexSelector(toks []selToken, raw string, rule int, source string) (ComplexSelector, error) {
	var (
		sel       ComplexSelector
		cur       CompoundSelector
		pendComb  = Combinator(-1) // explicit combinator waiting for next compound
		pendSpace bool             // whitespace seen since last simple selector
	)

	fail := func(off int, msg string) (ComplexSelector, error) {
		return ComplexSelector{}, &SelectorParseError{
			Source: source, Rule: rule, Offset: off, Selector: raw, Msg: msg,
		}
	}

	setCombinator := func(c Combinator, off int) error {
		if len(cur.Simples) == 0 && len(sel.Compounds) == 0 {
			return &SelectorParseError{Source: source, Rule: rule, Offset: off, Selector: raw,
				Msg: "combinator without preceding selector"}
		}
		if pendComb != Combinator(-1) {
			return &SelectorParseError{Source: source, Rule: rule, Offset: off, Selector: raw,
				Msg: "consecutive combinators"}
		}
		if len(cur.Simples) == 0 {
			return &SelectorParseError{Source: source, Rule: rule, Offset: off, Selector: raw,
				Msg: "combinator without preceding selector"}
		}
		pendComb = c
		pendSpace = false
		return nil
	}

	addSimple := func(s SimpleSelector) {
		if len(cur.Simples) > 0 && (pendComb != Combinator(-1) || pendSpace) {
			comb := pendComb
			if comb == Combinator(-1) {
				comb = Descendant
			}
			sel.Compounds = append(sel.Compounds, cur)
			sel.Combinators = append(sel.Combinators, comb)
			cur = CompoundSelector{}
		}
		pendComb = Combinator(-1)
		pendSpace = false
		cur.Simples = append(cur.Simples, s)
	}

	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken:
			if len(cur.Simples) > 0 {
				pendSpace = true
			}
			i++

		case css.DelimToken:
			switch t.data {
			case ">":
				run := 1
				for i+run < len(toks) && toks[i+run].tt == css.DelimToken && toks[i+run].data == ">" {
					run++
				}
				var comb Combinator
				switch run {
				case 1:
					comb = Child
				case 3:
					comb = Deep
				default:
					return fail(t.off, "invalid combinator")
				}
				if err := setCombinator(comb, t.off); err != nil {
					return ComplexSelector{}, err
				}
				i += run
			case "+":
				if err := setCombinator(NextSibling, t.off); err != nil {
					return ComplexSelector{}, err
				}
				i++
			case "~":
				if err := setCombinator(SubsequentSibling, t.off); err != nil {
					return ComplexSelector{}, err
				}
				i++
			case "/":
				// the "/deep/" alias of ">>>"
				if i+2 < len(toks) &&
					toks[i+1].tt == css.IdentToken && strings.EqualFold(toks[i+1].data, "deep") &&
					toks[i+2].tt == css.DelimToken && toks[i+2].data == "/" {
					if err := setCombinator(Deep, t.off); err != nil {
						return ComplexSelector{}, err
					}
					i += 3
				} else {
					return fail(t.off, "unexpected '/'")
				}
			case ".":
				if i+1 >= len(toks) || toks[i+1].tt != css.IdentToken {
					return fail(t.off, "expected identifier after '.'")
				}
				addSimple(SimpleSelector{Kind: SimpleClass, Raw: "." + toks[i+1].data})
				i += 2
			case "*":
				addSimple(SimpleSelector{Kind: SimpleUniversal, Raw: "*"})
				i++
			default:
				return fail(t.off, fmt.Sprintf("unexpected %q", t.data))
			}

		case css.IdentToken:
			addSimple(SimpleSelector{Kind: SimpleType, Raw: t.data})
			i++

		case css.HashToken:
			addSimple(SimpleSelector{Kind: SimpleID, Raw: t.data})
			i++

		case css.LeftBracketToken:
			rawAttr, n, ok := collectBalanced(toks[i:], css.LeftBracketToken, css.RightBracketToken)
			if !ok {
				return fail(t.off, "unterminated attribute selector")
			}
			addSimple(SimpleSelector{Kind: SimpleAttribute, Raw: rawAttr})
			i += n

		case css.ColonToken:
			simple, n, err := parsePseudo(toks[i:], raw, rule, source)
			if err != nil {
				return ComplexSelector{}, err
			}
			addSimple(simple)
			i += n

		default:
			return fail(t.off, fmt.Sprintf("unexpected token %q", t.data))
		}
	}

	if pendComb != Combinator(-1) {
		return fail(len(raw), "selector ends with combinator")
	}
	if len(cur.Simples) == 0 {
		return fail(len(raw), "empty selector")
	}
	sel.Compounds = append(sel.Compounds, cur)
	return sel, nil
}

// parsePseudo parses a pseudo-class or pseudo-element starting at a colon
// token. Returns the simple selector and the number of tokens consumed.
func parsePseudo(toks []selToken, raw string, rule int, source string) (SimpleSelector, int, error) {
	fail := func(off int, msg string) (SimpleSelector, int, error) {
		return SimpleSelector{}, 0, &SelectorParseError{
			Source: source, Rule: rule, Offset: off, Selector: raw, Msg: msg,
		}
	}

	off := toks[0].off
	i := 1
	element := false
	if i < len(toks) && toks[i].tt == css.ColonToken {
		element = true
		i++
	}
	if i >= len(toks) {
		return fail(off, "incomplete pseudo selector")
	}

	switch toks[i].tt {
	case css.IdentToken:
		name := toks[i].data
		i++
		kind := SimplePseudoClass
		prefix := ":"
		if element {
			kind = SimplePseudoElement
			prefix = "::"
		} else if legacyPseudoElements[strings.ToLower(name)] {
			kind = SimplePseudoElement
		}
		return SimpleSelector{Kind: kind, Raw: prefix + name}, i, nil

	case css.FunctionToken:
		rawFn, n, ok := collectBalanced(toks[i:], css.FunctionToken, css.RightParenthesisToken)
		if !ok {
			return fail(toks[i].off, "unterminated pseudo function")
		}
		kind := SimplePseudoClass
		prefix := ":"
		if element {
			kind = SimplePseudoElement
			prefix = "::"
		}
		return SimpleSelector{Kind: kind, Raw: prefix + rawFn}, i + n, nil

	default:
		return fail(toks[i].off, "expected pseudo selector name")
	}
}

// collectBalanced concatenates raw token text from an opening token through
// its balanced closing token. Function tokens open a parenthesis level.
func collectBalanced(toks []selToken, open, close css.TokenType) (string, int, bool) {
	var sb strings.Builder
	depth := 0
	for n, t := range toks {
		sb.WriteString(t.data)
		switch t.tt {
		case open, css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case close:
			depth--
			if depth == 0 {
				return sb.String(), n + 1, true
			}
		case css.RightParenthesisToken:
			depth--
		}
	}
	return "", 0, false
}

