package sfc

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"go.uber.org/zap"
)

// Extractor splits component sources into blocks.
type Extractor struct {
	log *zap.Logger
}

// NewExtractor creates a new block extractor.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log.Named("sfc")}
}

// Parse splits a component source into its template and style blocks. The
// source is scanned with a lenient HTML tokenizer: only top-level
// <template>, <style> and <script> tags are significant, the template body
// is captured verbatim for the template compiler.
func (e *Extractor) Parse(data []byte, path string) (*Component, error) {
	comp := &Component{
		Name: ComponentName(path),
		Path: path,
	}

	z := html.NewTokenizer(bytes.NewReader(data))
	seenTemplate := false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, &ParseError{Path: path, Msg: err.Error()}
			}
			e.log.Debug("Parsed component",
				zap.String("path", path),
				zap.Int("styles", len(comp.Styles)),
				zap.Bool("template", seenTemplate))
			return comp, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "template":
				if seenTemplate {
					return nil, &ParseError{Path: path, Msg: "more than one template block"}
				}
				seenTemplate = true
				if tt == html.SelfClosingTagToken {
					// "<template/>" is an empty template block
					break
				}
				body, err := e.captureTemplate(z)
				if err != nil {
					return nil, &ParseError{Path: path, Msg: err.Error()}
				}
				comp.Template = strings.TrimSpace(body)
			case "style":
				// the tokenizer enters raw-text mode for style regardless of
				// the self-closing slash, so both forms read the same way
				comp.Styles = append(comp.Styles, styleBlock(z, tok))
			case "script":
				skipRawText(z)
			}
		}
	}
}

// captureTemplate accumulates raw source text until the matching
// </template>, honoring nested template elements.
func (e *Extractor) captureTemplate(z *html.Tokenizer) (string, error) {
	var sb strings.Builder
	depth := 1
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return "", errors.New("unterminated template block")
		}
		raw := string(z.Raw())
		switch tt {
		case html.StartTagToken:
			if tagName(raw) == "template" {
				depth++
			}
		case html.EndTagToken:
			if tagName(raw) == "template" {
				depth--
				if depth == 0 {
					return sb.String(), nil
				}
			}
		}
		sb.WriteString(raw)
	}
}

// styleBlock reads the raw text body of a <style> element. The tokenizer
// treats style as a raw-text element, so the body arrives as a single text
// token.
func styleBlock(z *html.Tokenizer, tok html.Token) StyleBlock {
	block := StyleBlock{}
	for _, a := range tok.Attr {
		switch a.Key {
		case "scoped":
			block.Scoped = true
		case "lang":
			block.Lang = a.Val
		}
	}
	for {
		tt := z.Next()
		switch tt {
		case html.TextToken:
			block.Content += string(z.Text())
		case html.EndTagToken, html.ErrorToken:
			return block
		}
	}
}

func skipRawText(z *html.Tokenizer) {
	for {
		switch z.Next() {
		case html.EndTagToken, html.ErrorToken:
			return
		}
	}
}

// tagName extracts the tag name from raw start/end tag text like
// "<template functional>" or "</template>".
func tagName(raw string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "</"), "<")
	end := strings.IndexAny(s, " \t\r\n/>")
	if end < 0 {
		return strings.ToLower(s)
	}
	return strings.ToLower(s[:end])
}
