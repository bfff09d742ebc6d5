// Package sfc splits single-file component sources into their top-level
// blocks: one template and any number of style blocks. Script blocks and
// anything else at the top level are ignored; the compiler only needs markup
// and styles.
package sfc

import (
	"fmt"
	"path/filepath"
	"strings"
)

// StyleBlock is one <style> block as authored, tagged with its scoped flag.
type StyleBlock struct {
	Content string // raw CSS text
	Scoped  bool   // true for <style scoped>
	Lang    string // value of the lang attribute, empty for plain CSS
}

// Component is the parsed shape of one single-file component source.
type Component struct {
	Name     string // base file name without extension
	Path     string // source path as given
	Template string // inner markup of the <template> block, may be empty
	Styles   []StyleBlock
}

// ComponentName derives the component name from its source path.
func ComponentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseError reports a malformed component source.
type ParseError struct {
	Path string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
