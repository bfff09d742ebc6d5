package css

import (
	"fmt"
)

// SelectorParseError reports malformed selector text. It is fatal for the
// whole stylesheet: rewriting is all-or-nothing, no partial output is ever
// produced past it.
type SelectorParseError struct {
	Source   string // stylesheet origin (component path), may be empty
	Rule     int    // zero-based qualified-rule index in source order
	Offset   int    // byte offset within the rule's selector text
	Selector string // the offending selector list text
	Msg      string
}

func (e *SelectorParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: malformed selector in rule %d at offset %d: %s (in %q)",
			e.Source, e.Rule, e.Offset, e.Msg, e.Selector)
	}
	return fmt.Sprintf("malformed selector in rule %d at offset %d: %s (in %q)",
		e.Rule, e.Offset, e.Msg, e.Selector)
}
