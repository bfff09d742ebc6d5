// Package scope derives stable scoping identifiers for component
// definitions and keeps the per-build allocation registry.
//
// A scope ID is an opaque printable token derived from the component's
// identity (normalized source path plus content digest). The same identity
// always yields the same ID within and across builds; distinct identities
// yield distinct IDs with overwhelming probability. The ID renders as a
// data-attribute name (data-v-<id>) which the selector rewriter appends to
// compound selectors and the template marker injects on element nodes.
package scope

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// AttrPrefix is the default prefix for the produced data-attribute name.
const AttrPrefix = "data-v-"

// idLen is the number of hex digits kept from the identity digest. 12 digits
// (48 bits) keep collision probability negligible for any realistic build
// while staying short enough for readable output CSS.
const idLen = 12

// ID is an opaque scoping token for one component definition.
type ID string

// String returns the bare token, e.g. "f3f3eg9a1b2c".
func (id ID) String() string { return string(id) }

// Attr returns the attribute name encoding this ID, e.g. "data-v-f3f3eg9a1b2c".
// The attribute value is conventionally empty.
func (id ID) Attr() string { return AttrPrefix + string(id) }

// InvalidIdentityError reports a component identity that cannot be used for
// allocation. It is fatal for the affected component's compilation.
type InvalidIdentityError struct {
	Path   string
	Reason string
}

func (e *InvalidIdentityError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid component identity: %s", e.Reason)
	}
	return fmt.Sprintf("invalid component identity %q: %s", e.Path, e.Reason)
}

// Identity uniquely and deterministically identifies one component
// definition: a normalized source path plus a digest of its content.
type Identity struct {
	path   string
	digest [sha256.Size]byte
}

// NewIdentity builds an Identity from a component source path and its raw
// content. The path is cleaned, slash-normalized and NFC-normalized so the
// same file produces the same identity regardless of platform separators or
// filesystem Unicode normalization form.
func NewIdentity(path string, content []byte) (Identity, error) {
	if strings.TrimSpace(path) == "" {
		return Identity{}, &InvalidIdentityError{Reason: "empty source path"}
	}
	p := norm.NFC.String(filepath.ToSlash(filepath.Clean(path)))
	return Identity{path: p, digest: sha256.Sum256(content)}, nil
}

// Path returns the normalized source path of the identity.
func (i Identity) Path() string { return i.path }

// Key returns the registry key for the identity.
func (i Identity) Key() string {
	return i.path + "#" + hex.EncodeToString(i.digest[:])
}

// id derives the scope token for the identity. Path and content digest are
// hashed together so that two files with identical content still get
// distinct scopes.
func (i Identity) id() ID {
	h := sha256.New()
	h.Write([]byte(i.path))
	h.Write([]byte{0})
	h.Write(i.digest[:])
	return ID(hex.EncodeToString(h.Sum(nil))[:idLen])
}
