// Package identifier extracts Nix store hashes from store paths and bare hashes.
package identifier

import (
	"regexp"

	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
)

// HashLength is the number of characters in a store path hash.
const HashLength = 32

// storePathPattern matches an optional path prefix, the hash and an optional "-name" suffix.
// The leading .* is greedy, so the last 32-character run in the input wins.
var storePathPattern = regexp.MustCompile(`.*/?([a-zA-Z0-9]{32})-?.*`)

var hashPattern = regexp.MustCompile(`^[a-zA-Z0-9]{32}$`)

// Extract returns the store hash contained in input, which may be a bare hash or a store path
// such as /nix/store/<hash>-hello-2.12.1. It fails with NoIdentifierFound when input holds no
// 32-character alphanumeric run.
func Extract(input string) (string, error) {
	m := storePathPattern.FindStringSubmatch(input)
	if m == nil {
		return "", pkgerrors.New(pkgerrors.KindNoIdentifierFound, input, nil)
	}
	return m[1], nil
}

// IsValid reports whether hash is exactly one 32-character alphanumeric token.
func IsValid(hash string) bool {
	return hashPattern.MatchString(hash)
}
