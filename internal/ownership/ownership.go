// Package ownership decides whether an actor may mutate a resource.
package ownership

import (
	"fmt"
	"strings"

	"vidtube/internal/apperr"

	"github.com/google/uuid"
)

// Canonical normalizes an identifier to its lowercase hyphenated UUID form.
// The second result is false for nil, empty, uuid.Nil or unparseable input.
func Canonical(id any) (string, bool) {
	var raw string
	switch v := id.(type) {
	case nil:
		return "", false
	case uuid.UUID:
		if v == uuid.Nil {
			return "", false
		}
		return v.String(), true
	case *uuid.UUID:
		if v == nil || *v == uuid.Nil {
			return "", false
		}
		return v.String(), true
	case string:
		raw = v
	case *string:
		if v == nil {
			return "", false
		}
		raw = *v
	case fmt.Stringer:
		if isNilStringer(v) {
			return "", false
		}
		raw = v.String()
	default:
		return "", false
	}

	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == uuid.Nil {
		return "", false
	}
	return parsed.String(), true
}

func isNilStringer(s fmt.Stringer) (isNil bool) {
	defer func() {
		if recover() != nil {
			isNil = true
		}
	}()
	_ = s.String()
	return false
}

// Authorize reports whether actor owns the resource owned by owner.
// Absent or malformed ids are never authorized.
func Authorize(actor, owner any) bool {
	a, ok := Canonical(actor)
	if !ok {
		return false
	}
	o, ok := Canonical(owner)
	if !ok {
		return false
	}
	return a == o
}

// Require returns a Forbidden error unless actor owns the resource.
func Require(actor, owner any, what string) error {
	if Authorize(actor, owner) {
		return nil
	}
	return apperr.Forbidden(fmt.Sprintf("you are not allowed to modify this %s", what))
}
