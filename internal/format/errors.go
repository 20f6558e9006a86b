// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"errors"
	"fmt"

	"github.com/pdiddy/gostbib/pkg/types"
)

// Sentinel errors matched by the typed errors below.
var (
	ErrMissingField    = errors.New("missing required field")
	ErrMalformedAuthor = errors.New("malformed author")
	ErrUnsupportedType = errors.New("unsupported entry type")
)

// MissingFieldError reports a required field that is absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// AuthorError reports an author name with fewer than two tokens.
type AuthorError struct {
	Author string
}

func (e *AuthorError) Error() string {
	return fmt.Sprintf("author %q has no first name", e.Author)
}

func (e *AuthorError) Is(target error) bool { return target == ErrMalformedAuthor }

// UnsupportedTypeError reports an entry type with no formatting rule.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported entry type %q", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// Kind maps a formatting error to the warning kind reported to callers.
func Kind(err error) types.WarningKind {
	switch {
	case errors.Is(err, ErrMalformedAuthor):
		return types.WarnMalformedAuthor
	case errors.Is(err, ErrUnsupportedType):
		return types.WarnUnsupportedType
	default:
		return types.WarnMissingField
	}
}
