// Package ids defines strongly-typed entity identifiers.
//
// Every identifier is an ID[K], where the kind K is an empty struct that
// only supplies the human-readable prefix. The per-entity types (UserID,
// SubjectID, ...) are aliases of concrete instantiations, so two kinds are
// distinct types to the compiler while sharing one implementation.
//
// IDs are comparable values: == compares the underlying strings and IDs
// may be used as map keys. They implement driver.Valuer and sql.Scanner
// so repositories can bind and scan them directly.
package ids

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/idgen"
)

// Kind supplies the prefix of an identifier type.
type Kind interface {
	Prefix() string
}

// ID is an opaque identifier tagged with the prefix of kind K.
type ID[K Kind] struct {
	value string
}

// New mints a fresh identifier of kind K.
func New[K Kind]() ID[K] {
	var k K
	return ID[K]{value: idgen.MustGenerate(k.Prefix())}
}

// Parse rebuilds an identifier from its string form. The string must carry
// the prefix of K followed by a non-empty suffix.
func Parse[K Kind](s string) (ID[K], error) {
	var k K
	p := k.Prefix()
	if len(s) <= len(p) || !strings.HasPrefix(s, p) {
		return ID[K]{}, common.NewInvalidArgumentError("id", fmt.Sprintf("%q is not a %s identifier", s, p))
	}
	return ID[K]{value: s}, nil
}

// MustParse is Parse that panics on malformed input.
func MustParse[K Kind](s string) ID[K] {
	id, err := Parse[K](s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the underlying value unchanged.
func (id ID[K]) String() string { return id.value }

// IsZero reports whether the identifier was never assigned.
func (id ID[K]) IsZero() bool { return id.value == "" }

// Prefix returns the kind prefix of the identifier type.
func (ID[K]) Prefix() string {
	var k K
	return k.Prefix()
}

// Value implements driver.Valuer. A zero ID is stored as NULL.
func (id ID[K]) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.value, nil
}

// Scan implements sql.Scanner. Stored values are trusted and not re-validated.
func (id *ID[K]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		id.value = ""
	case string:
		id.value = v
	case []byte:
		id.value = string(v)
	default:
		return fmt.Errorf("ids: cannot scan %T into %s identifier", src, id.Prefix())
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID[K]) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID[K]) UnmarshalText(b []byte) error {
	parsed, err := Parse[K](string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
