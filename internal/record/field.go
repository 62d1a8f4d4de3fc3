package record

import (
	"fmt"
	"strings"
	"time"
)

// Producer returns the current value of a field. It is invoked every time an
// insert statement is rendered, so it reflects the live state of the record.
type Producer func() string

// Field describes one column: its identifier, the raw SQL type fragment copied
// verbatim into the DDL, and the producer of its value.
type Field struct {
	Name  string
	Type  string
	Value Producer
}

// MomentField is the name of the timestamp column every record starts with.
const MomentField = "MOMENT"

// MomentLayout renders YYYY-MM-DD HH-MM-SS in local time.
const MomentLayout = "2006-01-02 15-04-05"

// Const returns a producer that always yields s.
func Const(s string) Producer {
	return func() string { return s }
}

// Stringer returns a producer that reads v.String() at render time.
func Stringer(v fmt.Stringer) Producer {
	return func() string { return v.String() }
}

func momentField(at time.Time) Field {
	return Field{
		Name:  MomentField,
		Type:  "TEXT",
		Value: Const(at.Local().Format(MomentLayout)),
	}
}

func validateField(f Field, existing []Field) error {
	if f.Name == "" {
		return fmt.Errorf("%w: field name must not be empty", ErrInvalidField)
	}
	if f.Type == "" {
		return fmt.Errorf("%w: field %s: type must not be empty", ErrInvalidField, f.Name)
	}
	if f.Value == nil {
		return fmt.Errorf("%w: field %s: value producer must not be nil", ErrInvalidField, f.Name)
	}
	if !IsIdentifier(f.Name) {
		return fmt.Errorf("%w: field name %q is not a plain SQL identifier", ErrInvalidField, f.Name)
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, f.Name) {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidField, f.Name)
		}
	}
	return nil
}

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
