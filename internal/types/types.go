package types

import (
	"keel/internal/loadlevel"
)

// TypeID is a stable index into a Registry.
type TypeID uint32

// NoTypeID marks an absent reference (no base type, no element).
const NoTypeID TypeID = 0

// Kind classifies a type descriptor.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindClass is a reference type with an optional base and interfaces.
	KindClass
	// KindValue is an inline-layout type; its field layout feeds into any
	// type that embeds it.
	KindValue
	// KindInterface carries no fields, only a method surface.
	KindInterface
	// KindAlias names another type.
	KindAlias
	// KindArray is a derived type over an element.
	KindArray
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindValue:
		return "value"
	case KindInterface:
		return "interface"
	case KindAlias:
		return "alias"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// ParseKind converts a manifest string to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "class":
		return KindClass, true
	case "value":
		return KindValue, true
	case "interface":
		return KindInterface, true
	case "alias":
		return KindAlias, true
	case "array":
		return KindArray, true
	default:
		return KindInvalid, false
	}
}

// Field is one member of a class or value type.
type Field struct {
	Name string
	Type TypeID
	// Eager marks fields whose type the metadata demands fully loaded
	// during dependency resolution, ahead of the normal phase order.
	Eager bool
}

// Def is one type descriptor. Level tracks how far the loader has taken it.
type Def struct {
	Name       string
	Kind       Kind
	Base       TypeID
	Interfaces []TypeID
	Elem       TypeID // alias target or array element
	Fields     []Field
	Level      loadlevel.Level
}
