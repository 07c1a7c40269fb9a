package gen

import (
	"strings"
)

// Kind is the closed set of scalar representations a field can resolve to.
// Adding a subtype means adding a Kind here; every switch over Kind in this
// package and in the emitters is exhaustive over the set.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindDecimal
	KindBool
	KindBytes
	KindInstant // timestamp without suffix
	KindEpoch   // timestamp.epoch, 64-bit integer
	KindDate    // timestamp.date, calendar date
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
	KindDecimal: "decimal",
	KindBool:    "bool",
	KindBytes:   "bytes",
	KindInstant: "instant",
	KindEpoch:   "epoch",
	KindDate:    "date",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Numeric reports whether min/max constraints apply to the kind.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt, KindLong, KindFloat, KindDouble, KindDecimal:
		return true
	}
	return false
}

// KeyCompatible reports whether the kind can serve as a partition or sort
// key value. DynamoDB keys are string, number, or binary attributes, so
// every kind except bool qualifies (timestamps render to text or numbers).
func (k Kind) KeyCompatible() bool {
	return k != KindBool && k != KindInvalid
}

// KeyIsNumber reports whether the kind renders to a number ("N") key
// attribute. Non-epoch timestamps render to canonical text instead.
func (k Kind) KeyIsNumber() bool {
	switch k {
	case KindInt, KindLong, KindFloat, KindDouble, KindDecimal, KindEpoch:
		return true
	}
	return false
}

// Class is the closed set of resolved-type shapes.
type Class uint8

const (
	ClassScalar Class = iota
	ClassEnum
	ClassListScalar
	ClassListGenerated
	ClassGenerated
	ClassSetScalar
)

// ResolvedType is the target representation chosen for a field's declared
// type. Exactly one of the optional members is set, according to Class:
// Enum for ClassEnum, Ref for the generated classes, Kind for everything
// scalar-shaped (and for the element kind of lists and sets).
type ResolvedType struct {
	Class Class
	Kind  Kind
	Enum  *EnumType
	Ref   *GeneratedType
}

// Scalar reports whether the type is a plain scalar (including enums).
func (rt *ResolvedType) Scalar() bool {
	return rt.Class == ClassScalar || rt.Class == ClassEnum
}

// Collection reports whether the type is excluded from constraint and enum
// emission (lists, sets, and nested structures).
func (rt *ResolvedType) Collection() bool {
	switch rt.Class {
	case ClassListScalar, ClassListGenerated, ClassGenerated, ClassSetScalar:
		return true
	}
	return false
}

// splitType splits a declared type string into its prefix and optional
// dotted suffix.
func splitType(s string) (prefix, suffix string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// collectionPrefix reports whether the prefix names a collection type.
func collectionPrefix(prefix string) bool {
	switch prefix {
	case "list", "map", "stringSet", "numberSet":
		return true
	}
	return false
}

// resolveScalar maps a scalar type string to its Kind. Unknown suffixes of
// the number and timestamp families fall back to the family default; this
// is documented behavior, not an error. Unknown prefixes are an error: the
// upstream validator guarantees they never reach the generator, so hitting
// one here means the precondition was violated.
func resolveScalar(typ string) (Kind, error) {
	prefix, suffix := splitType(typ)
	switch prefix {
	case "string":
		return KindString, nil
	case "number":
		switch suffix {
		case "", "int":
			return KindInt, nil
		case "long":
			return KindLong, nil
		case "float":
			return KindFloat, nil
		case "double":
			return KindDouble, nil
		case "decimal":
			return KindDecimal, nil
		default:
			// Unrecognized numeric subtype: family default.
			return KindInt, nil
		}
	case "boolean", "bool":
		return KindBool, nil
	case "binary":
		return KindBytes, nil
	case "timestamp":
		switch suffix {
		case "":
			return KindInstant, nil
		case "epoch":
			return KindEpoch, nil
		case "date":
			return KindDate, nil
		default:
			// Unrecognized timestamp subtype: family default.
			return KindInstant, nil
		}
	default:
		return KindInvalid, NewSchemaError("", "", "unsupported type "+typ, nil)
	}
}

// resolveSetElem maps a set type string to its element kind.
func resolveSetElem(typ string) (Kind, error) {
	prefix, suffix := splitType(typ)
	switch prefix {
	case "stringSet":
		return KindString, nil
	case "numberSet":
		if suffix == "" {
			return KindInt, nil
		}
		return resolveScalar("number." + suffix)
	default:
		return KindInvalid, NewSchemaError("", "", "unsupported set type "+typ, nil)
	}
}
