package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// ResolveCodeName derives the exported Go identifier for a raw attribute
// name. An explicit override wins unconditionally. A raw name that is
// already a legal exported identifier passes through unchanged, except that
// all-caps and underscore-bearing names still camel-case: split on '-' and
// '_', each segment capitalized, an all-caps segment title-cased wholesale
// rather than treated as separate boundaries, and a leading digit gets an
// "X" prefix because an underscore would make the field unexported.
//
// The function is pure and idempotent: resolving an already-resolved name
// returns it unchanged.
func ResolveCodeName(name, override string) string {
	if override != "" {
		return override
	}
	if exportedIdent(name) && !strings.ContainsRune(name, '_') && !allCaps(name) {
		return name
	}
	return camelize(name)
}

// EnumConstName names the generated constant for an enum value: the enum
// type name followed by the value's resolved identifier, so PENDING on
// OrderStatus becomes OrderStatusPending.
func EnumConstName(et *EnumType, value string) string {
	return et.Name + ResolveCodeName(value, "")
}

// NeedsAttributeMarker reports whether the generated field needs an explicit
// attribute-name marker (a dynamodbav tag carrying the raw name). True
// exactly when the resolved identifier differs from the raw name.
func NeedsAttributeMarker(rawName, ident string) bool {
	return rawName != ident
}

// DetectCollisions fails iff two or more raw names in the scope resolve to
// the same code identifier. It reports every colliding group at once so a
// schema author fixes the batch in one pass.
func DetectCollisions(scope string, attrs []*Attr) error {
	byIdent := make(map[string][]string)
	for _, a := range attrs {
		byIdent[a.Ident] = append(byIdent[a.Ident], a.Name)
	}
	var groups []CollisionGroup
	for ident, raws := range byIdent {
		if len(raws) > 1 {
			groups = append(groups, CollisionGroup{Ident: ident, RawNames: raws})
		}
	}
	if len(groups) == 0 {
		return nil
	}
	sortGroups(groups)
	return &CollisionError{Scope: scope, Groups: groups}
}

// exportedIdent reports whether s is already a legal exported Go identifier.
func exportedIdent(s string) bool {
	if !token.IsIdentifier(s) {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsUpper(r)
}

func camelize(name string) string {
	segs := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, seg := range segs {
		if allCaps(seg) {
			seg = strings.ToLower(seg)
		}
		b.WriteString(inflect.Capitalize(seg))
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

func allCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
