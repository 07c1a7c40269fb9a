// Package gen resolves entity schemas into a typed model and drives code
// generation for the DynamoDB object-mapping target.
package gen

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema resolution error.
	ErrInvalidSchema = errors.New("dynagen: invalid schema")
	// ErrCollision indicates that distinct attribute names resolve to the
	// same code identifier.
	ErrCollision = errors.New("dynagen: identifier collision")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("dynagen: code generation failed")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("dynagen: missing configuration")
)

// SchemaError represents a schema resolution error.
type SchemaError struct {
	Entity  string // entity name
	Field   string // attribute path (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("dynagen: schema error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// NewSchemaError creates a new SchemaError.
func NewSchemaError(entity, field, message string, cause error) *SchemaError {
	return &SchemaError{Entity: entity, Field: field, Message: message, Cause: cause}
}

// CollisionGroup is a set of raw attribute names that all resolve to the
// same code identifier.
type CollisionGroup struct {
	Ident    string
	RawNames []string
}

// CollisionError reports every identifier collision found in a batch. It is
// raised before any file is written.
type CollisionError struct {
	Scope  string // entity name or qualified nested-type name
	Groups []CollisionGroup
}

// Error implements the error interface. The message names every colliding
// group and tells the schema author how to break the tie.
func (e *CollisionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dynagen: identifier collision in %s:", e.Scope)
	for _, g := range e.Groups {
		fmt.Fprintf(&b, " [%s <- %s]", g.Ident, strings.Join(g.RawNames, ", "))
	}
	b.WriteString("; add a nameOverride to one of the colliding fields")
	return b.String()
}

// Is reports whether the target matches the sentinel error for CollisionError.
func (e *CollisionError) Is(target error) bool { return target == ErrCollision }

// sortGroups orders groups and their members for deterministic messages.
func sortGroups(groups []CollisionGroup) {
	for i := range groups {
		sort.Strings(groups[i].RawNames)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Ident < groups[j].Ident })
}

// GenerationError represents a code generation failure, carrying the
// offending output path when one exists.
type GenerationError struct {
	Phase   string // "entity", "keys", "validator", "repository", ...
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("dynagen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, path, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, Path: path, Message: message, Cause: cause}
}

// ConfigError represents a generator configuration error.
type ConfigError struct {
	Option  string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynagen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// NewConfigError creates a new ConfigError.
func NewConfigError(option, message string) *ConfigError {
	return &ConfigError{Option: option, Message: message}
}

// IsCollisionError reports whether the error is a CollisionError.
func IsCollisionError(err error) bool {
	var ce *CollisionError
	return errors.As(err, &ce)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
