package gen

import (
	"fmt"

	"github.com/syssam/dynagen/schema"
)

type (
	// Graph holds the resolved model for one generation batch: every entity
	// sharing a table, plus the optional table topology.
	Graph struct {
		Config *Config
		Nodes  []*Entity
		Table  *schema.TableMetadata
	}

	// Config is the generator configuration.
	Config struct {
		// Package is the import path of the generated base package.
		Package string
		// Target is the output directory the tree is written under.
		Target string
	}

	// Entity is a resolved schema: attributes with code identifiers and
	// target types, key structure, nested type descriptors, and the
	// secondary indexes the entity can serve.
	Entity struct {
		Name        string
		Description string
		Schema      *schema.Schema
		Attrs       []*Attr
		// PartitionKey and SortKey point into Attrs. SortKey is nil when
		// the identity has a single field.
		PartitionKey *Attr
		SortKey      *Attr
		// Types holds every generated nested-type descriptor of the
		// entity, in discovery order, flattened from any depth.
		Types []*GeneratedType
		// Enums holds every enum type discovered in the entity tree.
		Enums []*EnumType
		// Indexes are the secondary indexes whose partition attribute the
		// entity declares, in table-metadata order.
		Indexes []*IndexRef
	}

	// Attr is one resolved attribute of an entity or nested type.
	Attr struct {
		// Name is the raw attribute name as stored.
		Name string
		// Ident is the exported Go identifier derived from Name.
		Ident string
		// Path is the dotted attribute path from the entity root, used in
		// validation error paths ("shippingAddress.zip").
		Path string
		Type *ResolvedType
		// Required and Nullable mirror the schema flags.
		Required bool
		Nullable bool
		// Constraints are nil for collection-typed attributes.
		Constraints *schema.Constraints
		// Default is the schema default value, nil when absent.
		Default any
		// Description is carried into the generated doc comment.
		Description string
		// IsPartition/IsSort mark primary-key participation.
		IsPartition bool
		IsSort      bool
		// IndexNames lists every declared secondary index this attribute
		// participates in, in declaration order.
		IndexNames []string
	}

	// GeneratedType is a synthesized named structural type for a nested
	// map or list-of-map field. QualifiedName concatenates every ancestor
	// name, which keeps the flat model package collision-free at any
	// nesting depth.
	GeneratedType struct {
		QualifiedName string
		Description   string
		Attrs         []*Attr
	}

	// EnumType is a dedicated enumerated type for a string field with
	// declared enumValues.
	EnumType struct {
		Name   string
		Values []string
	}

	// IndexRef binds a declared secondary index to the entity attributes
	// that type its query family.
	IndexRef struct {
		Name      string
		Partition *Attr
		Sort      *Attr // nil for a partition-only index
	}
)

// NewGraph resolves a batch of schemas against the optional table topology.
// Resolution is pure: the same inputs produce an identical graph.
func NewGraph(c *Config, schemas []*schema.Schema, table *schema.TableMetadata) (*Graph, error) {
	if c == nil || c.Package == "" {
		return nil, NewConfigError("Package", "missing generated package import path")
	}
	if c.Target == "" {
		return nil, NewConfigError("Target", "missing output directory")
	}
	g := &Graph{Config: c, Table: table}
	for _, s := range schemas {
		e, err := newEntity(s, table)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, e)
	}
	return g, nil
}

func newEntity(s *schema.Schema, table *schema.TableMetadata) (*Entity, error) {
	e := &Entity{
		Name:        ResolveCodeName(s.EntityName, ""),
		Description: s.Description,
		Schema:      s,
	}
	attrs, err := e.buildAttrs(e.Name, "", s.Fields)
	if err != nil {
		return nil, err
	}
	e.Attrs = attrs

	for _, a := range e.Attrs {
		switch a.Name {
		case s.PartitionKey():
			a.IsPartition = true
			e.PartitionKey = a
		case s.SortKey():
			a.IsSort = true
			e.SortKey = a
		}
	}
	if e.PartitionKey == nil {
		return nil, NewSchemaError(e.Name, s.PartitionKey(), "identity partition field not found", nil)
	}
	if err := keyUsable(e.Name, e.PartitionKey); err != nil {
		return nil, err
	}
	if e.SortKey != nil {
		if err := keyUsable(e.Name, e.SortKey); err != nil {
			return nil, err
		}
	}
	if table != nil {
		e.resolveIndexes(table)
	}
	return e, nil
}

// buildAttrs resolves a field list, recursing into nested structures.
// qualifier is the ancestor-qualified type-name prefix ("OrderShipping"),
// pathPrefix the runtime attribute path ("shipping.").
func (e *Entity) buildAttrs(qualifier, pathPrefix string, fields []*schema.Field) ([]*Attr, error) {
	attrs := make([]*Attr, 0, len(fields))
	for _, f := range fields {
		a := &Attr{
			Name:        f.Name,
			Ident:       ResolveCodeName(f.Name, f.NameOverride),
			Path:        pathPrefix + f.Name,
			Required:    f.Required,
			Nullable:    f.Nullable,
			Default:     f.DefaultValue,
			Description: f.Description,
		}
		if !f.Constraints.Empty() {
			a.Constraints = f.Constraints
		}
		rt, err := e.resolveFieldType(qualifier, a, f)
		if err != nil {
			return nil, err
		}
		a.Type = rt
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func (e *Entity) resolveFieldType(qualifier string, a *Attr, f *schema.Field) (*ResolvedType, error) {
	prefix, _ := splitType(f.Type)
	switch prefix {
	case "map":
		gt, err := e.generatedType(qualifier+a.Ident, a.Path+".", f.Description, f.Fields)
		if err != nil {
			return nil, err
		}
		return &ResolvedType{Class: ClassGenerated, Ref: gt}, nil
	case "list":
		if f.Items == nil {
			return nil, NewSchemaError(e.Name, a.Path, "list field is missing items", nil)
		}
		itemPrefix, _ := splitType(f.Items.Type)
		if itemPrefix == "map" {
			gt, err := e.generatedType(qualifier+a.Ident+"Item", a.Path+"[].", f.Items.Description, f.Items.Fields)
			if err != nil {
				return nil, err
			}
			return &ResolvedType{Class: ClassListGenerated, Ref: gt}, nil
		}
		kind, err := resolveScalar(f.Items.Type)
		if err != nil {
			return nil, NewSchemaError(e.Name, a.Path, "", err)
		}
		return &ResolvedType{Class: ClassListScalar, Kind: kind}, nil
	case "stringSet", "numberSet":
		kind, err := resolveSetElem(f.Type)
		if err != nil {
			return nil, NewSchemaError(e.Name, a.Path, "", err)
		}
		return &ResolvedType{Class: ClassSetScalar, Kind: kind}, nil
	}
	kind, err := resolveScalar(f.Type)
	if err != nil {
		return nil, NewSchemaError(e.Name, a.Path, "", err)
	}
	// A string scalar with declared enum values becomes a dedicated type,
	// at any depth.
	if kind == KindString && len(f.EnumValues) > 0 {
		et := &EnumType{Name: qualifier + a.Ident, Values: f.EnumValues}
		e.Enums = append(e.Enums, et)
		return &ResolvedType{Class: ClassEnum, Kind: kind, Enum: et}, nil
	}
	return &ResolvedType{Class: ClassScalar, Kind: kind}, nil
}

func (e *Entity) generatedType(qualifiedName, pathPrefix, doc string, fields []*schema.Field) (*GeneratedType, error) {
	if len(fields) == 0 {
		return nil, NewSchemaError(e.Name, pathPrefix, "map field is missing fields", nil)
	}
	gt := &GeneratedType{QualifiedName: qualifiedName, Description: doc}
	e.Types = append(e.Types, gt)
	attrs, err := e.buildAttrs(qualifiedName, pathPrefix, fields)
	if err != nil {
		return nil, err
	}
	gt.Attrs = attrs
	return gt, nil
}

// resolveIndexes binds declared secondary indexes to entity attributes. An
// index whose partition attribute the entity does not declare is skipped:
// its query family cannot be typed for this entity.
func (e *Entity) resolveIndexes(table *schema.TableMetadata) {
	for _, idx := range table.Indexes {
		ref := &IndexRef{Name: idx.Name}
		for _, a := range e.Attrs {
			switch a.Name {
			case idx.PartitionKey:
				ref.Partition = a
			case idx.SortKey:
				ref.Sort = a
			}
		}
		if ref.Partition == nil {
			continue
		}
		if idx.SortKey == "" {
			ref.Sort = nil
		}
		e.Indexes = append(e.Indexes, ref)
		ref.Partition.IndexNames = append(ref.Partition.IndexNames, idx.Name)
		if ref.Sort != nil {
			ref.Sort.IndexNames = append(ref.Sort.IndexNames, idx.Name)
		}
	}
}

func keyUsable(entity string, a *Attr) error {
	if a.Type.Scalar() && a.Type.Kind.KeyCompatible() {
		return nil
	}
	return NewSchemaError(entity, a.Name,
		fmt.Sprintf("attribute of type %s cannot serve as a key", a.Type.Kind), nil)
}

// detectCollisions runs collision detection for the whole batch: every
// entity scope and every generated-type scope. All failures are found
// before the first file is written.
func (g *Graph) detectCollisions() error {
	for _, e := range g.Nodes {
		if err := DetectCollisions(e.Name, e.Attrs); err != nil {
			return err
		}
		for _, gt := range e.Types {
			if err := DetectCollisions(gt.QualifiedName, gt.Attrs); err != nil {
				return err
			}
		}
	}
	return nil
}

// NeedsValidation reports whether the entity needs a non-trivial validator:
// a required field anywhere in its tree, or a non-collection field with
// constraints or enum values anywhere.
func NeedsValidation(e *Entity) bool {
	return AttrsNeedValidation(e.Attrs)
}

// AttrsNeedValidation reports whether an attribute scope declares anything a
// validator must check.
func AttrsNeedValidation(attrs []*Attr) bool {
	for _, a := range attrs {
		if a.Required {
			return true
		}
		if !a.Type.Collection() && (a.Constraints != nil || a.Type.Class == ClassEnum) {
			return true
		}
		if a.Type.Ref != nil && AttrsNeedValidation(a.Type.Ref.Attrs) {
			return true
		}
	}
	return false
}

// NeedsDateConverter reports whether any field in the batch uses the
// date-only timestamp subtype.
func (g *Graph) NeedsDateConverter() bool { return g.anyKind(KindDate) }

// NeedsDecimalConverter reports whether any field in the batch uses the
// fixed-point numeric subtype.
func (g *Graph) NeedsDecimalConverter() bool { return g.anyKind(KindDecimal) }

// SetKinds returns the element kinds of every set-typed field in the batch,
// in first-seen order.
func (g *Graph) SetKinds() []Kind {
	seen := make(map[Kind]bool)
	var kinds []Kind
	g.walk(func(a *Attr) {
		if a.Type.Class == ClassSetScalar && !seen[a.Type.Kind] {
			seen[a.Type.Kind] = true
			kinds = append(kinds, a.Type.Kind)
		}
	})
	return kinds
}

// NeedsConverters reports whether the converter package must be emitted.
func (g *Graph) NeedsConverters() bool {
	return g.NeedsDateConverter() || g.NeedsDecimalConverter() || len(g.SetKinds()) > 0
}

func (g *Graph) anyKind(k Kind) bool {
	found := false
	g.walk(func(a *Attr) {
		if a.Type.Kind == k && a.Type.Class != ClassSetScalar {
			found = true
		}
	})
	return found
}

func (g *Graph) walk(fn func(*Attr)) {
	var visit func(attrs []*Attr)
	visit = func(attrs []*Attr) {
		for _, a := range attrs {
			fn(a)
			if a.Type.Ref != nil {
				visit(a.Type.Ref.Attrs)
			}
		}
	}
	for _, e := range g.Nodes {
		visit(e.Attrs)
	}
}

// Optional reports whether the attribute is emitted as a pointer in the
// generated struct: scalar and enum fields that are not required, or that
// are explicitly nullable. Collections and nested structs carry their own
// nil states.
func (a *Attr) Optional() bool {
	if !a.Type.Scalar() {
		return false
	}
	return !a.Required || a.Nullable
}
