// Package schema defines the data types for entity schemas and table
// topology consumed by the generator. Schemas arriving here are expected to
// have passed structural validation upstream; the types are pure data
// structures with no behavior beyond convenience lookups.
package schema

// Schema is the declarative definition of a single entity.
type Schema struct {
	EntityName  string   `yaml:"entityName" json:"entityName"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Identity    Identity `yaml:"identity" json:"identity"`
	Fields      []*Field `yaml:"fields" json:"fields"`
}

// Identity declares the primary key of an entity: one partition-key
// attribute, optionally followed by a sort-key attribute. Every listed name
// must refer to a top-level field of the schema.
type Identity struct {
	Fields []string `yaml:"fields" json:"fields"`
}

// Field describes one attribute of an entity or of a nested structure.
// Type is a scalar prefix with an optional dotted suffix ("number.long",
// "timestamp.date") or a collection prefix ("list", "map", "stringSet",
// "numberSet.long"). List fields carry their element shape in Items; map
// fields carry their sub-fields in Fields.
type Field struct {
	Name         string       `yaml:"name" json:"name"`
	NameOverride string       `yaml:"nameOverride,omitempty" json:"nameOverride,omitempty"`
	Type         string       `yaml:"type" json:"type"`
	Required     bool         `yaml:"required,omitempty" json:"required,omitempty"`
	Nullable     bool         `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Constraints  *Constraints `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	EnumValues   []string     `yaml:"enumValues,omitempty" json:"enumValues,omitempty"`
	DefaultValue any          `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	Fields       []*Field     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Items        *Field       `yaml:"items,omitempty" json:"items,omitempty"`
	Description  string       `yaml:"description,omitempty" json:"description,omitempty"`
}

// Constraints holds the optional value constraints of a field. String
// constraints apply to string-typed fields, Min/Max to numeric ones.
type Constraints struct {
	MinLength *int     `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Empty reports whether no constraint is set.
func (c *Constraints) Empty() bool {
	return c == nil || (c.MinLength == nil && c.MaxLength == nil && c.Pattern == "" && c.Min == nil && c.Max == nil)
}

// TableMetadata is the optional table-topology document produced by the
// provisioning side. Its absence suppresses repository, client, and config
// generation.
type TableMetadata struct {
	TableName string           `yaml:"tableName" json:"tableName"`
	TableArn  string           `yaml:"tableArn,omitempty" json:"tableArn,omitempty"`
	Region    string           `yaml:"region,omitempty" json:"region,omitempty"`
	Indexes   []SecondaryIndex `yaml:"indexes,omitempty" json:"indexes,omitempty"`
}

// SecondaryIndex describes one secondary index: an alternate query path with
// its own partition attribute and optional sort attribute.
type SecondaryIndex struct {
	Name         string `yaml:"name" json:"name"`
	PartitionKey string `yaml:"partitionKey" json:"partitionKey"`
	SortKey      string `yaml:"sortKey,omitempty" json:"sortKey,omitempty"`
	Projection   string `yaml:"projection,omitempty" json:"projection,omitempty"`
}

// PartitionKey returns the partition-key attribute name of the identity.
func (s *Schema) PartitionKey() string {
	if len(s.Identity.Fields) == 0 {
		return ""
	}
	return s.Identity.Fields[0]
}

// SortKey returns the sort-key attribute name, or "" when the identity has
// no sort key.
func (s *Schema) SortKey() string {
	if len(s.Identity.Fields) < 2 {
		return ""
	}
	return s.Identity.Fields[1]
}

// FieldByName returns the top-level field with the given raw attribute name.
func (s *Schema) FieldByName(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
