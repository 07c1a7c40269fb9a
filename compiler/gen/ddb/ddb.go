// Package ddb generates the DynamoDB object-mapping client for the Jennifer
// generator.
//
// This package implements the gen.Dialect interface for the enhanced-client
// convention of the AWS SDK for Go v2: attributevalue struct tags, typed key
// builders, expression-based conditions, and per-entity repositories.
//
// Usage:
//
//	import (
//	    "github.com/syssam/dynagen/compiler/gen"
//	    "github.com/syssam/dynagen/compiler/gen/ddb"
//	)
//
//	generator := gen.NewGenerator(graph)
//	generator.WithDialect(ddb.NewDialect(generator))
//	err := generator.Generate()
//
// Generated code structure:
//
//	{output}/
//	├── {entity}.go          # Entity struct, enums, constructors, builder
//	├── model/
//	│   └── {type}.go        # Nested structural types
//	├── keys/
//	│   └── {entity}.go      # Attribute-name and index-name constants, key builder
//	├── validation/
//	│   ├── errors.go        # Shared validation error type
//	│   └── {entity}.go      # Per-entity validator
//	├── repository/
//	│   └── {entity}.go      # Item-level operations (table metadata required)
//	├── client/
//	│   └── client.go        # Low-level client wrapper (table metadata required)
//	├── config/
//	│   └── config.go        # Shared facility (table metadata required)
//	└── converter/
//	    └── converter.go     # Date, Decimal, and set types (on demand)
package ddb

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// Import paths of the generated code's runtime dependencies.
const (
	awsPkg        = "github.com/aws/aws-sdk-go-v2/aws"
	awsConfigPkg  = "github.com/aws/aws-sdk-go-v2/config"
	dynamodbPkg   = "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypesPkg   = "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	attrValuePkg  = "github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	expressionPkg = "github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	decimalPkg    = "github.com/shopspring/decimal"
)

// newFile creates a dialect file with import-name hints for the runtime
// dependencies, so the rendered import block carries no aliases.
func newFile(h gen.GeneratorHelper, pkgPath string) *jen.File {
	f := h.NewFile(pkgPath)
	f.ImportName(awsPkg, "aws")
	f.ImportName(awsConfigPkg, "config")
	f.ImportName(dynamodbPkg, "dynamodb")
	f.ImportName(ddbTypesPkg, "types")
	f.ImportName(attrValuePkg, "attributevalue")
	f.ImportName(expressionPkg, "expression")
	f.ImportName(decimalPkg, "decimal")
	return f
}

// Generate is a convenience entry point: it wires a generator to the DynamoDB
// dialect and runs the batch.
//
// Example:
//
//	import "github.com/syssam/dynagen/compiler/gen/ddb"
//	err := ddb.Generate(graph)
func Generate(g *gen.Graph) error {
	generator := gen.NewGenerator(g)
	generator.WithDialect(NewDialect(generator))
	return generator.Generate()
}

// Dialect implements gen.Dialect for the DynamoDB object-mapping convention.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new DynamoDB dialect generator.
// The helper parameter should be a *gen.Generator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "dynamodb"
}

// GenEntity generates the entity file ({entity}.go).
// Includes: entity struct, enum types, constructors, builder, equality.
func (d *Dialect) GenEntity(e *gen.Entity) *jen.File {
	return genEntity(d.helper, e)
}

// GenModelType generates one nested structural type (model/{type}.go).
func (d *Dialect) GenModelType(e *gen.Entity, gt *gen.GeneratedType) *jen.File {
	return genModelType(d.helper, e, gt)
}

// GenKeys generates the key constants file (keys/{entity}.go).
// Includes: attribute-name constants, index-name constants, key builder.
func (d *Dialect) GenKeys(e *gen.Entity) *jen.File {
	return genKeys(d.helper, e)
}

// GenValidator generates the validator file (validation/{entity}.go).
func (d *Dialect) GenValidator(e *gen.Entity) *jen.File {
	return genValidator(d.helper, e)
}

// GenValidationErrors generates the shared error type (validation/errors.go).
func (d *Dialect) GenValidationErrors() *jen.File {
	return genValidationErrors(d.helper)
}

// GenRepository generates the repository file (repository/{entity}.go).
// Includes: save, update, lookup, delete, scan, query families, batch and
// transactional operations, escape hatches.
func (d *Dialect) GenRepository(e *gen.Entity) *jen.File {
	return genRepository(d.helper, e)
}

// GenClient generates the client wrapper (client/client.go).
func (d *Dialect) GenClient() *jen.File {
	return genClient(d.helper)
}

// GenConfig generates the shared facility (config/config.go).
func (d *Dialect) GenConfig() *jen.File {
	return genConfig(d.helper)
}

// GenConverter generates the converter types (converter/converter.go).
func (d *Dialect) GenConverter() *jen.File {
	return genConverter(d.helper)
}

// Verify Dialect implements gen.Dialect at compile time.
var _ gen.Dialect = (*Dialect)(nil)
