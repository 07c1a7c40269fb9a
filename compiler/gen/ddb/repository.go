package ddb

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// genRepository generates the repository file (repository/{entity}.go): the
// repository struct, save and update families, key lookups, deletes, scans,
// key-condition query families for the primary index and every secondary
// index, batch operations, transactional operations, and raw escape hatches.
func genRepository(h gen.GeneratorHelper, e *gen.Entity) *jen.File {
	f := newFile(h, h.SubPkgPath("repository"))

	genRepoStruct(h, f, e)
	genRepoSave(h, f, e)
	genRepoUpdate(h, f, e)
	genRepoFind(h, f, e)
	genRepoDelete(h, f, e)
	genRepoScan(h, f, e)
	genRepoQueries(h, f, e)
	genRepoBatch(h, f, e)
	genRepoTransact(h, f, e)

	return f
}

// =============================================================================
// Shared pieces
// =============================================================================

func repoName(e *gen.Entity) string { return e.Name + "Repository" }

func recv(e *gen.Entity) *jen.Statement {
	return jen.Params(jen.Id("r").Op("*").Id(repoName(e)))
}

func entityType(h gen.GeneratorHelper, e *gen.Entity) *jen.Statement {
	return jen.Qual(h.BasePkgPath(), e.Name)
}

func tableName() *jen.Statement {
	return jen.Id("r").Dot("client").Dot("TableName").Call()
}

func awsTableName() *jen.Statement {
	return jen.Qual(awsPkg, "String").Call(tableName())
}

func api() *jen.Statement {
	return jen.Id("r").Dot("client").Dot("DynamoDB").Call()
}

func avMap() *jen.Statement {
	return jen.Map(jen.String()).Qual(ddbTypesPkg, "AttributeValue")
}

// keyAttrs returns the primary-key attributes in partition, sort order.
func keyAttrs(e *gen.Entity) []*gen.Attr {
	attrs := []*gen.Attr{e.PartitionKey}
	if e.SortKey != nil {
		attrs = append(attrs, e.SortKey)
	}
	return attrs
}

// keyParams renders the typed key parameter list shared by lookups and
// deletes.
func keyParams(h gen.GeneratorHelper, e *gen.Entity) func(*jen.Group) {
	return func(params *jen.Group) {
		for _, a := range keyAttrs(e) {
			params.Id(paramName(a.Ident)).Add(h.BaseType(a))
		}
	}
}

// keyArgs renders the arguments forwarded to the keys builder.
func keyArgs(e *gen.Entity) []jen.Code {
	var args []jen.Code
	for _, a := range keyAttrs(e) {
		args = append(args, jen.Id(paramName(a.Ident)))
	}
	return args
}

// keyCall renders keys.{Entity}Key(...) from the method parameters.
func keyCall(h gen.GeneratorHelper, e *gen.Entity) *jen.Statement {
	return jen.Qual(h.SubPkgPath("keys"), e.Name+"Key").Call(keyArgs(e)...)
}

func errPrefix(e *gen.Entity) string {
	return strings.ToLower(e.Name)
}

// =============================================================================
// Struct, constructor, escape hatches
// =============================================================================

func genRepoStruct(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Commentf("%s provides item-level access to %s items.", repoName(e), e.Name)
	f.Type().Id(repoName(e)).Struct(
		jen.Id("client").Op("*").Qual(h.SubPkgPath("client"), "Client"),
	)

	f.Commentf("New%s creates a repository on top of the shared client.", repoName(e))
	f.Func().Id("New"+repoName(e)).Params(
		jen.Id("c").Op("*").Qual(h.SubPkgPath("client"), "Client"),
	).Op("*").Id(repoName(e)).Block(
		jen.Return(jen.Op("&").Id(repoName(e)).Values(jen.Dict{jen.Id("client"): jen.Id("c")})),
	)

	f.Comment("TableName returns the resolved table name.")
	f.Func().Add(recv(e)).Id("TableName").Params().String().Block(
		jen.Return(tableName()),
	)

	f.Comment("DynamoDB exposes the underlying API client for operations the")
	f.Comment("generated surface does not cover.")
	f.Func().Add(recv(e)).Id("DynamoDB").Params().Op("*").Qual(dynamodbPkg, "Client").Block(
		jen.Return(api()),
	)

	f.Commentf("MarshalItem converts a %s into its attribute map.", e.Name)
	f.Func().Add(recv(e)).Id("MarshalItem").Params(
		jen.Id("_e").Op("*").Add(entityType(h, e)),
	).Params(avMap(), jen.Error()).Block(
		jen.Return(jen.Qual(attrValuePkg, "MarshalMap").Call(jen.Id("_e"))),
	)

	f.Commentf("UnmarshalItem converts an attribute map back into a %s.", e.Name)
	f.Func().Add(recv(e)).Id("UnmarshalItem").Params(
		jen.Id("item").Add(avMap()),
	).Params(jen.Op("*").Add(entityType(h, e)), jen.Error()).Block(
		jen.Var().Id("_e").Add(entityType(h, e)),
		jen.If(
			jen.Id("err").Op(":=").Qual(attrValuePkg, "UnmarshalMap").Call(jen.Id("item"), jen.Op("&").Id("_e")),
			jen.Id("err").Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Id("err"))),
		jen.Return(jen.Op("&").Id("_e"), jen.Nil()),
	)

	genRepoKeyOf(h, f, e)
}

// genRepoKeyOf generates the unexported helper that extracts the primary key
// from an entity value, failing when a pointer key field is unset.
func genRepoKeyOf(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Func().Add(recv(e)).Id("keyOf").Params(
		jen.Id("_e").Op("*").Add(entityType(h, e)),
	).Params(avMap(), jen.Error()).BlockFunc(func(grp *jen.Group) {
		var args []jen.Code
		for _, a := range keyAttrs(e) {
			if a.Optional() {
				grp.If(jen.Id("_e").Dot(a.Ident).Op("==").Nil()).Block(
					jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
						jen.Lit(errPrefix(e)+": missing key attribute "+a.Name),
					)),
				)
				args = append(args, jen.Op("*").Id("_e").Dot(a.Ident))
			} else {
				args = append(args, jen.Id("_e").Dot(a.Ident))
			}
		}
		grp.Return(jen.Qual(h.SubPkgPath("keys"), e.Name+"Key").Call(args...), jen.Nil())
	})
}

// =============================================================================
// Save family
// =============================================================================

func genRepoSave(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	validate := func(grp *jen.Group) {
		grp.If(
			jen.Id("err").Op(":=").Qual(h.SubPkgPath("validation"), "Validate"+e.Name).Call(jen.Id("_e")),
			jen.Id("err").Op("!=").Nil(),
		).Block(jen.Return(jen.Id("err")))
	}

	f.Commentf("Save validates and writes a %s, replacing any existing item with", e.Name)
	f.Comment("the same key.")
	f.Func().Add(recv(e)).Id("Save").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("_e").Op("*").Add(entityType(h, e)),
	).Error().BlockFunc(func(grp *jen.Group) {
		validate(grp)
		grp.List(jen.Id("item"), jen.Id("err")).Op(":=").Qual(attrValuePkg, "MarshalMap").Call(jen.Id("_e"))
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
		grp.List(jen.Id("_"), jen.Id("err")).Op("=").Add(api()).Dot("PutItem").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "PutItemInput").Values(jen.Dict{
				jen.Id("TableName"): awsTableName(),
				jen.Id("Item"):      jen.Id("item"),
			}),
		)
		grp.Return(jen.Id("err"))
	})

	f.Comment("SaveIf writes the item only when the condition holds on the current")
	f.Comment("stored state.")
	f.Func().Add(recv(e)).Id("SaveIf").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("_e").Op("*").Add(entityType(h, e)),
		jen.Id("cond").Qual(expressionPkg, "ConditionBuilder"),
	).Error().BlockFunc(func(grp *jen.Group) {
		validate(grp)
		grp.List(jen.Id("item"), jen.Id("err")).Op(":=").Qual(attrValuePkg, "MarshalMap").Call(jen.Id("_e"))
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
		grp.List(jen.Id("expr"), jen.Id("err")).Op(":=").Qual(expressionPkg, "NewBuilder").Call().
			Dot("WithCondition").Call(jen.Id("cond")).Dot("Build").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
		grp.List(jen.Id("_"), jen.Id("err")).Op("=").Add(api()).Dot("PutItem").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "PutItemInput").Values(jen.Dict{
				jen.Id("TableName"):                 awsTableName(),
				jen.Id("Item"):                      jen.Id("item"),
				jen.Id("ConditionExpression"):       jen.Id("expr").Dot("Condition").Call(),
				jen.Id("ExpressionAttributeNames"):  jen.Id("expr").Dot("Names").Call(),
				jen.Id("ExpressionAttributeValues"): jen.Id("expr").Dot("Values").Call(),
			}),
		)
		grp.Return(jen.Id("err"))
	})

	f.Comment("PutItem is the raw escape hatch. The table name is filled in when")
	f.Comment("absent.")
	f.Func().Add(recv(e)).Id("PutItem").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "PutItemInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "PutItemOutput"), jen.Error()).Block(
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(api().Dot("PutItem").Call(jen.Id("ctx"), jen.Id("in"))),
	)
}

// =============================================================================
// Update family
// =============================================================================

func genRepoUpdate(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Commentf("Update validates and updates a stored %s in place: present", e.Name)
	f.Comment("attributes are set, unset optional attributes are removed.")
	f.Func().Add(recv(e)).Id("Update").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("_e").Op("*").Add(entityType(h, e)),
	).Error().Block(
		jen.Return(jen.Id("r").Dot("update").Call(jen.Id("ctx"), jen.Id("_e"), jen.Nil(), jen.False())),
	)

	f.Comment("UpdateIf updates the item only when the condition holds.")
	f.Func().Add(recv(e)).Id("UpdateIf").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("_e").Op("*").Add(entityType(h, e)),
		jen.Id("cond").Qual(expressionPkg, "ConditionBuilder"),
	).Error().Block(
		jen.Return(jen.Id("r").Dot("update").Call(jen.Id("ctx"), jen.Id("_e"), jen.Op("&").Id("cond"), jen.False())),
	)

	f.Comment("UpdateIgnoreNulls updates present attributes and leaves unset")
	f.Comment("optional attributes untouched in storage.")
	f.Func().Add(recv(e)).Id("UpdateIgnoreNulls").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("_e").Op("*").Add(entityType(h, e)),
	).Error().Block(
		jen.Return(jen.Id("r").Dot("update").Call(jen.Id("ctx"), jen.Id("_e"), jen.Nil(), jen.True())),
	)

	f.Comment("UpdateIgnoreNullsIf combines UpdateIgnoreNulls with a condition.")
	f.Func().Add(recv(e)).Id("UpdateIgnoreNullsIf").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("_e").Op("*").Add(entityType(h, e)),
		jen.Id("cond").Qual(expressionPkg, "ConditionBuilder"),
	).Error().Block(
		jen.Return(jen.Id("r").Dot("update").Call(jen.Id("ctx"), jen.Id("_e"), jen.Op("&").Id("cond"), jen.True())),
	)

	f.Func().Add(recv(e)).Id("update").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("_e").Op("*").Add(entityType(h, e)),
		jen.Id("cond").Op("*").Qual(expressionPkg, "ConditionBuilder"),
		jen.Id("ignoreNulls").Bool(),
	).Error().BlockFunc(func(grp *jen.Group) {
		grp.If(
			jen.Id("err").Op(":=").Qual(h.SubPkgPath("validation"), "Validate"+e.Name).Call(jen.Id("_e")),
			jen.Id("err").Op("!=").Nil(),
		).Block(jen.Return(jen.Id("err")))
		grp.List(jen.Id("key"), jen.Id("err")).Op(":=").Id("r").Dot("keyOf").Call(jen.Id("_e"))
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))

		grp.Var().Id("update").Qual(expressionPkg, "UpdateBuilder")
		for _, a := range e.Attrs {
			if a.IsPartition || a.IsSort {
				continue
			}
			set := jen.Id("update").Op("=").Id("update").Dot("Set").Call(
				jen.Qual(expressionPkg, "Name").Call(jen.Lit(a.Name)),
				jen.Qual(expressionPkg, "Value").Call(jen.Id("_e").Dot(a.Ident)),
			)
			if a.Optional() {
				grp.If(jen.Id("_e").Dot(a.Ident).Op("!=").Nil()).Block(set).
					Else().If(jen.Op("!").Id("ignoreNulls")).Block(
					jen.Id("update").Op("=").Id("update").Dot("Remove").Call(
						jen.Qual(expressionPkg, "Name").Call(jen.Lit(a.Name)),
					),
				)
			} else {
				grp.Add(set)
			}
		}

		grp.Id("builder").Op(":=").Qual(expressionPkg, "NewBuilder").Call().Dot("WithUpdate").Call(jen.Id("update"))
		grp.If(jen.Id("cond").Op("!=").Nil()).Block(
			jen.Id("builder").Op("=").Id("builder").Dot("WithCondition").Call(jen.Op("*").Id("cond")),
		)
		grp.List(jen.Id("expr"), jen.Id("err")).Op(":=").Id("builder").Dot("Build").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))

		grp.Id("in").Op(":=").Op("&").Qual(dynamodbPkg, "UpdateItemInput").Values(jen.Dict{
			jen.Id("TableName"):                 awsTableName(),
			jen.Id("Key"):                       jen.Id("key"),
			jen.Id("UpdateExpression"):          jen.Id("expr").Dot("Update").Call(),
			jen.Id("ExpressionAttributeNames"):  jen.Id("expr").Dot("Names").Call(),
			jen.Id("ExpressionAttributeValues"): jen.Id("expr").Dot("Values").Call(),
		})
		grp.If(jen.Id("cond").Op("!=").Nil()).Block(
			jen.Id("in").Dot("ConditionExpression").Op("=").Id("expr").Dot("Condition").Call(),
		)
		grp.List(jen.Id("_"), jen.Id("err")).Op("=").Add(api()).Dot("UpdateItem").Call(jen.Id("ctx"), jen.Id("in"))
		grp.Return(jen.Id("err"))
	})

	f.Comment("UpdateItem is the raw escape hatch. The table name is filled in")
	f.Comment("when absent.")
	f.Func().Add(recv(e)).Id("UpdateItem").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "UpdateItemInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "UpdateItemOutput"), jen.Error()).Block(
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(api().Dot("UpdateItem").Call(jen.Id("ctx"), jen.Id("in"))),
	)
}

// =============================================================================
// Lookups
// =============================================================================

func genRepoFind(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	genFind := func(name string, consistent bool, doc []string) {
		for _, line := range doc {
			f.Comment(line)
		}
		f.Func().Add(recv(e)).Id(name).Params(jen.ListFunc(func(params *jen.Group) {
			params.Id("ctx").Qual("context", "Context")
			keyParams(h, e)(params)
		})).Params(jen.Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
			grp.List(jen.Id("out"), jen.Id("err")).Op(":=").Add(api()).Dot("GetItem").Call(
				jen.Id("ctx"),
				jen.Op("&").Qual(dynamodbPkg, "GetItemInput").Values(jen.Dict{
					jen.Id("TableName"):      awsTableName(),
					jen.Id("Key"):            keyCall(h, e),
					jen.Id("ConsistentRead"): jen.Qual(awsPkg, "Bool").Call(jen.Lit(consistent)),
				}),
			)
			grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
			grp.If(jen.Len(jen.Id("out").Dot("Item")).Op("==").Lit(0)).Block(
				jen.Return(jen.Nil(), jen.Nil()),
			)
			grp.Return(jen.Id("r").Dot("UnmarshalItem").Call(jen.Id("out").Dot("Item")))
		})
	}

	genFind("FindByKey", false, []string{
		"FindByKey loads the item with the given primary key. Absence is not",
		"an error: both results are nil when no item exists.",
	})
	genFind("FindByKeyConsistent", true, []string{
		"FindByKeyConsistent is FindByKey with a strongly consistent read.",
	})

	f.Comment("ExistsByKey reports whether an item with the given primary key is")
	f.Comment("stored, fetching only the key attribute.")
	f.Func().Add(recv(e)).Id("ExistsByKey").Params(jen.ListFunc(func(params *jen.Group) {
		params.Id("ctx").Qual("context", "Context")
		keyParams(h, e)(params)
	})).Params(jen.Bool(), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("expr"), jen.Id("err")).Op(":=").Qual(expressionPkg, "NewBuilder").Call().
			Dot("WithProjection").Call(
			jen.Qual(expressionPkg, "NamesList").Call(
				jen.Qual(expressionPkg, "Name").Call(jen.Qual(h.SubPkgPath("keys"), e.Name+"PartitionKey")),
			),
		).Dot("Build").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.False(), jen.Id("err")))
		grp.List(jen.Id("out"), jen.Id("err")).Op(":=").Add(api()).Dot("GetItem").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "GetItemInput").Values(jen.Dict{
				jen.Id("TableName"):                awsTableName(),
				jen.Id("Key"):                      keyCall(h, e),
				jen.Id("ProjectionExpression"):     jen.Id("expr").Dot("Projection").Call(),
				jen.Id("ExpressionAttributeNames"): jen.Id("expr").Dot("Names").Call(),
			}),
		)
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.False(), jen.Id("err")))
		grp.Return(jen.Len(jen.Id("out").Dot("Item")).Op(">").Lit(0), jen.Nil())
	})

	f.Comment("GetItem is the raw escape hatch. The table name is filled in when")
	f.Comment("absent.")
	f.Func().Add(recv(e)).Id("GetItem").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "GetItemInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "GetItemOutput"), jen.Error()).Block(
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(api().Dot("GetItem").Call(jen.Id("ctx"), jen.Id("in"))),
	)
}

// =============================================================================
// Delete family
// =============================================================================

func genRepoDelete(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Comment("DeleteByKey removes the item with the given primary key. Deleting")
	f.Comment("an absent item is not an error.")
	f.Func().Add(recv(e)).Id("DeleteByKey").Params(jen.ListFunc(func(params *jen.Group) {
		params.Id("ctx").Qual("context", "Context")
		keyParams(h, e)(params)
	})).Error().BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("_"), jen.Id("err")).Op(":=").Add(api()).Dot("DeleteItem").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "DeleteItemInput").Values(jen.Dict{
				jen.Id("TableName"): awsTableName(),
				jen.Id("Key"):       keyCall(h, e),
			}),
		)
		grp.Return(jen.Id("err"))
	})

	f.Comment("DeleteByKeyIf removes the item only when the condition holds.")
	f.Func().Add(recv(e)).Id("DeleteByKeyIf").Params(jen.ListFunc(func(params *jen.Group) {
		params.Id("ctx").Qual("context", "Context")
		keyParams(h, e)(params)
		params.Id("cond").Qual(expressionPkg, "ConditionBuilder")
	})).Error().BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("expr"), jen.Id("err")).Op(":=").Qual(expressionPkg, "NewBuilder").Call().
			Dot("WithCondition").Call(jen.Id("cond")).Dot("Build").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
		grp.List(jen.Id("_"), jen.Id("err")).Op("=").Add(api()).Dot("DeleteItem").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "DeleteItemInput").Values(jen.Dict{
				jen.Id("TableName"):                 awsTableName(),
				jen.Id("Key"):                       keyCall(h, e),
				jen.Id("ConditionExpression"):       jen.Id("expr").Dot("Condition").Call(),
				jen.Id("ExpressionAttributeNames"):  jen.Id("expr").Dot("Names").Call(),
				jen.Id("ExpressionAttributeValues"): jen.Id("expr").Dot("Values").Call(),
			}),
		)
		grp.Return(jen.Id("err"))
	})

	f.Comment("DeleteAndReturn removes the item and returns its last stored state,")
	f.Comment("or nil when no item existed.")
	f.Func().Add(recv(e)).Id("DeleteAndReturn").Params(jen.ListFunc(func(params *jen.Group) {
		params.Id("ctx").Qual("context", "Context")
		keyParams(h, e)(params)
	})).Params(jen.Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("out"), jen.Id("err")).Op(":=").Add(api()).Dot("DeleteItem").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "DeleteItemInput").Values(jen.Dict{
				jen.Id("TableName"):    awsTableName(),
				jen.Id("Key"):          keyCall(h, e),
				jen.Id("ReturnValues"): jen.Qual(ddbTypesPkg, "ReturnValueAllOld"),
			}),
		)
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.If(jen.Len(jen.Id("out").Dot("Attributes")).Op("==").Lit(0)).Block(
			jen.Return(jen.Nil(), jen.Nil()),
		)
		grp.Return(jen.Id("r").Dot("UnmarshalItem").Call(jen.Id("out").Dot("Attributes")))
	})

	f.Comment("DeleteAndReturnIf combines DeleteAndReturn with a condition.")
	f.Func().Add(recv(e)).Id("DeleteAndReturnIf").Params(jen.ListFunc(func(params *jen.Group) {
		params.Id("ctx").Qual("context", "Context")
		keyParams(h, e)(params)
		params.Id("cond").Qual(expressionPkg, "ConditionBuilder")
	})).Params(jen.Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("expr"), jen.Id("err")).Op(":=").Qual(expressionPkg, "NewBuilder").Call().
			Dot("WithCondition").Call(jen.Id("cond")).Dot("Build").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.List(jen.Id("out"), jen.Id("err")).Op(":=").Add(api()).Dot("DeleteItem").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "DeleteItemInput").Values(jen.Dict{
				jen.Id("TableName"):                 awsTableName(),
				jen.Id("Key"):                       keyCall(h, e),
				jen.Id("ReturnValues"):              jen.Qual(ddbTypesPkg, "ReturnValueAllOld"),
				jen.Id("ConditionExpression"):       jen.Id("expr").Dot("Condition").Call(),
				jen.Id("ExpressionAttributeNames"):  jen.Id("expr").Dot("Names").Call(),
				jen.Id("ExpressionAttributeValues"): jen.Id("expr").Dot("Values").Call(),
			}),
		)
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.If(jen.Len(jen.Id("out").Dot("Attributes")).Op("==").Lit(0)).Block(
			jen.Return(jen.Nil(), jen.Nil()),
		)
		grp.Return(jen.Id("r").Dot("UnmarshalItem").Call(jen.Id("out").Dot("Attributes")))
	})

	f.Comment("DeleteItem is the raw escape hatch. The table name is filled in")
	f.Comment("when absent.")
	f.Func().Add(recv(e)).Id("DeleteItem").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "DeleteItemInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "DeleteItemOutput"), jen.Error()).Block(
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(api().Dot("DeleteItem").Call(jen.Id("ctx"), jen.Id("in"))),
	)
}

// =============================================================================
// Scan family
// =============================================================================

func genRepoScan(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Commentf("Scan reads the full table and returns every %s item.", e.Name)
	f.Func().Add(recv(e)).Id("Scan").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(jen.Index().Op("*").Add(entityType(h, e)), jen.Error()).Block(
		jen.Return(jen.Id("r").Dot("scan").Call(jen.Id("ctx"), jen.Nil())),
	)

	f.Comment("ScanFiltered reads the full table and returns the items matching")
	f.Comment("the filter. Filtering happens server side after the read.")
	f.Func().Add(recv(e)).Id("ScanFiltered").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("filter").Qual(expressionPkg, "ConditionBuilder"),
	).Params(jen.Index().Op("*").Add(entityType(h, e)), jen.Error()).Block(
		jen.Return(jen.Id("r").Dot("scan").Call(jen.Id("ctx"), jen.Op("&").Id("filter"))),
	)

	f.Func().Add(recv(e)).Id("scan").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("filter").Op("*").Qual(expressionPkg, "ConditionBuilder"),
	).Params(jen.Index().Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.Id("in").Op(":=").Op("&").Qual(dynamodbPkg, "ScanInput").Values(jen.Dict{
			jen.Id("TableName"): awsTableName(),
		})
		grp.If(jen.Id("filter").Op("!=").Nil()).BlockFunc(func(inner *jen.Group) {
			inner.List(jen.Id("expr"), jen.Id("err")).Op(":=").Qual(expressionPkg, "NewBuilder").Call().
				Dot("WithFilter").Call(jen.Op("*").Id("filter")).Dot("Build").Call()
			inner.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
			inner.Id("in").Dot("FilterExpression").Op("=").Id("expr").Dot("Filter").Call()
			inner.Id("in").Dot("ExpressionAttributeNames").Op("=").Id("expr").Dot("Names").Call()
			inner.Id("in").Dot("ExpressionAttributeValues").Op("=").Id("expr").Dot("Values").Call()
		})
		grp.Id("paginator").Op(":=").Qual(dynamodbPkg, "NewScanPaginator").Call(api(), jen.Id("in"))
		grp.Var().Id("items").Index().Op("*").Add(entityType(h, e))
		grp.For(jen.Id("paginator").Dot("HasMorePages").Call()).BlockFunc(func(inner *jen.Group) {
			inner.List(jen.Id("page"), jen.Id("err")).Op(":=").Id("paginator").Dot("NextPage").Call(jen.Id("ctx"))
			inner.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
			inner.Var().Id("batch").Index().Op("*").Add(entityType(h, e))
			inner.If(
				jen.Id("err").Op(":=").Qual(attrValuePkg, "UnmarshalListOfMaps").Call(
					jen.Id("page").Dot("Items"), jen.Op("&").Id("batch"),
				),
				jen.Id("err").Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Id("err")))
			inner.Id("items").Op("=").Append(jen.Id("items"), jen.Id("batch").Op("..."))
		})
		grp.Return(jen.Id("items"), jen.Nil())
	})

	f.Comment("ScanItems is the raw escape hatch. The table name is filled in")
	f.Comment("when absent.")
	f.Func().Add(recv(e)).Id("ScanItems").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "ScanInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "ScanOutput"), jen.Error()).Block(
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(api().Dot("Scan").Call(jen.Id("ctx"), jen.Id("in"))),
	)

	f.Comment("ScanPaginator returns a page-by-page scanner for callers that")
	f.Comment("manage pagination themselves.")
	f.Func().Add(recv(e)).Id("ScanPaginator").Params(
		jen.Id("in").Op("*").Qual(dynamodbPkg, "ScanInput"),
	).Op("*").Qual(dynamodbPkg, "ScanPaginator").Block(
		jen.If(jen.Id("in").Op("==").Nil()).Block(
			jen.Id("in").Op("=").Op("&").Qual(dynamodbPkg, "ScanInput").Values(),
		),
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(jen.Qual(dynamodbPkg, "NewScanPaginator").Call(api(), jen.Id("in"))),
	)
}
