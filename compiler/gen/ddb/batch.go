package ddb

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// Service limits for batch requests.
const (
	batchGetLimit   = 100
	batchWriteLimit = 25
	batchAttempts   = 3
)

// genRepoBatch generates BatchGet, BatchSave, BatchDelete, and the shared
// chunked write loop. Every item is validated before the first request goes
// out; unprocessed leftovers are retried a bounded number of times and then
// reported as an error naming the count.
func genRepoBatch(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	genBatchGet(h, f, e)
	genBatchSave(h, f, e)
	genBatchDelete(h, f, e)
	genBatchWrite(h, f, e)
}

func genBatchGet(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Comment("BatchGet loads the items with the given primary keys, chunking")
	f.Comment("requests at the service limit. Absent items are simply missing from")
	f.Comment("the result.")
	f.Func().Add(recv(e)).Id("BatchGet").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("itemKeys").Index().Add(avMap()),
	).Params(jen.Index().Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.Var().Id("items").Index().Op("*").Add(entityType(h, e))
		grp.For(
			jen.Id("start").Op(":=").Lit(0),
			jen.Id("start").Op("<").Len(jen.Id("itemKeys")),
			jen.Id("start").Op("+=").Lit(batchGetLimit),
		).BlockFunc(func(loop *jen.Group) {
			loop.Id("end").Op(":=").Id("start").Op("+").Lit(batchGetLimit)
			loop.If(jen.Id("end").Op(">").Len(jen.Id("itemKeys"))).Block(
				jen.Id("end").Op("=").Len(jen.Id("itemKeys")),
			)
			loop.Id("pending").Op(":=").Map(jen.String()).Qual(ddbTypesPkg, "KeysAndAttributes").Values(jen.Dict{
				tableName(): jen.Values(jen.Dict{
					jen.Id("Keys"): jen.Id("itemKeys").Index(jen.Id("start"), jen.Id("end")),
				}),
			})
			loop.For(
				jen.Id("attempt").Op(":=").Lit(0),
				jen.Len(jen.Id("pending")).Op(">").Lit(0),
				jen.Id("attempt").Op("++"),
			).BlockFunc(func(retry *jen.Group) {
				retry.If(jen.Id("attempt").Op("==").Lit(batchAttempts)).Block(
					jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
						jen.Lit(errPrefix(e)+": %d unprocessed keys after %d attempts"),
						jen.Len(jen.Id("pending").Index(tableName()).Dot("Keys")),
						jen.Lit(batchAttempts),
					)),
				)
				retry.List(jen.Id("out"), jen.Id("err")).Op(":=").Add(api()).Dot("BatchGetItem").Call(
					jen.Id("ctx"),
					jen.Op("&").Qual(dynamodbPkg, "BatchGetItemInput").Values(jen.Dict{
						jen.Id("RequestItems"): jen.Id("pending"),
					}),
				)
				retry.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
				retry.Var().Id("batch").Index().Op("*").Add(entityType(h, e))
				retry.If(
					jen.Id("err").Op(":=").Qual(attrValuePkg, "UnmarshalListOfMaps").Call(
						jen.Id("out").Dot("Responses").Index(tableName()),
						jen.Op("&").Id("batch"),
					),
					jen.Id("err").Op("!=").Nil(),
				).Block(jen.Return(jen.Nil(), jen.Id("err")))
				retry.Id("items").Op("=").Append(jen.Id("items"), jen.Id("batch").Op("..."))
				retry.Id("pending").Op("=").Id("out").Dot("UnprocessedKeys")
			})
		})
		grp.Return(jen.Id("items"), jen.Nil())
	})
}

func genBatchSave(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Comment("BatchSave validates every item first and then writes them in chunks")
	f.Comment("at the service limit. A validation failure aborts before anything is")
	f.Comment("written.")
	f.Func().Add(recv(e)).Id("BatchSave").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("items").Index().Op("*").Add(entityType(h, e)),
	).Error().BlockFunc(func(grp *jen.Group) {
		grp.For(jen.List(jen.Id("_"), jen.Id("_e")).Op(":=").Range().Id("items")).Block(
			jen.If(
				jen.Id("err").Op(":=").Qual(h.SubPkgPath("validation"), "Validate"+e.Name).Call(jen.Id("_e")),
				jen.Id("err").Op("!=").Nil(),
			).Block(jen.Return(jen.Id("err"))),
		)
		grp.Id("writes").Op(":=").Make(
			jen.Index().Qual(ddbTypesPkg, "WriteRequest"), jen.Lit(0), jen.Len(jen.Id("items")),
		)
		grp.For(jen.List(jen.Id("_"), jen.Id("_e")).Op(":=").Range().Id("items")).BlockFunc(func(loop *jen.Group) {
			loop.List(jen.Id("item"), jen.Id("err")).Op(":=").Qual(attrValuePkg, "MarshalMap").Call(jen.Id("_e"))
			loop.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
			loop.Id("writes").Op("=").Append(jen.Id("writes"), jen.Qual(ddbTypesPkg, "WriteRequest").Values(jen.Dict{
				jen.Id("PutRequest"): jen.Op("&").Qual(ddbTypesPkg, "PutRequest").Values(jen.Dict{
					jen.Id("Item"): jen.Id("item"),
				}),
			}))
		})
		grp.Return(jen.Id("r").Dot("batchWrite").Call(jen.Id("ctx"), jen.Id("writes")))
	})
}

func genBatchDelete(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Comment("BatchDelete removes the items with the given primary keys in chunks")
	f.Comment("at the service limit.")
	f.Func().Add(recv(e)).Id("BatchDelete").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("itemKeys").Index().Add(avMap()),
	).Error().BlockFunc(func(grp *jen.Group) {
		grp.Id("writes").Op(":=").Make(
			jen.Index().Qual(ddbTypesPkg, "WriteRequest"), jen.Lit(0), jen.Len(jen.Id("itemKeys")),
		)
		grp.For(jen.List(jen.Id("_"), jen.Id("k")).Op(":=").Range().Id("itemKeys")).Block(
			jen.Id("writes").Op("=").Append(jen.Id("writes"), jen.Qual(ddbTypesPkg, "WriteRequest").Values(jen.Dict{
				jen.Id("DeleteRequest"): jen.Op("&").Qual(ddbTypesPkg, "DeleteRequest").Values(jen.Dict{
					jen.Id("Key"): jen.Id("k"),
				}),
			})),
		)
		grp.Return(jen.Id("r").Dot("batchWrite").Call(jen.Id("ctx"), jen.Id("writes")))
	})
}

func genBatchWrite(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Func().Add(recv(e)).Id("batchWrite").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("writes").Index().Qual(ddbTypesPkg, "WriteRequest"),
	).Error().BlockFunc(func(grp *jen.Group) {
		grp.For(
			jen.Id("start").Op(":=").Lit(0),
			jen.Id("start").Op("<").Len(jen.Id("writes")),
			jen.Id("start").Op("+=").Lit(batchWriteLimit),
		).BlockFunc(func(loop *jen.Group) {
			loop.Id("end").Op(":=").Id("start").Op("+").Lit(batchWriteLimit)
			loop.If(jen.Id("end").Op(">").Len(jen.Id("writes"))).Block(
				jen.Id("end").Op("=").Len(jen.Id("writes")),
			)
			loop.Id("pending").Op(":=").Map(jen.String()).Index().Qual(ddbTypesPkg, "WriteRequest").Values(jen.Dict{
				tableName(): jen.Id("writes").Index(jen.Id("start"), jen.Id("end")),
			})
			loop.For(
				jen.Id("attempt").Op(":=").Lit(0),
				jen.Len(jen.Id("pending")).Op(">").Lit(0),
				jen.Id("attempt").Op("++"),
			).BlockFunc(func(retry *jen.Group) {
				retry.If(jen.Id("attempt").Op("==").Lit(batchAttempts)).Block(
					jen.Return(jen.Qual("fmt", "Errorf").Call(
						jen.Lit(errPrefix(e)+": %d unprocessed writes after %d attempts"),
						jen.Len(jen.Id("pending").Index(tableName())),
						jen.Lit(batchAttempts),
					)),
				)
				retry.List(jen.Id("out"), jen.Id("err")).Op(":=").Add(api()).Dot("BatchWriteItem").Call(
					jen.Id("ctx"),
					jen.Op("&").Qual(dynamodbPkg, "BatchWriteItemInput").Values(jen.Dict{
						jen.Id("RequestItems"): jen.Id("pending"),
					}),
				)
				retry.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
				retry.Id("pending").Op("=").Id("out").Dot("UnprocessedItems")
			})
		})
		grp.Return(jen.Nil())
	})
}

// genRepoTransact generates the transactional operations: typed TransactGet,
// TransactSave, TransactDelete, and the raw passthroughs.
func genRepoTransact(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Comment("TransactGet loads several items in one atomic read. Absent items are")
	f.Comment("omitted from the result.")
	f.Func().Add(recv(e)).Id("TransactGet").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("itemKeys").Index().Add(avMap()),
	).Params(jen.Index().Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.Id("actions").Op(":=").Make(
			jen.Index().Qual(ddbTypesPkg, "TransactGetItem"), jen.Lit(0), jen.Len(jen.Id("itemKeys")),
		)
		grp.For(jen.List(jen.Id("_"), jen.Id("k")).Op(":=").Range().Id("itemKeys")).Block(
			jen.Id("actions").Op("=").Append(jen.Id("actions"), jen.Qual(ddbTypesPkg, "TransactGetItem").Values(jen.Dict{
				jen.Id("Get"): jen.Op("&").Qual(ddbTypesPkg, "Get").Values(jen.Dict{
					jen.Id("TableName"): awsTableName(),
					jen.Id("Key"):       jen.Id("k"),
				}),
			})),
		)
		grp.List(jen.Id("out"), jen.Id("err")).Op(":=").Add(api()).Dot("TransactGetItems").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "TransactGetItemsInput").Values(jen.Dict{
				jen.Id("TransactItems"): jen.Id("actions"),
			}),
		)
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.Id("items").Op(":=").Make(
			jen.Index().Op("*").Add(entityType(h, e)), jen.Lit(0), jen.Len(jen.Id("out").Dot("Responses")),
		)
		grp.For(jen.List(jen.Id("_"), jen.Id("resp")).Op(":=").Range().Id("out").Dot("Responses")).BlockFunc(func(loop *jen.Group) {
			loop.If(jen.Len(jen.Id("resp").Dot("Item")).Op("==").Lit(0)).Block(jen.Continue())
			loop.List(jen.Id("_e"), jen.Id("err")).Op(":=").Id("r").Dot("UnmarshalItem").Call(jen.Id("resp").Dot("Item"))
			loop.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
			loop.Id("items").Op("=").Append(jen.Id("items"), jen.Id("_e"))
		})
		grp.Return(jen.Id("items"), jen.Nil())
	})

	f.Comment("TransactSave validates every item and writes them in one atomic")
	f.Comment("transaction.")
	f.Func().Add(recv(e)).Id("TransactSave").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("items").Index().Op("*").Add(entityType(h, e)),
	).Error().BlockFunc(func(grp *jen.Group) {
		grp.For(jen.List(jen.Id("_"), jen.Id("_e")).Op(":=").Range().Id("items")).Block(
			jen.If(
				jen.Id("err").Op(":=").Qual(h.SubPkgPath("validation"), "Validate"+e.Name).Call(jen.Id("_e")),
				jen.Id("err").Op("!=").Nil(),
			).Block(jen.Return(jen.Id("err"))),
		)
		grp.Id("actions").Op(":=").Make(
			jen.Index().Qual(ddbTypesPkg, "TransactWriteItem"), jen.Lit(0), jen.Len(jen.Id("items")),
		)
		grp.For(jen.List(jen.Id("_"), jen.Id("_e")).Op(":=").Range().Id("items")).BlockFunc(func(loop *jen.Group) {
			loop.List(jen.Id("item"), jen.Id("err")).Op(":=").Qual(attrValuePkg, "MarshalMap").Call(jen.Id("_e"))
			loop.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
			loop.Id("actions").Op("=").Append(jen.Id("actions"), jen.Qual(ddbTypesPkg, "TransactWriteItem").Values(jen.Dict{
				jen.Id("Put"): jen.Op("&").Qual(ddbTypesPkg, "Put").Values(jen.Dict{
					jen.Id("TableName"): awsTableName(),
					jen.Id("Item"):      jen.Id("item"),
				}),
			}))
		})
		grp.List(jen.Id("_"), jen.Id("err")).Op(":=").Add(api()).Dot("TransactWriteItems").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "TransactWriteItemsInput").Values(jen.Dict{
				jen.Id("TransactItems"): jen.Id("actions"),
			}),
		)
		grp.Return(jen.Id("err"))
	})

	f.Comment("TransactDelete removes the items with the given primary keys in one")
	f.Comment("atomic transaction.")
	f.Func().Add(recv(e)).Id("TransactDelete").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("itemKeys").Index().Add(avMap()),
	).Error().BlockFunc(func(grp *jen.Group) {
		grp.Id("actions").Op(":=").Make(
			jen.Index().Qual(ddbTypesPkg, "TransactWriteItem"), jen.Lit(0), jen.Len(jen.Id("itemKeys")),
		)
		grp.For(jen.List(jen.Id("_"), jen.Id("k")).Op(":=").Range().Id("itemKeys")).Block(
			jen.Id("actions").Op("=").Append(jen.Id("actions"), jen.Qual(ddbTypesPkg, "TransactWriteItem").Values(jen.Dict{
				jen.Id("Delete"): jen.Op("&").Qual(ddbTypesPkg, "Delete").Values(jen.Dict{
					jen.Id("TableName"): awsTableName(),
					jen.Id("Key"):       jen.Id("k"),
				}),
			})),
		)
		grp.List(jen.Id("_"), jen.Id("err")).Op(":=").Add(api()).Dot("TransactWriteItems").Call(
			jen.Id("ctx"),
			jen.Op("&").Qual(dynamodbPkg, "TransactWriteItemsInput").Values(jen.Dict{
				jen.Id("TransactItems"): jen.Id("actions"),
			}),
		)
		grp.Return(jen.Id("err"))
	})

	f.Comment("TransactWriteItems is the raw escape hatch for mixed transactional")
	f.Comment("writes.")
	f.Func().Add(recv(e)).Id("TransactWriteItems").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "TransactWriteItemsInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "TransactWriteItemsOutput"), jen.Error()).Block(
		jen.Return(api().Dot("TransactWriteItems").Call(jen.Id("ctx"), jen.Id("in"))),
	)

	f.Comment("TransactGetItems is the raw escape hatch for mixed transactional")
	f.Comment("reads.")
	f.Func().Add(recv(e)).Id("TransactGetItems").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "TransactGetItemsInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "TransactGetItemsOutput"), jen.Error()).Block(
		jen.Return(api().Dot("TransactGetItems").Call(jen.Id("ctx"), jen.Id("in"))),
	)
}
