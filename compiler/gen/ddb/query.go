package ddb

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// genRepoQueries generates the key-condition query families: one constructor
// per queryable index (the primary index when a sort key exists, plus every
// resolved secondary index), sort-key refinement methods typed from the
// index's own attributes, and the terminal operations.
func genRepoQueries(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	genRawQuery(h, f, e)

	if e.SortKey == nil && len(e.Indexes) == 0 {
		return
	}
	queryType := e.Name + "Query"

	f.Commentf("%s accumulates a key-condition query against one index of the", queryType)
	f.Commentf("%s table.", e.Name)
	f.Type().Id(queryType).Struct(
		jen.Id("r").Op("*").Id(repoName(e)),
		jen.Id("index").Op("*").String(),
		jen.Id("keyCond").Qual(expressionPkg, "KeyConditionBuilder"),
		jen.Id("filter").Op("*").Qual(expressionPkg, "ConditionBuilder"),
		jen.Id("limit").Op("*").Int32(),
		jen.Id("scanForward").Op("*").Bool(),
	)

	used := map[string]bool{}
	if e.SortKey != nil {
		name := "QueryBy" + e.PartitionKey.Ident
		used[name] = true
		genQueryConstructor(h, f, e, name, e.PartitionKey, nil)
	}
	for _, idx := range e.Indexes {
		name := "Query" + gen.ResolveCodeName(idx.Name, "")
		for used[name] {
			name += "Index"
		}
		used[name] = true
		genQueryConstructor(h, f, e, name, idx.Partition, idx)
	}

	genSortRefinements(h, f, e, queryType)
	genQueryModifiers(f, e, queryType)
	genQueryTerminals(h, f, e, queryType)
}

// genQueryConstructor generates one query constructor. idx is nil for the
// primary index.
func genQueryConstructor(h gen.GeneratorHelper, f *jen.File, e *gen.Entity, name string, partition *gen.Attr, idx *gen.IndexRef) {
	queryType := e.Name + "Query"
	if idx == nil {
		f.Commentf("%s starts a query over the primary index for one partition.", name)
	} else {
		f.Commentf("%s starts a query over the %s index for one partition.", name, idx.Name)
	}
	f.Func().Add(recv(e)).Id(name).Params(
		jen.Id(paramName(partition.Ident)).Add(h.BaseType(partition)),
	).Op("*").Id(queryType).BlockFunc(func(grp *jen.Group) {
		grp.Id("q").Op(":=").Op("&").Id(queryType).Values(jen.DictFunc(func(d jen.Dict) {
			d[jen.Id("r")] = jen.Id("r")
			d[jen.Id("keyCond")] = jen.Qual(expressionPkg, "Key").Call(jen.Lit(partition.Name)).
				Dot("Equal").Call(jen.Qual(expressionPkg, "Value").Call(
				exprValue(partition, jen.Id(paramName(partition.Ident))),
			))
			if idx != nil {
				d[jen.Id("index")] = jen.Qual(awsPkg, "String").Call(
					jen.Qual(h.SubPkgPath("keys"), IndexConstName(e, idx)),
				)
			}
		}))
		grp.Return(jen.Id("q"))
	})
}

// genSortRefinements generates the sort-key refinement methods, one family
// per distinct sort attribute across the primary index and every secondary
// index. BeginsWith is generated only for text sort keys.
func genSortRefinements(h gen.GeneratorHelper, f *jen.File, e *gen.Entity, queryType string) {
	seen := map[string]bool{}
	var sorts []*gen.Attr
	if e.SortKey != nil {
		sorts = append(sorts, e.SortKey)
		seen[e.SortKey.Name] = true
	}
	for _, idx := range e.Indexes {
		if idx.Sort != nil && !seen[idx.Sort.Name] {
			seen[idx.Sort.Name] = true
			sorts = append(sorts, idx.Sort)
		}
	}

	qrecv := jen.Params(jen.Id("q").Op("*").Id(queryType))
	and := func(cond *jen.Statement) []jen.Code {
		return []jen.Code{
			jen.Id("q").Dot("keyCond").Op("=").Id("q").Dot("keyCond").Dot("And").Call(cond),
			jen.Return(jen.Id("q")),
		}
	}

	for _, a := range sorts {
		single := func(method, op string) {
			f.Commentf("%s%s narrows the query to items whose %s is %s the value.", a.Ident, method, a.Name, op)
			f.Func().Add(qrecv.Clone()).Id(a.Ident+method).Params(
				jen.Id("v").Add(h.BaseType(a)),
			).Op("*").Id(queryType).Block(and(
				jen.Qual(expressionPkg, "Key").Call(jen.Lit(a.Name)).Dot(methodName(method)).Call(
					jen.Qual(expressionPkg, "Value").Call(exprValue(a, jen.Id("v"))),
				),
			)...)
		}
		single("Equal", "exactly")
		single("GT", "greater than")
		single("GE", "at least")
		single("LT", "less than")
		single("LE", "at most")

		f.Commentf("%sBetween narrows the query to items whose %s lies in the", a.Ident, a.Name)
		f.Comment("inclusive range.")
		f.Func().Add(qrecv.Clone()).Id(a.Ident+"Between").Params(
			jen.Id("lo").Add(h.BaseType(a)),
			jen.Id("hi").Add(h.BaseType(a)),
		).Op("*").Id(queryType).Block(and(
			jen.Qual(expressionPkg, "Key").Call(jen.Lit(a.Name)).Dot("Between").Call(
				jen.Qual(expressionPkg, "Value").Call(exprValue(a, jen.Id("lo"))),
				jen.Qual(expressionPkg, "Value").Call(exprValue(a, jen.Id("hi"))),
			),
		)...)

		if a.Type.Kind == gen.KindString {
			f.Commentf("%sBeginsWith narrows the query to items whose %s starts with", a.Ident, a.Name)
			f.Comment("the prefix.")
			f.Func().Add(qrecv.Clone()).Id(a.Ident+"BeginsWith").Params(
				jen.Id("prefix").String(),
			).Op("*").Id(queryType).Block(and(
				jen.Qual(expressionPkg, "Key").Call(jen.Lit(a.Name)).Dot("BeginsWith").Call(jen.Id("prefix")),
			)...)
		}
	}
}

// methodName maps the generated refinement suffix to the expression-builder
// method.
func methodName(suffix string) string {
	switch suffix {
	case "Equal":
		return "Equal"
	case "GT":
		return "GreaterThan"
	case "GE":
		return "GreaterThanEqual"
	case "LT":
		return "LessThan"
	case "LE":
		return "LessThanEqual"
	}
	return suffix
}

func genQueryModifiers(f *jen.File, e *gen.Entity, queryType string) {
	qrecv := func() *jen.Statement { return jen.Params(jen.Id("q").Op("*").Id(queryType)) }

	f.Comment("Filtered applies a server-side filter to the query results.")
	f.Func().Add(qrecv()).Id("Filtered").Params(
		jen.Id("cond").Qual(expressionPkg, "ConditionBuilder"),
	).Op("*").Id(queryType).Block(
		jen.Id("q").Dot("filter").Op("=").Op("&").Id("cond"),
		jen.Return(jen.Id("q")),
	)

	f.Comment("Limit caps the number of evaluated items.")
	f.Func().Add(qrecv()).Id("Limit").Params(jen.Id("n").Int32()).Op("*").Id(queryType).Block(
		jen.Id("q").Dot("limit").Op("=").Op("&").Id("n"),
		jen.Return(jen.Id("q")),
	)

	f.Comment("Descending reverses the sort-key order of the results.")
	f.Func().Add(qrecv()).Id("Descending").Params().Op("*").Id(queryType).Block(
		jen.Id("q").Dot("scanForward").Op("=").Qual(awsPkg, "Bool").Call(jen.False()),
		jen.Return(jen.Id("q")),
	)
}

func genQueryTerminals(h gen.GeneratorHelper, f *jen.File, e *gen.Entity, queryType string) {
	qrecv := func() *jen.Statement { return jen.Params(jen.Id("q").Op("*").Id(queryType)) }

	f.Func().Add(qrecv()).Id("input").Params().Params(
		jen.Op("*").Qual(dynamodbPkg, "QueryInput"), jen.Error(),
	).BlockFunc(func(grp *jen.Group) {
		grp.Id("builder").Op(":=").Qual(expressionPkg, "NewBuilder").Call().
			Dot("WithKeyCondition").Call(jen.Id("q").Dot("keyCond"))
		grp.If(jen.Id("q").Dot("filter").Op("!=").Nil()).Block(
			jen.Id("builder").Op("=").Id("builder").Dot("WithFilter").Call(jen.Op("*").Id("q").Dot("filter")),
		)
		grp.List(jen.Id("expr"), jen.Id("err")).Op(":=").Id("builder").Dot("Build").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.Return(jen.Op("&").Qual(dynamodbPkg, "QueryInput").Values(jen.Dict{
			jen.Id("TableName"):                 jen.Qual(awsPkg, "String").Call(jen.Id("q").Dot("r").Dot("client").Dot("TableName").Call()),
			jen.Id("IndexName"):                 jen.Id("q").Dot("index"),
			jen.Id("KeyConditionExpression"):    jen.Id("expr").Dot("KeyCondition").Call(),
			jen.Id("FilterExpression"):          jen.Id("expr").Dot("Filter").Call(),
			jen.Id("ExpressionAttributeNames"):  jen.Id("expr").Dot("Names").Call(),
			jen.Id("ExpressionAttributeValues"): jen.Id("expr").Dot("Values").Call(),
			jen.Id("Limit"):                     jen.Id("q").Dot("limit"),
			jen.Id("ScanIndexForward"):          jen.Id("q").Dot("scanForward"),
		}), jen.Nil())
	})

	f.Comment("All runs the query to exhaustion and returns every matching item.")
	f.Func().Add(qrecv()).Id("All").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(jen.Index().Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("in"), jen.Id("err")).Op(":=").Id("q").Dot("input").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.Id("paginator").Op(":=").Qual(dynamodbPkg, "NewQueryPaginator").Call(
			jen.Id("q").Dot("r").Dot("client").Dot("DynamoDB").Call(), jen.Id("in"),
		)
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

	f.Comment("First returns the first matching item, or nil when nothing matches.")
	f.Func().Add(qrecv()).Id("First").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(jen.Op("*").Add(entityType(h, e)), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("in"), jen.Id("err")).Op(":=").Id("q").Dot("input").Call()
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.Id("in").Dot("Limit").Op("=").Qual(awsPkg, "Int32").Call(jen.Lit(1))
		grp.List(jen.Id("out"), jen.Id("err")).Op(":=").Id("q").Dot("r").Dot("client").Dot("DynamoDB").Call().
			Dot("Query").Call(jen.Id("ctx"), jen.Id("in"))
		grp.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		grp.If(jen.Len(jen.Id("out").Dot("Items")).Op("==").Lit(0)).Block(
			jen.Return(jen.Nil(), jen.Nil()),
		)
		grp.Return(jen.Id("q").Dot("r").Dot("UnmarshalItem").Call(jen.Id("out").Dot("Items").Index(jen.Lit(0))))
	})

	f.Comment("Paginator returns a page-by-page runner for the query.")
	f.Func().Add(qrecv()).Id("Paginator").Params().Params(
		jen.Op("*").Qual(dynamodbPkg, "QueryPaginator"), jen.Error(),
	).Block(
		jen.List(jen.Id("in"), jen.Id("err")).Op(":=").Id("q").Dot("input").Call(),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err"))),
		jen.Return(jen.Qual(dynamodbPkg, "NewQueryPaginator").Call(
			jen.Id("q").Dot("r").Dot("client").Dot("DynamoDB").Call(), jen.Id("in"),
		), jen.Nil()),
	)
}

// genRawQuery generates the raw query escape hatches on the repository.
func genRawQuery(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Comment("Query is the raw escape hatch. The table name is filled in when")
	f.Comment("absent.")
	f.Func().Add(recv(e)).Id("Query").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Qual(dynamodbPkg, "QueryInput"),
	).Params(jen.Op("*").Qual(dynamodbPkg, "QueryOutput"), jen.Error()).Block(
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(api().Dot("Query").Call(jen.Id("ctx"), jen.Id("in"))),
	)

	f.Comment("QueryPaginator returns a page-by-page runner for a raw query input.")
	f.Func().Add(recv(e)).Id("QueryPaginator").Params(
		jen.Id("in").Op("*").Qual(dynamodbPkg, "QueryInput"),
	).Op("*").Qual(dynamodbPkg, "QueryPaginator").Block(
		jen.If(jen.Id("in").Dot("TableName").Op("==").Nil()).Block(
			jen.Id("in").Dot("TableName").Op("=").Add(awsTableName()),
		),
		jen.Return(jen.Qual(dynamodbPkg, "NewQueryPaginator").Call(api(), jen.Id("in"))),
	)
}

// exprValue renders a key value for the expression builder. Timestamps
// without the epoch subtype render to canonical text so lexical order
// matches chronological order; everything else marshals through its own
// representation.
func exprValue(a *gen.Attr, v *jen.Statement) jen.Code {
	if a.Type.Kind == gen.KindInstant {
		return v.Dot("UTC").Call().Dot("Format").Call(jen.Qual("time", "RFC3339Nano"))
	}
	return v
}
