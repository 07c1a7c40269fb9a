package ddb

import (
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// envPrefix derives the environment-variable prefix from the table name:
// uppercased, with every non-alphanumeric run collapsed to an underscore.
func envPrefix(tableName string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range tableName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// genClient generates the low-level client wrapper (client/client.go). The
// table identity and AWS session are resolved once at construction, explicit
// options first, then the environment, then the table metadata baked in at
// generation time.
func genClient(h gen.GeneratorHelper) *jen.File {
	f := newFile(h, h.SubPkgPath("client"))
	table := h.Graph().Table
	prefix := envPrefix(table.TableName)

	f.Comment("Environment variables consulted when no explicit option is given.")
	f.Const().Defs(
		jen.Id("EnvTableName").Op("=").Lit(prefix+"_TABLE_NAME"),
		jen.Id("EnvTableArn").Op("=").Lit(prefix+"_TABLE_ARN"),
		jen.Id("EnvRegion").Op("=").Lit("AWS_REGION"),
		jen.Id("EnvRegionFallback").Op("=").Lit("AWS_DEFAULT_REGION"),
		jen.Id("EnvEndpointURL").Op("=").Lit("DYNAMODB_ENDPOINT_URL"),
	)

	f.Comment("Client wraps the DynamoDB API client with the table identity")
	f.Comment("resolved at construction.")
	f.Type().Id("Client").Struct(
		jen.Id("api").Op("*").Qual(dynamodbPkg, "Client"),
		jen.Id("tableName").String(),
	)

	f.Comment("Option configures client construction.")
	f.Type().Id("Option").Func().Params(jen.Op("*").Id("options"))

	f.Type().Id("options").Struct(
		jen.Id("tableName").String(),
		jen.Id("region").String(),
		jen.Id("endpointURL").String(),
		jen.Id("api").Op("*").Qual(dynamodbPkg, "Client"),
	)

	f.Comment("WithTableName overrides the table name.")
	f.Func().Id("WithTableName").Params(jen.Id("name").String()).Id("Option").Block(
		jen.Return(jen.Func().Params(jen.Id("o").Op("*").Id("options")).Block(
			jen.Id("o").Dot("tableName").Op("=").Id("name"),
		)),
	)

	f.Comment("WithRegion overrides the AWS region.")
	f.Func().Id("WithRegion").Params(jen.Id("region").String()).Id("Option").Block(
		jen.Return(jen.Func().Params(jen.Id("o").Op("*").Id("options")).Block(
			jen.Id("o").Dot("region").Op("=").Id("region"),
		)),
	)

	f.Comment("WithEndpointURL points the client at a custom endpoint, usually a")
	f.Comment("local emulator.")
	f.Func().Id("WithEndpointURL").Params(jen.Id("url").String()).Id("Option").Block(
		jen.Return(jen.Func().Params(jen.Id("o").Op("*").Id("options")).Block(
			jen.Id("o").Dot("endpointURL").Op("=").Id("url"),
		)),
	)

	f.Comment("WithAPI injects a preconfigured API client, bypassing session")
	f.Comment("loading entirely.")
	f.Func().Id("WithAPI").Params(jen.Id("api").Op("*").Qual(dynamodbPkg, "Client")).Id("Option").Block(
		jen.Return(jen.Func().Params(jen.Id("o").Op("*").Id("options")).Block(
			jen.Id("o").Dot("api").Op("=").Id("api"),
		)),
	)

	f.Comment("New builds a Client. Explicit options win over the environment; the")
	f.Comment("table name falls back to the name segment of the table ARN and then")
	f.Comment("to the name recorded at generation time.")
	f.Func().Id("New").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("opts").Op("...").Id("Option"),
	).Params(jen.Op("*").Id("Client"), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.Id("o").Op(":=").Op("&").Id("options").Values()
		grp.For(jen.List(jen.Id("_"), jen.Id("opt")).Op(":=").Range().Id("opts")).Block(
			jen.Id("opt").Call(jen.Id("o")),
		)
		grp.If(jen.Id("o").Dot("tableName").Op("==").Lit("")).Block(
			jen.Id("o").Dot("tableName").Op("=").Qual("os", "Getenv").Call(jen.Id("EnvTableName")),
		)
		grp.If(jen.Id("o").Dot("tableName").Op("==").Lit("")).BlockFunc(func(inner *jen.Group) {
			inner.If(
				jen.Id("arn").Op(":=").Qual("os", "Getenv").Call(jen.Id("EnvTableArn")),
				jen.Id("arn").Op("!=").Lit(""),
			).Block(
				jen.Id("parts").Op(":=").Qual("strings", "Split").Call(jen.Id("arn"), jen.Lit("/")),
				jen.Id("o").Dot("tableName").Op("=").Id("parts").Index(jen.Len(jen.Id("parts")).Op("-").Lit(1)),
			)
		})
		grp.If(jen.Id("o").Dot("tableName").Op("==").Lit("")).Block(
			jen.Id("o").Dot("tableName").Op("=").Lit(table.TableName),
		)
		grp.If(jen.Id("o").Dot("tableName").Op("==").Lit("")).Block(
			jen.Return(jen.Nil(), jen.Qual("errors", "New").Call(jen.Lit("client: table name not configured"))),
		)
		grp.If(jen.Id("o").Dot("api").Op("==").Nil()).BlockFunc(func(inner *jen.Group) {
			inner.Id("region").Op(":=").Id("o").Dot("region")
			inner.If(jen.Id("region").Op("==").Lit("")).Block(
				jen.Id("region").Op("=").Qual("os", "Getenv").Call(jen.Id("EnvRegion")),
			)
			inner.If(jen.Id("region").Op("==").Lit("")).Block(
				jen.Id("region").Op("=").Qual("os", "Getenv").Call(jen.Id("EnvRegionFallback")),
			)
			if table.Region != "" {
				inner.If(jen.Id("region").Op("==").Lit("")).Block(
					jen.Id("region").Op("=").Lit(table.Region),
				)
			}
			inner.Var().Id("loadOpts").Index().Func().Params(jen.Op("*").Qual(awsConfigPkg, "LoadOptions")).Error()
			inner.If(jen.Id("region").Op("!=").Lit("")).Block(
				jen.Id("loadOpts").Op("=").Append(jen.Id("loadOpts"), jen.Qual(awsConfigPkg, "WithRegion").Call(jen.Id("region"))),
			)
			inner.List(jen.Id("cfg"), jen.Id("err")).Op(":=").Qual(awsConfigPkg, "LoadDefaultConfig").Call(
				jen.Id("ctx"), jen.Id("loadOpts").Op("..."),
			)
			inner.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
			inner.Id("endpoint").Op(":=").Id("o").Dot("endpointURL")
			inner.If(jen.Id("endpoint").Op("==").Lit("")).Block(
				jen.Id("endpoint").Op("=").Qual("os", "Getenv").Call(jen.Id("EnvEndpointURL")),
			)
			inner.Var().Id("clientOpts").Index().Func().Params(jen.Op("*").Qual(dynamodbPkg, "Options"))
			inner.If(jen.Id("endpoint").Op("!=").Lit("")).Block(
				jen.Id("clientOpts").Op("=").Append(jen.Id("clientOpts"),
					jen.Func().Params(jen.Id("do").Op("*").Qual(dynamodbPkg, "Options")).Block(
						jen.Id("do").Dot("BaseEndpoint").Op("=").Qual(awsPkg, "String").Call(jen.Id("endpoint")),
					),
				),
			)
			inner.Id("o").Dot("api").Op("=").Qual(dynamodbPkg, "NewFromConfig").Call(
				jen.Id("cfg"), jen.Id("clientOpts").Op("..."),
			)
		})
		grp.Return(jen.Op("&").Id("Client").Values(jen.Dict{
			jen.Id("api"):       jen.Id("o").Dot("api"),
			jen.Id("tableName"): jen.Id("o").Dot("tableName"),
		}), jen.Nil())
	})

	f.Comment("TableName returns the resolved table name.")
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("TableName").Params().String().Block(
		jen.Return(jen.Id("c").Dot("tableName")),
	)

	f.Comment("DynamoDB returns the underlying API client.")
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("DynamoDB").Params().Op("*").Qual(dynamodbPkg, "Client").Block(
		jen.Return(jen.Id("c").Dot("api")),
	)

	return f
}

// genConfig generates the shared facility (config/config.go): one client,
// lazily built repositories, and a process-wide default instance.
func genConfig(h gen.GeneratorHelper) *jen.File {
	f := newFile(h, h.SubPkgPath("config"))
	nodes := h.Graph().Nodes

	f.Comment("Facility wires the shared client and the per-entity repositories.")
	f.Type().Id("Facility").StructFunc(func(grp *jen.Group) {
		grp.Id("client").Op("*").Qual(h.SubPkgPath("client"), "Client")
		for _, e := range nodes {
			grp.Id(paramName(e.Name) + "Once").Qual("sync", "Once")
			grp.Id(paramName(e.Name)).Op("*").Qual(h.SubPkgPath("repository"), e.Name+"Repository")
		}
	})

	f.Comment("New builds a facility with its own client.")
	f.Func().Id("New").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("opts").Op("...").Qual(h.SubPkgPath("client"), "Option"),
	).Params(jen.Op("*").Id("Facility"), jen.Error()).Block(
		jen.List(jen.Id("c"), jen.Id("err")).Op(":=").Qual(h.SubPkgPath("client"), "New").Call(
			jen.Id("ctx"), jen.Id("opts").Op("..."),
		),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err"))),
		jen.Return(jen.Op("&").Id("Facility").Values(jen.Dict{
			jen.Id("client"): jen.Id("c"),
		}), jen.Nil()),
	)

	f.Comment("Client returns the shared client.")
	f.Func().Params(jen.Id("f").Op("*").Id("Facility")).Id("Client").Params().Op("*").Qual(h.SubPkgPath("client"), "Client").Block(
		jen.Return(jen.Id("f").Dot("client")),
	)

	for _, e := range nodes {
		field := paramName(e.Name)
		f.Commentf("%s returns the %s repository, built on first use.", e.Name, e.Name)
		f.Func().Params(jen.Id("f").Op("*").Id("Facility")).Id(e.Name).Params().Op("*").Qual(h.SubPkgPath("repository"), e.Name+"Repository").Block(
			jen.Id("f").Dot(field+"Once").Dot("Do").Call(jen.Func().Params().Block(
				jen.Id("f").Dot(field).Op("=").Qual(h.SubPkgPath("repository"), "New"+e.Name+"Repository").Call(
					jen.Id("f").Dot("client"),
				),
			)),
			jen.Return(jen.Id("f").Dot(field)),
		)
	}

	f.Var().Defs(
		jen.Id("defaultOnce").Qual("sync", "Once"),
		jen.Id("defaultFacility").Op("*").Id("Facility"),
		jen.Id("defaultErr").Error(),
	)

	f.Comment("Default returns the process-wide facility built from the")
	f.Comment("environment. The first call wins; later calls share its result.")
	f.Func().Id("Default").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(jen.Op("*").Id("Facility"), jen.Error()).Block(
		jen.Id("defaultOnce").Dot("Do").Call(jen.Func().Params().Block(
			jen.List(jen.Id("defaultFacility"), jen.Id("defaultErr")).Op("=").Id("New").Call(jen.Id("ctx")),
		)),
		jen.Return(jen.Id("defaultFacility"), jen.Id("defaultErr")),
	)

	return f
}

// genConverter generates the converter types (converter/converter.go): the
// calendar date, the fixed-point decimal, and the native set slices, each
// implementing the attributevalue marshal hooks. Only the pieces the batch
// actually uses are emitted.
func genConverter(h gen.GeneratorHelper) *jen.File {
	f := newFile(h, h.SubPkgPath("converter"))
	g := h.Graph()

	if g.NeedsDateConverter() || anyKeyKind(g, gen.KindDate) {
		genDateType(f)
	}
	if g.NeedsDecimalConverter() {
		genDecimalType(f)
	}
	for _, k := range g.SetKinds() {
		genSetType(f, k)
	}
	return f
}

func anyKeyKind(g *gen.Graph, k gen.Kind) bool {
	for _, e := range g.Nodes {
		if e.PartitionKey.Type.Kind == k {
			return true
		}
		if e.SortKey != nil && e.SortKey.Type.Kind == k {
			return true
		}
	}
	return false
}

func genDateType(f *jen.File) {
	f.Comment("Date is a calendar date without a time component, stored as ISO-8601")
	f.Comment("text so lexical order matches chronological order.")
	f.Type().Id("Date").Struct(
		jen.Id("Year").Int(),
		jen.Id("Month").Qual("time", "Month"),
		jen.Id("Day").Int(),
	)

	f.Comment("NewDate creates a Date from its components.")
	f.Func().Id("NewDate").Params(
		jen.Id("year").Int(), jen.Id("month").Qual("time", "Month"), jen.Id("day").Int(),
	).Id("Date").Block(
		jen.Return(jen.Id("Date").Values(jen.Dict{
			jen.Id("Year"):  jen.Id("year"),
			jen.Id("Month"): jen.Id("month"),
			jen.Id("Day"):   jen.Id("day"),
		})),
	)

	f.Comment("ParseDate parses an ISO-8601 calendar date.")
	f.Func().Id("ParseDate").Params(jen.Id("s").String()).Params(jen.Id("Date"), jen.Error()).Block(
		jen.List(jen.Id("t"), jen.Id("err")).Op(":=").Qual("time", "Parse").Call(jen.Lit("2006-01-02"), jen.Id("s")),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Return(jen.Id("Date").Values(), jen.Id("err")),
		),
		jen.Return(jen.Id("DateOf").Call(jen.Id("t")), jen.Nil()),
	)

	f.Comment("MustDate is ParseDate for trusted literals; it panics on a malformed")
	f.Comment("value.")
	f.Func().Id("MustDate").Params(jen.Id("s").String()).Id("Date").Block(
		jen.List(jen.Id("d"), jen.Id("err")).Op(":=").Id("ParseDate").Call(jen.Id("s")),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Panic(jen.Id("err"))),
		jen.Return(jen.Id("d")),
	)

	f.Comment("DateOf truncates an instant to its calendar date.")
	f.Func().Id("DateOf").Params(jen.Id("t").Qual("time", "Time")).Id("Date").Block(
		jen.List(jen.Id("y"), jen.Id("m"), jen.Id("d")).Op(":=").Id("t").Dot("Date").Call(),
		jen.Return(jen.Id("Date").Values(jen.Dict{
			jen.Id("Year"):  jen.Id("y"),
			jen.Id("Month"): jen.Id("m"),
			jen.Id("Day"):   jen.Id("d"),
		})),
	)

	f.Comment("String renders the ISO-8601 form.")
	f.Func().Params(jen.Id("d").Id("Date")).Id("String").Params().String().Block(
		jen.Return(jen.Qual("fmt", "Sprintf").Call(
			jen.Lit("%04d-%02d-%02d"), jen.Id("d").Dot("Year"), jen.Id("d").Dot("Month"), jen.Id("d").Dot("Day"),
		)),
	)

	f.Comment("IsZero reports whether the date is the zero value.")
	f.Func().Params(jen.Id("d").Id("Date")).Id("IsZero").Params().Bool().Block(
		jen.Return(jen.Id("d").Op("==").Id("Date").Values()),
	)

	f.Comment("MarshalDynamoDBAttributeValue stores the date as a string attribute.")
	f.Func().Params(jen.Id("d").Id("Date")).Id("MarshalDynamoDBAttributeValue").Params().Params(
		jen.Qual(ddbTypesPkg, "AttributeValue"), jen.Error(),
	).Block(
		jen.Return(jen.Op("&").Qual(ddbTypesPkg, "AttributeValueMemberS").Values(jen.Dict{
			jen.Id("Value"): jen.Id("d").Dot("String").Call(),
		}), jen.Nil()),
	)

	f.Comment("UnmarshalDynamoDBAttributeValue restores the date from a string")
	f.Comment("attribute.")
	f.Func().Params(jen.Id("d").Op("*").Id("Date")).Id("UnmarshalDynamoDBAttributeValue").Params(
		jen.Id("av").Qual(ddbTypesPkg, "AttributeValue"),
	).Error().Block(
		jen.List(jen.Id("s"), jen.Id("ok")).Op(":=").Id("av").Op(".").Parens(jen.Op("*").Qual(ddbTypesPkg, "AttributeValueMemberS")),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("converter: expected string attribute for Date, got %T"), jen.Id("av"))),
		),
		jen.List(jen.Id("parsed"), jen.Id("err")).Op(":=").Id("ParseDate").Call(jen.Id("s").Dot("Value")),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err"))),
		jen.Op("*").Id("d").Op("=").Id("parsed"),
		jen.Return(jen.Nil()),
	)
}

func genDecimalType(f *jen.File) {
	f.Comment("Decimal is an exact fixed-point number stored as a DynamoDB number")
	f.Comment("attribute.")
	f.Type().Id("Decimal").Struct(
		jen.Id("value").Qual(decimalPkg, "Decimal"),
	)

	f.Comment("NewDecimal creates a Decimal from a trusted literal; it panics on a")
	f.Comment("malformed value.")
	f.Func().Id("NewDecimal").Params(jen.Id("s").String()).Id("Decimal").Block(
		jen.Return(jen.Id("Decimal").Values(jen.Dict{
			jen.Id("value"): jen.Qual(decimalPkg, "RequireFromString").Call(jen.Id("s")),
		})),
	)

	f.Comment("ParseDecimal creates a Decimal from untrusted input.")
	f.Func().Id("ParseDecimal").Params(jen.Id("s").String()).Params(jen.Id("Decimal"), jen.Error()).Block(
		jen.List(jen.Id("v"), jen.Id("err")).Op(":=").Qual(decimalPkg, "NewFromString").Call(jen.Id("s")),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Return(jen.Id("Decimal").Values(), jen.Id("err")),
		),
		jen.Return(jen.Id("Decimal").Values(jen.Dict{jen.Id("value"): jen.Id("v")}), jen.Nil()),
	)

	f.Comment("Cmp compares two decimals: -1 when d is smaller, 0 when equal, 1")
	f.Comment("when greater.")
	f.Func().Params(jen.Id("d").Id("Decimal")).Id("Cmp").Params(jen.Id("other").Id("Decimal")).Int().Block(
		jen.Return(jen.Id("d").Dot("value").Dot("Cmp").Call(jen.Id("other").Dot("value"))),
	)

	f.Comment("String renders the exact decimal form.")
	f.Func().Params(jen.Id("d").Id("Decimal")).Id("String").Params().String().Block(
		jen.Return(jen.Id("d").Dot("value").Dot("String").Call()),
	)

	f.Comment("Unwrap exposes the underlying arbitrary-precision value.")
	f.Func().Params(jen.Id("d").Id("Decimal")).Id("Unwrap").Params().Qual(decimalPkg, "Decimal").Block(
		jen.Return(jen.Id("d").Dot("value")),
	)

	f.Comment("MarshalDynamoDBAttributeValue stores the decimal as a number")
	f.Comment("attribute without losing precision.")
	f.Func().Params(jen.Id("d").Id("Decimal")).Id("MarshalDynamoDBAttributeValue").Params().Params(
		jen.Qual(ddbTypesPkg, "AttributeValue"), jen.Error(),
	).Block(
		jen.Return(jen.Op("&").Qual(ddbTypesPkg, "AttributeValueMemberN").Values(jen.Dict{
			jen.Id("Value"): jen.Id("d").Dot("value").Dot("String").Call(),
		}), jen.Nil()),
	)

	f.Comment("UnmarshalDynamoDBAttributeValue restores the decimal from a number")
	f.Comment("attribute.")
	f.Func().Params(jen.Id("d").Op("*").Id("Decimal")).Id("UnmarshalDynamoDBAttributeValue").Params(
		jen.Id("av").Qual(ddbTypesPkg, "AttributeValue"),
	).Error().Block(
		jen.List(jen.Id("n"), jen.Id("ok")).Op(":=").Id("av").Op(".").Parens(jen.Op("*").Qual(ddbTypesPkg, "AttributeValueMemberN")),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("converter: expected number attribute for Decimal, got %T"), jen.Id("av"))),
		),
		jen.List(jen.Id("parsed"), jen.Id("err")).Op(":=").Id("ParseDecimal").Call(jen.Id("n").Dot("Value")),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err"))),
		jen.Op("*").Id("d").Op("=").Id("parsed"),
		jen.Return(jen.Nil()),
	)
}

// genSetType generates one native set slice with marshal hooks producing the
// set attribute forms instead of lists. An empty set marshals as NULL
// because DynamoDB rejects empty sets.
func genSetType(f *jen.File, k gen.Kind) {
	name := gen.SetTypeName(k)
	elem := setElemType(k)

	f.Commentf("%s marshals as a DynamoDB %s set.", name, setNoun(k))
	f.Type().Id(name).Index().Add(elem())

	f.Func().Params(jen.Id("s").Id(name)).Id("MarshalDynamoDBAttributeValue").Params().Params(
		jen.Qual(ddbTypesPkg, "AttributeValue"), jen.Error(),
	).BlockFunc(func(grp *jen.Group) {
		grp.If(jen.Len(jen.Id("s")).Op("==").Lit(0)).Block(
			jen.Return(jen.Op("&").Qual(ddbTypesPkg, "AttributeValueMemberNULL").Values(jen.Dict{
				jen.Id("Value"): jen.True(),
			}), jen.Nil()),
		)
		if k == gen.KindString {
			grp.Return(jen.Op("&").Qual(ddbTypesPkg, "AttributeValueMemberSS").Values(jen.Dict{
				jen.Id("Value"): jen.Id("s"),
			}), jen.Nil())
			return
		}
		grp.Id("values").Op(":=").Make(jen.Index().String(), jen.Lit(0), jen.Len(jen.Id("s")))
		grp.For(jen.List(jen.Id("_"), jen.Id("v")).Op(":=").Range().Id("s")).Block(
			jen.Id("values").Op("=").Append(jen.Id("values"), setFormat(k, jen.Id("v"))),
		)
		grp.Return(jen.Op("&").Qual(ddbTypesPkg, "AttributeValueMemberNS").Values(jen.Dict{
			jen.Id("Value"): jen.Id("values"),
		}), jen.Nil())
	})

	f.Func().Params(jen.Id("s").Op("*").Id(name)).Id("UnmarshalDynamoDBAttributeValue").Params(
		jen.Id("av").Qual(ddbTypesPkg, "AttributeValue"),
	).Error().BlockFunc(func(grp *jen.Group) {
		grp.Switch(jen.Id("v").Op(":=").Id("av").Op(".").Parens(jen.Type())).BlockFunc(func(sw *jen.Group) {
			if k == gen.KindString {
				sw.Case(jen.Op("*").Qual(ddbTypesPkg, "AttributeValueMemberSS")).Block(
					jen.Op("*").Id("s").Op("=").Id("v").Dot("Value"),
					jen.Return(jen.Nil()),
				)
			} else {
				sw.Case(jen.Op("*").Qual(ddbTypesPkg, "AttributeValueMemberNS")).BlockFunc(func(cs *jen.Group) {
					cs.Id("out").Op(":=").Make(jen.Id(name), jen.Lit(0), jen.Len(jen.Id("v").Dot("Value")))
					cs.For(jen.List(jen.Id("_"), jen.Id("raw")).Op(":=").Range().Id("v").Dot("Value")).BlockFunc(func(loop *jen.Group) {
						setParse(loop, k)
						loop.Id("out").Op("=").Append(jen.Id("out"), jen.Id("parsed"))
					})
					cs.Op("*").Id("s").Op("=").Id("out")
					cs.Return(jen.Nil())
				})
			}
			sw.Case(jen.Op("*").Qual(ddbTypesPkg, "AttributeValueMemberNULL")).Block(
				jen.Op("*").Id("s").Op("=").Nil(),
				jen.Return(jen.Nil()),
			)
		})
		grp.Return(jen.Qual("fmt", "Errorf").Call(
			jen.Lit("converter: unexpected attribute %T for "+name), jen.Id("av"),
		))
	})
}

func setElemType(k gen.Kind) func() *jen.Statement {
	switch k {
	case gen.KindInt:
		return jen.Int
	case gen.KindLong, gen.KindEpoch:
		return jen.Int64
	case gen.KindFloat:
		return jen.Float32
	case gen.KindDouble:
		return jen.Float64
	default:
		return jen.String
	}
}

func setNoun(k gen.Kind) string {
	if k == gen.KindString {
		return "string"
	}
	return "number"
}

// setFormat renders one numeric element to its wire text.
func setFormat(k gen.Kind, v jen.Code) jen.Code {
	switch k {
	case gen.KindInt:
		return jen.Qual("strconv", "Itoa").Call(v)
	case gen.KindLong, gen.KindEpoch:
		return jen.Qual("strconv", "FormatInt").Call(v, jen.Lit(10))
	case gen.KindFloat:
		return jen.Qual("strconv", "FormatFloat").Call(jen.Id("float64").Call(v), jen.LitRune('g'), jen.Lit(-1), jen.Lit(32))
	default:
		return jen.Qual("strconv", "FormatFloat").Call(v, jen.LitRune('g'), jen.Lit(-1), jen.Lit(64))
	}
}

// setParse emits statements parsing one wire element into "parsed".
func setParse(grp *jen.Group, k gen.Kind) {
	fail := jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Id("err")))
	switch k {
	case gen.KindInt:
		grp.List(jen.Id("parsed"), jen.Id("err")).Op(":=").Qual("strconv", "Atoi").Call(jen.Id("raw"))
		grp.Add(fail)
	case gen.KindLong, gen.KindEpoch:
		grp.List(jen.Id("parsed"), jen.Id("err")).Op(":=").Qual("strconv", "ParseInt").Call(jen.Id("raw"), jen.Lit(10), jen.Lit(64))
		grp.Add(fail)
	case gen.KindFloat:
		grp.List(jen.Id("wide"), jen.Id("err")).Op(":=").Qual("strconv", "ParseFloat").Call(jen.Id("raw"), jen.Lit(32))
		grp.Add(fail)
		grp.Id("parsed").Op(":=").Id("float32").Call(jen.Id("wide"))
	default:
		grp.List(jen.Id("parsed"), jen.Id("err")).Op(":=").Qual("strconv", "ParseFloat").Call(jen.Id("raw"), jen.Lit(64))
		grp.Add(fail)
	}
}
