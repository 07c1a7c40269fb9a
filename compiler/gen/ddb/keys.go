package ddb

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// genKeys generates the key constants file (keys/{entity}.go): the stored
// attribute names of the primary key, one constant per secondary index name,
// and the typed primary-key builder.
func genKeys(h gen.GeneratorHelper, e *gen.Entity) *jen.File {
	f := newFile(h, h.SubPkgPath("keys"))

	f.Commentf("Stored attribute names of the %s primary key.", e.Name)
	f.Const().DefsFunc(func(grp *jen.Group) {
		grp.Id(e.Name + "PartitionKey").Op("=").Lit(e.PartitionKey.Name)
		if e.SortKey != nil {
			grp.Id(e.Name + "SortKey").Op("=").Lit(e.SortKey.Name)
		}
	})

	if len(e.Indexes) > 0 {
		f.Commentf("Secondary index names declared for the %s table.", e.Name)
		f.Const().DefsFunc(func(grp *jen.Group) {
			for _, idx := range e.Indexes {
				grp.Id(IndexConstName(e, idx)).Op("=").Lit(idx.Name)
			}
		})
	}

	genKeyBuilder(h, f, e)
	return f
}

// genKeyBuilder generates {Entity}Key, the typed primary-key attribute map
// constructor used by lookups, deletes, and batch reads.
func genKeyBuilder(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Commentf("%sKey builds the primary-key attribute map for a %s item.", e.Name, e.Name)
	f.Func().Id(e.Name+"Key").ParamsFunc(func(params *jen.Group) {
		params.Id(paramName(e.PartitionKey.Ident)).Add(h.BaseType(e.PartitionKey))
		if e.SortKey != nil {
			params.Id(paramName(e.SortKey.Ident)).Add(h.BaseType(e.SortKey))
		}
	}).Map(jen.String()).Qual(ddbTypesPkg, "AttributeValue").Block(
		jen.Return(jen.Map(jen.String()).Qual(ddbTypesPkg, "AttributeValue").Values(jen.DictFunc(func(d jen.Dict) {
			d[jen.Id(e.Name+"PartitionKey")] = keyAttrValue(e.PartitionKey, jen.Id(paramName(e.PartitionKey.Ident)))
			if e.SortKey != nil {
				d[jen.Id(e.Name+"SortKey")] = keyAttrValue(e.SortKey, jen.Id(paramName(e.SortKey.Ident)))
			}
		}))),
	)
}

// keyAttrValue renders a key parameter into its attribute value. Numeric
// kinds become number attributes; timestamps without the epoch subtype
// render to canonical text so that lexical order matches chronological
// order.
func keyAttrValue(a *gen.Attr, v jen.Code) jen.Code {
	member := func(kind string, value jen.Code) jen.Code {
		return jen.Op("&").Qual(ddbTypesPkg, "AttributeValueMember"+kind).Values(jen.Dict{
			jen.Id("Value"): value,
		})
	}
	switch a.Type.Kind {
	case gen.KindString:
		return member("S", v)
	case gen.KindInt:
		return member("N", jen.Qual("strconv", "Itoa").Call(v))
	case gen.KindLong, gen.KindEpoch:
		return member("N", jen.Qual("strconv", "FormatInt").Call(v, jen.Lit(10)))
	case gen.KindFloat:
		return member("N", jen.Qual("strconv", "FormatFloat").Call(
			jen.Id("float64").Call(v), jen.LitRune('g'), jen.Lit(-1), jen.Lit(32),
		))
	case gen.KindDouble:
		return member("N", jen.Qual("strconv", "FormatFloat").Call(
			v, jen.LitRune('g'), jen.Lit(-1), jen.Lit(64),
		))
	case gen.KindDecimal:
		return member("N", jen.Add(v).Dot("String").Call())
	case gen.KindBytes:
		return member("B", v)
	case gen.KindInstant:
		return member("S", jen.Add(v).Dot("UTC").Call().Dot("Format").Call(jen.Qual("time", "RFC3339Nano")))
	case gen.KindDate:
		return member("S", jen.Add(v).Dot("String").Call())
	default:
		return member("S", v)
	}
}

// IndexConstName names the generated constant for a secondary index:
// {Entity}Index{Name}, so by-email on Order becomes OrderIndexByEmail.
func IndexConstName(e *gen.Entity, idx *gen.IndexRef) string {
	return e.Name + "Index" + gen.ResolveCodeName(idx.Name, "")
}
