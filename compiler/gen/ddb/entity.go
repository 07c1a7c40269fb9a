package ddb

import (
	"go/token"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// genEntity generates the entity file ({entity}.go): enum declarations for
// entity-level attributes, the entity struct, constructors, the builder, and
// the String/Equal methods.
func genEntity(h gen.GeneratorHelper, e *gen.Entity) *jen.File {
	f := newFile(h, h.BasePkgPath())

	genEnumDecls(f, scopeEnums(e.Attrs))
	genEntityStruct(h, f, e)
	genConstructors(h, f, e)
	genBuilder(h, f, e)
	genStringMethod(f, e.Name, e.Attrs)
	genEqualMethod(f, e.Name)
	genMustTime(h, f, e.Attrs)

	return f
}

// scopeEnums collects the enum types declared by attributes of one scope.
func scopeEnums(attrs []*gen.Attr) []*gen.EnumType {
	var enums []*gen.EnumType
	for _, a := range attrs {
		if a.Type.Enum != nil {
			enums = append(enums, a.Type.Enum)
		}
	}
	return enums
}

// genEnumDecls generates a dedicated string type per enum attribute, with one
// constant per declared value, a Values function, and a Valid method.
func genEnumDecls(f *jen.File, enums []*gen.EnumType) {
	for _, et := range enums {
		f.Commentf("%s is the set of declared values for the attribute.", et.Name)
		f.Type().Id(et.Name).String()

		f.Commentf("%s values.", et.Name)
		f.Const().DefsFunc(func(grp *jen.Group) {
			for _, v := range et.Values {
				grp.Id(gen.EnumConstName(et, v)).Id(et.Name).Op("=").Lit(v)
			}
		})

		f.Commentf("%sValues returns every declared %s value in schema order.", et.Name, et.Name)
		f.Func().Id(et.Name + "Values").Params().Index().Id(et.Name).Block(
			jen.Return(jen.Index().Id(et.Name).ValuesFunc(func(vals *jen.Group) {
				for _, v := range et.Values {
					vals.Id(gen.EnumConstName(et, v))
				}
			})),
		)

		f.Comment("Valid reports whether the value is one of the declared values.")
		f.Func().Params(jen.Id("_v").Id(et.Name)).Id("Valid").Params().Bool().Block(
			jen.Switch(jen.Id("_v")).Block(
				jen.CaseFunc(func(cases *jen.Group) {
					for _, v := range et.Values {
						cases.Id(gen.EnumConstName(et, v))
					}
				}).Block(jen.Return(jen.True())),
			),
			jen.Return(jen.False()),
		)

		f.Comment("String implements fmt.Stringer.")
		f.Func().Params(jen.Id("_v").Id(et.Name)).Id("String").Params().String().Block(
			jen.Return(jen.String().Call(jen.Id("_v"))),
		)
	}
}

// genEntityStruct generates the entity struct. Fields whose stored attribute
// name differs from the Go identifier carry a dynamodbav tag with the raw
// name; everything else marshals under its field name unchanged.
func genEntityStruct(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	if e.Description != "" {
		f.Commentf("%s is %s", e.Name, lowerFirstWord(e.Description))
	} else {
		f.Commentf("%s is the model entity for the %s schema.", e.Name, e.Schema.EntityName)
	}
	f.Type().Id(e.Name).StructFunc(func(grp *jen.Group) {
		genStructFields(h, grp, e.Attrs)
	})
}

func genStructFields(h gen.GeneratorHelper, grp *jen.Group, attrs []*gen.Attr) {
	for _, a := range attrs {
		if a.Description != "" {
			grp.Comment(a.Description)
		}
		field := grp.Id(a.Ident).Add(h.GoType(a))
		if gen.NeedsAttributeMarker(a.Name, a.Ident) {
			field.Tag(map[string]string{"dynamodbav": a.Name})
		}
	}
}

// genConstructors generates New{Entity}, which applies schema defaults, and
// New{Entity}With, which additionally takes every required attribute.
func genConstructors(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	f.Commentf("New%s creates a %s with schema defaults applied.", e.Name, e.Name)
	f.Func().Id("New" + e.Name).Params().Op("*").Id(e.Name).BlockFunc(func(grp *jen.Group) {
		grp.Id("_e").Op(":=").Op("&").Id(e.Name).Values()
		genDefaultAssignments(h, grp, e.Attrs, "_e")
		grp.Return(jen.Id("_e"))
	})

	required := requiredAttrs(e.Attrs)
	if len(required) == 0 {
		return
	}
	f.Commentf("New%sWith creates a %s with defaults applied and every required", e.Name, e.Name)
	f.Comment("attribute set.")
	f.Func().Id("New"+e.Name+"With").ParamsFunc(func(params *jen.Group) {
		for _, a := range required {
			params.Id(paramName(a.Ident)).Add(h.BaseType(a))
		}
	}).Op("*").Id(e.Name).BlockFunc(func(grp *jen.Group) {
		grp.Id("_e").Op(":=").Id("New" + e.Name).Call()
		for _, a := range required {
			if a.Optional() {
				grp.Id("_e").Dot(a.Ident).Op("=").Op("&").Id(paramName(a.Ident))
			} else {
				grp.Id("_e").Dot(a.Ident).Op("=").Id(paramName(a.Ident))
			}
		}
		grp.Return(jen.Id("_e"))
	})
}

// genDefaultAssignments assigns schema default values to the target variable.
// Optional fields take the address of a dedicated local so each default gets
// its own storage.
func genDefaultAssignments(h gen.GeneratorHelper, grp *jen.Group, attrs []*gen.Attr, target string) {
	for _, a := range attrs {
		lit, ok, _ := h.DefaultLit(a)
		if !ok {
			continue
		}
		if a.Optional() {
			local := "_" + paramName(a.Ident)
			grp.Id(local).Op(":=").Add(lit)
			grp.Id(target).Dot(a.Ident).Op("=").Op("&").Id(local)
		} else {
			grp.Id(target).Dot(a.Ident).Op("=").Add(lit)
		}
	}
}

// genBuilder generates the fluent builder. Setters take the base type and
// wrap optional values in pointers themselves.
func genBuilder(h gen.GeneratorHelper, f *jen.File, e *gen.Entity) {
	builder := e.Name + "Builder"
	f.Commentf("%s assembles a %s step by step.", builder, e.Name)
	f.Type().Id(builder).Struct(
		jen.Id("target").Op("*").Id(e.Name),
	)

	f.Commentf("New%s creates a builder seeded with schema defaults.", builder)
	f.Func().Id("New" + builder).Params().Op("*").Id(builder).Block(
		jen.Return(jen.Op("&").Id(builder).Values(jen.Dict{
			jen.Id("target"): jen.Id("New" + e.Name).Call(),
		})),
	)

	for _, a := range e.Attrs {
		f.Commentf("%s sets the %s attribute.", a.Ident, a.Name)
		f.Func().Params(jen.Id("_b").Op("*").Id(builder)).Id(a.Ident).Params(
			jen.Id("v").Add(h.BaseType(a)),
		).Op("*").Id(builder).BlockFunc(func(grp *jen.Group) {
			if a.Optional() {
				grp.Id("_b").Dot("target").Dot(a.Ident).Op("=").Op("&").Id("v")
			} else {
				grp.Id("_b").Dot("target").Dot(a.Ident).Op("=").Id("v")
			}
			grp.Return(jen.Id("_b"))
		})
	}

	f.Commentf("Build returns the assembled %s.", e.Name)
	f.Func().Params(jen.Id("_b").Op("*").Id(builder)).Id("Build").Params().Op("*").Id(e.Name).Block(
		jen.Return(jen.Id("_b").Dot("target")),
	)
}

// genStringMethod generates a String method listing every attribute value.
// Pointer-wrapped optional attributes dereference under a nil guard so the
// rendering shows the value, not the address.
func genStringMethod(f *jen.File, name string, attrs []*gen.Attr) {
	f.Comment("String implements fmt.Stringer.")
	f.Func().Params(jen.Id("_e").Op("*").Id(name)).Id("String").Params().String().BlockFunc(func(grp *jen.Group) {
		grp.Var().Id("builder").Qual("strings", "Builder")
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(name + "("))
		for i, a := range attrs {
			prefix := ", "
			if i == 0 {
				prefix = ""
			}
			if a.Optional() {
				grp.If(jen.Id("_e").Dot(a.Ident).Op("!=").Nil()).Block(
					jen.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprintf").Call(
						jen.Lit(prefix+a.Name+"=%v"),
						jen.Op("*").Id("_e").Dot(a.Ident),
					)),
				).Else().Block(
					jen.Id("builder").Dot("WriteString").Call(jen.Lit(prefix + a.Name + "=<nil>")),
				)
				continue
			}
			grp.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprintf").Call(
				jen.Lit(prefix+a.Name+"=%v"),
				jen.Id("_e").Dot(a.Ident),
			))
		}
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(")"))
		grp.Return(jen.Id("builder").Dot("String").Call())
	})
}

// genEqualMethod generates a deep equality method.
func genEqualMethod(f *jen.File, name string) {
	f.Commentf("Equal reports whether both values carry the same attribute values.")
	f.Func().Params(jen.Id("_e").Op("*").Id(name)).Id("Equal").Params(
		jen.Id("other").Op("*").Id(name),
	).Bool().Block(
		jen.If(jen.Id("_e").Op("==").Nil().Op("||").Id("other").Op("==").Nil()).Block(
			jen.Return(jen.Id("_e").Op("==").Id("other")),
		),
		jen.Return(jen.Qual("reflect", "DeepEqual").Call(
			jen.Op("*").Id("_e"),
			jen.Op("*").Id("other"),
		)),
	)
}

// genMustTime emits the per-file mustTime helper when a timestamp default in
// the scope needs parsing at package init.
func genMustTime(h gen.GeneratorHelper, f *jen.File, attrs []*gen.Attr) {
	needed := false
	for _, a := range attrs {
		if _, ok, helper := h.DefaultLit(a); ok && helper {
			needed = true
		}
	}
	if !needed {
		return
	}
	f.Func().Id("mustTime").Params(jen.Id("s").String()).Qual("time", "Time").Block(
		jen.List(jen.Id("t"), jen.Id("err")).Op(":=").Qual("time", "Parse").Call(
			jen.Qual("time", "RFC3339"),
			jen.Id("s"),
		),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Panic(jen.Id("err")),
		),
		jen.Return(jen.Id("t")),
	)
}

// requiredAttrs filters the attributes declared required.
func requiredAttrs(attrs []*gen.Attr) []*gen.Attr {
	var out []*gen.Attr
	for _, a := range attrs {
		if a.Required {
			out = append(out, a)
		}
	}
	return out
}

// paramName derives an unexported parameter name from an exported
// identifier, avoiding Go keywords. A leading initialism is lowered
// wholesale, so ID becomes id and URLPath becomes urlPath.
func paramName(ident string) string {
	r := []rune(ident)
	upper := 0
	for upper < len(r) && unicode.IsUpper(r[upper]) {
		upper++
	}
	if upper > 1 && upper < len(r) {
		// Keep the last upper rune as the start of the next word.
		upper--
	}
	if upper == 0 {
		upper = 1
	}
	for i := 0; i < upper; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	name := string(r)
	if token.IsKeyword(name) {
		name += "Arg"
	}
	return name
}

// lowerFirstWord lowercases the leading rune of a sentence for splicing into
// a doc comment.
func lowerFirstWord(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
