package ddb

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// genValidationErrors generates the shared error type (validation/errors.go).
// Validators accumulate every rule failure before reporting, so one pass
// surfaces the whole set.
func genValidationErrors(h gen.GeneratorHelper) *jen.File {
	f := newFile(h, h.SubPkgPath("validation"))

	f.Comment("FieldError describes one failed rule on one attribute path.")
	f.Type().Id("FieldError").Struct(
		jen.Id("Path").String(),
		jen.Id("Rule").String(),
		jen.Id("Message").String(),
	)

	f.Comment("Error implements the error interface.")
	f.Func().Params(jen.Id("e").Id("FieldError")).Id("Error").Params().String().Block(
		jen.Return(jen.Id("e").Dot("Path").Op("+").Lit(" ").Op("+").Id("e").Dot("Message")),
	)

	f.Comment("Error aggregates every rule failure found in one validation pass.")
	f.Type().Id("Error").Struct(
		jen.Id("Entity").String(),
		jen.Id("Fields").Index().Id("FieldError"),
	)

	f.Comment("Error implements the error interface. The message lists every failure.")
	f.Func().Params(jen.Id("e").Op("*").Id("Error")).Id("Error").Params().String().Block(
		jen.Var().Id("builder").Qual("strings", "Builder"),
		jen.Qual("fmt", "Fprintf").Call(jen.Op("&").Id("builder"), jen.Lit("validation failed for %s:"), jen.Id("e").Dot("Entity")),
		jen.For(jen.List(jen.Id("_"), jen.Id("f")).Op(":=").Range().Id("e").Dot("Fields")).Block(
			jen.Qual("fmt", "Fprintf").Call(jen.Op("&").Id("builder"), jen.Lit("\n  %s: %s"), jen.Id("f").Dot("Path"), jen.Id("f").Dot("Message")),
		),
		jen.Return(jen.Id("builder").Dot("String").Call()),
	)

	return f
}

// genValidator generates the per-entity validator (validation/{entity}.go):
// anchored pattern variables, the exported entry point, and one unexported
// function per nested type that declares checks.
func genValidator(h gen.GeneratorHelper, e *gen.Entity) *jen.File {
	f := newFile(h, h.SubPkgPath("validation"))

	genPatternVars(f, e)

	f.Commentf("Validate%s checks every declared constraint of a %s and reports", e.Name, e.Name)
	f.Comment("all failures in one pass. A nil error means the value is ready to persist.")
	f.Func().Id("Validate"+e.Name).Params(
		jen.Id("_e").Op("*").Qual(h.BasePkgPath(), e.Name),
	).Error().BlockFunc(func(grp *jen.Group) {
		if !gen.NeedsValidation(e) {
			grp.Return(jen.Nil())
			return
		}
		grp.Var().Id("fields").Index().Id("FieldError")
		for _, a := range e.Attrs {
			genAttrChecks(h, grp, e.Name, a, false, func() *jen.Statement {
				return jen.Id("_e").Dot(a.Ident)
			})
		}
		grp.If(jen.Len(jen.Id("fields")).Op("==").Lit(0)).Block(jen.Return(jen.Nil()))
		grp.Return(jen.Op("&").Id("Error").Values(jen.Dict{
			jen.Id("Entity"): jen.Lit(e.Name),
			jen.Id("Fields"): jen.Id("fields"),
		}))
	})

	for _, gt := range e.Types {
		if !gen.AttrsNeedValidation(gt.Attrs) {
			continue
		}
		genNestedValidator(h, f, gt)
	}

	return f
}

func genNestedValidator(h gen.GeneratorHelper, f *jen.File, gt *gen.GeneratedType) {
	f.Func().Id("validate"+gt.QualifiedName).Params(
		jen.Id("_m").Op("*").Qual(h.SubPkgPath("model"), gt.QualifiedName),
		jen.Id("_path").String(),
	).Index().Id("FieldError").BlockFunc(func(grp *jen.Group) {
		grp.Var().Id("fields").Index().Id("FieldError")
		for _, a := range gt.Attrs {
			genAttrChecks(h, grp, gt.QualifiedName, a, true, func() *jen.Statement {
				return jen.Id("_m").Dot(a.Ident)
			})
		}
		grp.Return(jen.Id("fields"))
	})
}

// genPatternVars emits one compiled, fully-anchored pattern variable per
// attribute with a declared pattern, entity scope and nested scopes alike.
func genPatternVars(f *jen.File, e *gen.Entity) {
	type pat struct{ name, expr string }
	var pats []pat
	collect := func(scope string, attrs []*gen.Attr) {
		for _, a := range attrs {
			if a.Constraints != nil && a.Constraints.Pattern != "" && a.Type.Kind == gen.KindString && a.Type.Class == gen.ClassScalar {
				pats = append(pats, pat{patternVarName(scope, a), a.Constraints.Pattern})
			}
		}
	}
	collect(e.Name, e.Attrs)
	for _, gt := range e.Types {
		collect(gt.QualifiedName, gt.Attrs)
	}
	if len(pats) == 0 {
		return
	}
	f.Comment("Declared patterns, anchored so a value must match in full.")
	f.Var().DefsFunc(func(grp *jen.Group) {
		for _, p := range pats {
			grp.Id(p.name).Op("=").Qual("regexp", "MustCompile").Call(jen.Lit(`\A(?:` + p.expr + `)\z`))
		}
	})
}

func patternVarName(scope string, a *gen.Attr) string {
	return paramName(scope+a.Ident) + "Pattern"
}

// genAttrChecks emits the checks for one attribute: presence first, then
// declared constraints, then enum membership, then recursion into nested
// structures. value must return a fresh expression on every call.
func genAttrChecks(h gen.GeneratorHelper, grp *jen.Group, scope string, a *gen.Attr, nested bool, value func() *jen.Statement) {
	path := func() jen.Code {
		if nested {
			return jen.Id("_path").Op("+").Lit("." + a.Name)
		}
		return jen.Lit(a.Name)
	}
	fail := func(rule, message string) jen.Code {
		return jen.Id("fields").Op("=").Append(jen.Id("fields"), jen.Id("FieldError").Values(jen.Dict{
			jen.Id("Path"):    path(),
			jen.Id("Rule"):    jen.Lit(rule),
			jen.Id("Message"): jen.Lit(message),
		}))
	}

	switch a.Type.Class {
	case gen.ClassGenerated:
		if a.Required {
			grp.If(value().Op("==").Nil()).Block(fail("required", "is required"))
		}
		if gen.AttrsNeedValidation(a.Type.Ref.Attrs) {
			grp.If(value().Op("!=").Nil()).Block(
				jen.Id("fields").Op("=").Append(
					jen.Id("fields"),
					jen.Id("validate"+a.Type.Ref.QualifiedName).Call(value(), path()).Op("..."),
				),
			)
		}
		return
	case gen.ClassListGenerated:
		if a.Required {
			grp.If(value().Op("==").Nil()).Block(fail("required", "is required"))
		}
		if gen.AttrsNeedValidation(a.Type.Ref.Attrs) {
			var itemPath jen.Code
			if nested {
				itemPath = jen.Qual("fmt", "Sprintf").Call(jen.Lit("%s."+a.Name+"[%d]"), jen.Id("_path"), jen.Id("_i"))
			} else {
				itemPath = jen.Qual("fmt", "Sprintf").Call(jen.Lit(a.Name+"[%d]"), jen.Id("_i"))
			}
			grp.For(jen.List(jen.Id("_i"), jen.Id("_it")).Op(":=").Range().Add(value())).Block(
				jen.If(jen.Id("_it").Op("==").Nil()).Block(jen.Continue()),
				jen.Id("fields").Op("=").Append(
					jen.Id("fields"),
					jen.Id("validate"+a.Type.Ref.QualifiedName).Call(jen.Id("_it"), itemPath).Op("..."),
				),
			)
		}
		return
	case gen.ClassListScalar, gen.ClassSetScalar:
		if a.Required {
			grp.If(jen.Len(value()).Op("==").Lit(0)).Block(fail("required", "is required"))
		}
		return
	}

	// Scalar and enum attributes. Non-pointer fields check presence against
	// a distinguishable zero value; pointer fields guard constraints behind
	// a nil check instead.
	if !a.Optional() && a.Required {
		switch a.Type.Kind {
		case gen.KindString:
			grp.If(value().Op("==").Lit("")).Block(fail("required", "is required"))
		case gen.KindInstant, gen.KindDate:
			grp.If(value().Dot("IsZero").Call()).Block(fail("required", "is required"))
		case gen.KindBytes:
			grp.If(jen.Len(value()).Op("==").Lit(0)).Block(fail("required", "is required"))
		}
	}

	checks := scalarChecks(h, scope, a, fail, value, a.Optional())
	if len(checks) == 0 {
		return
	}
	if a.Optional() {
		grp.If(value().Op("!=").Nil()).Block(checks...)
	} else {
		for _, c := range checks {
			grp.Add(c)
		}
	}
}

// scalarChecks builds the constraint and enum checks for a scalar attribute.
// deref reports whether the field is a pointer and comparisons must
// dereference it.
func scalarChecks(h gen.GeneratorHelper, scope string, a *gen.Attr, fail func(rule, message string) jen.Code, value func() *jen.Statement, deref bool) []jen.Code {
	// val yields the comparable value expression.
	val := func() *jen.Statement {
		if deref {
			return jen.Op("*").Add(value())
		}
		return value()
	}
	var checks []jen.Code

	if c := a.Constraints; c != nil {
		if a.Type.Kind == gen.KindString && a.Type.Class == gen.ClassScalar {
			if c.MinLength != nil {
				checks = append(checks, jen.If(
					jen.Qual("unicode/utf8", "RuneCountInString").Call(val()).Op("<").Lit(*c.MinLength),
				).Block(fail("minLength", fmt.Sprintf("length must be at least %d", *c.MinLength))))
			}
			if c.MaxLength != nil {
				checks = append(checks, jen.If(
					jen.Qual("unicode/utf8", "RuneCountInString").Call(val()).Op(">").Lit(*c.MaxLength),
				).Block(fail("maxLength", fmt.Sprintf("length must be at most %d", *c.MaxLength))))
			}
			if c.Pattern != "" {
				checks = append(checks, jen.If(
					jen.Op("!").Id(patternVarName(scope, a)).Dot("MatchString").Call(val()),
				).Block(fail("pattern", "does not match the declared pattern")))
			}
		}
		if a.Type.Kind.Numeric() {
			if c.Min != nil {
				checks = append(checks, numericCheck(h, a.Type.Kind, val, "<", *c.Min,
					fail("min", "must be at least "+formatBound(*c.Min))))
			}
			if c.Max != nil {
				checks = append(checks, numericCheck(h, a.Type.Kind, val, ">", *c.Max,
					fail("max", "must be at most "+formatBound(*c.Max))))
			}
		}
	}

	if a.Type.Class == gen.ClassEnum {
		// Value methods auto-dereference, so Valid works on the field
		// expression either way.
		checks = append(checks, jen.If(
			val().Op("!=").Lit("").Op("&&").Op("!").Add(value()).Dot("Valid").Call(),
		).Block(fail("enum", "is not a declared value")))
	}
	return checks
}

// numericCheck compares a numeric value against a bound. Fixed-point values
// compare through Cmp; integer kinds with a fractional bound widen to
// float64 first.
func numericCheck(h gen.GeneratorHelper, k gen.Kind, val func() *jen.Statement, op string, bound float64, onFail jen.Code) jen.Code {
	if k == gen.KindDecimal {
		return jen.If(
			val().Dot("Cmp").Call(
				jen.Qual(h.SubPkgPath("converter"), "NewDecimal").Call(jen.Lit(formatBound(bound))),
			).Op(op).Lit(0),
		).Block(onFail)
	}
	integral := bound == math.Trunc(bound)
	switch k {
	case gen.KindInt, gen.KindLong:
		if integral {
			return jen.If(val().Op(op).Lit(int(bound))).Block(onFail)
		}
		return jen.If(jen.Id("float64").Call(val()).Op(op).Lit(bound)).Block(onFail)
	default:
		if integral {
			return jen.If(val().Op(op).Lit(int(bound))).Block(onFail)
		}
		return jen.If(val().Op(op).Lit(bound)).Block(onFail)
	}
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
