package ddb

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dynagen/compiler/gen"
)

// genModelType generates one nested structural type (model/{type}.go). The
// model package is flat: ancestor-qualified names keep it collision-free at
// any nesting depth.
func genModelType(h gen.GeneratorHelper, e *gen.Entity, gt *gen.GeneratedType) *jen.File {
	f := newFile(h, h.SubPkgPath("model"))

	genEnumDecls(f, scopeEnums(gt.Attrs))

	if gt.Description != "" {
		f.Commentf("%s is %s", gt.QualifiedName, lowerFirstWord(gt.Description))
	} else {
		f.Commentf("%s is a nested structure of the %s entity.", gt.QualifiedName, e.Name)
	}
	f.Type().Id(gt.QualifiedName).StructFunc(func(grp *jen.Group) {
		genStructFields(h, grp, gt.Attrs)
	})

	f.Commentf("New%s creates a %s with schema defaults applied.", gt.QualifiedName, gt.QualifiedName)
	f.Func().Id("New" + gt.QualifiedName).Params().Op("*").Id(gt.QualifiedName).BlockFunc(func(grp *jen.Group) {
		grp.Id("_m").Op(":=").Op("&").Id(gt.QualifiedName).Values()
		genDefaultAssignments(h, grp, gt.Attrs, "_m")
		grp.Return(jen.Id("_m"))
	})

	genStringMethod(f, gt.QualifiedName, gt.Attrs)
	genEqualMethod(f, gt.QualifiedName)
	genMustTime(h, f, gt.Attrs)

	return f
}
