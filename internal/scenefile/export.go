package scenefile

import (
	"maps"
	"slices"
	"strings"

	"scenebind/internal/analyze"
)

// SchemaFromFields converts bound fields discovered in Go source into
// document type declarations. is maps a struct type to the structs it
// embeds and the interfaces it implements (analyze.Analyzer.Is). Types are
// named as Go spells them from another package, e.g. "components.Turret".
// Interface value types are declared abstract.
func SchemaFromFields(fields []analyze.TaggedField, is map[analyze.TypeID][]analyze.TypeID) []TypeDecl {
	var (
		decls []TypeDecl
		ids   []analyze.TypeID
		index = make(map[analyze.TypeID]int)
	)

	declare := func(id analyze.TypeID) int {
		if i, ok := index[id]; ok {
			return i
		}

		index[id] = len(decls)
		decls = append(decls, TypeDecl{Name: id.Short()})
		ids = append(ids, id)

		return len(decls) - 1
	}

	for _, f := range fields {
		i := declare(f.Type)

		field := FieldDecl{
			Name:   f.Field,
			Type:   f.ValueType.Short(),
			Source: f.Options.Source,
		}
		if !f.Options.Strict {
			strict := false
			field.Strict = &strict
		}

		decls[i].Fields = append(decls[i].Fields, field)
	}

	// Value types after owners, so a document reads top-down.
	for _, f := range fields {
		i := declare(f.ValueType)
		decls[i].Abstract = f.Interface
	}

	// Structs without bound fields of their own still inherit them through
	// embedding, and still count as the interfaces they implement.
	for _, id := range slices.SortedFunc(maps.Keys(is), func(x, y analyze.TypeID) int {
		return strings.Compare(x.String(), y.String())
	}) {
		if slices.ContainsFunc(is[id], func(s analyze.TypeID) bool { _, ok := index[s]; return ok }) {
			declare(id)
		}
	}

	for i, id := range ids {
		for _, super := range is[id] {
			decls[i].Is = append(decls[i].Is, super.Short())
		}
	}

	return decls
}
