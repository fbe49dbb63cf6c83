package analyze

import (
	"fmt"
	"go/types"
	"maps"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"scenebind/bind"
	"scenebind/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and collects bound fields.
type Analyzer struct {
	// Dir is the directory patterns are resolved in. Empty means the
	// current working directory.
	Dir string

	fields  []TaggedField
	is      map[TypeID][]TypeID
	structs map[TypeID]*types.Named
	ifaces  map[TypeID]*types.Interface
	diags   diagnostic.Diagnostics
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		is:      make(map[TypeID][]TypeID),
		structs: make(map[TypeID]*types.Named),
		ifaces:  make(map[TypeID]*types.Interface),
	}
}

// LoadPackages loads the specified packages and returns their bound fields
// ordered by package, type and field declaration.
// Patterns are standard Go package patterns (e.g., "./components", "scenebind/examples/...").
func (a *Analyzer) LoadPackages(patterns ...string) ([]TaggedField, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	a.collectImplements()

	return a.fields, nil
}

// Fields returns every bound field found so far.
func (a *Analyzer) Fields() []TaggedField {
	return a.fields
}

// Is returns, for every struct type seen, the named structs it embeds and
// the bound interface types it implements, in that order. Types with
// neither are absent.
func (a *Analyzer) Is() map[TypeID][]TypeID {
	return a.is
}

// collectImplements records which loaded structs implement the interfaces
// used as bound field types.
func (a *Analyzer) collectImplements() {
	ifaceIDs := slices.SortedFunc(maps.Keys(a.ifaces), compareTypeID)

	for _, sid := range slices.SortedFunc(maps.Keys(a.structs), compareTypeID) {
		ptr := types.NewPointer(a.structs[sid])

		for _, iid := range ifaceIDs {
			if types.Implements(ptr, a.ifaces[iid]) && !slices.Contains(a.is[sid], iid) {
				a.is[sid] = append(a.is[sid], iid)
			}
		}
	}
}

func compareTypeID(x, y TypeID) int {
	return strings.Compare(x.String(), y.String())
}

// Diagnostics returns problems found in bind declarations.
func (a *Analyzer) Diagnostics() diagnostic.Diagnostics {
	return a.diags
}

// processPackage extracts bound fields from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	qualifier := types.RelativeTo(pkg.Types)

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		st, ok := typeName.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		owner := TypeID{PkgPath: pkg.PkgPath, Name: name}
		if named, ok := typeName.Type().(*types.Named); ok {
			a.structs[owner] = named
		}

		for i := range st.NumFields() {
			field := st.Field(i)
			if field.Embedded() {
				if id, ok := namedStruct(field.Type()); ok {
					a.is[owner] = append(a.is[owner], id)
				}
			}

			pos := pkg.Fset.Position(field.Pos())
			path := owner.Name + "." + field.Name()

			opts, ok, err := bind.Lookup(reflect.StructTag(st.Tag(i)))
			if err != nil {
				a.diags.Report(diagnostic.Diagnostic{
					Severity: diagnostic.SeverityError,
					Code:     diagnostic.CodeInvalidTag,
					Message:  err.Error(),
					Field:    path,
					Position: pos.String(),
				})

				continue
			}
			if !ok {
				continue
			}

			valueType, isInterface, bindable := valueTypeOf(field.Type())
			if iface, ok := field.Type().Underlying().(*types.Interface); ok && isInterface && bindable {
				a.ifaces[valueType] = iface
			}
			tf := TaggedField{
				Type:      owner,
				Field:     field.Name(),
				ValueType: valueType,
				Interface: isInterface,
				ValueExpr: types.TypeString(field.Type(), qualifier),
				Options:   opts,
				Exported:  field.Exported(),
				Pos:       pos,
			}

			if !bindable {
				a.diags.Report(diagnostic.Diagnostic{
					Severity: diagnostic.SeverityWarning,
					Code:     diagnostic.CodeFieldType,
					Message:  fmt.Sprintf("bound field has type %s; use a pointer to a named type or a named interface", tf.ValueExpr),
					Field:    path,
					Type:     tf.ValueExpr,
					Position: pos.String(),
				})
			}

			if !tf.Exported {
				a.diags.Report(diagnostic.Diagnostic{
					Severity: diagnostic.SeverityWarning,
					Code:     diagnostic.CodeUnexported,
					Message:  "unexported bound field cannot be assigned through reflection",
					Field:    path,
					Position: pos.String(),
				})
			}

			a.fields = append(a.fields, tf)
		}
	}
}

// valueTypeOf names the type a field binds to. bindable is false unless the
// field is a pointer to a named type or a named interface.
func valueTypeOf(t types.Type) (id TypeID, isInterface, bindable bool) {
	pointer := false
	if p, ok := types.Unalias(t).(*types.Pointer); ok {
		t = p.Elem()
		pointer = true
	}

	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return TypeID{Name: t.String()}, false, false
	}

	obj := named.Obj()
	if obj.Pkg() != nil {
		id.PkgPath = obj.Pkg().Path()
	}
	id.Name = obj.Name()

	_, isInterface = named.Underlying().(*types.Interface)

	return id, isInterface, pointer != isInterface
}

func namedStruct(t types.Type) (TypeID, bool) {
	if p, ok := types.Unalias(t).(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return TypeID{}, false
	}

	if _, ok := named.Underlying().(*types.Struct); !ok {
		return TypeID{}, false
	}

	return TypeID{PkgPath: named.Obj().Pkg().Path(), Name: named.Obj().Name()}, true
}
