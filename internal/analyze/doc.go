// Package analyze identifies component types and finds bound fields in Go
// source.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to list
// every struct field carrying a `bind` tag, without running the code.
//
// Key types:
//   - TypeID: package import path + type name, shared by every registry
//   - TaggedField: one bound field as declared in source
package analyze
