// Package scenefile reads and writes scene documents.
//
// A scene document declares a type schema (component types and their bound
// fields), a node tree, and the components attached to each node. Component
// references are stored by id under "refs". Documents are YAML (.yaml,
// .yml) or HCL (.hcl); only YAML is written back.
//
// Build turns a document into a Scene: a scene.Tree of *Component values
// plus a Schema that is both the descriptor registry and the type system the
// resolver needs. Scene.Document converts the result back, including
// components created during resolution.
package scenefile
