// Package scene models the node tree that components are attached to.
//
// Graph is the only view of a scene the resolver needs: typed queries on a
// node, its descendants and its ancestors, plus creation of a component on
// a node. Tree is the in-memory implementation used by scene documents and
// tests; it delegates type questions to a TypeSystem so the same tree can
// hold Go structs or document-declared components.
package scene
