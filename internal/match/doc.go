// Package match gathers the candidate components for a bound field.
//
// Candidates are collected per scope in a fixed order: the field owner's
// own node, then its descendants, then its ancestors. Components on the
// owner's node only ever count as self candidates, even when the scene's
// descendant or ancestor query includes the node itself. Order inside one
// scope is whatever the scene enumerates.
//
// Suggest finds the closest known name for error hints.
package match
