package scene

import (
	"errors"

	"scenebind/internal/analyze"
)

var (
	// ErrUnknownNode is returned for node ids the tree does not hold.
	ErrUnknownNode = errors.New("unknown node")
	// ErrDuplicateNode is returned when a node id is added twice.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrUnknownType is returned by a TypeSystem for types it cannot build.
	ErrUnknownType = errors.New("unknown component type")
)

// NodeID identifies a node within one scene.
type NodeID string

// Attachment is a component together with the node that owns it.
type Attachment struct {
	Node   NodeID
	Object any
}

// Graph is the scene capability the resolver works against.
//
// InDescendants and InAncestors may include n's own components; callers
// that need strict descendants or ancestors filter on Attachment.Node.
type Graph interface {
	// Instances returns every live component of type t with its node.
	Instances(t analyze.TypeID) []Attachment
	// Attached returns the components of type t on n.
	Attached(n NodeID, t analyze.TypeID) []Attachment
	// InDescendants returns components of type t in n's subtree.
	InDescendants(n NodeID, t analyze.TypeID) []Attachment
	// InAncestors returns components of type t on n's parent chain, nearest first.
	InAncestors(n NodeID, t analyze.TypeID) []Attachment
	// Create attaches a new component of type t to n and returns it.
	Create(n NodeID, t analyze.TypeID) (any, error)
	// Detach removes obj from n and reports whether it was there.
	Detach(n NodeID, obj any) bool
	// MarkModified flags n as changed so the owner persists it.
	MarkModified(n NodeID)
	// Describe returns a human-readable identity for n.
	Describe(n NodeID) string
}

// TypeSystem answers type questions about attached objects.
type TypeSystem interface {
	// Is reports whether obj counts as a component of type t.
	Is(obj any, t analyze.TypeID) bool
	// New returns a fresh component of type t.
	New(t analyze.TypeID) (any, error)
}
