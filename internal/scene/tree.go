package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"scenebind/internal/analyze"
)

// Node is a point in a Tree.
type Node struct {
	id       NodeID
	name     string
	parent   *Node
	children []*Node
	objects  []any
}

// ID returns the node id.
func (n *Node) ID() NodeID { return n.id }

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Objects returns the attached components in attach order.
func (n *Node) Objects() []any { return slices.Clone(n.objects) }

// Path returns the slash separated names from the root down to n.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}

	slices.Reverse(parts)

	return strings.Join(parts, "/")
}

// Tree is an in-memory scene. It is not safe for concurrent use.
type Tree struct {
	types    TypeSystem
	roots    []*Node
	nodes    map[NodeID]*Node
	modified []NodeID
}

var _ Graph = (*Tree)(nil)

// NewTree creates an empty tree whose components are typed by types.
func NewTree(types TypeSystem) *Tree {
	return &Tree{
		types: types,
		nodes: make(map[NodeID]*Node),
	}
}

// AddNode adds a node under parent (empty parent adds a root) with a
// generated id.
func (t *Tree) AddNode(parent NodeID, name string) (*Node, error) {
	return t.AddNodeWithID(parent, NodeID(uuid.NewString()), name)
}

// AddNodeWithID adds a node with a caller chosen id.
func (t *Tree) AddNodeWithID(parent, id NodeID, name string) (*Node, error) {
	if _, exists := t.nodes[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}

	n := &Node{id: id, name: name}

	if parent == "" {
		t.roots = append(t.roots, n)
	} else {
		p, ok := t.nodes[parent]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s", ErrUnknownNode, parent)
		}

		n.parent = p
		p.children = append(p.children, n)
	}

	t.nodes[id] = n

	return n, nil
}

// Attach adds obj to node n.
func (t *Tree) Attach(n NodeID, obj any) error {
	node, ok := t.nodes[n]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, n)
	}

	node.objects = append(node.objects, obj)

	return nil
}

// Detach implements Graph.
func (t *Tree) Detach(n NodeID, obj any) bool {
	node, ok := t.nodes[n]
	if !ok {
		return false
	}

	i := slices.IndexFunc(node.objects, func(o any) bool { return o == obj })
	if i < 0 {
		return false
	}

	node.objects = slices.Delete(node.objects, i, i+1)

	return true
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Roots returns the root nodes in insertion order.
func (t *Tree) Roots() []*Node {
	return slices.Clone(t.roots)
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every node depth first, parents before children. Returning
// false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	for _, r := range t.roots {
		walk(r, fn)
	}
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, c := range n.children {
		walk(c, fn)
	}
}

// Modified returns the nodes marked modified since the last ClearModified,
// in the order they were first marked.
func (t *Tree) Modified() []NodeID {
	return slices.Clone(t.modified)
}

// ClearModified forgets all modification marks.
func (t *Tree) ClearModified() {
	t.modified = nil
}

// Instances implements Graph.
func (t *Tree) Instances(typ analyze.TypeID) []Attachment {
	var out []Attachment

	t.Walk(func(n *Node) bool {
		out = t.collect(out, n, typ)
		return true
	})

	return out
}

// Attached implements Graph.
func (t *Tree) Attached(id NodeID, typ analyze.TypeID) []Attachment {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}

	return t.collect(nil, n, typ)
}

// InDescendants implements Graph. The result starts with n's own components.
func (t *Tree) InDescendants(id NodeID, typ analyze.TypeID) []Attachment {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}

	var out []Attachment
	walk(n, func(cur *Node) bool {
		out = t.collect(out, cur, typ)
		return true
	})

	return out
}

// InAncestors implements Graph. The result starts with n's own components.
func (t *Tree) InAncestors(id NodeID, typ analyze.TypeID) []Attachment {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}

	var out []Attachment
	for cur := n; cur != nil; cur = cur.parent {
		out = t.collect(out, cur, typ)
	}

	return out
}

// Create implements Graph.
func (t *Tree) Create(id NodeID, typ analyze.TypeID) (any, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	obj, err := t.types.New(typ)
	if err != nil {
		return nil, fmt.Errorf("create %s on %s: %w", typ.Short(), n.Path(), err)
	}

	n.objects = append(n.objects, obj)

	return obj, nil
}

// MarkModified implements Graph.
func (t *Tree) MarkModified(id NodeID) {
	if _, ok := t.nodes[id]; !ok || slices.Contains(t.modified, id) {
		return
	}

	t.modified = append(t.modified, id)
}

// Describe implements Graph.
func (t *Tree) Describe(id NodeID) string {
	if n, ok := t.nodes[id]; ok {
		return n.Path()
	}

	return string(id)
}

func (t *Tree) collect(out []Attachment, n *Node, typ analyze.TypeID) []Attachment {
	for _, obj := range n.objects {
		if t.types.Is(obj, typ) {
			out = append(out, Attachment{Node: n.id, Object: obj})
		}
	}

	return out
}
