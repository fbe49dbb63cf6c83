package scenefile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"scenebind/internal/match"
	"scenebind/internal/scene"
)

// Component is a component loaded from, or created for, a scene document.
type Component struct {
	ID   string
	Type string
	// Refs holds bound field values by field name.
	Refs map[string]*Component

	// generated ids are only written back when something refers to them.
	generated bool
}

func (c *Component) String() string {
	return c.Type + "#" + c.ID
}

// Scene is a built document ready for resolution.
type Scene struct {
	Tree   *scene.Tree
	Schema *Schema

	version        string
	generatedNodes map[scene.NodeID]bool
}

// Build creates the scene tree and schema of doc and links component refs.
func Build(doc *Document) (*Scene, error) {
	schema, err := NewSchema(doc.Types)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Tree:           scene.NewTree(schema),
		Schema:         schema,
		version:        doc.Version,
		generatedNodes: make(map[scene.NodeID]bool),
	}

	b := &builder{
		scene:      s,
		components: make(map[string]*Component),
	}

	for _, n := range doc.Nodes {
		if err := b.addNode("", n); err != nil {
			return nil, err
		}
	}

	if err := b.link(); err != nil {
		return nil, err
	}

	return s, nil
}

type builder struct {
	scene      *Scene
	components map[string]*Component
	pending    []pendingRefs
}

type pendingRefs struct {
	component *Component
	node      string
	refs      map[string]string
}

func (b *builder) addNode(parent scene.NodeID, decl NodeDecl) error {
	id := scene.NodeID(decl.ID)
	if id == "" {
		id = scene.NodeID(uuid.NewString())
		b.scene.generatedNodes[id] = true
	}

	node, err := b.scene.Tree.AddNodeWithID(parent, id, decl.Name)
	if err != nil {
		return fmt.Errorf("node %s: %w", decl.Name, err)
	}

	for _, cd := range decl.Components {
		if cd.Type == "" {
			return fmt.Errorf("%w: component without a type on node %s", ErrInvalidSchema, node.Path())
		}

		c := &Component{ID: cd.ID, Type: cd.Type}
		if c.ID == "" {
			c.ID = uuid.NewString()
			c.generated = true
		}

		if _, dup := b.components[c.ID]; dup {
			return fmt.Errorf("%w: component %s on node %s", ErrDuplicateID, c.ID, node.Path())
		}
		b.components[c.ID] = c

		b.scene.Schema.addImplicit(c.Type)

		if len(cd.Refs) > 0 {
			b.pending = append(b.pending, pendingRefs{component: c, node: node.Path(), refs: cd.Refs})
		}

		if err := b.scene.Tree.Attach(id, c); err != nil {
			return err
		}
	}

	for _, child := range decl.Children {
		if err := b.addNode(id, child); err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) link() error {
	for _, p := range b.pending {
		for _, field := range slices.Sorted(maps.Keys(p.refs)) {
			target := p.refs[field]

			decl, _, ok := b.scene.Schema.Field(p.component.Type, field)
			if !ok {
				return fmt.Errorf("%w: %s.%s on node %s%s", ErrUnknownField, p.component.Type, field, p.node,
					hint(field, b.scene.Schema.FieldNames(p.component.Type)))
			}

			ref, ok := b.components[target]
			if !ok {
				return fmt.Errorf("%w: %s.%s on node %s refers to %q%s", ErrUnknownRef, p.component.Type, field, p.node, target,
					hint(target, slices.Sorted(maps.Keys(b.components))))
			}

			if !b.scene.Schema.Counts(ref.Type, decl.Type) {
				return fmt.Errorf("%w: %s.%s on node %s wants %s, %s is %s",
					ErrUnknownRef, p.component.Type, field, p.node, decl.Type, target, ref.Type)
			}

			if p.component.Refs == nil {
				p.component.Refs = make(map[string]*Component, len(p.refs))
			}
			p.component.Refs[field] = ref
		}
	}

	return nil
}

// hint suggests a known name close to a misspelled one.
func hint(name string, known []string) string {
	if s, ok := match.Suggest(name, known); ok {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}

	return ""
}

// Component finds a component by id anywhere in the tree.
func (s *Scene) Component(id string) (*Component, bool) {
	var found *Component

	s.Tree.Walk(func(n *scene.Node) bool {
		if found != nil {
			return false
		}

		for _, obj := range n.Objects() {
			if c, ok := obj.(*Component); ok && c.ID == id {
				found = c
				return false
			}
		}

		return true
	})

	return found, found != nil
}

// Document converts the scene back to its serialized form. Generated ids
// are kept only where a ref points at the component, so a scene that did
// not change serializes to the same bytes.
func (s *Scene) Document() *Document {
	referenced := make(map[*Component]bool)
	s.Tree.Walk(func(n *scene.Node) bool {
		for _, obj := range n.Objects() {
			if c, ok := obj.(*Component); ok {
				for _, ref := range c.Refs {
					referenced[ref] = true
				}
			}
		}

		return true
	})

	doc := &Document{
		Version: s.version,
		Types:   s.Schema.Decls(),
	}

	for _, root := range s.Tree.Roots() {
		doc.Nodes = append(doc.Nodes, s.nodeDecl(root, referenced))
	}

	return doc
}

func (s *Scene) nodeDecl(n *scene.Node, referenced map[*Component]bool) NodeDecl {
	decl := NodeDecl{Name: n.Name()}
	if !s.generatedNodes[n.ID()] {
		decl.ID = string(n.ID())
	}

	for _, obj := range n.Objects() {
		c, ok := obj.(*Component)
		if !ok {
			continue
		}

		cd := ComponentDecl{Type: c.Type}
		if !c.generated || referenced[c] {
			cd.ID = c.ID
		}

		if len(c.Refs) > 0 {
			cd.Refs = make(map[string]string, len(c.Refs))
			for field, ref := range c.Refs {
				cd.Refs[field] = ref.ID
			}
		}

		decl.Components = append(decl.Components, cd)
	}

	for _, child := range n.Children() {
		decl.Children = append(decl.Children, s.nodeDecl(child, referenced))
	}

	return decl
}
