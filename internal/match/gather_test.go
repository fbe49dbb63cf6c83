package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenebind/bind"
	"scenebind/internal/analyze"
	"scenebind/internal/scene"
)

type part struct {
	kind, name string
}

type partTypes struct{}

func (partTypes) Is(obj any, t analyze.TypeID) bool {
	p, ok := obj.(*part)
	return ok && p.kind == t.Name
}

func (partTypes) New(t analyze.TypeID) (any, error) {
	return &part{kind: t.Name}, nil
}

var partU = analyze.TypeID{Name: "U"}

// grandparent(U:g) > parent(U:p) > owner(U:o1, U:o2) > child(U:c) > grandchild(U:gc)
func chain(t *testing.T) *scene.Tree {
	t.Helper()

	tree := scene.NewTree(partTypes{})
	parent := scene.NodeID("")

	for _, n := range []string{"grandparent", "parent", "owner", "child", "grandchild"} {
		_, err := tree.AddNodeWithID(parent, scene.NodeID(n), n)
		require.NoError(t, err)
		parent = scene.NodeID(n)
	}

	attach := func(node, name string) {
		require.NoError(t, tree.Attach(scene.NodeID(node), &part{kind: "U", name: name}))
	}
	attach("grandparent", "g")
	attach("parent", "p")
	attach("owner", "o1")
	attach("owner", "o2")
	attach("child", "c")
	attach("grandchild", "gc")
	require.NoError(t, tree.Attach("owner", &part{kind: "V", name: "other"}))

	return tree
}

func partNames(list CandidateList) []string {
	var out []string
	for _, obj := range list.Objects() {
		out = append(out, obj.(*part).name)
	}

	return out
}

func TestGather_ScopeOrder(t *testing.T) {
	tree := chain(t)

	tests := []struct {
		source bind.Source
		want   []string
	}{
		{bind.Self, []string{"o1", "o2"}},
		{bind.Child, []string{"c", "gc"}},
		{bind.SelfOrChild, []string{"o1", "o2", "c", "gc"}},
		{bind.Parent, []string{"p", "g"}},
		{bind.SelfOrParent, []string{"o1", "o2", "p", "g"}},
		{bind.Any, []string{"o1", "o2", "c", "gc", "p", "g"}},
	}

	for _, tt := range tests {
		t.Run(tt.source.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, partNames(Gather(tree, "owner", partU, tt.source)))
		})
	}
}

func TestGather_Scopes(t *testing.T) {
	list := Gather(chain(t), "owner", partU, bind.Any)

	var scopes []bind.Scopes
	for _, c := range list {
		scopes = append(scopes, c.Scope)
	}

	assert.Equal(t, []bind.Scopes{
		bind.ScopeSelf, bind.ScopeSelf,
		bind.ScopeDescendants, bind.ScopeDescendants,
		bind.ScopeAncestors, bind.ScopeAncestors,
	}, scopes)
	assert.Equal(t, []scene.NodeID{"owner", "owner", "child", "grandchild", "parent", "grandparent"}, list.Nodes())
}

func TestGather_LeafAndRoot(t *testing.T) {
	tree := chain(t)

	assert.Empty(t, Gather(tree, "grandchild", partU, bind.Child))
	assert.Empty(t, Gather(tree, "grandparent", partU, bind.Parent))
	assert.Empty(t, Gather(tree, "owner", analyze.TypeID{Name: "W"}, bind.Any))
}

// selfishGraph reports only the owner's own components from every query,
// the way a native "in children" primitive includes the starting node.
type selfishGraph struct {
	scene.Graph
	own []scene.Attachment
}

func (g selfishGraph) Attached(scene.NodeID, analyze.TypeID) []scene.Attachment      { return g.own }
func (g selfishGraph) InDescendants(scene.NodeID, analyze.TypeID) []scene.Attachment { return g.own }
func (g selfishGraph) InAncestors(scene.NodeID, analyze.TypeID) []scene.Attachment   { return g.own }

func TestGather_ExcludesOwnNodeFromOtherScopes(t *testing.T) {
	g := selfishGraph{own: []scene.Attachment{{Node: "n", Object: &part{kind: "U", name: "mine"}}}}

	assert.Empty(t, Gather(g, "n", partU, bind.Child))
	assert.Empty(t, Gather(g, "n", partU, bind.Parent))
	assert.Equal(t, []string{"mine"}, partNames(Gather(g, "n", partU, bind.Any)))
}

func TestCandidateList_Objects(t *testing.T) {
	var empty CandidateList
	assert.Empty(t, empty.Objects())
	assert.Empty(t, empty.Nodes())

	list := Gather(chain(t), "owner", partU, bind.Child)
	require.Len(t, list.Objects(), 2)
	assert.Equal(t, "c", list.Objects()[0].(*part).name)
}
