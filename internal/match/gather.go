package match

import (
	"scenebind/bind"
	"scenebind/internal/analyze"
	"scenebind/internal/scene"
)

// Candidate is a component eligible for a field, with the scope it was found in.
type Candidate struct {
	scene.Attachment
	Scope bind.Scopes
}

// CandidateList is a scope-ordered candidate set.
type CandidateList []Candidate

// Gather builds the candidate set for a field of type valueType owned by a
// component on node owner.
func Gather(g scene.Graph, owner scene.NodeID, valueType analyze.TypeID, source bind.Source) CandidateList {
	scopes := source.Scopes()

	var list CandidateList

	if scopes.Has(bind.ScopeSelf) {
		list = list.add(g.Attached(owner, valueType), owner, bind.ScopeSelf, true)
	}

	if scopes.Has(bind.ScopeDescendants) {
		list = list.add(g.InDescendants(owner, valueType), owner, bind.ScopeDescendants, false)
	}

	if scopes.Has(bind.ScopeAncestors) {
		list = list.add(g.InAncestors(owner, valueType), owner, bind.ScopeAncestors, false)
	}

	return list
}

func (c CandidateList) add(atts []scene.Attachment, owner scene.NodeID, scope bind.Scopes, own bool) CandidateList {
	for _, a := range atts {
		if (a.Node == owner) != own {
			continue
		}

		c = append(c, Candidate{Attachment: a, Scope: scope})
	}

	return c
}

// Objects returns the candidate components in order.
func (c CandidateList) Objects() []any {
	out := make([]any, 0, len(c))
	for _, cand := range c {
		out = append(out, cand.Object)
	}

	return out
}

// Nodes returns the owning node of each candidate in order.
func (c CandidateList) Nodes() []scene.NodeID {
	out := make([]scene.NodeID, 0, len(c))
	for _, cand := range c {
		out = append(out, cand.Node)
	}

	return out
}
