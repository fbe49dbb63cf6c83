package scenefile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"scenebind/bind"
)

// hclFile is the top-level structure of an HCL scene document:
//
//	version = "1"
//
//	type "Turret" {
//	  is = ["Actor"]
//	  field "Muzzle" {
//	    type   = "Emitter"
//	    source = "child"
//	    strict = false
//	  }
//	}
//
//	node "Ship" {
//	  component "Ship" {
//	    id   = "ship"
//	    refs = { Transform = "ship-transform" }
//	  }
//	  node "Gun" { ... }
//	}
type hclFile struct {
	Version *string    `hcl:"version,optional"`
	Types   []*hclType `hcl:"type,block"`
	Nodes   []*hclNode `hcl:"node,block"`
}

type hclType struct {
	Name     string      `hcl:"name,label"`
	Is       []string    `hcl:"is,optional"`
	Abstract *bool       `hcl:"abstract,optional"`
	Fields   []*hclField `hcl:"field,block"`
}

type hclField struct {
	Name   string  `hcl:"name,label"`
	Type   string  `hcl:"type"`
	Source *string `hcl:"source,optional"`
	Strict *bool   `hcl:"strict,optional"`
}

type hclNode struct {
	Name       string          `hcl:"name,label"`
	ID         *string         `hcl:"id,optional"`
	Components []*hclComponent `hcl:"component,block"`
	Children   []*hclNode      `hcl:"node,block"`
}

type hclComponent struct {
	Type string  `hcl:"type,label"`
	ID   *string `hcl:"id,optional"`
	// Refs is kept as an expression so both object and map syntax work.
	Refs hcl.Expression `hcl:"refs,optional"`
}

func parseHCL(data []byte, filename string) (*Document, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	doc := &Document{Version: deref(parsed.Version)}

	for _, t := range parsed.Types {
		decl, err := t.decl()
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
		}

		doc.Types = append(doc.Types, decl)
	}

	for _, n := range parsed.Nodes {
		decl, err := n.decl()
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
		}

		doc.Nodes = append(doc.Nodes, decl)
	}

	return doc, nil
}

func (t *hclType) decl() (TypeDecl, error) {
	decl := TypeDecl{
		Name:     t.Name,
		Is:       t.Is,
		Abstract: t.Abstract != nil && *t.Abstract,
	}

	for _, f := range t.Fields {
		field := FieldDecl{Name: f.Name, Type: f.Type, Strict: f.Strict}

		if f.Source != nil {
			src, err := bind.ParseSource(*f.Source)
			if err != nil {
				return TypeDecl{}, fmt.Errorf("type %s field %s: %w", t.Name, f.Name, err)
			}

			field.Source = src
		}

		decl.Fields = append(decl.Fields, field)
	}

	return decl, nil
}

func (n *hclNode) decl() (NodeDecl, error) {
	decl := NodeDecl{Name: n.Name, ID: deref(n.ID)}

	for _, c := range n.Components {
		refs, err := decodeRefs(c.Refs)
		if err != nil {
			return NodeDecl{}, fmt.Errorf("node %s component %s: %w", n.Name, c.Type, err)
		}

		decl.Components = append(decl.Components, ComponentDecl{
			Type: c.Type,
			ID:   deref(c.ID),
			Refs: refs,
		})
	}

	for _, child := range n.Children {
		childDecl, err := child.decl()
		if err != nil {
			return NodeDecl{}, err
		}

		decl.Children = append(decl.Children, childDecl)
	}

	return decl, nil
}

// decodeRefs evaluates a refs expression into field -> component id.
// The value must be an object or map of strings.
func decodeRefs(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("refs: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("refs must be an object, got %s", ty.FriendlyName())
	}

	refs := make(map[string]string, val.LengthInt())

	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
			return nil, fmt.Errorf("refs.%s must be a component id string, got %s", k.AsString(), v.Type().FriendlyName())
		}

		refs[k.AsString()] = v.AsString()
	}

	if len(refs) == 0 {
		return nil, nil
	}

	return refs, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
