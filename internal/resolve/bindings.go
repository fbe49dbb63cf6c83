package resolve

import (
	"scenebind/internal/descriptor"
	"scenebind/internal/scene"
)

// Binding is the current value of one bound field on one component, for
// display. Nothing writes through it.
type Binding struct {
	Descriptor descriptor.Descriptor
	Node       scene.NodeID
	NodeName   string
	Instance   any
	// Value is nil when the field is unset.
	Value any
	// Err is set when the value could not be read.
	Err error
}

// Bindings reads every bound field on every live component, in plan order.
// It does not resolve anything.
func (r *Resolver) Bindings() []Binding {
	var out []Binding

	for _, d := range r.Descriptors() {
		for _, inst := range r.graph.Instances(d.DeclaringType) {
			value, err := d.Value(inst.Object)
			out = append(out, Binding{
				Descriptor: d,
				Node:       inst.Node,
				NodeName:   r.graph.Describe(inst.Node),
				Instance:   inst.Object,
				Value:      value,
				Err:        err,
			})
		}
	}

	return out
}
