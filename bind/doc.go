// Package bind is the declaration surface for scene bindings.
//
// A bound field names where its value comes from and how conflicts are
// handled:
//
//	type Turret struct {
//		Body   *Rigidbody `bind:""`                        // self, strict
//		Target Targeter   `bind:"source=parent"`           // nearest owner up the tree
//		Muzzle *Emitter   `bind:"source=child,strict=false"`
//	}
//
// The zero Options value is not the default: an empty tag means
// source=self and strict=true (see DefaultOptions).
package bind
