// Package resolve runs resolution passes: for every bound field, in plan
// order, and every live component declaring it, pick the component the
// field should reference and assign it.
//
// A pass never stops early. Each (field, component) pair ends in one
// Outcome; outcomes other than Assigned are reported as diagnostics and the
// pass moves on. Only Assigned, Created and AssignedFirstOfMany write the
// field, and only a self field with no candidate creates a component.
package resolve
