// Package plan orders bound fields for a resolution pass.
//
// Fields that may create a component (source=self) run before every other
// field so that later fields see what was created. Among the rest, strict
// fields run before non-strict ones. Ties keep discovery order, which makes
// the order total and repeatable for a given descriptor set.
package plan
