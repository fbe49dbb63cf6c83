package broken

type Part struct{}

// Holder declares bindings the analyzer must flag.
type Holder struct {
	Value  Part  `bind:""`
	Bad    *Part `bind:"source=sideways"`
	hidden *Part `bind:"child"`
	Count  int   `bind:"parent"`
}
