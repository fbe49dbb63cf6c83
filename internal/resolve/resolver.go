package resolve

import (
	"fmt"
	"log/slog"

	"scenebind/internal/common"
	"scenebind/internal/descriptor"
	"scenebind/internal/diagnostic"
	"scenebind/internal/match"
	"scenebind/internal/plan"
	"scenebind/internal/scene"
)

// Resolver binds fields discovered by a registry on the components of a
// scene graph. It keeps the planned field order until Invalidate is called.
//
// A Resolver is not safe for concurrent use, and the graph must not be
// changed by anyone else while Resolve runs.
type Resolver struct {
	registry descriptor.Registry
	graph    scene.Graph
	reporter diagnostic.Reporter
	logger   *slog.Logger

	ordered []descriptor.Descriptor
	ready   bool
	last    Stats
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithReporter sets where binding events go. The default logs them with
// slog.Default().
func WithReporter(r diagnostic.Reporter) Option {
	return func(res *Resolver) {
		if r != nil {
			res.reporter = r
		}
	}
}

// WithLogger sets the logger for pass level debug records. The default
// discards them.
func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) {
		if l != nil {
			res.logger = l
		}
	}
}

// New creates a Resolver. The descriptor order is computed on the first
// Resolve or an explicit Init.
func New(registry descriptor.Registry, graph scene.Graph, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		graph:    graph,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.reporter == nil {
		r.reporter = diagnostic.NewLogReporter(nil)
	}

	return r
}

// Init discovers the bound fields and plans their order.
func (r *Resolver) Init() {
	r.ordered = plan.Order(r.registry.Discover())
	r.ready = true

	r.logger.Debug("planned bound fields", slog.Int("fields", len(r.ordered)))
}

// Invalidate drops the planned order; the next Resolve discovers again.
// Call it whenever the registry's descriptor set changes.
func (r *Resolver) Invalidate() {
	r.ordered = nil
	r.ready = false
}

// Descriptors returns the planned field order, planning it if needed.
func (r *Resolver) Descriptors() []descriptor.Descriptor {
	if !r.ready {
		r.Init()
	}

	return r.ordered
}

// LastPass returns the counters of the most recent Resolve.
func (r *Resolver) LastPass() Stats {
	return r.last
}

// Resolve runs one full pass over every planned field and every live
// component declaring it. It is safe to call repeatedly: fields that are
// already bound see their own value as the single candidate and keep it.
func (r *Resolver) Resolve() {
	stats := newStats()

	for _, d := range r.Descriptors() {
		stats.Fields++

		for _, inst := range r.graph.Instances(d.DeclaringType) {
			stats.Instances++
			r.bind(d, inst, &stats)
		}
	}

	r.last = stats
	r.logger.Debug("resolution pass finished", slog.Any("stats", stats))
}

func (r *Resolver) bind(d descriptor.Descriptor, inst scene.Attachment, stats *Stats) {
	// Nothing is created for a field that cannot be reached.
	if _, err := d.Value(inst.Object); err != nil {
		stats.Failed++
		r.report(diagnostic.SeverityError, diagnostic.CodeAssignFailed, d, inst.Node,
			fmt.Sprintf("could not read field of %s: %v", r.context(d, inst.Node), err))

		return
	}

	candidates := match.Gather(r.graph, inst.Node, d.ValueType, d.Source)
	outcome := Decide(len(candidates), d.Source, d.Strict)
	stats.Outcomes[outcome]++

	r.logger.Debug("field resolved",
		slog.String("field", d.Path()),
		slog.String("node", string(inst.Node)),
		slog.Any("candidates", candidates.Nodes()),
		slog.String("outcome", outcome.String()))

	if !outcome.Writes() {
		r.reportOutcome(outcome, d, inst.Node)
		return
	}

	value, _ := common.First(candidates.Objects())
	if outcome == Created {
		obj, err := r.graph.Create(inst.Node, d.ValueType)
		if err != nil {
			stats.Failed++
			r.report(diagnostic.SeverityError, diagnostic.CodeCreateFailed, d, inst.Node,
				fmt.Sprintf("could not create a component of %s: %v", r.context(d, inst.Node), err))

			return
		}

		value = obj
	}

	if err := d.Assign(inst.Object, value); err != nil {
		if outcome == Created {
			r.graph.Detach(inst.Node, value)
		}

		stats.Failed++
		r.report(diagnostic.SeverityError, diagnostic.CodeAssignFailed, d, inst.Node,
			fmt.Sprintf("could not assign component of %s: %v", r.context(d, inst.Node), err))

		return
	}

	r.graph.MarkModified(inst.Node)
	r.reportOutcome(outcome, d, inst.Node)
}

func (r *Resolver) reportOutcome(o Outcome, d descriptor.Descriptor, node scene.NodeID) {
	sev, ok := o.Severity()
	if !ok {
		return
	}

	ctx := r.context(d, node)

	var msg string
	switch o {
	case Created:
		msg = fmt.Sprintf("could not find any component of %s; source is self, created a new component", ctx)
	case AssignedFirstOfMany:
		msg = fmt.Sprintf("there is more than one component of %s; selected the first encountered component", ctx)
	case NotFound:
		msg = fmt.Sprintf("could not find any component of %s", ctx)
	case AmbiguousStrict:
		msg = fmt.Sprintf("there is more than one component of %s", ctx)
	}

	r.report(sev, o.Code(), d, node, msg)
}

func (r *Resolver) report(sev diagnostic.Severity, code string, d descriptor.Descriptor, node scene.NodeID, msg string) {
	r.reporter.Report(diagnostic.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Node:     r.graph.Describe(node),
		Field:    d.Path(),
		Type:     d.ValueType.Short(),
	})
}

// context names everything needed to find the failing field, e.g.
// "type components.Emitter to assign to Turret.Muzzle field (source: child - strict) in Root/Gun node".
func (r *Resolver) context(d descriptor.Descriptor, node scene.NodeID) string {
	strict := ""
	if d.Strict {
		strict = " - strict"
	}

	return fmt.Sprintf("type %s to assign to %s field (source: %s%s) in %s node",
		d.ValueType.Short(), d.Path(), d.Source, strict, r.graph.Describe(node))
}
