package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"scenebind/internal/analyze"
	"scenebind/internal/diagnostic"
	"scenebind/internal/resolve"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	return t
}

func severityText(s diagnostic.Severity) string {
	switch s {
	case diagnostic.SeverityError:
		return text.FgRed.Sprint(s.String())
	case diagnostic.SeverityWarning:
		return text.FgYellow.Sprint(s.String())
	default:
		return text.FgCyan.Sprint(s.String())
	}
}

func renderDiagnostics(w io.Writer, diags diagnostic.Diagnostics) {
	if diags.Len() == 0 {
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"SEVERITY", "CODE", "NODE", "FIELD", "MESSAGE"})

	for _, d := range diags.All() {
		node := d.Node
		if node == "" {
			node = d.Position
		}

		t.AppendRow(table.Row{severityText(d.Severity), d.Code, node, d.Field, d.Message})
	}

	t.Render()
}

func renderResult(w io.Writer, res *resolveResult) {
	fmt.Fprintf(w, "%s\n", text.Bold.Sprint(res.path))

	renderDiagnostics(w, res.diags)

	summary := fmt.Sprintf("%d fields, %d bindings", res.stats.Fields, res.stats.Instances)
	for _, o := range resolve.Outcomes {
		if n := res.stats.Count(o); n > 0 {
			summary += fmt.Sprintf(", %s %d", o, n)
		}
	}
	if res.stats.Failed > 0 {
		summary += fmt.Sprintf(", failed %d", res.stats.Failed)
	}

	fmt.Fprintln(w, summary)

	if res.written != "" {
		fmt.Fprintf(w, "wrote %s\n", res.written)
	}
}

func renderBindings(w io.Writer, bindings []resolve.Binding) {
	t := newTable(w)
	t.AppendHeader(table.Row{"NODE", "FIELD", "TYPE", "SOURCE", "STRICT", "VALUE"})

	for _, b := range bindings {
		value := text.Faint.Sprint("<unset>")
		switch {
		case b.Err != nil:
			value = text.FgRed.Sprint(b.Err.Error())
		case b.Value != nil:
			value = fmt.Sprint(b.Value)
		}

		t.AppendRow(table.Row{
			b.NodeName,
			b.Descriptor.Path(),
			b.Descriptor.ValueType.Short(),
			b.Descriptor.Source.String(),
			strconv.FormatBool(b.Descriptor.Strict),
			value,
		})
	}

	t.Render()
}

func renderFields(w io.Writer, fields []analyze.TaggedField) {
	t := newTable(w)
	t.AppendHeader(table.Row{"FIELD", "TYPE", "SOURCE", "STRICT", "POSITION"})

	for _, f := range fields {
		t.AppendRow(table.Row{
			f.Type.Short() + "." + f.Field,
			f.ValueExpr,
			f.Options.Source.String(),
			strconv.FormatBool(f.Options.Strict),
			f.Pos.String(),
		})
	}

	t.Render()
}
