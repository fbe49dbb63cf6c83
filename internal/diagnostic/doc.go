// Package diagnostic provides structured binding events for scenebind.
//
// Every binding outcome other than a plain assignment is reported:
//   - info for a synthesized component
//   - warning when a non-strict field picked the first of several candidates
//   - error when nothing was found or a strict field saw several candidates
//
// Diagnostics collects events for callers that want to aggregate them;
// LogReporter forwards them to a slog.Logger.
package diagnostic
