// Package audit persists match decisions and operator actions to SQLite.
//
// Every completed pipeline run is stored as one decision row keyed by trace
// identifier, together with the raw per-key bridge responses, so any
// decision can be replayed and explained after the fact. Operator actions
// (confirm, reject, skip) reference the decision they acted on.
package audit
