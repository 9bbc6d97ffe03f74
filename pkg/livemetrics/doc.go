// Package livemetrics maintains a rolling dashboard view of the tracked
// shipment stream, updated incrementally from bus events.
//
// Counters are event-derived rather than recomputed from a full entity
// scan: the event stream is the only timely signal available, and re-scanning
// an unbounded or remote entity store on every event would not scale.
// A backend that holds authoritative totals may publish a stats:update
// event, which replaces every counter wholesale; between such events the
// aggregator applies fixed per-kind deltas.
//
// Counter invariants: no counter goes negative (deltas clamp at zero), and
// the active count decreases only on delivery, increases only on creation.
package livemetrics
