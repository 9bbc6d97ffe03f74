// Package dispatch implements the preference-gated, templated email
// dispatcher fed by bus events.
//
// A Dispatcher holds a snapshot of the user's delivery preferences (master
// enable flag plus per-category flags), a registry of subject/body
// templates, and a bounded queue of completed deliveries. Dispatch outcomes
// are discriminated result values, never errors: a disabled flag, a missing
// template, or a transport failure all surface as a typed reason on the
// Result.
//
// Multiple dispatches may be in flight concurrently; the queue records
// completions most-recent-first and is trimmed to its capacity (50 by
// default). Disabling the master flag stops new dispatches only - it never
// cancels an in-flight send.
package dispatch
