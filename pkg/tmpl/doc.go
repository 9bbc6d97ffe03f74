// Package tmpl implements the placeholder substitution engine used for
// notification messages and outbound email subjects/bodies.
//
// Templates use double-brace placeholders with dotted paths:
//
//	tmpl.Render("Shipment {{shipment.trackingNumber}} delivered", data)
//
// Each path is resolved against the data map by sequential key lookup.
// A placeholder that cannot be resolved (missing key, nil value, or a
// non-map intermediate segment) is replaced with the path text itself,
// so a rendering defect is visible in the output instead of producing
// a silently blank message.
//
// Render is a pure function: deterministic for given inputs, no side
// effects, and it never fails. Malformed brace sequences are left as-is.
package tmpl
