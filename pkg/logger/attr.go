package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component name under the key "component".
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}

// EventKind records a bus event kind under the key "event_kind".
func EventKind(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("event_kind", kind)
}

// Category records a delivery category under the key "category".
func Category(category string) slog.Attr {
	if category == "" {
		return slog.Attr{}
	}
	return slog.String("category", category)
}

// UserEmail records the recipient address under the key "user_email".
func UserEmail(email string) slog.Attr {
	if email == "" {
		return slog.Attr{}
	}
	return slog.String("user_email", email)
}

// DeliveryID records a queued delivery identifier under the key "delivery_id".
func DeliveryID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("delivery_id", id)
}
