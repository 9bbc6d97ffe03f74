// Package notifications maintains the bounded, newest-first collection of
// user-facing notifications derived from bus events.
//
// The store subscribes to a fixed set of event kinds; each mapped kind has a
// rule deriving the notification's icon, title, message template, and
// priority from the event payload. Event kinds with no rule are ignored by
// the store but remain visible to other bus consumers.
//
// The collection holds at most 50 entries; the oldest entry is evicted
// silently on overflow. Entries mutate only through read-state transitions
// (MarkRead, MarkAllRead) and bulk Clear. The unread counter always equals
// the number of entries with Read=false.
//
// # Usage
//
//	store := notifications.NewStore()
//	detach := store.Attach(b)
//	defer detach()
//
//	unread := store.List(notifications.ListOptions{OnlyUnread: true})
package notifications
