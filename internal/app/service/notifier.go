package service

// Notifier pushes presentational events to a session's rendering surface.
// Implementations carry no business logic; delivery is best-effort and a nil
// Notifier is valid.
type Notifier interface {
	Toast(sessionID, message string)
	Dialog(sessionID, kind, title, text string)
}
