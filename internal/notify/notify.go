package notify

import "log"

// Notifier is the outbound notification seam. Implementations must not fail
// loudly: the caller decides whether to notify, never how notifications are
// delivered or whether permission exists.
type Notifier interface {
	Notify(title, body string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(title, body string) {
	log.Printf("INFO: notification: %s: %s", title, body)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Notify(string, string) {}
