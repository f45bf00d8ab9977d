package service

import "context"

// EventPublisher pushes realtime events to connected clients. Implementations
// must be safe for concurrent use.
type EventPublisher interface {
	Publish(userID uint, event string, payload any)
}

// Notifier delivers a reminder text to an out-of-band channel (Telegram chat).
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}
