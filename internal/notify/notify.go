package notify

import "context"

// Notifier delivers one alert message to an external channel.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans one message out to several channels and reports the first
// failure. Nil entries are skipped so disabled channels can stay in the list.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
