package engine

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

type subscription struct {
	ID     string
	Topic  string
	Status string
}

// Subscribe registers a subscription on topic and returns its ID and
// status.
func (e *Engine) Subscribe(topic string) (id, status string, err error) {
	if topic == "" {
		return "", "", errors.New("topic is empty")
	}

	sub := &subscription{
		ID:     uuid.NewString(),
		Topic:  topic,
		Status: "active",
	}

	e.mu.Lock()
	e.subs[sub.ID] = sub
	e.mu.Unlock()

	e.logger.Info("subscribed",
		slog.String("topic", topic),
		slog.String("subscription_id", sub.ID),
	)

	return sub.ID, sub.Status, nil
}

// Unsubscribe removes a subscription. Removing an unknown or already
// removed ID is a no-op.
func (e *Engine) Unsubscribe(id string) error {
	e.mu.Lock()
	delete(e.subs, id)
	e.mu.Unlock()

	return nil
}

// Subscriptions returns the number of active subscriptions.
func (e *Engine) Subscriptions() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.subs)
}
