package queue

import (
	"fmt"
	"sync"
)

// Queue decouples the scheduler from the dispatcher. Payloads are campaign
// ids; the consumer re-runs the guarded dispatch path, so a duplicate
// delivery loses the status race instead of double-sending.
type Queue interface {
	Publish(topic string, campaignID int) error
	Subscribe(topic string, handler func(campaignID int) error) error
}

// InMemoryQueue delivers synchronously in-process. Used by tests and
// single-binary local runs where RabbitMQ is not available.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(campaignID int) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(campaignID int) error),
	}
}

// Publish sends the campaign id to all subscribers of the topic.
func (q *InMemoryQueue) Publish(topic string, campaignID int) error {
	q.mu.Lock()
	handlers := append([]func(int) error{}, q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		if err := handler(campaignID); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe adds a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(campaignID int) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
