package queue

import (
	"context"
	"sync"
)

// Memory is a named, non-durable in-process queue. It is both a Sender and a
// Receiver; messages still buffered at Close are dropped.
type Memory struct {
	name      string
	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func NewMemory(name string, buffer int) *Memory {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Memory{
		name: name,
		ch:   make(chan Message, buffer),
		done: make(chan struct{}),
	}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Send(ctx context.Context, msg Message) error {
	body := append([]byte(nil), msg.Body...)
	select {
	case <-m.done:
		return ErrClosed
	default:
	}
	select {
	case m.ch <- Message{Body: body, Headers: msg.Headers}:
		return nil
	case <-m.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) Receive(ctx context.Context) (Message, error) {
	select {
	case msg := <-m.ch:
		return msg, nil
	case <-m.done:
		return Message{}, ErrClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Len is the number of buffered, not yet received messages.
func (m *Memory) Len() int { return len(m.ch) }

func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}
