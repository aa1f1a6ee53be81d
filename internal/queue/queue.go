// Package queue moves opaque message bodies between services. Two drivers
// exist: Kafka for deployments and an in-process buffered channel for tests
// and single-binary runs. Neither acknowledges delivery to the sender.
package queue

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("queue closed")

// Message is one queued body plus transport metadata (trace propagation
// headers for Kafka). Headers are never part of the message contract.
type Message struct {
	Body    []byte
	Headers map[string]string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

type Receiver interface {
	// Receive blocks until a message is available, ctx is done, or the
	// queue is closed (ErrClosed).
	Receive(ctx context.Context) (Message, error)
	Close() error
}
