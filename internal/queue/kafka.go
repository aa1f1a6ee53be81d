package queue

import (
	"context"
	"errors"
	"io"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	BatchTimeout = 10 * time.Millisecond
	BatchSize    = 100
)

type kafkaWriter interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaReader interface {
	ReadMessage(ctx context.Context) (*kafka.Message, error)
	Close() error
}

// KafkaSender writes every message to one topic. The traced writer injects
// the W3C trace context into the record headers.
type KafkaSender struct {
	w kafkaWriter
}

func NewKafkaSender(brokers []string, topic, clientID string, tp trace.TracerProvider) (*KafkaSender, error) {
	base := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           BatchTimeout,
		BatchSize:              BatchSize,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	w, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				semconv.MessagingDestinationNameKey.String(topic),
				attribute.String("messaging.kafka.client_id", clientID),
			},
		),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaSender{w: w}, nil
}

func (s *KafkaSender) Send(ctx context.Context, msg Message) error {
	km := kafka.Message{Value: msg.Body}
	for k, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return s.w.WriteMessage(ctx, km)
}

func (s *KafkaSender) Close() error { return s.w.Close() }

// KafkaReceiver reads one topic as part of a consumer group. Offsets are
// committed when a message is read, so a crash between read and apply loses
// that message (at-most-once).
type KafkaReceiver struct {
	r kafkaReader
}

func NewKafkaReceiver(brokers []string, topic, groupID string) (*KafkaReceiver, error) {
	base := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	r, err := otelkafka.NewReader(base)
	if err != nil {
		return nil, err
	}
	return &KafkaReceiver{r: r}, nil
}

func (r *KafkaReceiver) Receive(ctx context.Context) (Message, error) {
	km, err := r.r.ReadMessage(ctx)
	if errors.Is(err, io.EOF) {
		// kafka-go reports a closed reader as io.EOF
		return Message{}, ErrClosed
	}
	if err != nil {
		return Message{}, err
	}
	msg := Message{Body: km.Value}
	if len(km.Headers) > 0 {
		msg.Headers = make(map[string]string, len(km.Headers))
		for _, h := range km.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg, nil
}

func (r *KafkaReceiver) Close() error { return r.r.Close() }
