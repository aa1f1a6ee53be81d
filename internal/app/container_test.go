package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/config"
	"github.com/MikeMC777/perfulandia/internal/healthx"
	"github.com/MikeMC777/perfulandia/internal/queue"
	"github.com/MikeMC777/perfulandia/internal/telemetry"
)

func testContainer(t *testing.T) *Container {
	t.Helper()
	providers, err := telemetry.Setup(context.Background(), telemetry.Options{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	logger := zap.NewNop()
	return &Container{
		Config: config.Config{
			ServiceName:         "test-service",
			QueueDriver:         config.QueueMemory,
			QueueName:           "pedido-inventario",
			StoreDriver:         config.StoreMemory,
			GRPCHealthAddr:      "127.0.0.1:0",
			ShutdownGracePeriod: time.Second,
		},
		Logger:    logger,
		Telemetry: providers,
		Health:    healthx.New("test-service", logger),
	}
}

func TestContainer_MemoryQueueIsShared(t *testing.T) {
	c := testContainer(t)
	defer c.Close(context.Background())

	s, err := c.QueueSender()
	if err != nil {
		t.Fatalf("sender: %v", err)
	}
	r, err := c.QueueReceiver()
	if err != nil {
		t.Fatalf("receiver: %v", err)
	}
	if err := s.Send(context.Background(), queue.Message{Body: []byte("1:-3")}); err != nil {
		t.Fatalf("send: %v", err)
	}
	msg, err := r.Receive(context.Background())
	if err != nil || string(msg.Body) != "1:-3" {
		t.Fatalf("receive = %q, %v", msg.Body, err)
	}
	if c.UsePostgres() {
		t.Fatal("memory store reported as postgres")
	}
}

func TestContainer_UnknownQueueDriver(t *testing.T) {
	c := testContainer(t)
	c.Config.QueueDriver = "rabbitmq"
	if _, err := c.QueueSender(); err == nil {
		t.Fatal("expected error")
	}
	if _, err := c.QueueReceiver(); err == nil {
		t.Fatal("expected error")
	}
}

func TestContainer_RunStopsWorkersOnCancel(t *testing.T) {
	c := testContainer(t)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	worker := func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), worker) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
	select {
	case <-stopped:
	default:
		t.Fatal("worker was not stopped")
	}
}

func TestContainer_RunReturnsWorkerFailure(t *testing.T) {
	c := testContainer(t)
	boom := errors.New("boom")
	err := c.Run(context.Background(), "127.0.0.1:0", http.NotFoundHandler(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}
