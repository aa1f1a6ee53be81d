package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MikeMC777/perfulandia/internal/app"
	"github.com/MikeMC777/perfulandia/internal/docs"
	"github.com/MikeMC777/perfulandia/internal/inventory"
	ord "github.com/MikeMC777/perfulandia/internal/order"
)

// @title        Perfulandia order service
// @version      1.0
// @description  Order placement and order CRUD.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, "order-service")
	if err != nil {
		log.Fatalf("order-service: %v", err)
	}
	defer c.Close(context.Background())
	logger := c.Logger

	var repo ord.Repository = ord.NewMemoryRepo()
	if c.UsePostgres() {
		pool, err := c.Pool(ctx)
		if err != nil {
			logger.Sugar().Fatalf("postgres: %v", err)
		}
		repo = ord.NewPGRepo(pool)
	}

	sender, err := c.QueueSender()
	if err != nil {
		logger.Sugar().Fatalf("queue: %v", err)
	}
	ext := ord.NewExt(c.Config, c.Metrics, logger)
	svc := ord.NewService(repo, ext, ext, inventory.NewPublisher(sender, logger),
		ord.WithLogger(logger),
		ord.WithMetrics(c.Metrics),
		ord.WithTracerProvider(c.Telemetry.TracerProvider),
		ord.WithPublishTimeout(c.Config.EventPublishTimeout),
	)

	r := c.Router()
	docs.SwaggerInfoOrder.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfoOrder.InstanceName())))
	registerRoutes(r, svc, repo)

	if err := c.Run(ctx, c.Config.OrderSvcAddr, r); err != nil {
		logger.Sugar().Errorf("order-service stopped: %v", err)
	}
}
