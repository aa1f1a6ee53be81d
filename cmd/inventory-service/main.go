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
)

// @title        Perfulandia inventory service
// @version      1.0
// @description  Stock records and the stock-delta consumer.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, "inventory-service")
	if err != nil {
		log.Fatalf("inventory-service: %v", err)
	}
	defer c.Close(context.Background())
	logger := c.Logger

	var repo inventory.Repository = inventory.NewMemoryRepo()
	if c.UsePostgres() {
		pool, err := c.Pool(ctx)
		if err != nil {
			logger.Sugar().Fatalf("postgres: %v", err)
		}
		repo = inventory.NewPGRepo(pool)
	}

	receiver, err := c.QueueReceiver()
	if err != nil {
		logger.Sugar().Fatalf("queue: %v", err)
	}
	consumer := inventory.NewConsumer(receiver, repo, c.Config.QueueName, logger, c.Metrics)

	r := c.Router()
	docs.SwaggerInfoInventory.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfoInventory.InstanceName())))
	registerRoutes(r, repo)

	if err := c.Run(ctx, c.Config.InventorySvcAddr, r, consumer.Run); err != nil {
		logger.Sugar().Errorf("inventory-service stopped: %v", err)
	}
}
