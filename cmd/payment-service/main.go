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
	"github.com/MikeMC777/perfulandia/internal/payment"
)

// @title        Perfulandia payment service
// @version      1.0
// @description  Payment records.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, "payment-service")
	if err != nil {
		log.Fatalf("payment-service: %v", err)
	}
	defer c.Close(context.Background())
	logger := c.Logger

	var repo payment.Repository = payment.NewMemoryRepo()
	if c.UsePostgres() {
		pool, err := c.Pool(ctx)
		if err != nil {
			logger.Sugar().Fatalf("postgres: %v", err)
		}
		repo = payment.NewPGRepo(pool)
	}

	r := c.Router()
	docs.SwaggerInfoPayment.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfoPayment.InstanceName())))
	registerRoutes(r, repo)

	if err := c.Run(ctx, c.Config.PaymentSvcAddr, r); err != nil {
		logger.Sugar().Errorf("payment-service stopped: %v", err)
	}
}
