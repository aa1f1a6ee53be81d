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
	prod "github.com/MikeMC777/perfulandia/internal/product"
)

// @title        Perfulandia product service
// @version      1.0
// @description  Product catalogue.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, "product-service")
	if err != nil {
		log.Fatalf("product-service: %v", err)
	}
	defer c.Close(context.Background())
	logger := c.Logger

	var repo prod.Repository = prod.NewMemoryRepo()
	if c.UsePostgres() {
		pool, err := c.Pool(ctx)
		if err != nil {
			logger.Sugar().Fatalf("postgres: %v", err)
		}
		repo = prod.NewPGRepo(pool)
	}

	r := c.Router()
	docs.SwaggerInfoProduct.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfoProduct.InstanceName())))
	registerRoutes(r, repo)

	if err := c.Run(ctx, c.Config.ProductSvcAddr, r); err != nil {
		logger.Sugar().Errorf("product-service stopped: %v", err)
	}
}
