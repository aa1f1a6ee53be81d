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
	"github.com/MikeMC777/perfulandia/internal/user"
)

// @title        Perfulandia user service
// @version      1.0
// @description  Customer accounts.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, "user-service")
	if err != nil {
		log.Fatalf("user-service: %v", err)
	}
	defer c.Close(context.Background())
	logger := c.Logger

	var repo user.Repository = user.NewMemoryRepo()
	if c.UsePostgres() {
		pool, err := c.Pool(ctx)
		if err != nil {
			logger.Sugar().Fatalf("postgres: %v", err)
		}
		repo = user.NewPGRepo(pool)
	}

	r := c.Router()
	docs.SwaggerInfoUser.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfoUser.InstanceName())))
	registerRoutes(r, user.NewService(repo))

	if err := c.Run(ctx, c.Config.UserSvcAddr, r); err != nil {
		logger.Sugar().Errorf("user-service stopped: %v", err)
	}
}
