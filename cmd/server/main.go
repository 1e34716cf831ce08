package main

import (
	"context"
	"fmt"
	"log"

	"go-gin-event-booking/config"
	"go-gin-event-booking/internal/cache"
	"go-gin-event-booking/internal/codegen"
	"go-gin-event-booking/internal/database"
	"go-gin-event-booking/internal/handler"
	"go-gin-event-booking/internal/queue"
	"go-gin-event-booking/internal/repository"
	"go-gin-event-booking/internal/service"
	"go-gin-event-booking/internal/worker"
	"go-gin-event-booking/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	defer logger.Sync()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	// collaborators
	availabilityCache := cache.NewRedisAvailabilityCache(rdb)
	codeGen := codegen.NewRandomCodeGenerator()

	reservationQueue, err := queue.NewRedisStreamReservationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize reservation queue: %v", err)
	}

	// services
	eventService := service.NewEventService(eventRepo, userRepo, reservationRepo, availabilityCache)
	userService := service.NewUserService(userRepo, reservationRepo, eventRepo)
	reservationService := service.NewReservationService(
		reservationRepo, eventRepo, userRepo,
		codeGen, availabilityCache, reservationQueue, cfg.Booking,
	)

	// notification worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificationWorker := worker.NewNotificationWorker(worker.NewLogNotifier(), reservationQueue)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewUserHandler(userService).RegisterRoutes(router)
	handler.NewReservationHandler(reservationService).RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
