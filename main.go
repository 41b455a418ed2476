package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"resort-backend/config"
	"resort-backend/controllers"
	"resort-backend/queue"
	"resort-backend/realtime"
	"resort-backend/routes"
	"resort-backend/services"
	"resort-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	// Connect database (config.ConnectDatabase sets config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("database connected, migrations applied")

	// OTP store: redis when reachable, in-memory otherwise.
	var store services.VerificationStore
	if client := config.NewRedisClient(); client != nil {
		store = services.NewRedisStore(client)
	} else {
		log.Println("falling back to in-memory verification store")
		store = services.NewMemoryStore()
	}

	hub := realtime.NewHub()
	mailer := queue.NewEmailPublisher()

	// Services
	notificationService := services.NewNotificationService(db, hub)
	bookingService := services.NewBookingService(db, hub, notificationService, mailer)
	availabilityService := services.NewAvailabilityService(db)
	userService := services.NewUserService(db, notificationService)
	reportService := services.NewReportService(db)
	reviewService := services.NewReviewService(db)
	verificationService := services.NewVerificationService(store)

	// Websockets
	adminSocket := realtime.NewAdminSocket(hub, bookingService)
	notificationSocket := realtime.NewNotificationSocket(hub, notificationService, func(token string) (uint, error) {
		userID, _, err := utils.ParseAccessToken(token)
		return userID, err
	})

	// Controllers
	router := routes.SetupRouter(routes.Controllers{
		Auth:          controllers.NewAuthController(userService, verificationService, mailer),
		Bookings:      controllers.NewBookingController(bookingService, availabilityService, userService),
		Units:         controllers.NewUnitController(db, availabilityService),
		Admin:         controllers.NewAdminController(bookingService, reportService, userService),
		Notifications: controllers.NewNotificationController(notificationService),
		Reviews:       controllers.NewReviewController(reviewService),

		AdminSocket:        adminSocket,
		NotificationSocket: notificationSocket,
	})

	// Mail worker consumes the email queue; it reconnects on its own.
	go queue.StartEmailWorker(queue.NotifierFromEnv())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// Websocket connections are hijacked on upgrade, so these only
		// bound the plain HTTP endpoints.
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped gracefully")
}
