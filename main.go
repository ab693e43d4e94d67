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

	"rental-backend/config"
	"rental-backend/controllers"
	"rental-backend/gateways"
	"rental-backend/routes"
	"rental-backend/services"
	"rental-backend/utils"
)

func buildGatewayRegistry(frontendURL, appURL string) gateways.Registry {
	registry := gateways.Registry{}

	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		registry.Register(gateways.NewStripeGateway(key, frontendURL))
		log.Println("✅ Stripe gateway configured")
	}
	if keyID := os.Getenv("RAZORPAY_KEY_ID"); keyID != "" {
		registry.Register(gateways.NewRazorpayGateway(keyID, os.Getenv("RAZORPAY_KEY_SECRET")))
		log.Println("✅ Razorpay gateway configured")
	}
	if clientID := os.Getenv("PAYPAL_CLIENT_ID"); clientID != "" {
		mode := utils.EnvOrDefault("PAYPAL_MODE", "sandbox")
		registry.Register(gateways.NewPayPalGateway(clientID, os.Getenv("PAYPAL_SECRET"), mode, appURL))
		log.Println("✅ PayPal gateway configured")
	}
	if len(registry) == 0 {
		log.Println("⚠️  No payment gateway configured; payment initiation will fail")
	}
	return registry
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	frontendURL := utils.EnvOrDefault("FRONTEND_URL", "http://localhost:3000")
	appURL := utils.EnvOrDefault("APP_URL", "http://localhost:8080")

	// Connect database (config.ConnectDatabase sets config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	log.Println("✅ Database connection established and migrations applied")

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.ConnectRedis(rootCtx); err != nil {
		log.Fatalf("❌ Redis connect failed: %v", err)
	}
	log.Println("✅ Redis connection established")

	// Initialize services
	mailer := utils.SMTPMailer{}
	userService := services.NewUserService(db, config.Redis, mailer)
	listingService := services.NewListingService(db)
	bookingService := services.NewBookingService(db)
	reviewService := services.NewReviewService(db)
	kycService := services.NewKYCService(db)
	messageService := services.NewMessageService(db)

	registry := buildGatewayRegistry(frontendURL, appURL)
	paymentService := services.NewPaymentService(db, registry, bookingService)

	// Initialize controllers
	userController := controllers.NewUserController(userService, frontendURL)
	listingController := controllers.NewListingController(listingService)
	bookingController := controllers.NewBookingController(bookingService)
	paymentController := controllers.NewPaymentController(paymentService, frontendURL)
	reviewController := controllers.NewReviewController(reviewService)
	kycController := controllers.NewKYCController(kycService)
	messageController := controllers.NewMessageController(messageService)
	adminController := controllers.NewAdminController(db, userService, bookingService, listingService, paymentService)

	// Background payment/booking reconciliation
	reconciler := services.NewReconciler(db, bookingService, 0)
	go reconciler.Run(rootCtx)

	// Build router
	router := routes.SetupRouter(
		userController,
		listingController,
		bookingController,
		paymentController,
		reviewController,
		kycController,
		messageController,
		adminController,
	)

	// Port from env (prefer), fallback to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
