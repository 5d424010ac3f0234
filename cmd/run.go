package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"bolao/api"
	"bolao/config"
	"bolao/database"
	"bolao/events"
	"bolao/gateway"
	"bolao/repository"
	"bolao/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting bolao server...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()
	subscribeNotifications(eventBus)
	log.Println("Event bus initialized successfully")

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	log.Println("Unit of work factory initialized successfully")

	// Initialize payment gateway client
	log.Println("Initializing payment gateway client...")
	gatewayClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecretKey, cfg.GatewayTimeout)
	log.Println("Payment gateway client initialized successfully")

	// Initialize services
	log.Println("Initializing services...")
	purchaseService := service.NewPurchaseService(uowFactory, gatewayClient, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	reconciliationService := service.NewReconciliationService(uowFactory, gatewayClient, service.ReconciliationConfig{
		AutoAssignNumbers: cfg.AutoAssignNumbers,
	})
	distributionService := service.NewDistributionService(uowFactory)
	adminService := service.NewAdminService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize HTTP server
	handler := api.NewHandler(purchaseService, reconciliationService, distributionService, adminService)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(handler),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server is listening on %s in %s mode...", cfg.ListenAddr, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or a server failure
	select {
	case err := <-serverErr:
		db.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
