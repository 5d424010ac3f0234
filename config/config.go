package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Database configuration
	DatabaseURL string

	// Payment gateway configuration
	GatewayBaseURL     string
	GatewaySecretKey   string
	GatewayTimeout     time.Duration
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// AutoAssignNumbers makes the reconciliation engine draw a ticket for
	// gateway purchases that collected no number choice
	AutoAssignNumbers bool

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		GatewayBaseURL:     os.Getenv("GATEWAY_BASE_URL"),
		GatewaySecretKey:   os.Getenv("GATEWAY_SECRET_KEY"),
		GatewayTimeout:     15 * time.Second,
		CheckoutSuccessURL: os.Getenv("CHECKOUT_SUCCESS_URL"),
		CheckoutCancelURL:  os.Getenv("CHECKOUT_CANCEL_URL"),

		AutoAssignNumbers: true,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Defaults
	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.GatewayBaseURL == "" {
		config.GatewayBaseURL = "https://api.stripe.com"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	// Override defaults if environment variables are set
	if timeout := os.Getenv("GATEWAY_TIMEOUT_SECONDS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			config.GatewayTimeout = time.Duration(parsed) * time.Second
		}
	}
	if auto := os.Getenv("AUTO_ASSIGN_NUMBERS"); auto != "" {
		config.AutoAssignNumbers = auto == "true"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.GatewaySecretKey == "" {
			return nil, fmt.Errorf("GATEWAY_SECRET_KEY is required")
		}
		if config.CheckoutSuccessURL == "" || config.CheckoutCancelURL == "" {
			return nil, fmt.Errorf("CHECKOUT_SUCCESS_URL and CHECKOUT_CANCEL_URL are required")
		}
	}

	return config, nil
}
