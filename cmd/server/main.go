package main

import (
	"context"
	"errors"
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lead-relay/config"
	"lead-relay/http"
	"lead-relay/logger"
	"lead-relay/metrics"
	"lead-relay/services"
	"lead-relay/services/kafka"
	"lead-relay/services/mail"
)

func main() {
	// Determine project root by searching upward for go.mod
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal("Error getting current working directory:", err)
	}

	if root := findProjectRoot(cwd); root != "" {
		if err := os.Chdir(root); err != nil {
			log.Fatal("Error changing to project root:", err)
		}
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}

	appLogger := logger.New(logger.Config{Level: logger.ParseLevel(cfg.LogLevel), Output: os.Stdout})
	logger.SetDefault(appLogger)

	logger.Info("mail credentials",
		"credentials_loaded", cfg.MailCredentialsLoaded(),
		"provider", cfg.MailProvider,
	)

	ctx := context.Background()
	transport, err := mail.NewTransport(ctx, cfg, appLogger)
	if err != nil {
		logger.Fatal("Error initializing mail transport", "provider", cfg.MailProvider, "error", err)
	}

	// Lead events are optional
	producer := kafka.NewProducer(cfg.Brokers(), cfg.KafkaLeadTopic, appLogger)

	from := cfg.Sender()
	if from == "" {
		from = "relay@localhost"
		logger.Warn("MAIL_FROM and EMAIL_USER are empty, using placeholder sender", "from", from)
	}

	relay, err := services.NewLeadRelay(
		services.DefaultRelayConfig(from),
		transport,
		services.WithLogger(appLogger),
		services.WithMetrics(metrics.NewRelayMetrics(nil)),
		services.WithEventPublisher(producer),
	)
	if err != nil {
		logger.Fatal("Error initializing lead relay", "error", err)
	}

	server := &netHttp.Server{
		Addr: cfg.Addr(),
		Handler: http.NewRouter(http.RouterConfig{
			Relay:              relay,
			Logger:             appLogger,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			StaticDir:          cfg.StaticDir,
			MetricsHandler:     promhttp.Handler(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, netHttp.ErrServerClosed) {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutdown signal received, draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", "error", err)
	}

	// Close Kafka producer gracefully
	if err := producer.Close(); err != nil {
		logger.Error("Error closing Kafka producer", "error", err)
	}

	logger.Info("Server shutdown complete")
}

// findProjectRoot walks up from start and returns the first directory containing go.mod
func findProjectRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || strings.HasSuffix(dir, ":\\") || parent == "" {
			break
		}
		dir = parent
	}
	return ""
}
