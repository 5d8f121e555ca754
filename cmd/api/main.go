// Package main is the entry point for the sales agent API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/packprint/sales-agent/internal/catalog"
	"github.com/packprint/sales-agent/internal/chatlog"
	"github.com/packprint/sales-agent/internal/config"
	"github.com/packprint/sales-agent/internal/dispatch"
	"github.com/packprint/sales-agent/internal/docgen"
	"github.com/packprint/sales-agent/internal/engine"
	"github.com/packprint/sales-agent/internal/handler"
	"github.com/packprint/sales-agent/internal/interp"
	"github.com/packprint/sales-agent/internal/messaging"
	"github.com/packprint/sales-agent/internal/middleware"
	natsclient "github.com/packprint/sales-agent/internal/nats"
	"github.com/packprint/sales-agent/internal/store"
	"github.com/packprint/sales-agent/pkg/logger"
	"github.com/packprint/sales-agent/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting sales agent")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "sales-agent", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		states    store.StateStore
		orders    store.OrderStore
		customers store.CustomerStore
		chatStore store.ChatLogStore
		source    store.CatalogSource
		pinger    handler.Pinger
	)
	if cfg.DatabaseURL != "" {
		db, err := store.Open(cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to open database", zap.Error(err))
			os.Exit(1)
		}
		states, orders, customers, chatStore, source, pinger = db, db, db, db, db, db
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		mem := store.NewMemory(nil)
		states, orders, customers, chatStore, source = mem, mem, mem, mem, mem
	}

	idx, err := catalog.Load(ctx, source)
	if err != nil {
		log.Error("failed to load catalog", zap.Error(err))
		os.Exit(1)
	}

	// NATS is optional; without it chat logs only reach the store.
	var (
		natsConn   *natsclient.Client
		chatStream *natsclient.ChatLogStream
	)
	if conn, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log); err != nil {
		log.Warn("failed to connect to NATS, chat log stream disabled", zap.Error(err))
	} else {
		natsConn = conn
		defer natsConn.Close()
		chatStream = natsclient.NewChatLogStream(natsConn)
		if err := chatStream.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure chat log stream", zap.Error(err))
			os.Exit(1)
		}
	}
	sink := chatlog.NewSink(chatStore, chatStream, log)

	// Interpreter backend selection.
	var interpreter interp.Interpreter
	switch {
	case cfg.InterpreterName == "anthropic" && cfg.AnthropicAPIKey != "":
		interpreter = interp.NewAnthropic(cfg.AnthropicAPIKey, idx.ContextBlob(), log)
	case cfg.InterpreterName == "openai" && cfg.OpenAIAPIKey != "":
		interpreter = interp.NewOpenAI(cfg.OpenAIAPIKey, idx.ContextBlob(), log)
	default:
		log.Warn("no interpreter backend configured, using keyword fallback")
		interpreter = interp.Fallback{}
	}
	log.Info("interpreter selected", zap.String("backend", interpreter.Name()))

	docs, err := docgen.NewLocal(cfg.InvoiceDir, log)
	if err != nil {
		log.Error("failed to prepare invoice directory", zap.Error(err))
		os.Exit(1)
	}

	var sender messaging.Sender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.BotNumber != "" {
		sender = messaging.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.BotNumber, log)
	} else {
		log.Warn("Twilio not configured, outbound messages are simulated")
		sender = messaging.NewSimulator(log)
	}

	eng := engine.New(states, orders, customers, idx, interpreter, docs, sink, log)

	dispatcher := dispatch.New(func(ctx context.Context, customerID, message string) {
		reply, _ := eng.HandleTurn(ctx, customerID, message)
		if err := sender.Send(ctx, customerID, reply); err != nil {
			log.Error("failed to send reply",
				zap.String("customer_id", customerID),
				zap.Error(err))
		}
	}, log)

	healthHandler := handler.NewHealthHandler(natsConn, pinger)
	webhookHandler := handler.NewWebhookHandler(dispatcher, log)
	catalogHandler := handler.NewCatalogHandler(idx)
	orderHandler := handler.NewOrderHandler(orders, idx, eng, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.WebhookRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/webhook", webhookHandler.Receive)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.Overview)
			r.Get("/categories", catalogHandler.Categories)
			r.Get("/categories/{id}/types", catalogHandler.Types)
			r.Get("/types/{id}/variants", catalogHandler.Variants)
			r.Get("/accessories", catalogHandler.Accessories)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Post("/{id}/decision", orderHandler.Decision)
				r.Post("/{id}/payment", orderHandler.Payment)
				r.Post("/{id}/payment-link", orderHandler.PaymentLink)
			})

			r.Get("/simulate/{message}", orderHandler.Simulate)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error("dispatcher forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
