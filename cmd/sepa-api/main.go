// ==============================================================================
// SEPA API SERVICE MAIN - cmd/sepa-api/main.go
// ==============================================================================
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"sepakit/internal/handler"
	"sepakit/internal/middleware"
	"sepakit/pkg/bic"
	"sepakit/pkg/card"
	"sepakit/pkg/ccc"
	"sepakit/pkg/config"
	"sepakit/pkg/iban"
	"sepakit/pkg/identifier"
	"sepakit/pkg/logger"
	"sepakit/pkg/sepa"
	"sepakit/pkg/validator"
)

func main() {
	configPath := flag.String("config", os.Getenv("SEPA_CONFIG"), "optional YAML config file")
	flag.Parse()

	config.LoadDotEnv()

	cfg := config.Load()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			logger.New("sepa-api").Fatal("Failed to load config file", map[string]interface{}{
				"path":  *configPath,
				"error": err.Error(),
			})
		}
		cfg = loaded
	}

	log := logger.NewWithLevel("sepa-api", cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting SEPA API", map[string]interface{}{
		"port":     cfg.Server.Port,
		"currency": cfg.SEPA.DefaultCurrency,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	ibans := iban.New()
	builder := sepa.NewBuilder(ibans,
		sepa.WithCurrency(cfg.SEPA.DefaultCurrency),
		sepa.WithAmountPolicy(sepa.AmountPolicy{
			MinorUnitHeuristic: cfg.SEPA.MinorUnitHeuristic,
			MinorUnitThreshold: decimal.NewFromInt(cfg.SEPA.MinorUnitThreshold),
		}),
		sepa.WithAddressInjection(cfg.SEPA.InjectAddresses),
		sepa.WithLogger(log),
	)

	val := validator.New()
	accounts := handler.NewAccountHandler(ibans, bic.New(), card.New(), ccc.NewConverter(ibans),
		identifier.NewGenerator(), val, metrics, log)
	payments := handler.NewPaymentHandler(builder, sepa.NewParser(), val, metrics, log)

	r := mux.NewRouter()
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)
	r.Use(metrics.Instrument)
	r.Use(middleware.BodyLimit(cfg.SEPA.MaxBodyBytes))

	handler.RegisterRoutes(r, accounts, payments)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SEPA API started", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down SEPA API...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("SEPA API forced to shutdown", map[string]interface{}{"error": err.Error()})
	}

	log.Info("SEPA API stopped gracefully", nil)
}
