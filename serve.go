package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mohesu/jasmin-api/internal/config"
	"github.com/mohesu/jasmin-api/internal/database"
	"github.com/mohesu/jasmin-api/internal/handlers"
	"github.com/mohesu/jasmin-api/internal/jcli"
	"github.com/mohesu/jasmin-api/internal/logging"
	"github.com/mohesu/jasmin-api/internal/metrics"
	"github.com/mohesu/jasmin-api/internal/middleware"
	"github.com/mohesu/jasmin-api/internal/orchestrator"
	"github.com/mohesu/jasmin-api/internal/probe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func consoleCredentials() jcli.Credentials {
	return jcli.Credentials{
		Username: config.Cfg.TelnetUsername,
		Password: config.Cfg.TelnetPassword,
		Timeout:  config.Cfg.TelnetTimeout,
	}
}

func serve() {
	config.Load()
	logging.Init()
	defer logging.Close()

	err := database.Init()
	if err != nil {
		log.Fatalf("Database init: %v", err)
	}
	defer database.Close()

	log.Printf("Config: AuthDisabled=%v, Discovery=%s, TelnetTimeout=%s",
		config.Cfg.AuthDisabled, config.Cfg.Discovery, config.Cfg.TelnetTimeout)
	if n, err := database.UserCount(); err == nil && n == 0 {
		log.Printf("WARNING: no API users; run 'jasmin-api create-user'")
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := orchestrator.InitResolver(sigCtx); err != nil {
		log.Printf("WARNING: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	handlers.Credentials = consoleCredentials()
	handlers.ReloadTimeout = config.Cfg.TelnetTimeout
	handlers.Metrics = m

	prober := &probe.Prober{
		Resolver:    orchestrator.Get,
		Dialer:      handlers.Dialer,
		Credentials: handlers.Credentials,
		Metrics:     m,
	}
	var scheduler *cron.Cron
	if config.Cfg.ProbeSchedule != "" {
		scheduler, err = probe.Start(sigCtx, prober, config.Cfg.ProbeSchedule)
		if err != nil {
			log.Fatalf("Probe: %v", err)
		}
	}

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)

	r.Get("/health", handlers.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/audit-logs", handlers.GetAuditLogs)

		r.Group(func(r chi.Router) {
			r.Use(handlers.ConsoleScope)
			handlers.MountConsoleRoutes(r)
		})
	})

	srv := &http.Server{
		Addr:    config.Cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on %s", config.Cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-sigCtx.Done()
	log.Println("Shutting down...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
