// Server runs the safety core HTTP API. Configuration comes from the
// environment (see .env.example); without DATABASE_URL it runs entirely
// in memory.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safeguard/backend/internal/audit"
	auditrepo "safeguard/backend/internal/audit/repository"
	"safeguard/backend/internal/config"
	contactrepo "safeguard/backend/internal/contact/repository"
	contactservice "safeguard/backend/internal/contact/service"
	"safeguard/backend/internal/db"
	"safeguard/backend/internal/location"
	"safeguard/backend/internal/media"
	"safeguard/backend/internal/notify"
	"safeguard/backend/internal/server"
	sessionrepo "safeguard/backend/internal/session/repository"
	sessionservice "safeguard/backend/internal/session/service"
	"safeguard/backend/internal/telemetry/otel"
	"safeguard/backend/internal/threat"
	"safeguard/backend/internal/timer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "safeguard-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	metrics, err := otel.NewBrokerMetrics(providers.MeterProvider.Meter("safeguard/backend"))
	if err != nil {
		log.Fatalf("otel metrics: %v", err)
	}

	var (
		contacts contactrepo.Repository
		sessions sessionrepo.Repository
		audits   auditrepo.Repository
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer conn.Close()
		contacts = contactrepo.NewPostgresRepository(conn)
		sessions = sessionrepo.NewPostgresRepository(conn)
		audits = auditrepo.NewPostgresRepository(conn)
	} else {
		log.Println("DATABASE_URL not set; using in-memory stores")
		contacts = contactrepo.NewMemoryRepository()
		sessions = sessionrepo.NewMemoryRepository()
		audits = auditrepo.NewMemoryRepository()
	}
	auditLogger := audit.NewRecorder(audits)

	producer := notify.NewKafkaProducer(cfg.AlertKafkaBrokersList(), cfg.AlertKafkaTopic)
	if producer != nil {
		defer producer.Close()
		log.Printf("alert pipeline enabled (topic %s)", cfg.AlertKafkaTopic)
	} else {
		log.Println("KAFKA_BROKERS not set; alert delivery disabled")
	}
	var emitter notify.Emitter
	if producer != nil {
		emitter = producer
	}

	registry := contactservice.NewRegistry(contacts, nil, auditLogger)
	broker := sessionservice.NewBroker(sessions, contacts, emitter, auditLogger, metrics,
		cfg.AccessURLBase, cfg.SessionLifetime(), cfg.SilentMode)
	registry.SetSessions(broker)

	track := location.NewTrack()
	analyzer := threat.NewAnalyzer(nil)
	recordings := media.NewLibrary()

	// The timer callbacks close over srv, which is assigned below before any
	// tick can fire.
	var srv *server.Server
	safetyTimer := timer.New(
		func() { srv.OnTimerExpired() },
		func() { srv.OnTimerCheckIn() },
	)
	srv = server.New(server.Deps{
		Config:     cfg,
		Registry:   registry,
		Broker:     broker,
		Track:      track,
		Analyzer:   analyzer,
		Timer:      safetyTimer,
		Recordings: recordings,
	})

	tickerCtx, stopTicker := context.WithCancel(ctx)
	defer stopTicker()
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-tickerCtx.Done():
				return
			case <-ticker.C:
				safetyTimer.Tick()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	stopTicker()
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// Give in-flight async alert emits a moment to reach the producer.
	time.Sleep(notify.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
