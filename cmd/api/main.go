package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sustainwear.org/internal/audit"
	"sustainwear.org/internal/auth"
	"sustainwear.org/internal/config"
	"sustainwear.org/internal/httpapi"
	"sustainwear.org/internal/mail"
	"sustainwear.org/internal/obs"
)

var version = "0.3.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("SOURCE_COMMIT"))

	cfg := config.Load()

	store, err := auth.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	// Challenges live in Redis when configured, otherwise in process
	// memory (single-instance deployments only).
	var challenges auth.ChallengeStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping: %v", err)
		}
		cancel()
		challenges = auth.NewRedisChallengeStore(client)
		log.Printf("challenge store: redis at %s", cfg.RedisAddr)
	} else {
		challenges = auth.NewMemoryChallengeStore()
		log.Print("challenge store: in-memory")
	}

	tokens, err := auth.NewTokenIssuer(cfg.AuthSecret, time.Now)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	var notifier auth.Notifier
	if cfg.SMTPAddr != "" {
		notifier, err = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		if err != nil {
			log.Fatalf("smtp mailer: %v", err)
		}
	} else {
		notifier = mail.LogMailer{}
		log.Print("no SMTP configured, mail goes to the log")
	}

	svc, err := auth.NewService(store, challenges, tokens, notifier,
		auth.WithResetLinkBase(cfg.FrontendURL))
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	admin, err := auth.NewAdminService(store)
	if err != nil {
		log.Fatalf("admin service: %v", err)
	}
	recorder := audit.NewRecorder(store.Audit(context.Background()))

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go svc.RunSweeper(sweepCtx, cfg.SweepInterval)

	api := httpapi.New(svc, admin, recorder,
		httpapi.ReadyProbe{DB: store.DB()},
		httpapi.WithVersion(version),
		httpapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting sustainwear-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
