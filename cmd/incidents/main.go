package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/Skotchmaster/incident_service/internal/httpserver"
	"github.com/Skotchmaster/incident_service/internal/middleware"
	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/internal/search"
	"github.com/Skotchmaster/incident_service/internal/service"
	"github.com/Skotchmaster/incident_service/internal/storage"
	"github.com/Skotchmaster/incident_service/pkg/config"
	pkgdb "github.com/Skotchmaster/incident_service/pkg/db"
	"github.com/Skotchmaster/incident_service/pkg/events"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/Skotchmaster/incident_service/pkg/tokens"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", pkgdb.DriverPostgres, pkgdb.DriverSQLite)
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	secret, generated, err := tokens.LoadSecret(cfg.JWTSecret, cfg.RequireFixedSecret)
	if err != nil {
		log.Fatalf("jwt secret: %v", err)
	}
	if generated {
		logger.Warn("jwt_secret_generated", "reason", "JWT_SECRET not set; tokens will not survive a restart")
	}
	tok, err := tokens.NewService(secret)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db, &models.User{}, &models.Incident{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	media, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	var pub events.Publisher
	var prod *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod, err = events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		pub = prod
	} else {
		logger.Info("events_disabled", "reason", "KAFKA_BROKERS not set")
	}

	var ix *search.Indexer
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		ix = &search.Indexer{ES: es, Index: cfg.ESIndex}
	} else {
		logger.Info("search_disabled", "reason", "ES_URL not set")
	}

	rp := &repo.GormRepo{DB: db}
	incidents := &service.IncidentService{Repo: rp, Media: media, Events: pub, Search: ix}

	e := httpserver.New(logger, cfg.CORSOrigins, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:     rp,
			Tokens:   tok,
			UserTTL:  cfg.UserTokenTTL,
			AdminTTL: cfg.AdminTokenTTL,
			Events:   pub,
		}},
		IncidentHandler: &httpserver.IncidentHTTP{Svc: incidents},
		AdminHandler: &httpserver.AdminHTTP{Svc: &service.AdminService{
			Repo:      rp,
			Incidents: incidents,
			Events:    pub,
			Search:    ix,
		}},
		Gate:           middleware.NewGate(tok, rp),
		DB:             db,
		UploadDir:      cfg.UploadDir,
		AdminStaticDir: cfg.AdminStaticDir,
		LoginRate:      rate.Limit(float64(cfg.LoginRatePerMin) / 60),
		LoginBurst:     cfg.LoginBurst,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka_close", "error", err)
		}
	}
	_ = pkgdb.Close(db)

	logger.Info("stopped")
}
