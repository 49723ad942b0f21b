package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"club-hours/internal/config"
	"club-hours/internal/handler"
	"club-hours/internal/logger"
	"club-hours/internal/mail"
	"club-hours/internal/middleware"
	"club-hours/internal/records"
	"club-hours/internal/service"
	"club-hours/internal/store"
	"club-hours/internal/tokenstore"
	"club-hours/internal/workhours"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	closeLog := logger.Init(cfg.Log)
	defer closeLog()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	creds, err := store.Open(cfg)
	if err != nil {
		slog.Error("db connect failed", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	defer creds.Close()
	if err := creds.Migrate(context.Background()); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	rec := records.New(cfg.Records, loc)
	a := cfg.Auth
	tokens := service.NewTokenService(a.JWTSecret, time.Duration(a.TokenTTLHours)*time.Hour, time.Duration(a.SelectionTTLMin)*time.Minute)
	resetTTL := time.Duration(a.ResetTTLHours) * time.Hour
	mailer := mail.NewMailer(mail.NewSender(cfg.Mail.ResendAPIKey, cfg.Mail.From), cfg.Server.FrontendURL, resetTTL)
	if cfg.Mail.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, reset mails are only logged")
	}

	authSvc := service.NewAuthService(creds, rec, tokens, tokenstore.New(resetTTL), mailer)
	workSvc := service.NewWorkHourService(rec, loc)
	e := cfg.Eligibility
	policy := workhours.Policy{StandardHours: e.StandardHours, MinAge: e.MinAge, MaxAge: e.MaxAge}

	routes := &handler.Router{
		Auth:      handler.NewAuthHandler(authSvc),
		WorkHours: handler.NewWorkHourHandler(workSvc),
		Dashboard: handler.NewDashboardHandler(workhours.NewAssembler(rec, policy, cfg.Records.Fanout)),
		Tokens:    tokens,
	}
	if rl := cfg.RateLimit; rl.Enabled {
		routes.Limits = handler.Limits{
			Auth:  middleware.NewLimiter("auth", rl.Auth),
			Read:  middleware.NewLimiter("read", rl.Read),
			Write: middleware.NewLimiter("write", rl.Write),
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}))
	routes.Mount(r)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "db", cfg.Database.Driver, "rate_limit", cfg.RateLimit.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
	slog.Info("server stopped")
}
