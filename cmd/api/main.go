package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lettersmith/newsletter-api/internal/adapters/email/devmail"
	"github.com/lettersmith/newsletter-api/internal/adapters/email/postmarkmail"
	"github.com/lettersmith/newsletter-api/internal/adapters/httpapi"
	memstore "github.com/lettersmith/newsletter-api/internal/adapters/memory/subscriptionstore"
	"github.com/lettersmith/newsletter-api/internal/adapters/postgres"
	pgstore "github.com/lettersmith/newsletter-api/internal/adapters/postgres/subscriptionstore"
	"github.com/lettersmith/newsletter-api/internal/app/newsletters"
	"github.com/lettersmith/newsletter-api/internal/app/subscriptions"
	platformclock "github.com/lettersmith/newsletter-api/internal/platform/clock"
	"github.com/lettersmith/newsletter-api/internal/platform/config"
	"github.com/lettersmith/newsletter-api/internal/platform/logger"
	"github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
	"github.com/lettersmith/newsletter-api/internal/ports/out/subscriberrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/tokenrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/unitofwork"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "newsletter-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var appCfg config.App
	if err := config.Load(&appCfg); err != nil {
		return fmt.Errorf("load app config: %w", err)
	}

	log := logger.New(
		logger.WithFormat(logger.ParseFormat(appCfg.LogFormat)),
		logger.WithLevel(logger.ParseLevel(appCfg.LogLevel)),
		logger.WithService("newsletter-api"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		uow         unitofwork.Runner
		subscribers subscriberrepo.Repository
		tokens      tokenrepo.Repository
		ready       func(context.Context) error
	)
	switch appCfg.StorageBackend {
	case "postgres":
		var pgCfg config.Postgres
		if err := config.Load(&pgCfg); err != nil {
			return fmt.Errorf("load postgres config: %w", err)
		}
		pool, err := postgres.NewPool(ctx, pgCfg.URL, postgres.PoolOptions{
			MaxConns:      pgCfg.MaxConns,
			MinConns:      pgCfg.MinConns,
			RetryAttempts: pgCfg.RetryAttempts,
			RetryInterval: pgCfg.RetryInterval,
		})
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		store := pgstore.New(pool)
		uow, subscribers, tokens = store, store, store
		ready = postgres.Healthcheck(pool)
	case "memory":
		store := memstore.New()
		uow, subscribers, tokens = store, store, store
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", appCfg.StorageBackend)
	}

	var mail mailer.Mailer
	switch appCfg.EmailBackend {
	case "postmark":
		var emailCfg config.Email
		if err := config.Load(&emailCfg); err != nil {
			return fmt.Errorf("load email config: %w", err)
		}
		pm, err := postmarkmail.New(postmarkmail.Config{
			ServerToken:   emailCfg.PostmarkServerToken,
			AccountToken:  emailCfg.PostmarkAccountToken,
			Sender:        emailCfg.Sender,
			MessageStream: emailCfg.MessageStream,
			SendTimeout:   emailCfg.SendTimeout,
		})
		if err != nil {
			return fmt.Errorf("configure postmark mailer: %w", err)
		}
		mail = pm
	case "dev":
		var emailCfg config.Email
		if err := config.Load(&emailCfg); err != nil {
			return fmt.Errorf("load email config: %w", err)
		}
		mail = devmail.New(emailCfg.DevOutboxDir)
		log.Info("dev mailer writing to disk", "dir", emailCfg.DevOutboxDir)
	default:
		return fmt.Errorf("unknown EMAIL_BACKEND %q", appCfg.EmailBackend)
	}

	clk := platformclock.NewSystemClock()
	subsSvc := subscriptions.NewService(uow, subscribers, tokens, mail, clk, appCfg.BaseURL, log)
	newsSvc := newsletters.NewService(subscribers, mail, log)

	handler := httpapi.NewRouter(
		httpapi.NewServer(subsSvc, newsSvc, log),
		httpapi.RouterOptions{Ready: ready},
	)

	srv := &http.Server{
		Addr:              appCfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", appCfg.Addr(), "storage", appCfg.StorageBackend, "email", appCfg.EmailBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
