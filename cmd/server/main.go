package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gaurav7717/PurchaseInvoice/internal/auth"
	"github.com/gaurav7717/PurchaseInvoice/internal/config"
	"github.com/gaurav7717/PurchaseInvoice/internal/db"
	"github.com/gaurav7717/PurchaseInvoice/internal/httpapi"
	"github.com/gaurav7717/PurchaseInvoice/internal/repository"
	"github.com/gaurav7717/PurchaseInvoice/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadServer()
	if err != nil {
		log.WithError(err).Fatal("config error")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database error")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.WithError(err).Fatal("migration error")
	}

	repo := repository.New(pool)
	svc := service.New(repo)
	if err := svc.EnsureDefaultAdmin(ctx, cfg.DefaultAdminUser, cfg.DefaultAdminPassword); err != nil {
		log.WithError(err).Fatal("default admin init error")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenLifespanMinutes)*time.Minute)
	handler := httpapi.NewHandler(svc, tokens, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(handler, tokens, log)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("invoice service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil {
			log.WithError(closeErr).Error("force close failed")
		}
	}
}
