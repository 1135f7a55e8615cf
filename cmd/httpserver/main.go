package main

import (
	"fmt"
	"log/slog"
	"os"

	"phonebook/contact"
	"phonebook/csvimport"
	"phonebook/httpserver"
	"phonebook/pkg/config"
	"phonebook/pkg/sentry"
	"phonebook/postgres"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("Cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewContactRepository(db)

	server := httpserver.Default(cfg)
	server.ContactService = contact.NewUsecase(repo)
	server.ImportService = csvimport.New(repo)
	if cfg.Port != 0 {
		server.Addr = fmt.Sprintf(":%d", cfg.Port)
	}

	slog.Info("server started!", "addr", server.Addr)
	if err := server.Start(); err != nil {
		sentry.Error(err)
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
