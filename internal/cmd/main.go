package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/roborakhwala/panel"
	"github.com/roborakhwala/panel/internal/api"
	"github.com/roborakhwala/panel/internal/config"
	"github.com/roborakhwala/panel/internal/model"
	"github.com/roborakhwala/panel/internal/rakhwala"
	"github.com/roborakhwala/panel/internal/session"
)

func main() {
	path := flag.String("config", "./config.json", "path to config")
	showRevision := flag.Bool("revision", false, "show version of the application")

	flag.Parse()

	if *showRevision {
		fmt.Println(panel.Revision)
		return
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Parse(*path)
	if err != nil {
		logger.
			Fatal().
			Err(err).
			Str("revision", panel.Revision).
			Str("branch", panel.Branch).
			Str("env", panel.Env).
			Msg("parsing config file")
	}

	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	logger.
		Debug().
		Interface("config", cfg).
		Str("revision", panel.Revision).
		Str("branch", panel.Branch).
		Msg("starting application")

	notifierClient, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Release:     panel.Revision,
		Environment: panel.Env,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("can't create sentry client")
	}

	client := rakhwala.New(cfg.API.BaseURL, cfg.API.Timeout.Std())
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.Name)

	appInfo := model.ApplicationInfo{
		Revision:    panel.Revision,
		Branch:      panel.Branch,
		Environment: panel.Env,
	}

	service, err := api.NewHTTP(cfg, client, sessions, logger, notifierClient, appInfo)
	if err != nil {
		logger.Fatal().Err(err).Msg("can't create http service")
	}

	service.Serve()

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGTERM, syscall.SIGQUIT)
	<-s

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()

	if errShut := service.Shutdown(ctx); errShut != nil {
		logger.Error().Err(errShut).Msg("error shutting down server")
	}
}
