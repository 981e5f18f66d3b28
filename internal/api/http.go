// Package api is the session/page controller: it maps each user action
// to one HTTP request, one session-state transition, and one render.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/roborakhwala/panel/internal/config"
	"github.com/roborakhwala/panel/internal/model"
	"github.com/roborakhwala/panel/internal/rakhwala"
	"github.com/roborakhwala/panel/internal/session"
)

const (
	maxHeaderBytes = 256 * (1 << 10) // 256 KiB
	contentType    = "content-type"
	contentJSON    = "application/json"
	contentHTML    = "text/html; charset=utf-8"
)

type HTTP struct {
	srv *http.Server

	client   rakhwala.Client
	sessions *session.Manager
	logger   zerolog.Logger
	notifier *sentry.Client

	startDuration int

	requestCount int64
	bootTime     time.Time
}

// NewHTTP prepares new http service
func NewHTTP(
	cfg config.Application,
	client rakhwala.Client,
	sessions *session.Manager,
	logger zerolog.Logger,
	nClient *sentry.Client,
	appInfo model.ApplicationInfo,
) (*HTTP, error) {
	to := cfg.HTTP.Timeout.Std()
	srv := &http.Server{
		Addr:              cfg.HTTP.Listen,
		ReadTimeout:       to,
		ReadHeaderTimeout: to,
		WriteTimeout:      to,
		IdleTimeout:       to,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	api := &HTTP{
		srv:           srv,
		client:        client,
		sessions:      sessions,
		logger:        logger,
		notifier:      nClient,
		startDuration: cfg.API.StartDurationMinutes,
		bootTime:      time.Now(),
	}
	api.setupRoutes(appInfo)

	return api, nil
}

// Serve connections
func (api *HTTP) Serve() {
	go func() {
		api.logger.Info().Str("listen", api.srv.Addr).Msg("serving http")
		err := api.srv.ListenAndServe()
		if err != nil {
			api.logger.Error().Err(err).Msg("interrupted")
			api.notifier.CaptureException(err, nil, sentry.NewScope())
		}
	}()
}

// Shutdown the server
func (api *HTTP) Shutdown(ctx context.Context) error {
	return api.srv.Shutdown(ctx)
}
