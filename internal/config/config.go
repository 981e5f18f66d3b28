package config

import (
	"encoding/json"
	"os"
	stdtime "time"

	"github.com/roborakhwala/panel/internal/time"
)

// Application settings.
type Application struct {
	Debug       bool    `json:"debug"`
	Environment string  `json:"environment"`
	HTTP        HTTP    `json:"http"`
	API         API     `json:"api"`
	Session     Session `json:"session"`
	SentryDSN   string  `json:"sentry_dsn"`
}

type HTTP struct {
	Listen  string        `json:"listen"`
	Timeout time.Duration `json:"timeout"`
}

// API points at the remote Robo Rakhwala management service.
type API struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	// StartDurationMinutes is the duration sent with a start command.
	// The remote treats any positive value as "start for N minutes".
	StartDurationMinutes int `json:"start_duration_minutes"`
}

// Session configures the cookie session store.
type Session struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// Parse parses config from file.
func Parse(path string) (Application, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return Application{}, err
	}

	app := Application{}
	err = json.Unmarshal(fileBytes, &app)
	if err != nil {
		return Application{}, err
	}

	app.applyDefaults()

	return app, nil
}

func (app *Application) applyDefaults() {
	if app.HTTP.Listen == "" {
		app.HTTP.Listen = ":8080"
	}

	if app.HTTP.Timeout == 0 {
		app.HTTP.Timeout = time.Duration(stdtime.Second * 30)
	}

	if app.API.Timeout == 0 {
		app.API.Timeout = time.Duration(stdtime.Second * 10)
	}

	if app.API.StartDurationMinutes == 0 {
		app.API.StartDurationMinutes = 30
	}

	if app.Session.Name == "" {
		app.Session.Name = "rakhwala_session"
	}
}
