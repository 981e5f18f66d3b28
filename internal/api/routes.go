package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roborakhwala/panel/internal/model"
)

func (api *HTTP) setupRoutes(info model.ApplicationInfo) {
	router := mux.NewRouter()
	router.Use(middlewareCounter(api), middlewareRequestID(), middlewareLogger(api.logger))

	// page views and events
	router.HandleFunc("/", api.handleIndex()).Methods(http.MethodGet)
	router.HandleFunc("/login", api.handleLogin()).Methods(http.MethodPost)
	router.HandleFunc("/logout", api.handleLogout()).Methods(http.MethodPost)
	router.HandleFunc("/register", api.handleRegister()).Methods(http.MethodPost)
	router.HandleFunc("/register", api.handleRegistrationView(true)).Methods(http.MethodGet)
	router.HandleFunc("/register/back", api.handleRegistrationView(false)).Methods(http.MethodGet)
	router.HandleFunc("/devices/start", api.handleDeviceCommand(true)).Methods(http.MethodPost)
	router.HandleFunc("/devices/stop", api.handleDeviceCommand(false)).Methods(http.MethodPost)

	// operational endpoints
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/info", api.handleInfo(info)).Methods(http.MethodGet)

	api.srv.Handler = router
}
