package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/roborakhwala/panel/internal/fcontext"
	"github.com/roborakhwala/panel/internal/model"
	"github.com/roborakhwala/panel/internal/session"
	"github.com/roborakhwala/panel/internal/templates"
)

// handleIndex is the view selector: login, registration, or device
// list, decided purely by the session state.
func (api *HTTP) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := api.sessions.Load(r)

		// Load consumed pending flashes; persist their removal before
		// the body is written.
		if err := api.sessions.Save(r, w, st); err != nil {
			api.serveError(ctx, w, r, err)
			return
		}

		switch {
		case st.LoggedIn():
			api.renderDevices(ctx, w, st)
		case st.ShowRegistration:
			api.render(ctx, w, func(w io.Writer) error {
				return templates.Register(w, templates.RegisterData{
					Errors:    st.Errors,
					Successes: st.Successes,
				})
			})
		default:
			api.render(ctx, w, func(w io.Writer) error {
				return templates.Login(w, templates.LoginData{
					Errors:    st.Errors,
					Successes: st.Successes,
				})
			})
		}
	}
}

// renderDevices fetches devices then statuses, one blocking call each,
// and renders the joined rows. A failed fetch renders its message in
// place of the rows.
func (api *HTTP) renderDevices(ctx context.Context, w http.ResponseWriter, st *session.State) {
	data := templates.DevicesData{
		Mobile:    st.Mobile,
		Errors:    st.Errors,
		Successes: st.Successes,
	}

	devices, err := api.client.ListDevices(ctx, st.Mobile, st.Token)
	if err == nil {
		var statuses []model.DeviceStatus
		statuses, err = api.client.ListDeviceStatuses(ctx, st.Mobile, st.Token)
		if err == nil {
			data.Rows = model.JoinStatuses(devices, statuses)
		}
	}

	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("fetching device view")
		data.Errors = append(data.Errors, err.Error())
	}

	api.render(ctx, w, func(w io.Writer) error {
		return templates.Devices(w, data)
	})
}

func (api *HTTP) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := api.sessions.Load(r)

		mobile := r.FormValue("mobile")
		password := r.FormValue("password")

		auth, err := api.client.ValidateUser(ctx, mobile, password)
		if err != nil {
			zerolog.Ctx(ctx).Info().Err(err).Msg("login rejected")
			st.FlashError(err.Error())
		} else {
			st.Login(auth.Token, mobile)
			st.FlashSuccess("Login Successful! Redirecting to IoT device list...")
		}

		api.finishEvent(ctx, w, r, st)
	}
}

func (api *HTTP) handleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := api.sessions.Load(r)

		mobile := r.FormValue("mobile")
		password := r.FormValue("password")
		confirm := r.FormValue("confirm_password")

		_, err := api.client.RegisterUser(ctx, mobile, password, confirm)
		if err != nil {
			zerolog.Ctx(ctx).Info().Err(err).Msg("registration rejected")
			st.ShowRegistration = true
			st.FlashError(err.Error())
		} else {
			st.ShowRegistration = false
			st.FlashSuccess("Registration successful! Please login.")
		}

		api.finishEvent(ctx, w, r, st)
	}
}

// handleRegistrationView toggles the logged-out view between the
// registration and login forms.
func (api *HTTP) handleRegistrationView(show bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := api.sessions.Load(r)
		st.ShowRegistration = show

		api.finishEvent(r.Context(), w, r, st)
	}
}

func (api *HTTP) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := api.sessions.Load(r)
		st.Logout()

		api.finishEvent(r.Context(), w, r, st)
	}
}

// handleDeviceCommand starts or stops one device. Client failures never
// propagate: they become flash messages on the next render.
func (api *HTTP) handleDeviceCommand(start bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := api.sessions.Load(r)

		if !st.LoggedIn() {
			api.finishEvent(ctx, w, r, st)
			return
		}

		deviceID := r.FormValue("id")
		if deviceID == "" {
			st.FlashError(model.ErrMissingParameter.Error())
			api.finishEvent(ctx, w, r, st)
			return
		}

		duration := 0
		fallback := "Device stopped successfully!"
		if start {
			duration = api.startDuration
			fallback = "Device started successfully!"
		}

		result, err := api.client.UpdateTask(ctx, deviceID, st.Token, st.Mobile, duration)
		switch {
		case err != nil:
			zerolog.Ctx(ctx).Error().Err(err).Str("device", deviceID).Msg("device command failed")
			st.FlashError(err.Error())
		case result.Message != "":
			st.FlashSuccess(result.Message)
		default:
			st.FlashSuccess(fallback)
		}

		api.finishEvent(ctx, w, r, st)
	}
}

func (api *HTTP) handleInfo(info model.ApplicationInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(contentType, contentJSON)
		w.WriteHeader(http.StatusOK)

		(&templates.MarshalData{
			Revision:     info.Revision,
			Branch:       info.Branch,
			Environment:  info.Environment,
			BootTime:     api.bootTime.String(),
			Uptime:       time.Since(api.bootTime).Seconds(),
			RequestCount: int(api.requestCount),
		}).WriteJSON(w)
	}
}

// finishEvent persists the session transition and sends the browser
// back to the view selector: one event in, one state change, one
// render out.
func (api *HTTP) finishEvent(ctx context.Context, w http.ResponseWriter, r *http.Request, st *session.State) {
	if err := api.sessions.Save(r, w, st); err != nil {
		api.serveError(ctx, w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (api *HTTP) render(ctx context.Context, w http.ResponseWriter, page func(io.Writer) error) {
	w.Header().Set(contentType, contentHTML)
	w.WriteHeader(http.StatusOK)

	if err := page(w); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("rendering page")
	}
}

func (api *HTTP) serveError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	var (
		logger     = zerolog.Ctx(ctx)
		rid        = fcontext.RequestID(ctx)
		eventLevel = sentry.LevelFatal

		responseError model.ServiceError
	)

	switch terr := err.(type) {
	case model.ServiceError:
		responseError = terr
		if terr.Code == 0 {
			responseError.Code = http.StatusInternalServerError
		}
	default:
		responseError.Code = http.StatusInternalServerError
		responseError.Message = err.Error()
		responseError.RequestID = rid
	}

	if responseError.Code != http.StatusInternalServerError {
		eventLevel = sentry.LevelError
	}

	logger.Error().Err(responseError).Msg("captured error")

	if api.notifier != nil {
		event := sentry.NewEvent()
		event.Message = responseError.Message
		event.Level = eventLevel
		event.Contexts["request"] = map[string]interface{}{"request_id": rid}

		api.notifier.CaptureEvent(event, &sentry.EventHint{OriginalException: err}, sentry.NewScope())
	}

	http.Error(w, responseError.Message, responseError.Code)
}
