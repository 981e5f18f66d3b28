package rakhwala

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/roborakhwala/panel/internal/model"
)

type recordedRequest struct {
	path   string
	auth   string
	fields map[string]interface{}
}

// newTestClient spins up a stub remote and a client pointed at it.
// Requests are appended to the returned slice.
func newTestClient(t *testing.T, status int, body string) (Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		fields := map[string]interface{}{}
		_ = json.Unmarshal(data, &fields)

		requests = append(requests, recordedRequest{
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			fields: fields,
		})

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return New(srv.URL, time.Second), &requests
}

func TestValidateUserSuccess(t *testing.T) {
	is := is.New(t)
	client, requests := newTestClient(t, http.StatusOK, `{"jwt_token":"abc"}`)

	auth, err := client.ValidateUser(context.Background(), "777", "secret")
	is.NoErr(err)
	is.Equal(auth.Token, "abc")

	is.Equal(len(*requests), 1)
	got := (*requests)[0]
	is.Equal(got.path, "/validate_user")
	is.Equal(got.auth, "") // no bearer header before login
	is.Equal(got.fields["mobile"], "777")
	is.Equal(got.fields["password"], "secret")
}

func TestValidateUserRejected(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusUnauthorized, `{"detail":"discarded"}`)

	_, err := client.ValidateUser(context.Background(), "777", "bad")
	is.True(err != nil)
	is.Equal(err.Error(), "Invalid mobile number or password")
}

func TestValidateUserTokenlessOK(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusOK, `{"success":false,"message":"account locked"}`)

	_, err := client.ValidateUser(context.Background(), "777", "secret")
	is.True(err != nil)
	is.Equal(err.Error(), "account locked")
}

func TestValidateUserTokenlessOKWithoutMessage(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusOK, `{"success":false}`)

	_, err := client.ValidateUser(context.Background(), "777", "secret")
	is.True(err != nil)
	is.Equal(err.Error(), "Login failed")
}

func TestRegisterUserPasswordMismatchSkipsNetwork(t *testing.T) {
	is := is.New(t)
	client, requests := newTestClient(t, http.StatusOK, `{"success":true}`)

	_, err := client.RegisterUser(context.Background(), "777", "one", "two")
	is.True(err != nil)
	is.Equal(err.Error(), "Passwords do not match")
	is.Equal(len(*requests), 0)
}

func TestRegisterUserSuccess(t *testing.T) {
	is := is.New(t)
	client, requests := newTestClient(t, http.StatusOK, `{"success":true,"message":"welcome"}`)

	result, err := client.RegisterUser(context.Background(), "777", "pw", "pw")
	is.NoErr(err)
	is.Equal(result.Message, "welcome")

	got := (*requests)[0]
	is.Equal(got.path, "/user_registry")
	is.Equal(got.fields["confirm_password"], "pw")
}

func TestRegisterUserRejected(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusConflict, `{}`)

	_, err := client.RegisterUser(context.Background(), "777", "pw", "pw")
	is.True(err != nil)
	is.Equal(err.Error(), "Registration failed")
}

func TestRegisterUserApplicationFailure(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusOK, `{"success":false,"message":"mobile already registered"}`)

	_, err := client.RegisterUser(context.Background(), "777", "pw", "pw")
	is.True(err != nil)
	is.Equal(err.Error(), "mobile already registered")
}

func TestListDevices(t *testing.T) {
	is := is.New(t)
	client, requests := newTestClient(t, http.StatusOK, `[{"id":"d1","device_label":"Pump"},{"id":"d2"}]`)

	devices, err := client.ListDevices(context.Background(), "777", "token-1")
	is.NoErr(err)
	is.Equal(devices, []model.Device{
		{ID: "d1", Label: "Pump"},
		{ID: "d2"},
	})

	got := (*requests)[0]
	is.Equal(got.path, "/get_user_profile_details")
	is.Equal(got.auth, "Bearer token-1")
	is.Equal(got.fields["user_login_id"], "777")
	is.Equal(got.fields["jwt_token"], "token-1")
}

func TestListDevicesRejected(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusForbidden, `{}`)

	_, err := client.ListDevices(context.Background(), "777", "token-1")
	is.True(err != nil)
	is.Equal(err.Error(), "Failed to fetch IoT devices")
}

func TestListDevicesObjectBody(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusOK, `{"success":false,"message":"profile suspended"}`)

	_, err := client.ListDevices(context.Background(), "777", "token-1")
	is.True(err != nil)
	is.Equal(err.Error(), "profile suspended")
}

func TestListDeviceStatuses(t *testing.T) {
	is := is.New(t)
	client, requests := newTestClient(t, http.StatusOK, `[{"id":"d1","action":"STARTED"}]`)

	statuses, err := client.ListDeviceStatuses(context.Background(), "777", "token-1")
	is.NoErr(err)
	is.Equal(statuses, []model.DeviceStatus{{ID: "d1", Action: model.ActionStarted}})
	is.Equal((*requests)[0].path, "/get_task")
}

func TestListDeviceStatusesRejected(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusBadGateway, ``)

	_, err := client.ListDeviceStatuses(context.Background(), "777", "token-1")
	is.True(err != nil)
	is.Equal(err.Error(), "Failed to fetch device statuses")
}

// Start and stop payloads must be identical apart from duration.
func TestUpdateTaskPayloadShape(t *testing.T) {
	is := is.New(t)
	client, requests := newTestClient(t, http.StatusOK, `{"message":"ok"}`)

	_, err := client.UpdateTask(context.Background(), "d1", "token-1", "777", 30)
	is.NoErr(err)
	_, err = client.UpdateTask(context.Background(), "d1", "token-1", "777", 0)
	is.NoErr(err)

	is.Equal(len(*requests), 2)
	start, stop := (*requests)[0], (*requests)[1]

	is.Equal(start.path, "/update_task")
	is.Equal(start.fields["duration"], float64(30))
	is.Equal(stop.fields["duration"], float64(0))

	delete(start.fields, "duration")
	delete(stop.fields, "duration")
	is.Equal(start.fields, stop.fields)
	is.Equal(start.fields["id"], "d1")
	is.Equal(start.fields["user_login_id"], "777")
	is.Equal(start.fields["jwt_token"], "token-1")
}

func TestUpdateTaskRejected(t *testing.T) {
	is := is.New(t)
	client, _ := newTestClient(t, http.StatusInternalServerError, ``)

	_, err := client.UpdateTask(context.Background(), "d1", "token-1", "777", 0)
	is.True(err != nil)
	is.Equal(err.Error(), "Failed to execute device command")
}

func TestUpdateTaskTransportError(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from now on

	client := New(url, time.Second)

	_, err := client.UpdateTask(context.Background(), "d1", "token-1", "777", 30)
	is.True(err != nil)
	is.True(strings.HasPrefix(err.Error(), "API request failed: "))

	var serr model.ServiceError
	is.True(asServiceError(err, &serr))
	is.Equal(serr.Code, http.StatusInternalServerError)
}

func TestNewDefaults(t *testing.T) {
	is := is.New(t)

	c, ok := New("", 0).(*client)
	is.True(ok)
	is.Equal(c.baseURL, DefaultBaseURL)
	is.Equal(c.c.Timeout, 10*time.Second)
}

func asServiceError(err error, target *model.ServiceError) bool {
	serr, ok := err.(model.ServiceError)
	if ok {
		*target = serr
	}
	return ok
}
