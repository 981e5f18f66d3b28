// Package rakhwala wraps the remote Robo Rakhwala management API.
// Every operation is a single JSON-over-HTTPS POST with no retries;
// every failure path collapses into a model.ServiceError whose Message
// is the exact text shown to the user.
package rakhwala

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"

	"github.com/roborakhwala/panel/internal/model"
)

// DefaultBaseURL points at the production management service.
const DefaultBaseURL = "https://manage-roborakhwala.com/v1api"

const (
	msgInvalidCredentials = "Invalid mobile number or password"
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
	msgPasswordMismatch   = "Passwords do not match"
	msgDevicesFailed      = "Failed to fetch IoT devices"
	msgStatusesFailed     = "Failed to fetch device statuses"
	msgCommandFailed      = "Failed to execute device command"
)

// Client for interacting with the Robo Rakhwala management API.
type Client interface {
	ValidateUser(ctx context.Context, mobile, password string) (AuthResult, error)
	RegisterUser(ctx context.Context, mobile, password, confirmPassword string) (RegistrationResult, error)
	ListDevices(ctx context.Context, mobile, token string) ([]model.Device, error)
	ListDeviceStatuses(ctx context.Context, mobile, token string) ([]model.DeviceStatus, error)
	UpdateTask(ctx context.Context, deviceID, token, mobile string, durationMinutes int) (CommandResult, error)
}

type client struct {
	c       *http.Client
	baseURL string
}

// New creates a client against baseURL. A zero timeout falls back to
// ten seconds so a hung remote call cannot stall a render forever.
func New(baseURL string, timeout time.Duration) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if timeout <= 0 {
		timeout = time.Second * 10
	}

	return &client{
		c:       &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ValidateUser exchanges credentials for a bearer token. A 200 response
// succeeds iff it carries a non-empty jwt_token; anything else is an
// application-level refusal.
func (c *client) ValidateUser(ctx context.Context, mobile, password string) (AuthResult, error) {
	payload := map[string]interface{}{
		"mobile":   mobile,
		"password": password,
	}

	data, err := c.post(ctx, "/validate_user", "", payload, msgInvalidCredentials)
	if err != nil {
		return AuthResult{}, err
	}

	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return AuthResult{}, requestFailed(err)
	}

	token := string(v.GetStringBytes("jwt_token"))
	if token == "" {
		return AuthResult{}, model.ServiceError{
			Message: messageOr(v, msgLoginFailed),
			Code:    http.StatusUnauthorized,
		}
	}

	return AuthResult{Token: token, Message: string(v.GetStringBytes("message"))}, nil
}

// RegisterUser creates an account. A password/confirmation mismatch
// short-circuits locally and issues no network call.
func (c *client) RegisterUser(ctx context.Context, mobile, password, confirmPassword string) (RegistrationResult, error) {
	if password != confirmPassword {
		return RegistrationResult{}, model.ServiceError{
			Message: msgPasswordMismatch,
			Code:    http.StatusBadRequest,
		}
	}

	payload := map[string]interface{}{
		"mobile":           mobile,
		"password":         password,
		"confirm_password": confirmPassword,
	}

	data, err := c.post(ctx, "/user_registry", "", payload, msgRegistrationFailed)
	if err != nil {
		return RegistrationResult{}, err
	}

	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return RegistrationResult{}, requestFailed(err)
	}

	if !v.GetBool("success") {
		return RegistrationResult{}, model.ServiceError{
			Message: messageOr(v, msgRegistrationFailed),
			Code:    http.StatusUnprocessableEntity,
		}
	}

	return RegistrationResult{Message: string(v.GetStringBytes("message"))}, nil
}

// ListDevices fetches the devices registered to the account.
func (c *client) ListDevices(ctx context.Context, mobile, token string) ([]model.Device, error) {
	data, err := c.post(ctx, "/get_user_profile_details", token, authedPayload(mobile, token), msgDevicesFailed)
	if err != nil {
		return nil, err
	}

	items, err := parseList(data, msgDevicesFailed)
	if err != nil {
		return nil, err
	}

	devices := make([]model.Device, 0, len(items))
	for _, item := range items {
		devices = append(devices, model.Device{
			ID:    stringField(item, "id"),
			Label: stringField(item, "device_label"),
		})
	}

	return devices, nil
}

// ListDeviceStatuses fetches the last reported action per device.
func (c *client) ListDeviceStatuses(ctx context.Context, mobile, token string) ([]model.DeviceStatus, error) {
	data, err := c.post(ctx, "/get_task", token, authedPayload(mobile, token), msgStatusesFailed)
	if err != nil {
		return nil, err
	}

	items, err := parseList(data, msgStatusesFailed)
	if err != nil {
		return nil, err
	}

	statuses := make([]model.DeviceStatus, 0, len(items))
	for _, item := range items {
		statuses = append(statuses, model.DeviceStatus{
			ID:     stringField(item, "id"),
			Action: model.Action(stringField(item, "action")),
		})
	}

	return statuses, nil
}

// UpdateTask issues a device command. durationMinutes > 0 starts the
// device for that many minutes, 0 stops it.
func (c *client) UpdateTask(ctx context.Context, deviceID, token, mobile string, durationMinutes int) (CommandResult, error) {
	payload := map[string]interface{}{
		"user_login_id": mobile,
		"jwt_token":     token,
		"id":            deviceID,
		"duration":      durationMinutes,
	}

	data, err := c.post(ctx, "/update_task", token, payload, msgCommandFailed)
	if err != nil {
		return CommandResult{}, err
	}

	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return CommandResult{}, requestFailed(err)
	}

	return CommandResult{Message: string(v.GetStringBytes("message"))}, nil
}

// post performs one JSON POST and returns the raw body on HTTP 200. A
// transport error becomes "API request failed: ..."; any other status
// becomes fallback and the remote's own error detail is discarded.
func (c *client) post(ctx context.Context, path, token string, payload map[string]interface{}, fallback string) ([]byte, error) {
	logger := zerolog.Ctx(ctx).With().Str("pkg", "rakhwala").Str("path", path).Logger()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, requestFailed(err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, requestFailed(err)
	}

	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.c.Do(request)
	if err != nil {
		logger.Error().Err(err).Msg("transport failure")
		return nil, requestFailed(err)
	}

	data, err := io.ReadAll(response.Body)
	_ = response.Body.Close()
	if err != nil {
		return nil, requestFailed(err)
	}

	if response.StatusCode != http.StatusOK {
		logger.Error().Int("status", response.StatusCode).Msg("remote refused request")
		return nil, model.ServiceError{Message: fallback, Code: response.StatusCode}
	}

	logger.Debug().Msg("served")

	return data, nil
}

// parseList decodes a list endpoint body. These endpoints answer with
// either a JSON array or an object describing an application-level
// failure.
func parseList(data []byte, fallback string) ([]*fastjson.Value, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, requestFailed(err)
	}

	if v.Type() == fastjson.TypeArray {
		return v.GetArray(), nil
	}

	return nil, model.ServiceError{Message: messageOr(v, fallback), Code: http.StatusBadGateway}
}

func authedPayload(mobile, token string) map[string]interface{} {
	return map[string]interface{}{
		"user_login_id": mobile,
		"jwt_token":     token,
	}
}

func messageOr(v *fastjson.Value, fallback string) string {
	if msg := string(v.GetStringBytes("message")); msg != "" {
		return msg
	}

	return fallback
}

// stringField reads a field that the remote sometimes serves as a
// string and sometimes as a bare number.
func stringField(v *fastjson.Value, key string) string {
	field := v.Get(key)
	if field == nil {
		return ""
	}

	if b, err := field.StringBytes(); err == nil {
		return string(b)
	}

	return field.String()
}

func requestFailed(err error) model.ServiceError {
	return model.ServiceError{
		Message: "API request failed: " + err.Error(),
		Code:    http.StatusInternalServerError,
	}
}
