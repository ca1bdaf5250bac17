package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

// DeviceHeader identifies the control device whose stored settings apply to a request.
const DeviceHeader = "X-Control-Device-ID"

// RequestIDHeader echoes the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const (
	loggerKey ctxKey = iota
	settingsKey
)

// SettingsLookup finds the stored settings of a control device.
type SettingsLookup interface {
	GetByDevice(deviceID string) (*models.UserSettings, error)
}

// LoggerFrom returns the request-scoped logger, or the default logger outside a request.
func LoggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// SettingsFrom returns the settings resolved for the request; UTC when none were resolved.
func SettingsFrom(ctx context.Context) models.ContextSettings {
	if s, ok := ctx.Value(settingsKey).(models.ContextSettings); ok {
		return s
	}
	return models.StaticSettings("UTC")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger assigns a request id, attaches a child logger to the context and logs each request.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = shared.GenerateID()
			}
			w.Header().Set(RequestIDHeader, id)

			reqLogger := shared.WithLogger(logger, "request_id", id)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), loggerKey, reqLogger)))

			reqLogger.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		})
	}
}

// Recover turns a panicking handler into a SYSTEM_EXCEPTION response.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					LoggerFrom(r.Context()).Error("handler panic", "panic", v)
					WriteError(w, fmt.Errorf("internal error: %v", v))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Settings resolves the caller's settings from [DeviceHeader].
//
// Without the header the request is mapped in defaultZone. A header naming an unknown device
// is rejected with NON_EXISTENT_USER.
func Settings(lookup SettingsLookup, defaultZone string) Middleware {
	fallback := models.StaticSettings(defaultZone)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var settings models.ContextSettings = fallback

			if device := r.Header.Get(DeviceHeader); device != "" && lookup != nil {
				stored, err := lookup.GetByDevice(device)
				switch {
				case errors.Is(err, shared.ErrSettingsNotFound):
					WriteError(w, shared.NewResponseError(http.StatusNotFound, shared.NonExistentUser, err,
						"no settings stored for device '%s'", device))
					return
				case err != nil:
					WriteError(w, err)
					return
				}
				settings = stored
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), settingsKey, settings)))
		})
	}
}
