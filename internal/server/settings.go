package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

// SettingsStore reads and saves device profiles.
type SettingsStore interface {
	SettingsLookup
	Update(s *models.UserSettings) error
}

// SettingsUpdate is the body of the update endpoint. Empty fields are left unchanged.
type SettingsUpdate struct {
	ControlDeviceID *string `json:"controlDeviceId"`
	Name            string  `json:"name"`
	TimeZone        string  `json:"timeZone"`
	InboxProjectID  string  `json:"inboxProjectId"`
}

const settingsPattern = "/userSettings/getUserSettings/{controlDeviceId}"

// SettingsHandler serves the /userSettings endpoints.
type SettingsHandler struct {
	store  SettingsStore
	routes map[string]http.HandlerFunc
}

var _ Handler = (*SettingsHandler)(nil)

// NewSettingsHandler creates the handler reading and updating device profiles in store.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	h := &SettingsHandler{store: store}
	h.routes = map[string]http.HandlerFunc{
		http.MethodGet + " " + settingsPattern:                h.get,
		http.MethodPost + " /userSettings/updateUserSettings": h.update,
	}
	return h
}

func (h *SettingsHandler) Routes() []string {
	return []string{settingsPattern, "/userSettings/updateUserSettings"}
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dispatch(w, r, h.routes)
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.lookup(r.PathValue("controlDeviceId"))
	if err != nil {
		fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.View())
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var body SettingsUpdate
	if err := decodeBody(r, &body, false); err != nil {
		WriteError(w, err)
		return
	}
	if body.ControlDeviceID == nil || strings.TrimSpace(*body.ControlDeviceID) == "" {
		WriteError(w, shared.InvalidRequestError("controlDeviceId is required"))
		return
	}

	s, err := h.lookup(*body.ControlDeviceID)
	if err != nil {
		fail(w, r, err)
		return
	}

	if body.Name != "" {
		s.SetName(body.Name)
	}
	if body.TimeZone != "" {
		s.SetTimeZone(body.TimeZone)
	}
	if body.InboxProjectID != "" {
		s.SetInboxProjectID(body.InboxProjectID)
	}

	if err := h.store.Update(s); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			err = shared.InvalidRequestError("%v", err)
		}
		fail(w, r, err)
		return
	}
	LoggerFrom(r.Context()).Info("settings updated", "device", s.DeviceID())
	WriteJSON(w, http.StatusOK, s.View())
}

// lookup maps a missing profile to NON_EXISTENT_USER.
func (h *SettingsHandler) lookup(deviceID string) (*models.UserSettings, error) {
	s, err := h.store.GetByDevice(deviceID)
	if errors.Is(err, shared.ErrSettingsNotFound) {
		return nil, shared.NewResponseError(http.StatusNotFound, shared.NonExistentUser, err,
			"no settings stored for device '%s'", deviceID)
	}
	return s, err
}
