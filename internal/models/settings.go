package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tdq/internal/shared"
)

// ContextSettings supplies what the result mapper needs from the caller.
type ContextSettings interface {
	TimeZone() string
}

// StaticSettings is a [ContextSettings] for callers without a stored profile.
type StaticSettings string

func (s StaticSettings) TimeZone() string { return string(s) }

// UserSettings is the persisted profile of one control device.
type UserSettings struct {
	id             string
	sequence       int
	deviceID       string
	name           string
	timeZone       string
	inboxProjectID string
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

var (
	_ Model           = (*UserSettings)(nil)
	_ ContextSettings = (*UserSettings)(nil)
	_ ContextSettings = StaticSettings("")
)

// NewUserSettings creates unsaved settings; the repository assigns the ID.
func NewUserSettings(sequence int, deviceID, name, timeZone string) *UserSettings {
	now := time.Now()
	return &UserSettings{
		sequence:  sequence,
		deviceID:  deviceID,
		name:      name,
		timeZone:  timeZone,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *UserSettings) ID() string             { return s.id }
func (s *UserSettings) Sequence() int          { return s.sequence }
func (s *UserSettings) DeviceID() string       { return s.deviceID }
func (s *UserSettings) Name() string           { return s.name }
func (s *UserSettings) TimeZone() string       { return s.timeZone }
func (s *UserSettings) InboxProjectID() string { return s.inboxProjectID }
func (s *UserSettings) CreatedAt() time.Time   { return s.createdAt }
func (s *UserSettings) UpdatedAt() time.Time   { return s.updatedAt }
func (s *UserSettings) DeletedAt() *time.Time  { return s.deletedAt }

func (s *UserSettings) SetID(id string)             { s.id = id }
func (s *UserSettings) SetSequence(n int)           { s.sequence = n }
func (s *UserSettings) SetName(name string)         { s.name = name }
func (s *UserSettings) SetTimeZone(tz string)       { s.timeZone = tz }
func (s *UserSettings) SetInboxProjectID(id string) { s.inboxProjectID = id }
func (s *UserSettings) SetCreatedAt(t time.Time)    { s.createdAt = t }
func (s *UserSettings) SetUpdatedAt(t time.Time)    { s.updatedAt = t }
func (s *UserSettings) SetDeletedAt(t *time.Time)   { s.deletedAt = t }

// SettingsView is the JSON shape of [UserSettings].
type SettingsView struct {
	ID             string    `json:"id"`
	Sequence       int       `json:"sequence"`
	DeviceID       string    `json:"controlDeviceId"`
	Name           string    `json:"name"`
	TimeZone       string    `json:"timeZone"`
	InboxProjectID string    `json:"inboxProjectId,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// View copies the exported fields out of s.
func (s *UserSettings) View() SettingsView {
	return SettingsView{
		ID:             s.id,
		Sequence:       s.sequence,
		DeviceID:       s.deviceID,
		Name:           s.name,
		TimeZone:       s.timeZone,
		InboxProjectID: s.inboxProjectID,
		UpdatedAt:      s.updatedAt,
	}
}

// Location loads the settings' time zone.
func (s *UserSettings) Location() (*time.Location, error) {
	return time.LoadLocation(s.timeZone)
}

// Validate requires a device id, a name and a loadable IANA time zone.
func (s *UserSettings) Validate() error {
	if strings.TrimSpace(s.deviceID) == "" {
		return fmt.Errorf("%w: device id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(s.name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	if s.timeZone == "" {
		return fmt.Errorf("%w: time zone is required", shared.ErrInvalidInput)
	}
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("%w: time zone %q: %v", shared.ErrInvalidInput, s.timeZone, err)
	}
	return nil
}
