package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

const settingsColumns = `
	id, sequence, device_id, name, time_zone, inbox_project_id,
	created_at, updated_at, deleted_at`

// SettingsRepository implements models.Repository[*models.UserSettings].
type SettingsRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.UserSettings] = (*SettingsRepository)(nil)

// NewSettingsRepository creates a new SettingsRepository with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create validates and inserts settings, assigning a fresh ID and sequence.
func (r *SettingsRepository) Create(s *models.UserSettings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "user_settings")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	s.SetID(shared.GenerateID())
	s.SetSequence(sequence)

	query := `
		INSERT INTO user_settings (
			id, sequence, device_id, name, time_zone, inbox_project_id,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		s.ID(),
		s.Sequence(),
		s.DeviceID(),
		s.Name(),
		s.TimeZone(),
		nullable(s.InboxProjectID()),
		s.CreatedAt(),
		s.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}

	return nil
}

// Get retrieves settings by ID, excluding soft-deleted rows
func (r *SettingsRepository) Get(id string) (*models.UserSettings, error) {
	query := `SELECT` + settingsColumns + `
		FROM user_settings
		WHERE id = ? AND deleted_at IS NULL
	`
	return scanSettings(r.db.QueryRow(query, id))
}

// GetByDevice retrieves the live settings of a control device.
func (r *SettingsRepository) GetByDevice(deviceID string) (*models.UserSettings, error) {
	query := `SELECT` + settingsColumns + `
		FROM user_settings
		WHERE device_id = ? AND deleted_at IS NULL
	`
	return scanSettings(r.db.QueryRow(query, deviceID))
}

// Update saves name, time zone and inbox project. The device id is immutable.
func (r *SettingsRepository) Update(s *models.UserSettings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	s.SetUpdatedAt(now)

	query := `
		UPDATE user_settings
		SET name = ?, time_zone = ?, inbox_project_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, s.Name(), s.TimeZone(), nullable(s.InboxProjectID()), now, s.ID())
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return expectOne(result, s.ID())
}

// Delete soft-deletes settings by ID
func (r *SettingsRepository) Delete(id string) error {
	query := `
		UPDATE user_settings
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return expectOne(result, id)
}

// List retrieves live settings ordered by sequence.
//
// Supported criteria: "time_zone" (string).
func (r *SettingsRepository) List(criteria map[string]any) ([]*models.UserSettings, error) {
	query := `SELECT` + settingsColumns + `
		FROM user_settings
		WHERE deleted_at IS NULL
	`

	args := []any{}
	if tz, ok := criteria["time_zone"].(string); ok && tz != "" {
		query += " AND time_zone = ?"
		args = append(args, tz)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var out []*models.UserSettings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

func expectOne(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSettingsNotFound, id)
	}
	return nil
}

func scanSettings(row scanner) (*models.UserSettings, error) {
	var (
		id             string
		sequence       int
		deviceID       string
		name           string
		timeZone       string
		inboxProjectID sql.NullString
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := row.Scan(&id, &sequence, &deviceID, &name, &timeZone, &inboxProjectID, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}

	s := models.NewUserSettings(sequence, deviceID, name, timeZone)
	s.SetID(id)
	s.SetCreatedAt(createdAt)
	s.SetUpdatedAt(updatedAt)
	if inboxProjectID.Valid {
		s.SetInboxProjectID(inboxProjectID.String)
	}
	if deletedAt.Valid {
		s.SetDeletedAt(&deletedAt.Time)
	}
	return s, nil
}
