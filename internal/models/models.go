// package models defines the data model for the tdq query service
package models

import (
	"time"
)

// Model is a row tdq keeps in its own SQLite store.
//
// Device profiles ([UserSettings]) are the only such rows; Todoist data is never persisted.
type Model interface {
	ID() string           // generated on insert
	CreatedAt() time.Time // set once by the constructor
	UpdatedAt() time.Time // bumped by every successful update
	Validate() error      // rejects a profile the mapper could not use, e.g. an unknown zone
}

// Repository is the storage contract for profiles keyed by generated ID.
//
// Rows are soft-deleted, so Get and List never return a profile after Delete.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
