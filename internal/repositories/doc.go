// package repositories provides the sqlite persistence layer for stored user settings.
//
// [SettingsRepository] implements models.Repository[*models.UserSettings] with soft deletes
// and adds a lookup by control device id, which is how the HTTP layer finds the time zone
// of an incoming request.
//
// Sequence numbers give settings a stable, human-readable order independent of UUIDs and
// creation timestamps. [NextSequence] atomically increments the per-table counter kept in a
// dedicated sequence table.
package repositories
