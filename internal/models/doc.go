// Package models defines the Todoist entities tdq reads and the settings it persists.
//
// The package contains two categories of types:
//
// 1. Upstream records decoded from the Todoist API
//   - [RawTask] : a task exactly as the API returns it
//   - [Project], [Label] : catalog entries used by the projects and labels endpoints
//   - [Page] : one cursor page of any of the above
//
// 2. Derived and persistent types
//   - [Task] : a [RawTask] whose deadline and duration are resolved in the caller's time zone
//   - [UserSettings] : per-device settings (time zone, inbox project) stored in sqlite
//
// [Priority] and [Product] are closed enumerations shared by the query builder and the HTTP layer.
// All persistent entities implement the Model interface; the Repository[T] interface defines CRUD access.
package models
