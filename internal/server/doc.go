// Package server exposes task retrieval over HTTP.
//
// # Routes
//
//	POST /todoist/filterTasks                        {"filterOptions":[...],"sortingOptions":{"postProcessingActions":[...]}}
//	POST /todoist/getInboxTasks                      optional {"sortingOptions":{...}}
//	GET  /todoist/getProjects                        list-style projects sorted by name
//	POST /todoist/getLabels                          optional JSON array of label names
//	GET  /todoist/getTasksByProjectId/{id}           ?sortingAction=alphabetically|due_date
//	GET  /userSettings/getUserSettings/{deviceId}
//	POST /userSettings/updateUserSettings            {"controlDeviceId":...,"name","timeZone","inboxProjectId"}
//	GET  /health
//
// Filter and inbox endpoints answer {"numberOfTasks":N,"tasks":[...]}. The project endpoint
// answers top-level tasks with nested subTasks and reminders.
//
// # Errors
//
// Every failure, including unknown routes, is written as an [ErrorResponse]:
// {timestamp, statusCode, shortCode, errMsg, details}. Upstream failures carry the upstream
// status and body in details.
//
// # Middleware
//
// [Middleware] wraps handlers in reverse order (last added executes first). The default stack
// recovers panics, assigns a request id with a request-scoped logger, and resolves the caller's
// settings from the [DeviceHeader] through a [SettingsLookup], falling back to the configured zone.
//
// Custom handlers implement the [Handler] interface, which adds Routes to [http.Handler] so one
// handler can own several paths.
package server
