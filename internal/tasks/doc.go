// Package tasks retrieves Todoist tasks with real-time progress reporting.
//
// # Core Operations
//
//  1. [Retriever.Retrieve] : one task retrieval
//     - Applies filter directives in order to a fresh query.Request
//     - Fetches every cursor page through services.Service
//     - Resolves deadline and duration in the caller's time zone ([Mapper])
//     - Orders the result with a [Pipeline]
//
//  2. [Retriever.Projects] and [Retriever.Labels] : catalog reads through the same paginated fetcher
//
//  3. [Retriever.ProjectTasks] : one project's top-level tasks with subtasks nested and reminders attached
//
//  4. [Retriever.Dump] : raw first page of every configured endpoint, for debugging
//
//  5. [Retriever.BulkExport] : runs saved queries concurrently and writes one file per query
//     plus a manifest
//
// # Ordering
//
// Actions run in the order they are given. Each is a stable sort, so the last action is the
// primary key and earlier actions break ties. Repeated actions keep their first position.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
