// Package ui implements an interactive terminal browser for saved queries using bubbletea's Elm architecture.
//
// The TUI moves through four views:
//  1. [QueryListView] : pick a saved query from the configuration
//  2. [FetchView] : watch the query being composed and its pages arrive
//  3. [TaskListView] : browse the ordered tasks, filter with /
//  4. [DetailView] : every resolved field of one task
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from the [tasks.Retriever], so a slow page never blocks rendering.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help from charmbracelet/bubbles/help.
package ui
