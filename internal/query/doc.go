// Package query turns filter directives into a request against one Todoist endpoint family.
//
// # Building a Request
//
// A [Request] is created per retrieval with [NewRequest] and mutated by applying operations:
//
//	req := query.NewRequest()
//	_ = query.Dispatch(req, "in-inbox", query.NoArg())
//	_ = query.Dispatch(req, "is-one-of-priority", query.PriorityListArg(models.PriorityHigh, models.PriorityMedium))
//	spec, err := req.Build(paths) // query=(#Inbox) & (p1 | p2)
//
// The first operation fixes the endpoint family. Identifier operations (by-task-id, by-project-id, ...)
// default to the primary tasks endpoint and set a query parameter. Every other operation defaults to the
// filtered endpoint and appends one parenthesized clause to the filter expression.
//
// # Operations
//
// [Parse] checks a name against the registry for its argument [Shape] and returns one of the
// [Operation] variants; [Apply] mutates the request. camelCase names are accepted as aliases
// of the kebab-case names (see [Canonical]).
//
// [ParseDirective] reads the command-line form (name=value) and [FilterOption] the JSON form.
//
// # Errors
//
//   - UNKNOWN_OPERATION : name not registered for the argument's shape
//   - INVALID_PRIORITY_LABEL : priority outside High, Medium, Low, None
//   - INVALID_REQUEST : malformed directive (missing argument, bad integer, bad range)
package query
