// Package services defines the [Service] interface for reading Todoist collections and implements it
// over the Todoist REST API.
//
// # Pagination
//
// [Paginate] is the cursor loop shared by every collection. It requests the first page with no
// cursor, then follows next_cursor until the API returns none or hands back a cursor that was
// already used. Records are merged by key: a later page overwrites the content of an earlier
// record with the same key, while the record keeps the position where it was first seen.
//
// # Todoist Implementation
//
// [TodoistService] authenticates with a static bearer token through an [oauth2.Transport]. The
// transport timeout comes from configuration and an optional [rate.Limiter] paces page requests.
// Failed pages are never retried.
//
// # Error Handling
//
//   - [shared.ErrUpstreamFailure] : the API answered 4xx/5xx, the body did not decode, or the
//     request could not be sent. The [shared.ResponseError] carries upstreamStatus and upstreamBody.
//   - [shared.ErrMissingCredentials] : no API key configured
//   - context errors are returned as is
//
// [APIService] is the unauthenticated-by-itself raw client used by the service and by `tdq api get`.
package services
