package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

// Request is the state of one retrieval under construction: the endpoint family,
// the identifier query parameters and the filter clauses.
//
// A Request belongs to the caller that created it. Build a new one per retrieval.
type Request struct {
	family  models.Product
	params  url.Values
	clauses []string
}

// NewRequest returns an empty request with no family chosen.
func NewRequest() *Request {
	return &Request{params: url.Values{}}
}

// Resolved reports whether a family has been chosen.
func (r *Request) Resolved() bool {
	return r.family != models.Unresolved
}

// Init chooses p unless a family was already chosen; the first choice sticks.
func (r *Request) Init(p models.Product) *Request {
	if !r.Resolved() {
		r.family = p
	}
	return r
}

// Family returns the chosen family, or [models.Unresolved].
func (r *Request) Family() models.Product {
	return r.family
}

// SetParam sets an identifier query parameter, replacing any earlier value for key.
func (r *Request) SetParam(key, value string) {
	r.params.Set(key, value)
}

// Param returns the current value of an identifier query parameter.
func (r *Request) Param(key string) string {
	return r.params.Get(key)
}

// AddClause appends expr as one parenthesized group. Empty expressions are dropped.
func (r *Request) AddClause(expr string) {
	if strings.TrimSpace(expr) == "" {
		return
	}
	r.clauses = append(r.clauses, "("+expr+")")
}

// Expression is the filter expression built so far: groups joined by " & ".
func (r *Request) Expression() string {
	return strings.Join(r.clauses, " & ")
}

// Paths binds each endpoint family to its API path.
type Paths struct {
	Primary   string
	Secondary string
	Filtered  string
}

// PathsFromConfig reads family paths from the [todoist.paths] config section.
func PathsFromConfig(c shared.PathsConfig) Paths {
	return Paths{Primary: c.Tasks, Secondary: c.Projects, Filtered: c.FilteredTasks}
}

// For returns the path of family p.
func (p Paths) For(family models.Product) (string, error) {
	var path string
	switch family {
	case models.Primary:
		path = p.Primary
	case models.Secondary:
		path = p.Secondary
	case models.Filtered:
		path = p.Filtered
	default:
		return "", fmt.Errorf("%w: endpoint family is unresolved", shared.ErrInvalidInput)
	}
	if path == "" {
		return "", fmt.Errorf("%w: no path configured for %s family", shared.ErrInvalidConfig, family)
	}
	return path, nil
}

// Spec is a built request, ready for the fetcher. It shares no state with the [Request] it came from.
type Spec struct {
	Family models.Product
	Path   string
	Params url.Values
}

// Build freezes the request into a [Spec].
//
// For the filtered family a non-empty expression travels as the "query" parameter.
// Other families never carry an expression; one built there is dropped.
func (r *Request) Build(paths Paths) (Spec, error) {
	path, err := paths.For(r.family)
	if err != nil {
		return Spec{}, err
	}

	params := make(url.Values, len(r.params)+1)
	for k, v := range r.params {
		params[k] = append([]string(nil), v...)
	}
	if expr := r.Expression(); expr != "" && r.family == models.Filtered {
		params.Set("query", expr)
	}

	return Spec{Family: r.family, Path: path, Params: params}, nil
}

// Query returns the filter expression carried by the spec, if any.
func (s Spec) Query() string {
	return s.Params.Get("query")
}

// WithCursor returns a copy of the spec's parameters with cursor set; an empty cursor is omitted.
func (s Spec) WithCursor(cursor string) url.Values {
	params := make(url.Values, len(s.Params)+1)
	for k, v := range s.Params {
		params[k] = append([]string(nil), v...)
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return params
}
