package query

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

// Directive is one filter directive: an operation name and its argument.
type Directive struct {
	Name string
	Arg  Argument
}

// ParseDirective parses the command-line form of a directive:
//
//	in-inbox
//	search-term=groceries
//	due-in-next-n-days=7
//	due-between=2024-01-01..2024-01-10
//	is-one-of-priority=high,medium
//
// The argument shape is taken from the registry entry for name.
func ParseDirective(s string) (Directive, error) {
	name, value, hasValue := strings.Cut(strings.TrimSpace(s), "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Directive{}, shared.InvalidRequestError("empty filter directive")
	}

	shape, ok := ShapeOf(name)
	if !ok {
		if hasValue {
			return Directive{}, shared.UnknownOperationError(name, ShapeString.String())
		}
		return Directive{}, shared.UnknownOperationError(name, ShapeNone.String())
	}

	if shape != ShapeNone && !hasValue {
		return Directive{}, shared.InvalidRequestError("%s needs a %s argument", name, shape)
	}

	switch shape {
	case ShapeNone:
		if hasValue {
			return Directive{}, shared.UnknownOperationError(name, ShapeString.String())
		}
		return Directive{Name: name, Arg: NoArg()}, nil
	case ShapeString:
		return Directive{Name: name, Arg: StringArg(value)}, nil
	case ShapeInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Directive{}, shared.InvalidRequestError("%s expects an integer, got %q", name, value)
		}
		return Directive{Name: name, Arg: IntArg(n)}, nil
	case ShapeRange:
		start, end, ok := strings.Cut(value, "..")
		if !ok {
			return Directive{}, shared.InvalidRequestError("%s expects start..end, got %q", name, value)
		}
		return Directive{Name: name, Arg: RangeArg(start, end)}, nil
	case ShapePriority:
		p, err := models.ParsePriority(value)
		if err != nil {
			return Directive{}, err
		}
		return Directive{Name: name, Arg: PriorityArg(p)}, nil
	default:
		ps, err := models.ParsePriorities(strings.Split(value, ","))
		if err != nil {
			return Directive{}, err
		}
		return Directive{Name: name, Arg: PriorityListArg(ps...)}, nil
	}
}

// ParseDirectives parses every directive, failing on the first bad one.
func ParseDirectives(ss []string) ([]Directive, error) {
	out := make([]Directive, 0, len(ss))
	for _, s := range ss {
		d, err := ParseDirective(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// FilterOption is the JSON form of a directive used by the HTTP API.
//
// Exactly one of the argument fields is expected; the one present selects the shape.
type FilterOption struct {
	FilterName        string            `json:"filterName"`
	Value             json.RawMessage   `json:"value,omitempty"`
	StartValue        *string           `json:"startValue,omitempty"`
	EndValue          *string           `json:"endValue,omitempty"`
	TodoistPriority   *models.Priority  `json:"todoistPriority,omitempty"`
	TodoistPriorities []models.Priority `json:"todoistPriorities,omitempty"`
}

// Directive converts the option into a [Directive]. A JSON number value is an integer
// argument, a JSON string a string argument.
func (o FilterOption) Directive() (Directive, error) {
	if strings.TrimSpace(o.FilterName) == "" {
		return Directive{}, shared.InvalidRequestError("filterName is required")
	}
	d := Directive{Name: o.FilterName}

	switch {
	case o.TodoistPriority != nil:
		d.Arg = PriorityArg(*o.TodoistPriority)
	case o.TodoistPriorities != nil:
		d.Arg = PriorityListArg(o.TodoistPriorities...)
	case o.StartValue != nil || o.EndValue != nil:
		if o.StartValue == nil || o.EndValue == nil {
			return Directive{}, shared.InvalidRequestError("%s needs both startValue and endValue", o.FilterName)
		}
		d.Arg = RangeArg(*o.StartValue, *o.EndValue)
	case len(o.Value) > 0 && !bytes.Equal(o.Value, []byte("null")):
		arg, err := scalarArg(o.FilterName, o.Value)
		if err != nil {
			return Directive{}, err
		}
		d.Arg = arg
	default:
		d.Arg = NoArg()
	}
	return d, nil
}

func scalarArg(name string, raw json.RawMessage) (Argument, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return StringArg(s), nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return IntArg(n), nil
	}
	return Argument{}, shared.InvalidRequestError("value of %s must be a string or an integer", name)
}

// Compose applies directives in order to a fresh request. With no directives the request
// lists every task through the primary family.
func Compose(directives []Directive) (*Request, error) {
	req := NewRequest()
	for _, d := range directives {
		if err := Dispatch(req, d.Name, d.Arg); err != nil {
			return nil, err
		}
	}
	req.Init(models.Primary)
	return req, nil
}
