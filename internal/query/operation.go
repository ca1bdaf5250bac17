package query

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

// Argument is the typed argument of one filter directive. Shape selects which field is meaningful.
type Argument struct {
	Shape      Shape
	Str        string
	Int        int
	Start      string
	End        string
	Priority   models.Priority
	Priorities []models.Priority
}

func NoArg() Argument             { return Argument{Shape: ShapeNone} }
func StringArg(s string) Argument { return Argument{Shape: ShapeString, Str: s} }
func IntArg(n int) Argument       { return Argument{Shape: ShapeInt, Int: n} }

func RangeArg(start, end string) Argument {
	return Argument{Shape: ShapeRange, Start: start, End: end}
}
func PriorityArg(p models.Priority) Argument {
	return Argument{Shape: ShapePriority, Priority: p}
}
func PriorityListArg(ps ...models.Priority) Argument {
	return Argument{Shape: ShapePriorityList, Priorities: ps}
}

// Operation is a validated filter operation. The concrete types below are the only implementations.
type Operation interface {
	Name() string
	Shape() Shape
	isOperation()
}

// ParamOp sets an identifier query parameter.
type ParamOp struct {
	name    string
	Default models.Product
	Param   string
	Value   string
}

// StringClauseOp appends a clause built from one string.
type StringClauseOp struct {
	name   string
	format string
	Value  string
}

// IntClauseOp appends a clause built from one integer.
type IntClauseOp struct {
	name   string
	format string
	N      int
}

// RangeClauseOp appends one group holding an after/before pair.
type RangeClauseOp struct {
	name   string
	format string
	Start  string
	End    string
}

// FlagClauseOp appends a fixed clause.
type FlagClauseOp struct {
	name   string
	Clause string
}

// PriorityOp appends a single priority term.
type PriorityOp struct {
	name     string
	Priority models.Priority
}

// PriorityListOp appends an OR group of distinct priority terms.
type PriorityListOp struct {
	name       string
	Priorities []models.Priority
}

func (o ParamOp) Name() string        { return o.name }
func (o StringClauseOp) Name() string { return o.name }
func (o IntClauseOp) Name() string    { return o.name }
func (o RangeClauseOp) Name() string  { return o.name }
func (o FlagClauseOp) Name() string   { return o.name }
func (o PriorityOp) Name() string     { return o.name }
func (o PriorityListOp) Name() string { return o.name }

func (ParamOp) Shape() Shape        { return ShapeString }
func (StringClauseOp) Shape() Shape { return ShapeString }
func (IntClauseOp) Shape() Shape    { return ShapeInt }
func (RangeClauseOp) Shape() Shape  { return ShapeRange }
func (FlagClauseOp) Shape() Shape   { return ShapeNone }
func (PriorityOp) Shape() Shape     { return ShapePriority }
func (PriorityListOp) Shape() Shape { return ShapePriorityList }

func (ParamOp) isOperation()        {}
func (StringClauseOp) isOperation() {}
func (IntClauseOp) isOperation()    {}
func (RangeClauseOp) isOperation()  {}
func (FlagClauseOp) isOperation()   {}
func (PriorityOp) isOperation()     {}
func (PriorityListOp) isOperation() {}

// Parse validates the name/shape pair and returns the matching [Operation].
//
// A name that is unknown, or known only for another shape, fails with UNKNOWN_OPERATION.
func Parse(name string, arg Argument) (Operation, error) {
	canonical := Canonical(name)
	e, ok := lookup(arg.Shape, canonical)
	if !ok {
		return nil, shared.UnknownOperationError(name, arg.Shape.String())
	}

	switch arg.Shape {
	case ShapeString:
		if e.param != "" {
			return ParamOp{name: canonical, Default: e.family, Param: e.param, Value: arg.Str}, nil
		}
		return StringClauseOp{name: canonical, format: e.format, Value: arg.Str}, nil
	case ShapeInt:
		return IntClauseOp{name: canonical, format: e.format, N: arg.Int}, nil
	case ShapeRange:
		return RangeClauseOp{name: canonical, format: e.format, Start: arg.Start, End: arg.End}, nil
	case ShapeNone:
		return FlagClauseOp{name: canonical, Clause: e.format}, nil
	case ShapePriority:
		if arg.Priority.FilterTerm() == "" {
			return nil, shared.InvalidPriorityError(fmt.Sprint(int(arg.Priority)))
		}
		return PriorityOp{name: canonical, Priority: arg.Priority}, nil
	case ShapePriorityList:
		if len(arg.Priorities) == 0 {
			return nil, shared.InvalidRequestError("%s needs at least one priority", canonical)
		}
		for _, p := range arg.Priorities {
			if p.FilterTerm() == "" {
				return nil, shared.InvalidPriorityError(fmt.Sprint(int(p)))
			}
		}
		return PriorityListOp{name: canonical, Priorities: append([]models.Priority(nil), arg.Priorities...)}, nil
	}

	return nil, shared.UnknownOperationError(name, arg.Shape.String())
}

// Apply runs op against req. It first lets the default family rule pick a family if none is chosen:
// identifier parameters default to primary, everything else to filtered.
func Apply(req *Request, op Operation) error {
	switch o := op.(type) {
	case ParamOp:
		req.Init(o.Default)
		req.SetParam(o.Param, o.Value)
	case StringClauseOp:
		req.Init(models.Filtered)
		req.AddClause(fmt.Sprintf(o.format, o.Value))
	case IntClauseOp:
		req.Init(models.Filtered)
		req.AddClause(fmt.Sprintf(o.format, o.N))
	case RangeClauseOp:
		req.Init(models.Filtered)
		req.AddClause(fmt.Sprintf(o.format, o.Start, o.End))
	case FlagClauseOp:
		req.Init(models.Filtered)
		req.AddClause(o.Clause)
	case PriorityOp:
		req.Init(models.Filtered)
		req.AddClause(o.Priority.FilterTerm())
	case PriorityListOp:
		req.Init(models.Filtered)
		req.AddClause(strings.Join(distinctTerms(o.Priorities), " | "))
	default:
		return shared.NewResponseError(http.StatusBadRequest, shared.UnknownOperation, shared.ErrUnknownOperation,
			"unsupported operation %T", op)
	}
	return nil
}

// Dispatch parses and applies one directive.
func Dispatch(req *Request, name string, arg Argument) error {
	op, err := Parse(name, arg)
	if err != nil {
		return err
	}
	return Apply(req, op)
}

// distinctTerms collapses priorities to unique filter terms, first occurrence first.
func distinctTerms(ps []models.Priority) []string {
	seen := make(map[string]bool, len(ps))
	terms := make([]string, 0, len(ps))
	for _, p := range ps {
		term := p.FilterTerm()
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}
