package tasks

import (
	"slices"
	"sort"
	"strings"

	"github.com/desertthunder/tdq/internal/models"
	"github.com/desertthunder/tdq/internal/shared"
)

// Action is one post-processing ordering step.
type Action int

const (
	ByExplicitIndex Action = iota + 1 // ascending child_order
	Alphabetical                      // ascending content, byte-wise
)

func (a Action) String() string {
	switch a {
	case ByExplicitIndex:
		return "order-by-child-order"
	case Alphabetical:
		return "alphabetically"
	default:
		return ""
	}
}

var actionAliases = map[string]Action{
	"order-by-child-order": ByExplicitIndex,
	"orderByChildOrder":    ByExplicitIndex,
	"ORDER_BY_CHILD_ORDER": ByExplicitIndex,
	"alphabetically":       Alphabetical,
	"ALPHABETICALLY":       Alphabetical,
}

// ParseAction resolves an action name.
func ParseAction(name string) (Action, error) {
	if a, ok := actionAliases[strings.TrimSpace(name)]; ok {
		return a, nil
	}
	return 0, shared.InvalidOrderingError(name)
}

// ActionNames lists the canonical action names.
func ActionNames() []string {
	return []string{ByExplicitIndex.String(), Alphabetical.String()}
}

// Pipeline applies ordering actions in the order they were given.
//
// Every action is a stable sort, so the last action decides the primary order and
// earlier actions only break its ties.
type Pipeline struct {
	actions []Action
}

// NewPipeline parses names; repeated actions keep their first position.
func NewPipeline(names []string) (*Pipeline, error) {
	p := &Pipeline{}
	for _, name := range names {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(p.actions, a) {
			p.actions = append(p.actions, a)
		}
	}
	return p, nil
}

// Actions returns the effective actions.
func (p *Pipeline) Actions() []Action {
	return slices.Clone(p.actions)
}

// Empty reports whether the pipeline leaves tasks in fetch order.
func (p *Pipeline) Empty() bool {
	return p == nil || len(p.actions) == 0
}

// Apply returns an ordered copy of tasks.
func (p *Pipeline) Apply(tasks []models.Task) []models.Task {
	out := slices.Clone(tasks)
	if p.Empty() {
		return out
	}
	for _, a := range p.actions {
		switch a {
		case ByExplicitIndex:
			sort.SliceStable(out, func(i, j int) bool { return out[i].ChildOrder < out[j].ChildOrder })
		case Alphabetical:
			sort.SliceStable(out, func(i, j int) bool { return out[i].Content < out[j].Content })
		}
	}
	return out
}
