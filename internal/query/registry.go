package query

import (
	"sort"

	"github.com/desertthunder/tdq/internal/models"
)

// Shape is the argument shape an operation accepts.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeString
	ShapeInt
	ShapeRange
	ShapePriority
	ShapePriorityList
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "no"
	case ShapeString:
		return "string"
	case ShapeInt:
		return "integer"
	case ShapeRange:
		return "string pair"
	case ShapePriority:
		return "priority"
	case ShapePriorityList:
		return "priority list"
	default:
		return "unknown"
	}
}

// entry describes one registered operation.
//
// param is set for operations that add a query parameter, format for those that add a clause.
type entry struct {
	family models.Product
	param  string
	format string
}

// registries holds one table per shape; a name appears in at most one of them.
var registries = map[Shape]map[string]entry{
	ShapeString: {
		"by-user-id":     {family: models.Primary, param: "user_id"},
		"by-task-id":     {family: models.Primary, param: "id"},
		"by-project-id":  {family: models.Primary, param: "project_id"},
		"by-section-id":  {family: models.Primary, param: "section_id"},
		"by-parent-id":   {family: models.Primary, param: "parent_id"},
		"by-added-by":    {family: models.Primary, param: "added_by_uid"},
		"by-assigned-by": {family: models.Primary, param: "assigned_by_uid"},
		"by-responsible": {family: models.Primary, param: "responsible_uid"},

		"search-term": {family: models.Filtered, format: "search: %s"},
		"on-date":     {family: models.Filtered, format: "date: %s"},
		"before-date": {family: models.Filtered, format: "date before: %s"},
		"after-date":  {family: models.Filtered, format: "date after: %s"},
		"due-on":      {family: models.Filtered, format: "due: %s"},
		"due-before":  {family: models.Filtered, format: "due before: %s"},
		"due-after":   {family: models.Filtered, format: "due after: %s"},
		"in-project":  {family: models.Filtered, format: "#%s"},
		// the filter language has no parent predicate
		"sub-tasks-of": {family: models.Filtered, param: "parent_id"},
	},
	ShapeInt: {
		"due-in-next-n-days": {family: models.Filtered, format: "next %d days"},
	},
	ShapeRange: {
		"date-between": {family: models.Filtered, format: "(date after: %s & date before: %s)"},
		"due-between":  {family: models.Filtered, format: "(due after: %s & due before: %s)"},
	},
	ShapeNone: {
		"recurring": {family: models.Filtered, format: "recurring"},
		"no-date":   {family: models.Filtered, format: "no date"},
		"in-inbox":  {family: models.Filtered, format: "#Inbox"},
	},
	ShapePriority: {
		"is-priority": {family: models.Filtered},
	},
	ShapePriorityList: {
		"is-one-of-priority": {family: models.Filtered},
	},
}

// aliases maps the camelCase names older clients send onto canonical names.
var aliases = map[string]string{
	"byUserId":         "by-user-id",
	"byTaskId":         "by-task-id",
	"byProjectId":      "by-project-id",
	"bySectionId":      "by-section-id",
	"byParentId":       "by-parent-id",
	"byAddedUID":       "by-added-by",
	"byAssignedUID":    "by-assigned-by",
	"byResponsibleUID": "by-responsible",
	"bySearchTerm":     "search-term",
	"onDate":           "on-date",
	"beforeDate":       "before-date",
	"afterDate":        "after-date",
	"dueOn":            "due-on",
	"dueBefore":        "due-before",
	"dueAfter":         "due-after",
	"inProject":        "in-project",
	"parentTaskId":     "sub-tasks-of",
	"dueInNextNDays":   "due-in-next-n-days",
	"inBetweenDate":    "date-between",
	"dueInBetween":     "due-between",
	"noDate":           "no-date",
	"inInbox":          "in-inbox",
	"isPriority":       "is-priority",
	"isOneOfPriority":  "is-one-of-priority",
}

// Canonical resolves an alias to its canonical name; other names are returned unchanged.
func Canonical(name string) string {
	if c, ok := aliases[name]; ok {
		return c
	}
	return name
}

// ShapeOf reports which shape the named operation takes.
func ShapeOf(name string) (Shape, bool) {
	name = Canonical(name)
	for shape, reg := range registries {
		if _, ok := reg[name]; ok {
			return shape, true
		}
	}
	return 0, false
}

// Names lists every canonical operation name of shape s, sorted.
func Names(s Shape) []string {
	names := make([]string, 0, len(registries[s]))
	for name := range registries[s] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(shape Shape, name string) (entry, bool) {
	e, ok := registries[shape][Canonical(name)]
	return e, ok
}
