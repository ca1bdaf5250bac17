package models

import (
	"sort"
	"strings"
)

// Project is a Todoist project as returned by the projects endpoint.
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	ParentID       string `json:"parent_id,omitempty"`
	ChildOrder     int    `json:"child_order"`
	IsFavorite     bool   `json:"is_favorite"`
	IsArchived     bool   `json:"is_archived"`
	IsInboxProject bool   `json:"inbox_project"`
	ViewStyle      string `json:"view_style"`
}

// Key identifies the project across pages.
func (p Project) Key() string { return p.ID }

// ListProjects keeps only list-style projects, sorted by name.
func ListProjects(projects []Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.ViewStyle == "list" {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Label is a personal label as returned by the labels endpoint.
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	ItemOrder  int    `json:"order"`
	IsFavorite bool   `json:"is_favorite"`
}

// Key identifies the label across pages.
func (l Label) Key() string { return l.Name }

// LabelView is a label with its color key resolved for display.
type LabelView struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	ColorName string `json:"colorName"`
	Hex       string `json:"hex"`
}

// LabelList is the response body of the labels endpoint.
type LabelList struct {
	Labels []LabelView `json:"labels"`
}

// Color is one entry of Todoist's fixed color palette.
type Color struct {
	Key  string
	Name string
	Hex  string
}

var palette = map[string]Color{
	"berry_red":   {"berry_red", "Berry Red", "#B8255F"},
	"red":         {"red", "Red", "#DC4C3E"},
	"orange":      {"orange", "Orange", "#C77100"},
	"yellow":      {"yellow", "Yellow", "#B29104"},
	"olive_green": {"olive_green", "Olive Green", "#949C31"},
	"lime_green":  {"lime_green", "Lime Green", "#65A33A"},
	"green":       {"green", "Green", "#369307"},
	"mint_green":  {"mint_green", "Mint Green", "#42A393"},
	"teal":        {"teal", "Teal", "#148FAD"},
	"sky_blue":    {"sky_blue", "Sky Blue", "#319DC0"},
	"light_blue":  {"light_blue", "Light Blue", "#6988A4"},
	"blue":        {"blue", "Blue", "#4180FF"},
	"grape":       {"grape", "Grape", "#692EC2"},
	"violet":      {"violet", "Violet", "#CA3FEE"},
	"lavender":    {"lavender", "Lavender", "#A4698C"},
	"magenta":     {"magenta", "Magenta", "#E05095"},
	"salmon":      {"salmon", "Salmon", "#C9766F"},
	"charcoal":    {"charcoal", "Charcoal", "#808080"},
	"grey":        {"grey", "Grey", "#999999"},
	"taupe":       {"taupe", "Taupe", "#8F7A69"},
}

// ColorByKey resolves a palette key such as "berry_red". Unknown keys fall back to charcoal.
func ColorByKey(key string) Color {
	if c, ok := palette[strings.ToLower(key)]; ok {
		return c
	}
	return palette["charcoal"]
}

// FilterLabels keeps labels whose name is in names (all of them when names is empty) and resolves colors.
func FilterLabels(labels []Label, names []string) []LabelView {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := make([]LabelView, 0, len(labels))
	for _, l := range labels {
		if len(want) > 0 && !want[l.Name] {
			continue
		}
		c := ColorByKey(l.Color)
		out = append(out, LabelView{Name: l.Name, Color: l.Color, ColorName: c.Name, Hex: c.Hex})
	}
	return out
}
