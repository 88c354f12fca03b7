package task

import "fmt"

// Priority is the urgency level of a todo.
type Priority string

// Priority values, from most to least urgent.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category is the life area a todo belongs to. Categories carry no intrinsic
// order; they exist for display grouping and filtering only.
type Category string

// Category values.
const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryHealth   Category = "health"
	CategoryFinance  Category = "finance"
	CategoryLearning Category = "learning"
	CategorySocial   Category = "social"
)

// Priorities lists every priority in rank order (most urgent first).
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPersonal, CategoryWork, CategoryHealth,
	CategoryFinance, CategoryLearning, CategorySocial,
}

// PriorityConfig is the display configuration for one priority level.
type PriorityConfig struct {
	// Label is the human-readable name.
	Label string `json:"label"`

	// Emoji is the marker shown next to the label.
	Emoji string `json:"emoji"`

	// Rank orders priorities for sorting: urgent=0 < high=1 < medium=2 < low=3.
	Rank int `json:"rank"`
}

// CategoryConfig is the display configuration for one category.
type CategoryConfig struct {
	// Label is the human-readable name.
	Label string `json:"label"`

	// Emoji is the marker shown next to the label.
	Emoji string `json:"emoji"`
}

// PriorityConfigs maps every Priority to its display configuration.
// The table is total: all four priority values have an entry.
var PriorityConfigs = map[Priority]PriorityConfig{
	PriorityUrgent: {Label: "Urgent", Emoji: "🔴", Rank: 0},
	PriorityHigh:   {Label: "High", Emoji: "🟠", Rank: 1},
	PriorityMedium: {Label: "Medium", Emoji: "🟡", Rank: 2},
	PriorityLow:    {Label: "Low", Emoji: "🟢", Rank: 3},
}

// CategoryConfigs maps every Category to its display configuration.
// The table is total: all six category values have an entry.
var CategoryConfigs = map[Category]CategoryConfig{
	CategoryPersonal: {Label: "Personal", Emoji: "🏠"},
	CategoryWork:     {Label: "Work", Emoji: "💼"},
	CategoryHealth:   {Label: "Health", Emoji: "💪"},
	CategoryFinance:  {Label: "Finance", Emoji: "💰"},
	CategoryLearning: {Label: "Learning", Emoji: "📚"},
	CategorySocial:   {Label: "Social", Emoji: "👥"},
}

// Rank returns the sort rank for p. Unknown priorities rank after low.
func (p Priority) Rank() int {
	if cfg, ok := PriorityConfigs[p]; ok {
		return cfg.Rank
	}
	return len(Priorities)
}

// ParsePriority validates a raw priority string.
//
// Returns an error for values outside the enumerated domain rather than
// propagating them into the entity model.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if _, ok := PriorityConfigs[p]; !ok {
		return "", fmt.Errorf("unknown priority: %q", s)
	}
	return p, nil
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := CategoryConfigs[c]; !ok {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}
