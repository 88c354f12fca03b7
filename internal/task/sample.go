package task

// SampleTodos returns the onboarding todos shown to a first-time user with an
// empty collection. The ids are fixed so repeated seeding stays idempotent.
func SampleTodos(createdAt, today string) []Todo {
	return []Todo{
		{
			ID:          "sample-welcome",
			Title:       "Welcome to TaskFlow! 🎉",
			Description: "This is your new productivity companion. Try completing this task!",
			Completed:   false,
			Priority:    PriorityMedium,
			Category:    CategoryPersonal,
			DueDate:     today,
			CreatedAt:   createdAt,
			Subtasks: []Subtask{
				{ID: "sample-welcome-1", Title: "Explore the features", Completed: false},
				{ID: "sample-welcome-2", Title: "Add your first task", Completed: false},
				{ID: "sample-welcome-3", Title: "Try dark mode", Completed: false},
			},
		},
		{
			ID:          "sample-shortcuts",
			Title:       "Learn keyboard shortcuts ⌨️",
			Description: "Press ? to see all available shortcuts",
			Completed:   false,
			Priority:    PriorityLow,
			Category:    CategoryLearning,
			DueDate:     "",
			CreatedAt:   createdAt,
			Subtasks:    []Subtask{},
		},
	}
}
