package service

// Task represents a single task item as returned by the backend.
type Task struct {
	ID       string
	Title    string
	Notes    string
	Due      string
	Status   string // "needsAction" or "completed"
	Updated  string
	SelfLink string
	WebLink  string
}

// TaskList represents a task list.
type TaskList struct {
	ID      string
	Title   string
	Updated string
}

// NewTask is a task creation request.
type NewTask struct {
	// Title is required.
	Title string

	// Notes is optional free text.
	Notes string

	// Due is an optional RFC3339 timestamp, passed through unvalidated.
	Due string
}
