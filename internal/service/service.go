// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// DefaultListID is the sentinel that addresses the account's default list.
const DefaultListID = "@default"

// Service defines the interface for task backend operations.
// All Google Tasks API calls go through this interface.
// Handlers and commands never import the Google SDK directly.
type Service interface {
	// ListTaskLists returns the account's task lists in API order.
	ListTaskLists(ctx context.Context) ([]TaskList, error)

	// DefaultTaskListID returns the id of the first task list,
	// or DefaultListID if the account has no explicit lists.
	DefaultTaskListID(ctx context.Context) (string, error)

	// CreateTask creates a task in the default task list and returns it
	// as stored by the backend.
	CreateTask(ctx context.Context, task NewTask) (Task, error)
}
