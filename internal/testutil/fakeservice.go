// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"voicetasks/internal/service"
	"voicetasks/internal/telephony"
)

// ErrInjected is a generic failure for error injection.
var ErrInjected = errors.New("injected failure")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.Mutex
	lists []service.TaskList
	tasks map[string][]service.Task // listID -> tasks

	// Error injection for testing
	ListTaskListsErr error
	CreateTaskErr    error

	// FailTitles makes CreateTask fail for these titles only.
	FailTitles map[string]error
}

// NewFakeService creates a new FakeService with no explicit lists.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:      make(map[string][]service.Task),
		FailTitles: make(map[string]error),
	}
}

// AddList adds a list to the fake service.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
}

// Tasks returns the tasks created in a list.
func (f *FakeService) Tasks(listID string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks[listID]))
	copy(out, f.tasks[listID])
	return out
}

// Titles returns the titles created in a list, in order.
func (f *FakeService) Titles(listID string) []string {
	var titles []string
	for _, t := range f.Tasks(listID) {
		titles = append(titles, t.Title)
	}
	return titles
}

// ListTaskLists implements service.Service.
func (f *FakeService) ListTaskLists(ctx context.Context) ([]service.TaskList, error) {
	if f.ListTaskListsErr != nil {
		return nil, f.ListTaskListsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.TaskList, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

// DefaultTaskListID implements service.Service.
func (f *FakeService) DefaultTaskListID(ctx context.Context) (string, error) {
	lists, err := f.ListTaskLists(ctx)
	if err != nil {
		return "", err
	}
	if len(lists) == 0 {
		return service.DefaultListID, nil
	}
	return lists[0].ID, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	err := f.FailTitles[task.Title]
	f.mu.Unlock()
	if err != nil {
		return service.Task{}, err
	}

	listID, err := f.DefaultTaskListID(ctx)
	if err != nil {
		return service.Task{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Generate a simple ID
	created := service.Task{
		ID:     strings.ToLower(strings.ReplaceAll(task.Title, " ", "-")),
		Title:  task.Title,
		Notes:  task.Notes,
		Due:    task.Due,
		Status: "needsAction",
	}
	f.tasks[listID] = append(f.tasks[listID], created)
	return created, nil
}

// FakeCaller records outbound call requests.
type FakeCaller struct {
	mu       sync.Mutex
	Requests []telephony.CallRequest

	// SID is returned for every placed call.
	SID string

	// Err is returned instead of placing the call.
	Err error
}

// PlaceCall implements telephony.Caller.
func (f *FakeCaller) PlaceCall(ctx context.Context, req telephony.CallRequest) (*telephony.Call, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	return &telephony.Call{SID: f.SID}, nil
}

// Calls returns how many calls were placed.
func (f *FakeCaller) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

var (
	_ service.Service  = (*FakeService)(nil)
	_ telephony.Caller = (*FakeCaller)(nil)
)
