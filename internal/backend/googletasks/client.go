// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"voicetasks/internal/credentials"
	"voicetasks/internal/service"
)

const (
	// ListPageSize bounds the task list lookup.
	ListPageSize = 50
)

// Resolver produces a credential for one API call.
type Resolver interface {
	Resolve(ctx context.Context) (*credentials.Bundle, error)
}

// Client implements service.Service using Google Tasks API.
//
// Credentials are resolved again for every API call, so nothing token
// related is cached between requests.
type Client struct {
	newService func(ctx context.Context) (*tasks.Service, error)
}

var _ service.Service = (*Client)(nil)

// New creates a Google Tasks client that resolves credentials through r.
func New(r Resolver) *Client {
	return &Client{
		newService: func(ctx context.Context) (*tasks.Service, error) {
			bundle, err := r.Resolve(ctx)
			if err != nil {
				return nil, err
			}

			// Create HTTP client with the resolved token
			httpClient := oauth2.NewClient(ctx, bundle.OAuthConfig().TokenSource(ctx, bundle.OAuthToken()))

			svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
			if err != nil {
				return nil, fmt.Errorf("failed to create tasks service: %w", err)
			}
			return svc, nil
		},
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		newService: func(context.Context) (*tasks.Service, error) { return svc, nil },
	}, nil
}

// ListTaskLists returns the first page of task lists in API order.
func (c *Client) ListTaskLists(ctx context.Context) ([]service.TaskList, error) {
	svc, err := c.newService(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Tasklists.List().MaxResults(ListPageSize).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("list task lists", err)
	}

	result := make([]service.TaskList, 0, len(resp.Items))
	for _, list := range resp.Items {
		result = append(result, toTaskList(list))
	}
	return result, nil
}

// DefaultTaskListID returns the first list's id, or service.DefaultListID
// when the account has no explicit lists.
func (c *Client) DefaultTaskListID(ctx context.Context) (string, error) {
	lists, err := c.ListTaskLists(ctx)
	if err != nil {
		return "", err
	}
	if len(lists) == 0 || lists[0].ID == "" {
		return service.DefaultListID, nil
	}
	return lists[0].ID, nil
}

// CreateTask creates a new task in the default task list.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	svc, err := c.newService(ctx)
	if err != nil {
		return service.Task{}, err
	}

	listID, err := c.DefaultTaskListID(ctx)
	if err != nil {
		return service.Task{}, err
	}

	body := &tasks.Task{
		Title: task.Title,
		Notes: task.Notes,
		Due:   task.Due,
	}
	created, err := svc.Tasks.Insert(listID, body).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("create task", err)
	}
	return toTask(created), nil
}

func toTaskList(l *tasks.TaskList) service.TaskList {
	if l == nil {
		return service.TaskList{}
	}
	return service.TaskList{
		ID:      l.Id,
		Title:   l.Title,
		Updated: l.Updated,
	}
}

func toTask(t *tasks.Task) service.Task {
	if t == nil {
		return service.Task{}
	}
	return service.Task{
		ID:       t.Id,
		Title:    t.Title,
		Notes:    t.Notes,
		Due:      t.Due,
		Status:   t.Status,
		Updated:  t.Updated,
		SelfLink: t.SelfLink,
		WebLink:  t.WebViewLink,
	}
}

// wrapError tags provider errors with the failed operation. The provider
// error itself is passed through unchanged.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &service.RemoteError{Op: op, Err: err}
}
