package domain

import (
	"context"
	"time"
)

// Todo represents a task on the shared list. Assignees holds the resolved
// assignee records linked through the todo_assignees join table.
// swagger:model Todo
type Todo struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Finished     bool        `json:"finished"`
	Assignees    []*Assignee `json:"assigneeList"`
	CreatedDate  time.Time   `json:"createdDate"`
	DueDate      time.Time   `json:"dueDate"`
	FinishedDate *time.Time  `json:"finishedDate"`
	Category     string      `json:"category"`
}

// TodoRepository defines the interface for todo storage. Create and Update
// persist the todo row and its assignee links atomically.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id int64) (*Todo, error)
	List(ctx context.Context) ([]*Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id int64) error
}

// TodoService defines the business logic for todo management.
type TodoService interface {
	List(ctx context.Context) ([]*Todo, error)
	GetByID(ctx context.Context, id int64) (*Todo, error)
	Create(ctx context.Context, input *TodoInput) (*Todo, error)
	Update(ctx context.Context, id int64, input *TodoInput) (*Todo, error)
	Delete(ctx context.Context, id int64) error
	// Classify returns the category the classifier predicts for the title.
	Classify(ctx context.Context, title string) (string, error)
	// ExportCSV renders all todos as CSV text.
	ExportCSV(ctx context.Context) (string, error)
}

// TodoInput carries the caller-supplied fields for creating or updating a
// todo. DueDate is expressed in epoch milliseconds; zero means absent.
type TodoInput struct {
	Title       string
	Description string
	Finished    bool
	AssigneeIDs []int64
	DueDate     int64
}
