package domain

import "context"

// Assignee represents a collaborator who may be linked to todos.
// swagger:model Assignee
type Assignee struct {
	ID      int64  `json:"id"`
	Prename string `json:"prename"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// NewAssignee returns a new Assignee with the given fields. ID is set by the
// repository on create.
func NewAssignee(prename, name, email string) *Assignee {
	return &Assignee{
		Prename: prename,
		Name:    name,
		Email:   email,
	}
}

// AssigneeRepository defines the interface for assignee storage
type AssigneeRepository interface {
	Create(ctx context.Context, assignee *Assignee) error
	GetByID(ctx context.Context, id int64) (*Assignee, error)
	List(ctx context.Context) ([]*Assignee, error)
	Update(ctx context.Context, assignee *Assignee) error
	Delete(ctx context.Context, id int64) error
}

// AssigneeService defines the business logic for assignee management.
type AssigneeService interface {
	List(ctx context.Context) ([]*Assignee, error)
	GetByID(ctx context.Context, id int64) (*Assignee, error)
	Create(ctx context.Context, input *AssigneeInput) (*Assignee, error)
	Update(ctx context.Context, id int64, input *AssigneeInput) (*Assignee, error)
	// Delete removes the assignee and strips its ID from every todo's
	// assignee list before deleting the record itself.
	Delete(ctx context.Context, id int64) error
}

// AssigneeInput carries the caller-supplied fields for creating or
// updating an assignee.
type AssigneeInput struct {
	Prename string
	Name    string
	Email   string
}
