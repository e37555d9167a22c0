package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sharedtodo/internal/domain"
)

// emailDomain is the institutional domain assignee emails must belong to.
const emailDomain = "uni-stuttgart.de"

type assigneeService struct {
	assigneeRepo domain.AssigneeRepository
	todoRepo     domain.TodoRepository
}

// NewAssigneeService creates an AssigneeService with the given repositories.
func NewAssigneeService(
	assigneeRepo domain.AssigneeRepository,
	todoRepo domain.TodoRepository,
) domain.AssigneeService {
	return &assigneeService{
		assigneeRepo: assigneeRepo,
		todoRepo:     todoRepo,
	}
}

func (s *assigneeService) List(ctx context.Context) ([]*domain.Assignee, error) {
	assignees, err := s.assigneeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	if assignees == nil {
		assignees = []*domain.Assignee{}
	}
	return assignees, nil
}

func (s *assigneeService) GetByID(ctx context.Context, id int64) (*domain.Assignee, error) {
	assignee, err := s.assigneeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignee with ID %d not found", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get assignee: %w", err)
	}
	return assignee, nil
}

func (s *assigneeService) Create(ctx context.Context, input *domain.AssigneeInput) (*domain.Assignee, error) {
	if err := validateAssigneeInput(input); err != nil {
		return nil, err
	}

	assignee := domain.NewAssignee(input.Prename, input.Name, input.Email)
	if err := s.assigneeRepo.Create(ctx, assignee); err != nil {
		return nil, fmt.Errorf("create assignee: %w", err)
	}
	return assignee, nil
}

func (s *assigneeService) Update(ctx context.Context, id int64, input *domain.AssigneeInput) (*domain.Assignee, error) {
	existing, err := s.assigneeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignee with ID %d not found", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get assignee: %w", err)
	}

	if err := validateAssigneeInput(input); err != nil {
		return nil, err
	}

	existing.Prename = input.Prename
	existing.Name = input.Name
	existing.Email = input.Email
	if err := s.assigneeRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update assignee: %w", err)
	}
	return existing, nil
}

// Delete removes the assignee from every todo's assignee list, then deletes
// the assignee record. The cascade is a compensating scan-and-rewrite, not a
// transactional foreign-key cascade: a todo created concurrently after the
// scan can keep a dangling reference.
func (s *assigneeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.assigneeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: assignee with ID %d not found", domain.ErrNotFound, id)
		}
		return fmt.Errorf("get assignee: %w", err)
	}

	todos, err := s.todoRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}
	for _, todo := range todos {
		kept := todo.Assignees[:0]
		removed := false
		for _, a := range todo.Assignees {
			if a.ID == id {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		if !removed {
			continue
		}
		todo.Assignees = kept
		if err := s.todoRepo.Update(ctx, todo); err != nil {
			return fmt.Errorf("update todo %d: %w", todo.ID, err)
		}
	}

	if err := s.assigneeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete assignee: %w", err)
	}
	return nil
}

func validateAssigneeInput(input *domain.AssigneeInput) error {
	if input.Prename == "" {
		return fmt.Errorf("%w: prename must not be empty", domain.ErrInvalidInput)
	}
	if input.Name == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
	}
	return validateUniversityEmail(input.Email)
}

func validateUniversityEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email must not be empty", domain.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") ||
		!strings.HasSuffix(email, emailDomain) ||
		email == emailDomain {
		return fmt.Errorf("%w: email must end with %s", domain.ErrInvalidInput, emailDomain)
	}
	return nil
}
