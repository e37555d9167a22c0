package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sharedtodo/internal/domain"
)

// csvDateLayout is the day-granularity format used for CSV and API dates.
const csvDateLayout = "2006-01-02"

// csvHeader is the first line of the todo CSV export.
const csvHeader = "id,title,description,finished,assignees,createdDate,dueDate,finishedDate,category"

type todoService struct {
	todoRepo     domain.TodoRepository
	assigneeRepo domain.AssigneeRepository
	classifier   domain.Classifier
	notifier     domain.TodoNotifier
	now          func() time.Time
}

// NewTodoService creates a TodoService with the given repositories,
// classifier, and notifier. notifier may be nil to disable notifications.
func NewTodoService(
	todoRepo domain.TodoRepository,
	assigneeRepo domain.AssigneeRepository,
	classifier domain.Classifier,
	notifier domain.TodoNotifier,
) domain.TodoService {
	return &todoService{
		todoRepo:     todoRepo,
		assigneeRepo: assigneeRepo,
		classifier:   classifier,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *todoService) List(ctx context.Context) ([]*domain.Todo, error) {
	todos, err := s.todoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []*domain.Todo{}
	}
	return todos, nil
}

func (s *todoService) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: todo with ID %d not found", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Create(ctx context.Context, input *domain.TodoInput) (*domain.Todo, error) {
	if err := s.validateTodoInput(input); err != nil {
		return nil, err
	}
	assignees, err := s.resolveAssignees(ctx, input.AssigneeIDs)
	if err != nil {
		return nil, err
	}
	category, err := s.classifier.PredictClass(input.Title)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	now := s.now()
	todo := &domain.Todo{
		Title:        input.Title,
		Description:  input.Description,
		Finished:     input.Finished,
		Assignees:    assignees,
		CreatedDate:  now,
		DueDate:      time.UnixMilli(input.DueDate),
		FinishedDate: transitionFinishedDate(false, nil, input.Finished, now),
		Category:     category,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	if s.notifier != nil && len(assignees) > 0 {
		s.notifier.TodoAssigned(ctx, todo, assignees)
	}
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, id int64, input *domain.TodoInput) (*domain.Todo, error) {
	existing, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: todo with ID %d not found", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}

	if err := s.validateTodoInput(input); err != nil {
		return nil, err
	}
	assignees, err := s.resolveAssignees(ctx, input.AssigneeIDs)
	if err != nil {
		return nil, err
	}
	category, err := s.classifier.PredictClass(input.Title)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	// Newly assigned collaborators get a notification; existing ones don't.
	added := newlyAssigned(existing.Assignees, assignees)

	existing.FinishedDate = transitionFinishedDate(existing.Finished, existing.FinishedDate, input.Finished, s.now())
	existing.Title = input.Title
	existing.Description = input.Description
	existing.Finished = input.Finished
	existing.Assignees = assignees
	existing.DueDate = time.UnixMilli(input.DueDate)
	existing.Category = category

	if err := s.todoRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if s.notifier != nil && len(added) > 0 {
		s.notifier.TodoAssigned(ctx, existing, added)
	}
	return existing, nil
}

func (s *todoService) Delete(ctx context.Context, id int64) error {
	if _, err := s.todoRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: todo with ID %d not found", domain.ErrNotFound, id)
		}
		return fmt.Errorf("get todo: %w", err)
	}
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (s *todoService) Classify(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	category, err := s.classifier.PredictClass(title)
	if err != nil {
		return "", fmt.Errorf("classification failed: %w", err)
	}
	return category, nil
}

func (s *todoService) ExportCSV(ctx context.Context) (string, error) {
	todos, err := s.todoRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list todos: %w", err)
	}

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")
	for _, todo := range todos {
		names := make([]string, 0, len(todo.Assignees))
		for _, a := range todo.Assignees {
			names = append(names, a.Prename+" "+a.Name)
		}
		fields := []string{
			strconv.FormatInt(todo.ID, 10),
			escapeCSV(todo.Title),
			escapeCSV(todo.Description),
			strconv.FormatBool(todo.Finished),
			escapeCSV(strings.Join(names, "+")),
			formatDate(&todo.CreatedDate),
			formatDate(&todo.DueDate),
			formatDate(todo.FinishedDate),
			escapeCSV(todo.Category),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// validateTodoInput checks title and due date. The due date must be strictly
// in the future relative to wall-clock time at validation time; equal-to-now
// is rejected.
func (s *todoService) validateTodoInput(input *domain.TodoInput) error {
	if input.Title == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	if input.DueDate == 0 {
		return fmt.Errorf("%w: due date must be provided", domain.ErrInvalidInput)
	}
	if !time.UnixMilli(input.DueDate).After(s.now()) {
		return fmt.Errorf("%w: due date must be in the future", domain.ErrInvalidInput)
	}
	return nil
}

// resolveAssignees rejects duplicate IDs and resolves each ID to an existing
// assignee record. Any unresolved ID fails the whole operation.
func (s *todoService) resolveAssignees(ctx context.Context, ids []int64) ([]*domain.Assignee, error) {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	if len(seen) < len(ids) {
		return nil, fmt.Errorf("%w: duplicate assignee IDs are not allowed", domain.ErrInvalidInput)
	}

	assignees := make([]*domain.Assignee, 0, len(ids))
	for _, id := range ids {
		assignee, err := s.assigneeRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: assignee with ID %d does not exist", domain.ErrInvalidInput, id)
			}
			return nil, fmt.Errorf("get assignee: %w", err)
		}
		assignees = append(assignees, assignee)
	}
	return assignees, nil
}

// transitionFinishedDate implements the finished/finishedDate state machine:
// the date is set when finished transitions to true, preserved while it
// stays true, and cleared whenever finished is false.
func transitionFinishedDate(wasFinished bool, prev *time.Time, finished bool, now time.Time) *time.Time {
	if !finished {
		return nil
	}
	if wasFinished && prev != nil {
		return prev
	}
	return &now
}

// newlyAssigned returns the assignees in next that were not in prev.
func newlyAssigned(prev, next []*domain.Assignee) []*domain.Assignee {
	known := make(map[int64]struct{}, len(prev))
	for _, a := range prev {
		known[a.ID] = struct{}{}
	}
	var added []*domain.Assignee
	for _, a := range next {
		if _, ok := known[a.ID]; !ok {
			added = append(added, a)
		}
	}
	return added
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(csvDateLayout)
}

// escapeCSV wraps a field containing a comma or double quote in double
// quotes, doubling any internal quotes.
func escapeCSV(field string) string {
	if strings.Contains(field, ",") || strings.Contains(field, "\"") {
		return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
	}
	return field
}
