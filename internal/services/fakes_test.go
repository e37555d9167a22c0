package services

import (
	"context"
	"errors"

	"sharedtodo/internal/domain"
)

// fakeAssigneeRepo implements domain.AssigneeRepository for tests.
type fakeAssigneeRepo struct {
	byID   map[int64]*domain.Assignee
	nextID int64
	err    error
}

func newFakeAssigneeRepo() *fakeAssigneeRepo {
	return &fakeAssigneeRepo{byID: make(map[int64]*domain.Assignee), nextID: 1}
}

func (f *fakeAssigneeRepo) Create(ctx context.Context, a *domain.Assignee) error {
	if f.err != nil {
		return f.err
	}
	a.ID = f.nextID
	f.nextID++
	copied := *a
	f.byID[a.ID] = &copied
	return nil
}

func (f *fakeAssigneeRepo) GetByID(ctx context.Context, id int64) (*domain.Assignee, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAssigneeRepo) List(ctx context.Context) ([]*domain.Assignee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var assignees []*domain.Assignee
	for _, a := range f.byID {
		copied := *a
		assignees = append(assignees, &copied)
	}
	return assignees, nil
}

func (f *fakeAssigneeRepo) Update(ctx context.Context, a *domain.Assignee) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[a.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *a
	f.byID[a.ID] = &copied
	return nil
}

func (f *fakeAssigneeRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeTodoRepo implements domain.TodoRepository for tests.
type fakeTodoRepo struct {
	byID    map[int64]*domain.Todo
	nextID  int64
	updated []int64
	err     error
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{byID: make(map[int64]*domain.Todo), nextID: 1}
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *domain.Todo) error {
	if f.err != nil {
		return f.err
	}
	todo.ID = f.nextID
	f.nextID++
	f.byID[todo.ID] = todo
	return nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	todo, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return todo, nil
}

func (f *fakeTodoRepo) List(ctx context.Context) ([]*domain.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	var todos []*domain.Todo
	for id := int64(1); id < f.nextID; id++ {
		if todo, ok := f.byID[id]; ok {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo *domain.Todo) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[todo.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[todo.ID] = todo
	f.updated = append(f.updated, todo.ID)
	return nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeClassifier implements domain.Classifier for tests.
type fakeClassifier struct {
	category string
	err      error
}

func (f *fakeClassifier) PredictClass(title string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.category != "" {
		return f.category, nil
	}
	return "category-" + title, nil
}

// fakeNotifier implements domain.TodoNotifier for tests.
type fakeNotifier struct {
	notified [][]*domain.Assignee
}

func (f *fakeNotifier) TodoAssigned(ctx context.Context, todo *domain.Todo, assignees []*domain.Assignee) {
	f.notified = append(f.notified, assignees)
}

var errRepoDown = errors.New("repository unavailable")
