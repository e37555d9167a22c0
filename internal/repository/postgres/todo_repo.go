package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"sharedtodo/internal/domain"
)

type todoRepository struct {
	DB *sql.DB
}

func NewTodoRepository(db *sql.DB) domain.TodoRepository {
	return &todoRepository{DB: db}
}

// Create inserts the todo row and its assignee links in one transaction.
func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO todos (title, description, finished, created_date, due_date, finished_date, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Finished,
		todo.CreatedDate, todo.DueDate, nullTime(todo.FinishedDate), todo.Category,
	).Scan(&todo.ID)
	if err != nil {
		return err
	}

	if err := insertAssigneeLinks(ctx, tx, todo.ID, todo.Assignees); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *todoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	query := `
		SELECT id, title, description, finished, created_date, due_date, finished_date, category
		FROM todos
		WHERE id = $1
	`
	todo, err := scanTodo(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	assigneesByTodo, err := r.assigneesForTodos(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	todo.Assignees = assigneesByTodo[id]
	if todo.Assignees == nil {
		todo.Assignees = []*domain.Assignee{}
	}
	return todo, nil
}

func (r *todoRepository) List(ctx context.Context) ([]*domain.Todo, error) {
	query := `
		SELECT id, title, description, finished, created_date, due_date, finished_date, category
		FROM todos
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*domain.Todo
	var ids []int64
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
		ids = append(ids, todo.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if todos == nil {
		return []*domain.Todo{}, nil
	}

	assigneesByTodo, err := r.assigneesForTodos(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, todo := range todos {
		todo.Assignees = assigneesByTodo[todo.ID]
		if todo.Assignees == nil {
			todo.Assignees = []*domain.Assignee{}
		}
	}
	return todos, nil
}

// Update rewrites the todo row and replaces its assignee links in one
// transaction.
func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE todos
		SET title = $1, description = $2, finished = $3, due_date = $4, finished_date = $5, category = $6
		WHERE id = $7
	`
	result, err := tx.ExecContext(ctx, query,
		todo.Title, todo.Description, todo.Finished,
		todo.DueDate, nullTime(todo.FinishedDate), todo.Category, todo.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM todo_assignees WHERE todo_id = $1`, todo.ID); err != nil {
		return err
	}
	if err := insertAssigneeLinks(ctx, tx, todo.ID, todo.Assignees); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	// Assignee links go with the row via ON DELETE CASCADE.
	result, err := r.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// assigneesForTodos loads the resolved assignee records for all given todo
// IDs in a single query, keyed by todo ID.
func (r *todoRepository) assigneesForTodos(ctx context.Context, todoIDs []int64) (map[int64][]*domain.Assignee, error) {
	query := `
		SELECT ta.todo_id, a.id, a.prename, a.name, a.email
		FROM todo_assignees ta
		JOIN assignees a ON a.id = ta.assignee_id
		WHERE ta.todo_id = ANY($1)
		ORDER BY ta.todo_id, a.id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(todoIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]*domain.Assignee)
	for rows.Next() {
		var todoID int64
		a := &domain.Assignee{}
		if err := rows.Scan(&todoID, &a.ID, &a.Prename, &a.Name, &a.Email); err != nil {
			return nil, err
		}
		result[todoID] = append(result[todoID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func insertAssigneeLinks(ctx context.Context, tx *sql.Tx, todoID int64, assignees []*domain.Assignee) error {
	for _, a := range assignees {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO todo_assignees (todo_id, assignee_id) VALUES ($1, $2)`,
			todoID, a.ID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	todo := &domain.Todo{}
	var finishedDate sql.NullTime
	err := row.Scan(
		&todo.ID, &todo.Title, &todo.Description, &todo.Finished,
		&todo.CreatedDate, &todo.DueDate, &finishedDate, &todo.Category,
	)
	if err != nil {
		return nil, err
	}
	if finishedDate.Valid {
		t := finishedDate.Time
		todo.FinishedDate = &t
	}
	return todo, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
