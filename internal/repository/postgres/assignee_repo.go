package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sharedtodo/internal/domain"
)

type assigneeRepository struct {
	DB *sql.DB
}

func NewAssigneeRepository(db *sql.DB) domain.AssigneeRepository {
	return &assigneeRepository{DB: db}
}

func (r *assigneeRepository) Create(ctx context.Context, a *domain.Assignee) error {
	query := `
		INSERT INTO assignees (prename, name, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, a.Prename, a.Name, a.Email).Scan(&a.ID)
}

func (r *assigneeRepository) GetByID(ctx context.Context, id int64) (*domain.Assignee, error) {
	query := `
		SELECT id, prename, name, email
		FROM assignees
		WHERE id = $1
	`
	a := &domain.Assignee{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Prename, &a.Name, &a.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assigneeRepository) List(ctx context.Context) ([]*domain.Assignee, error) {
	query := `
		SELECT id, prename, name, email
		FROM assignees
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignees []*domain.Assignee
	for rows.Next() {
		a := &domain.Assignee{}
		if err := rows.Scan(&a.ID, &a.Prename, &a.Name, &a.Email); err != nil {
			return nil, err
		}
		assignees = append(assignees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if assignees == nil {
		assignees = []*domain.Assignee{}
	}
	return assignees, nil
}

func (r *assigneeRepository) Update(ctx context.Context, a *domain.Assignee) error {
	query := `
		UPDATE assignees
		SET prename = $1, name = $2, email = $3
		WHERE id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, a.Prename, a.Name, a.Email, a.ID)
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

func (r *assigneeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM assignees WHERE id = $1`, id)
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
