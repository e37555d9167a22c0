package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// TodoNotifier sends best-effort notifications about todo changes.
// Failures must never fail the triggering operation.
type TodoNotifier interface {
	TodoAssigned(ctx context.Context, todo *Todo, assignees []*Assignee)
}
