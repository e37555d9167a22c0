package services

import (
	"context"
	"fmt"
	"log/slog"

	"sharedtodo/internal/domain"
)

type emailNotifier struct {
	mailer domain.Mailer
	logger *slog.Logger
}

// NewEmailNotifier returns a TodoNotifier that emails each newly assigned
// collaborator. Sending is best-effort: failures are logged and never
// propagate to the triggering operation, and no retries are performed.
func NewEmailNotifier(mailer domain.Mailer, logger *slog.Logger) domain.TodoNotifier {
	return &emailNotifier{mailer: mailer, logger: logger}
}

func (n *emailNotifier) TodoAssigned(ctx context.Context, todo *domain.Todo, assignees []*domain.Assignee) {
	subject := fmt.Sprintf("New todo assigned: %s", todo.Title)
	for _, a := range assignees {
		text := fmt.Sprintf("Hi %s,\n\nthe todo %q has been assigned to you. It is due on %s.\n",
			a.Prename, todo.Title, todo.DueDate.Format(csvDateLayout))
		if err := n.mailer.Send(a.Email, subject, "", text); err != nil {
			n.logger.WarnContext(ctx, "assignment notification failed",
				"todo_id", todo.ID,
				"email", a.Email,
				"err", err,
			)
		}
	}
}
