// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/examdesk/extendexam/internal/domain/exam"
)

// ExtendAttemptCommand contains the data to extend an attempt deadline.
type ExtendAttemptCommand struct {
	// StudentID is the resolved student identifier.
	StudentID string

	// ExamID is the selected exam identifier.
	ExamID string

	// Minutes is the extension, in whole minutes. Must be positive.
	Minutes int
}

// Validate validates the command.
func (c ExtendAttemptCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("extend_attempt: student_id is required")
	}
	if c.ExamID == "" {
		return errors.New("extend_attempt: exam_id is required")
	}
	if c.Minutes <= 0 {
		return exam.ErrInvalidMinutes
	}
	return nil
}

// ExtendAttemptResult contains the result of a deadline extension.
type ExtendAttemptResult struct {
	// Attempt is the record as written back to the store.
	Attempt *exam.Attempt
}

// ExtendAttemptHandler performs the extension: one read, one mutation, one
// full-record write. Missing attempts abort before any write. Errors are
// returned to the caller - the session decides whether to log-and-continue
// or abort.
type ExtendAttemptHandler struct {
	repo   exam.Repository
	logger *slog.Logger
}

// NewExtendAttemptHandler creates the handler.
func NewExtendAttemptHandler(repo exam.Repository, logger *slog.Logger) *ExtendAttemptHandler {
	return &ExtendAttemptHandler{
		repo:   repo,
		logger: logger,
	}
}

// Handle executes the command.
func (h *ExtendAttemptHandler) Handle(ctx context.Context, cmd ExtendAttemptCommand) (*ExtendAttemptResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	key := exam.AttemptKey(cmd.StudentID, cmd.ExamID)

	attempt, err := h.repo.GetAttempt(ctx, cmd.StudentID, cmd.ExamID)
	if err != nil {
		return nil, fmt.Errorf("load attempt %s: %w", key, err)
	}

	if err := attempt.Extend(cmd.Minutes); err != nil {
		return nil, err
	}

	if err := h.repo.SaveAttempt(ctx, cmd.StudentID, cmd.ExamID, attempt); err != nil {
		return nil, fmt.Errorf("save attempt %s: %w", key, err)
	}

	h.logger.Info("attempt deadline extended",
		slog.String("student_id", cmd.StudentID),
		slog.String("exam_id", cmd.ExamID),
		slog.Int("minutes", cmd.Minutes),
		slog.Time("end_datetime", attempt.EndDatetime),
	)

	return &ExtendAttemptResult{Attempt: attempt}, nil
}
