package exam

import "context"

// Repository defines the contract for the key-value store. The implementation
// lives in infrastructure/persistence.
type Repository interface {
	// FindStudentByLogin resolves a student record by login identifier.
	// Returns ErrStudentNotFound if no record exists.
	FindStudentByLogin(ctx context.Context, login Login) (*Student, error)

	// ListExams returns the exams available to a student.
	// Returns ErrNoExams if the student has no exam list.
	ListExams(ctx context.Context, studentID string) ([]Exam, error)

	// GetAttempt loads the attempt record for a (student, exam) pair.
	// Returns ErrAttemptNotFound if no record exists.
	GetAttempt(ctx context.Context, studentID, examID string) (*Attempt, error)

	// SaveAttempt overwrites the full attempt record under the same
	// composite key. No partial updates.
	SaveAttempt(ctx context.Context, studentID, examID string, attempt *Attempt) error
}
