package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/examdesk/extendexam/internal/domain/exam"
)

// Store implements exam.Repository over the three hash namespaces.
var _ exam.Repository = (*Store)(nil)

// FindStudentByLogin resolves a student record by login identifier.
func (s *Store) FindStudentByLogin(ctx context.Context, login exam.Login) (*exam.Student, error) {
	data, err := s.client.HGet(ctx, HashStudentLogins, login.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, exam.ErrStudentNotFound
		}
		return nil, fmt.Errorf("hget %s %s: %w", HashStudentLogins, login, err)
	}

	var st exam.Student
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: student %s: %v", ErrSerialization, login, err)
	}
	if st.ID == "" {
		return nil, fmt.Errorf("%w: student %s: missing id", ErrSerialization, login)
	}
	if st.Login == "" {
		st.Login = login.String()
	}

	return &st, nil
}

// ListExams returns the exams available to a student.
func (s *Store) ListExams(ctx context.Context, studentID string) ([]exam.Exam, error) {
	data, err := s.client.HGet(ctx, HashStudentExams, studentID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, exam.ErrNoExams
		}
		return nil, fmt.Errorf("hget %s %s: %w", HashStudentExams, studentID, err)
	}

	exams, err := exam.DecodeExams(data)
	if err != nil {
		return nil, fmt.Errorf("exams for %s: %w", studentID, err)
	}
	if len(exams) == 0 {
		return nil, exam.ErrNoExams
	}

	return exams, nil
}

// GetAttempt loads the attempt record for a (student, exam) pair.
func (s *Store) GetAttempt(ctx context.Context, studentID, examID string) (*exam.Attempt, error) {
	key := exam.AttemptKey(studentID, examID)

	data, err := s.client.HGet(ctx, HashAttempts, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, exam.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("hget %s %s: %w", HashAttempts, key, err)
	}

	var attempt exam.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return nil, fmt.Errorf("%w: attempt %s: %v", ErrSerialization, key, err)
	}

	return &attempt, nil
}

// SaveAttempt overwrites the full attempt record under the same key.
func (s *Store) SaveAttempt(ctx context.Context, studentID, examID string, attempt *exam.Attempt) error {
	key := exam.AttemptKey(studentID, examID)

	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("%w: attempt %s: %v", ErrSerialization, key, err)
	}

	if err := s.client.HSet(ctx, HashAttempts, key, data).Err(); err != nil {
		return fmt.Errorf("hset %s %s: %w", HashAttempts, key, err)
	}

	return nil
}
