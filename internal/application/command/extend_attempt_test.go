package command

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/extendexam/internal/domain/exam"
)

// fakeRepo is an in-memory exam.Repository that counts writes.
type fakeRepo struct {
	attempts  map[string]*exam.Attempt
	saveCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{attempts: make(map[string]*exam.Attempt)}
}

func (f *fakeRepo) FindStudentByLogin(ctx context.Context, login exam.Login) (*exam.Student, error) {
	return nil, exam.ErrStudentNotFound
}

func (f *fakeRepo) ListExams(ctx context.Context, studentID string) ([]exam.Exam, error) {
	return nil, exam.ErrNoExams
}

func (f *fakeRepo) GetAttempt(ctx context.Context, studentID, examID string) (*exam.Attempt, error) {
	a, ok := f.attempts[exam.AttemptKey(studentID, examID)]
	if !ok {
		return nil, exam.ErrAttemptNotFound
	}
	return a, nil
}

func (f *fakeRepo) SaveAttempt(ctx context.Context, studentID, examID string, a *exam.Attempt) error {
	f.saveCalls++
	f.attempts[exam.AttemptKey(studentID, examID)] = a
	return nil
}

func testAttempt(t *testing.T) *exam.Attempt {
	t.Helper()
	var a exam.Attempt
	require.NoError(t, json.Unmarshal([]byte(`{"isFinished":true,"endDatetime":"2026-03-01T10:00:00Z"}`), &a))
	return &a
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtendAttemptHappyPath(t *testing.T) {
	repo := newFakeRepo()
	repo.attempts["s1-e1"] = testAttempt(t)
	h := NewExtendAttemptHandler(repo, testLogger())

	result, err := h.Handle(context.Background(), ExtendAttemptCommand{
		StudentID: "s1",
		ExamID:    "e1",
		Minutes:   45,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.saveCalls)
	assert.False(t, result.Attempt.IsFinished)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 45, 0, 0, time.UTC), result.Attempt.EndDatetime)
}

func TestExtendAttemptMissingAttemptWritesNothing(t *testing.T) {
	repo := newFakeRepo()
	h := NewExtendAttemptHandler(repo, testLogger())

	_, err := h.Handle(context.Background(), ExtendAttemptCommand{
		StudentID: "s1",
		ExamID:    "e9",
		Minutes:   45,
	})

	assert.ErrorIs(t, err, exam.ErrAttemptNotFound)
	assert.Equal(t, 0, repo.saveCalls)
}

func TestExtendAttemptRejectsInvalidCommands(t *testing.T) {
	repo := newFakeRepo()
	repo.attempts["s1-e1"] = testAttempt(t)
	h := NewExtendAttemptHandler(repo, testLogger())

	cases := []ExtendAttemptCommand{
		{StudentID: "", ExamID: "e1", Minutes: 10},
		{StudentID: "s1", ExamID: "", Minutes: 10},
		{StudentID: "s1", ExamID: "e1", Minutes: 0},
		{StudentID: "s1", ExamID: "e1", Minutes: -3},
	}

	for _, cmd := range cases {
		_, err := h.Handle(context.Background(), cmd)
		assert.Error(t, err)
	}
	assert.Equal(t, 0, repo.saveCalls)
}

func TestExtendAttemptTwiceAccumulates(t *testing.T) {
	repo := newFakeRepo()
	repo.attempts["s1-e1"] = testAttempt(t)
	h := NewExtendAttemptHandler(repo, testLogger())

	cmd := ExtendAttemptCommand{StudentID: "s1", ExamID: "e1", Minutes: 20}
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	result, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.saveCalls)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 40, 0, 0, time.UTC), result.Attempt.EndDatetime)
}
