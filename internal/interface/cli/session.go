// Package cli implements the interactive terminal session: resolve a student
// by login, pick an exam, enter minutes, extend the attempt deadline.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/examdesk/extendexam/internal/application/command"
	"github.com/examdesk/extendexam/internal/domain/exam"
)

// Session drives the prompt loop. Input and output are injected so the
// session is testable without a terminal.
type Session struct {
	in     *bufio.Scanner
	out    io.Writer
	repo   exam.Repository
	extend *command.ExtendAttemptHandler
	logger *slog.Logger

	// cancelToken ends the session cleanly at any prompt. "quit" is always
	// accepted as well.
	cancelToken string
}

// New creates a session.
func New(in io.Reader, out io.Writer, repo exam.Repository, extend *command.ExtendAttemptHandler, logger *slog.Logger, cancelToken string) *Session {
	return &Session{
		in:          bufio.NewScanner(in),
		out:         out,
		repo:        repo,
		extend:      extend,
		logger:      logger,
		cancelToken: cancelToken,
	}
}

// Run executes the prompt loop until the operator cancels, input ends, or the
// context is done. Not-found and validation failures reprompt; store failures
// abort the session.
//
// Context cancellation is only observed between prompts: Scan blocks on the
// terminal read, so a SIGINT during a prompt takes effect after the next
// line of input. No write is pending while a prompt is open.
func (s *Session) Run(ctx context.Context) error {
	color.New(color.FgCyan).Fprintf(s.out, "=== Exam Time Extension ===\n")
	fmt.Fprintf(s.out, "Enter %q at any prompt to quit.\n", s.cancelToken)

	for ctx.Err() == nil {
		student, ok, err := s.promptStudent(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		exams, err := s.repo.ListExams(ctx, student.ID)
		if err != nil {
			if errors.Is(err, exam.ErrNoExams) {
				color.New(color.FgYellow).Fprintf(s.out, "%s has no exams.\n", student.DisplayName())
				continue
			}
			return fmt.Errorf("list exams: %w", err)
		}

		selected, ok := s.promptExam(student, exams)
		if !ok {
			break
		}

		minutes, ok := s.promptMinutes()
		if !ok {
			break
		}

		result, err := s.extend.Handle(ctx, command.ExtendAttemptCommand{
			StudentID: student.ID,
			ExamID:    selected.ID,
			Minutes:   minutes,
		})
		if err != nil {
			if errors.Is(err, exam.ErrAttemptNotFound) {
				color.New(color.FgRed).Fprintf(s.out, "No attempt record for %s on %q - nothing to extend.\n",
					student.DisplayName(), selected.Title)
				s.logger.Warn("attempt missing",
					slog.String("student_id", student.ID),
					slog.String("exam_id", selected.ID),
				)
				continue
			}
			return fmt.Errorf("extend attempt: %w", err)
		}

		color.New(color.FgGreen).Fprintf(s.out, "Extended %q for %s by %d minutes. New deadline: %s\n",
			selected.Title, student.DisplayName(), minutes, result.Attempt.EndDatetime.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintln(s.out, "Bye.")
	return nil
}

// promptStudent reprompts until a login resolves. ok=false means the
// operator cancelled or input ended.
func (s *Session) promptStudent(ctx context.Context) (*exam.Student, bool, error) {
	for {
		line, ok := s.promptLine("Student login (email or matric): ")
		if !ok {
			return nil, false, nil
		}

		login := exam.Login(line)
		if !login.IsValid() {
			color.New(color.FgRed).Fprintln(s.out, "That does not look like a login. Try again.")
			continue
		}

		student, err := s.repo.FindStudentByLogin(ctx, login)
		if err != nil {
			if errors.Is(err, exam.ErrStudentNotFound) {
				color.New(color.FgYellow).Fprintf(s.out, "No student with login %q. Try again.\n", line)
				continue
			}
			return nil, false, fmt.Errorf("find student: %w", err)
		}

		fmt.Fprintf(s.out, "Found: %s (id %s)\n", student.DisplayName(), student.ID)
		return student, true, nil
	}
}

// promptExam renders the exam table and reprompts until the selection is a
// listed choice.
func (s *Session) promptExam(student *exam.Student, exams []exam.Exam) (exam.Exam, bool) {
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"#", "Exam ID", "Title"})
	for i, e := range exams {
		table.Append([]string{strconv.Itoa(i + 1), e.ID, e.Title})
	}
	table.Render()

	for {
		line, ok := s.promptLine(fmt.Sprintf("Choose an exam (1-%d): ", len(exams)))
		if !ok {
			return exam.Exam{}, false
		}

		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(exams) {
			color.New(color.FgRed).Fprintf(s.out, "Pick a number between 1 and %d.\n", len(exams))
			continue
		}

		return exams[idx-1], true
	}
}

// promptMinutes reprompts until the input is a positive integer.
func (s *Session) promptMinutes() (int, bool) {
	for {
		line, ok := s.promptLine("Minutes to add: ")
		if !ok {
			return 0, false
		}

		minutes, err := strconv.Atoi(line)
		if err != nil || minutes <= 0 {
			color.New(color.FgRed).Fprintln(s.out, "Minutes must be a positive integer.")
			continue
		}

		return minutes, true
	}
}

// promptLine prints a prompt and reads one trimmed line. ok=false on the
// cancellation token or end of input.
func (s *Session) promptLine(prompt string) (string, bool) {
	for {
		fmt.Fprint(s.out, prompt)
		if !s.in.Scan() {
			return "", false
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, s.cancelToken) || strings.EqualFold(line, "quit") {
			return "", false
		}

		return line, true
	}
}
