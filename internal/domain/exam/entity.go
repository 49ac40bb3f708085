package exam

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/examdesk/extendexam/pkg/timeutil"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// ErrStudentNotFound is returned when no student record exists for a login.
	ErrStudentNotFound = errors.New("exam: student not found")

	// ErrNoExams is returned when a student has no exam list in the store.
	ErrNoExams = errors.New("exam: no exams for student")

	// ErrAttemptNotFound is returned when no attempt record exists for a
	// (student, exam) pair. The tool never creates attempts.
	ErrAttemptNotFound = errors.New("exam: attempt not found")

	// ErrInvalidMinutes is returned when an extension is not a positive
	// number of minutes.
	ErrInvalidMinutes = errors.New("exam: minutes must be a positive integer")

	// ErrMalformedRecord is returned when a store record cannot be decoded.
	ErrMalformedRecord = errors.New("exam: malformed record")
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Login identifies a student at the login prompt (email or matric string).
type Login string

// IsValid reports whether the login is usable as a lookup key. Any non-blank
// identifier without whitespace is sent to the store; existence is the
// store's call.
func (l Login) IsValid() bool {
	s := string(l)
	return len(s) >= 1 && len(s) <= 100 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the login.
func (l Login) String() string {
	return string(l)
}

// AttemptKey builds the composite store key for a (student, exam) pair.
func AttemptKey(studentID, examID string) string {
	return studentID + "-" + examID
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Student is the record resolved from a login identifier.
type Student struct {
	ID    string `json:"id"`
	Login string `json:"login,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName returns the friendliest available identifier for prompts.
func (s *Student) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Email != "" {
		return s.Email
	}
	return s.ID
}

// Exam is one selectable exam descriptor from a student's exam list.
type Exam struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Attempt is a per-student-per-exam record tracking progress and deadline.
//
// IsFinished and EndDatetime are the only fields this tool understands;
// everything else in the record belongs to the exam platform and survives
// decode/encode byte-identical.
type Attempt struct {
	IsFinished  bool
	EndDatetime time.Time

	// layout is the deadline layout as found in the store, reused on encode.
	layout string

	// extra holds the fields owned by other systems, verbatim.
	extra map[string]json.RawMessage
}

// Extend pushes the deadline forward by the given number of minutes and
// reopens the attempt. Rejects non-positive minutes; the operation is
// monotonically time-extending.
func (a *Attempt) Extend(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidMinutes
	}
	a.EndDatetime = a.EndDatetime.Add(time.Duration(minutes) * time.Minute)
	a.IsFinished = false
	return nil
}

// UnmarshalJSON decodes an attempt record, keeping unknown fields aside.
func (a *Attempt) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	rawFinished, ok := fields["isFinished"]
	if !ok {
		return fmt.Errorf("%w: missing isFinished", ErrMalformedRecord)
	}
	if err := json.Unmarshal(rawFinished, &a.IsFinished); err != nil {
		return fmt.Errorf("%w: isFinished: %v", ErrMalformedRecord, err)
	}

	rawEnd, ok := fields["endDatetime"]
	if !ok {
		return fmt.Errorf("%w: missing endDatetime", ErrMalformedRecord)
	}
	var endStr string
	if err := json.Unmarshal(rawEnd, &endStr); err != nil {
		return fmt.Errorf("%w: endDatetime: %v", ErrMalformedRecord, err)
	}
	end, layout, err := timeutil.ParseDeadline(endStr)
	if err != nil {
		return fmt.Errorf("%w: endDatetime: %v", ErrMalformedRecord, err)
	}
	a.EndDatetime = end
	a.layout = layout

	delete(fields, "isFinished")
	delete(fields, "endDatetime")
	a.extra = fields

	return nil
}

// MarshalJSON re-serializes the whole record: the two managed fields plus
// every foreign field exactly as it arrived.
func (a *Attempt) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(a.extra)+2)
	for k, v := range a.extra {
		fields[k] = v
	}

	finished, err := json.Marshal(a.IsFinished)
	if err != nil {
		return nil, err
	}
	fields["isFinished"] = finished

	end, err := json.Marshal(timeutil.FormatDeadline(a.EndDatetime, a.layout))
	if err != nil {
		return nil, err
	}
	fields["endDatetime"] = end

	return json.Marshal(fields)
}

// Field returns a foreign field's raw JSON value, if present.
func (a *Attempt) Field(name string) (json.RawMessage, bool) {
	v, ok := a.extra[name]
	return v, ok
}

// ══════════════════════════════════════════════════════════════════════════════
// DECODING
// ══════════════════════════════════════════════════════════════════════════════

// DecodeExams decodes a student's exam list record. The store's writers use
// three shapes over time: an array of exams, a single exam object, and a map
// of exam id to exam. Map values are returned in id order.
func DecodeExams(data []byte) ([]Exam, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoExams
	}

	if trimmed[0] == '[' {
		var exams []Exam
		if err := json.Unmarshal(trimmed, &exams); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		return exams, nil
	}

	// Single object and id-keyed map both start with '{'.
	var single Exam
	if err := json.Unmarshal(trimmed, &single); err == nil && single.ID != "" {
		return []Exam{single}, nil
	}

	var byID map[string]Exam
	if err := json.Unmarshal(trimmed, &byID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	exams := make([]Exam, 0, len(byID))
	for id, e := range byID {
		if e.ID == "" {
			e.ID = id
		}
		exams = append(exams, e)
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].ID < exams[j].ID })
	return exams, nil
}
