// Package exam contains the domain model for student exam attempts.
// This is the core business logic - no external dependencies here.
//
// The store keeps three kinds of records, all JSON:
//   - a student record looked up by login
//   - the list of exams available to a student
//   - an attempt record per (student, exam) pair carrying the deadline
//
// The only mutation this domain performs is extending an attempt deadline.
// Attempt records are owned by external systems; every field we do not
// understand is carried through a rewrite untouched.
package exam
