/*
Package student is the core of the enrollment bounded context: the Student
aggregate root with its owned Enrollments, per-lesson LearningHistory values
and Certificates.

Aggregate rules:
1. All fields are private; behavior is exposed through methods.
2. Children are reached only through the root; no external code sets a
   child's fields directly.
3. State changes record domain events; the Unit of Work collects them into
   the outbox inside the same transaction.
4. LearningHistory is a value object: "updating" one replaces it wholesale,
   and the replacing method returns the before/after pair so the repository
   can apply a keyed update.
*/
package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"

	"github.com/google/uuid"
)

// Student is the aggregate root. It starts inactive and must be activated
// explicitly before it can enroll in courses.
type Student struct {
	id         string
	externalID string // identity-provider reference, unique platform-wide
	name       string
	email      string // stored lower-cased and trimmed, unique platform-wide
	document   string
	birthDate  time.Time
	phone      string
	active     bool
	createdAt  time.Time
	updatedAt  time.Time

	enrollments []*Enrollment

	events []shared.DomainEvent
}

// Enrollment is an entity owned by Student. Course name and price are
// captured at enrollment time and never change afterwards, whatever happens
// to the course itself.
type Enrollment struct {
	id               string
	courseID         string
	courseName       string
	coursePrice      float64
	observation      string
	enrolledAt       time.Time
	completedAt      *time.Time
	status           EnrollmentStatus
	paymentStatus    PaymentStatus
	suspensionReason string

	history     []LearningHistory
	certificate *Certificate
}

// LearningHistory is a value object keyed by (enrollment, lesson). It is
// immutable once constructed; a new completion replaces the whole value.
type LearningHistory struct {
	lessonID        string
	description     string
	durationMinutes int
	completedAt     *time.Time
}

// Certificate is owned by an Enrollment, at most one, never deleted.
type Certificate struct {
	id             string
	enrollmentID   string
	filePath       string
	finalGrade     float64
	instructorName string
	requestedAt    time.Time
	issuedAt       time.Time
}

// EnrollmentStatus is the lifecycle state of an Enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// PaymentStatus tracks the payment signal independently of the lifecycle
// state; the payments service owns the details, we only consume the
// confirmation.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
)

// ============================================================================
// Factory
// ============================================================================

// NewStudent is the only entry point for creating a Student. It normalizes
// the email (trim + lower-case), trims text fields and enforces the creation
// invariants. The student starts inactive until explicitly activated.
func NewStudent(externalID, name, email, document string, birthDate time.Time, phone string) (*Student, error) {
	externalID = strings.TrimSpace(externalID)
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	document = strings.TrimSpace(document)

	if externalID == "" {
		return nil, NewRequiredFieldError("external_id")
	}
	if name == "" {
		return nil, NewRequiredFieldError("name")
	}
	if email == "" {
		return nil, NewRequiredFieldError("email")
	}
	if document == "" {
		return nil, NewRequiredFieldError("document")
	}
	if birthDate.IsZero() || !birthDate.Before(time.Now()) {
		return nil, NewBirthDateError(birthDate)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate student ID: %w", err)
	}

	now := time.Now().UTC()
	s := &Student{
		id:         id.String(),
		externalID: externalID,
		name:       name,
		email:      email,
		document:   document,
		birthDate:  birthDate,
		phone:      strings.TrimSpace(phone),
		active:     false,
		createdAt:  now,
		updatedAt:  now,
		events:     make([]shared.DomainEvent, 0),
	}

	s.events = append(s.events, NewStudentRegisteredEvent(s.id, s.externalID, s.email))
	return s, nil
}

// ============================================================================
// Profile and activation
// ============================================================================

// Activate flips the student to active. Activating twice is rejected.
func (s *Student) Activate() error {
	if s.active {
		return NewStudentAlreadyActiveError(s.id)
	}
	s.active = true
	s.touch()
	s.events = append(s.events, NewStudentActivatedEvent(s.id))
	return nil
}

// Deactivate flips the student to inactive. Existing enrollments keep their
// state; only new enrollments are blocked.
func (s *Student) Deactivate() error {
	if !s.active {
		return NewStudentInactiveError(s.id)
	}
	s.active = false
	s.touch()
	return nil
}

// UpdateProfile changes the mutable contact fields. Name stays required.
func (s *Student) UpdateProfile(name, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewRequiredFieldError("name")
	}
	s.name = name
	s.phone = strings.TrimSpace(phone)
	s.touch()
	return nil
}

// ============================================================================
// Enrollment lifecycle
// ============================================================================

// Enroll creates a new Enrollment for the course, capturing the course name
// and price as an immutable snapshot. Guards: the student must be active,
// and the (student, course) pair must not already exist; enrolling twice is
// rejected, not duplicated.
func (s *Student) Enroll(courseID, courseName string, price float64, observation string) (*Enrollment, error) {
	if !s.active {
		return nil, NewStudentInactiveError(s.id)
	}
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, NewRequiredFieldError("course_id")
	}
	if s.findEnrollmentByCourse(courseID) != nil {
		return nil, NewAlreadyEnrolledError(s.id, courseID)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate enrollment ID: %w", err)
	}

	e := &Enrollment{
		id:            id.String(),
		courseID:      courseID,
		courseName:    strings.TrimSpace(courseName),
		coursePrice:   price,
		observation:   strings.TrimSpace(observation),
		enrolledAt:    time.Now().UTC(),
		status:        EnrollmentActive,
		paymentStatus: PaymentPending,
	}
	s.enrollments = append(s.enrollments, e)
	s.touch()

	s.events = append(s.events, NewEnrollmentCreatedEvent(s.id, e.id, e.courseID, e.courseName, e.coursePrice))
	return e, nil
}

// ConfirmEnrollmentPayment consumes the payment-confirmation signal
// (student + course identifiers only) and marks the enrollment paid.
func (s *Student) ConfirmEnrollmentPayment(courseID string) error {
	e := s.findEnrollmentByCourse(courseID)
	if e == nil {
		return NewEnrollmentNotFoundError(s.id, courseID)
	}
	if e.paymentStatus == PaymentConfirmed {
		return NewPaymentAlreadyConfirmedError(e.id)
	}
	e.paymentStatus = PaymentConfirmed
	s.touch()
	s.events = append(s.events, NewEnrollmentPaymentConfirmedEvent(s.id, e.id, e.courseID))
	return nil
}

// SuspendEnrollment moves an active enrollment to Suspended, keeping the
// reason.
func (s *Student) SuspendEnrollment(enrollmentID, reason string) error {
	e := s.findEnrollment(enrollmentID)
	if e == nil {
		return NewEnrollmentNotFoundError(s.id, enrollmentID)
	}
	if e.status != EnrollmentActive {
		return NewEnrollmentNotActiveError(e.id, e.status)
	}
	e.status = EnrollmentSuspended
	e.suspensionReason = strings.TrimSpace(reason)
	s.touch()
	s.events = append(s.events, NewEnrollmentSuspendedEvent(s.id, e.id, e.suspensionReason))
	return nil
}

// ReactivateEnrollment moves a suspended enrollment back to Active and
// clears the suspension reason.
func (s *Student) ReactivateEnrollment(enrollmentID string) error {
	e := s.findEnrollment(enrollmentID)
	if e == nil {
		return NewEnrollmentNotFoundError(s.id, enrollmentID)
	}
	if e.status != EnrollmentSuspended {
		return NewEnrollmentNotSuspendedError(e.id, e.status)
	}
	e.status = EnrollmentActive
	e.suspensionReason = ""
	s.touch()
	s.events = append(s.events, NewEnrollmentReactivatedEvent(s.id, e.id))
	return nil
}

// ============================================================================
// Learning history
// ============================================================================

// RecordLearningHistory appends the lesson entry when the (enrollment,
// lesson) pair is new, or replaces the existing entry wholesale when it is
// not. It returns the before/after pair: before is the zero value on append.
// The caller hands that pair to the repository, which applies a keyed update
// to the history row: replacement never relies on the storage layer
// noticing an in-place change inside the collection.
func (s *Student) RecordLearningHistory(enrollmentID, lessonID, description string, durationMinutes int, completedAt *time.Time) (before, after LearningHistory, err error) {
	e := s.findEnrollment(enrollmentID)
	if e == nil {
		return LearningHistory{}, LearningHistory{}, NewEnrollmentNotFoundError(s.id, enrollmentID)
	}
	if e.status != EnrollmentActive {
		return LearningHistory{}, LearningHistory{}, NewEnrollmentNotActiveError(e.id, e.status)
	}
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return LearningHistory{}, LearningHistory{}, NewRequiredFieldError("lesson_id")
	}

	after = LearningHistory{
		lessonID:        lessonID,
		description:     strings.TrimSpace(description),
		durationMinutes: durationMinutes,
		completedAt:     copyTime(completedAt),
	}

	replaced := false
	for i, h := range e.history {
		if h.lessonID == lessonID {
			before = h
			e.history[i] = after
			replaced = true
			break
		}
	}
	if !replaced {
		e.history = append(e.history, after)
	}
	s.touch()

	if after.IsCompleted() {
		s.events = append(s.events, NewLessonCompletedEvent(s.id, e.id, lessonID))
	}
	return before, after, nil
}

// CompletionPercentage is always derived: completed lessons over the total
// lesson count of the course, recomputed on every read and never stored.
func (s *Student) CompletionPercentage(enrollmentID string, totalLessons int) (float64, error) {
	e := s.findEnrollment(enrollmentID)
	if e == nil {
		return 0, NewEnrollmentNotFoundError(s.id, enrollmentID)
	}
	if totalLessons <= 0 {
		return 0, nil
	}
	return float64(e.completedLessons()) / float64(totalLessons) * 100, nil
}

// ConcludeCourse transitions an active enrollment to Completed once every
// lesson of the course has a completion timestamp. totalLessons comes from
// the caller-supplied course snapshot.
func (s *Student) ConcludeCourse(enrollmentID string, totalLessons int) error {
	e := s.findEnrollment(enrollmentID)
	if e == nil {
		return NewEnrollmentNotFoundError(s.id, enrollmentID)
	}
	if e.status == EnrollmentCompleted {
		return NewEnrollmentAlreadyCompletedError(e.id)
	}
	if e.status != EnrollmentActive {
		return NewEnrollmentNotActiveError(e.id, e.status)
	}
	if totalLessons <= 0 || e.completedLessons() < totalLessons {
		return NewLessonsIncompleteError(e.id, e.completedLessons(), totalLessons)
	}

	now := time.Now().UTC()
	e.status = EnrollmentCompleted
	e.completedAt = &now
	s.touch()
	s.events = append(s.events, NewEnrollmentCompletedEvent(s.id, e.id, e.courseID))
	return nil
}

// ============================================================================
// Certificate
// ============================================================================

// RequestCertificate attaches the certificate to a completed enrollment.
// Guards: the enrollment must be Completed and must not already carry a
// certificate; a second request is rejected, the first one stands.
func (s *Student) RequestCertificate(enrollmentID string, finalGrade float64, filePath, instructorName string) (*Certificate, error) {
	e := s.findEnrollment(enrollmentID)
	if e == nil {
		return nil, NewEnrollmentNotFoundError(s.id, enrollmentID)
	}
	if e.status != EnrollmentCompleted {
		return nil, NewEnrollmentNotCompletedError(e.id, e.status)
	}
	if e.certificate != nil {
		return nil, NewCertificateAlreadyIssuedError(e.id)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate ID: %w", err)
	}

	now := time.Now().UTC()
	cert := &Certificate{
		id:             id.String(),
		enrollmentID:   e.id,
		filePath:       strings.TrimSpace(filePath),
		finalGrade:     finalGrade,
		instructorName: strings.TrimSpace(instructorName),
		requestedAt:    now,
		issuedAt:       now,
	}
	e.certificate = cert
	s.touch()
	s.events = append(s.events, NewCertificateIssuedEvent(s.id, e.id, cert.id))
	return cert, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

func (s *Student) touch() { s.updatedAt = time.Now().UTC() }

func (s *Student) findEnrollment(enrollmentID string) *Enrollment {
	for _, e := range s.enrollments {
		if e.id == enrollmentID {
			return e
		}
	}
	return nil
}

func (s *Student) findEnrollmentByCourse(courseID string) *Enrollment {
	for _, e := range s.enrollments {
		if e.courseID == courseID {
			return e
		}
	}
	return nil
}

func (e *Enrollment) completedLessons() int {
	count := 0
	for _, h := range e.history {
		if h.IsCompleted() {
			count++
		}
	}
	return count
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ============================================================================
// Getters
// ============================================================================

func (s *Student) ID() string           { return s.id }
func (s *Student) ExternalID() string   { return s.externalID }
func (s *Student) Name() string         { return s.name }
func (s *Student) Email() string        { return s.email }
func (s *Student) Document() string     { return s.document }
func (s *Student) BirthDate() time.Time { return s.birthDate }
func (s *Student) Phone() string        { return s.phone }
func (s *Student) IsActive() bool       { return s.active }
func (s *Student) CreatedAt() time.Time { return s.createdAt }
func (s *Student) UpdatedAt() time.Time { return s.updatedAt }

// Enrollments returns a copy of the enrollment list; callers cannot mutate
// the aggregate through it.
func (s *Student) Enrollments() []*Enrollment {
	out := make([]*Enrollment, len(s.enrollments))
	copy(out, s.enrollments)
	return out
}

// EnrollmentByID exposes one owned enrollment for read access.
func (s *Student) EnrollmentByID(enrollmentID string) (*Enrollment, bool) {
	e := s.findEnrollment(enrollmentID)
	return e, e != nil
}

// EnrollmentByCourse exposes the enrollment for a course, if any.
func (s *Student) EnrollmentByCourse(courseID string) (*Enrollment, bool) {
	e := s.findEnrollmentByCourse(courseID)
	return e, e != nil
}

// PullEvents returns and clears the recorded domain events.
func (s *Student) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(s.events))
	copy(events, s.events)
	s.events = make([]shared.DomainEvent, 0)
	return events
}

func (e *Enrollment) ID() string                      { return e.id }
func (e *Enrollment) CourseID() string                { return e.courseID }
func (e *Enrollment) CourseName() string              { return e.courseName }
func (e *Enrollment) CoursePrice() float64            { return e.coursePrice }
func (e *Enrollment) Observation() string             { return e.observation }
func (e *Enrollment) EnrolledAt() time.Time           { return e.enrolledAt }
func (e *Enrollment) CompletedAt() *time.Time         { return copyTime(e.completedAt) }
func (e *Enrollment) Status() EnrollmentStatus        { return e.status }
func (e *Enrollment) PaymentStatus() PaymentStatus    { return e.paymentStatus }
func (e *Enrollment) SuspensionReason() string        { return e.suspensionReason }
func (e *Enrollment) Certificate() (*Certificate, bool) {
	return e.certificate, e.certificate != nil
}

// LearningHistories returns a copy of the history entries.
func (e *Enrollment) LearningHistories() []LearningHistory {
	out := make([]LearningHistory, len(e.history))
	copy(out, e.history)
	return out
}

// LearningHistoryByLesson returns the entry for a lesson, if any.
func (e *Enrollment) LearningHistoryByLesson(lessonID string) (LearningHistory, bool) {
	for _, h := range e.history {
		if h.lessonID == lessonID {
			return h, true
		}
	}
	return LearningHistory{}, false
}

func (h LearningHistory) LessonID() string        { return h.lessonID }
func (h LearningHistory) Description() string     { return h.description }
func (h LearningHistory) DurationMinutes() int    { return h.durationMinutes }
func (h LearningHistory) CompletedAt() *time.Time { return copyTime(h.completedAt) }
func (h LearningHistory) IsCompleted() bool       { return h.completedAt != nil }
func (h LearningHistory) IsZero() bool            { return h.lessonID == "" }

// Equals compares by attribute value, the value-object way.
func (h LearningHistory) Equals(other interface{}) bool {
	o, ok := other.(LearningHistory)
	if !ok {
		return false
	}
	if h.lessonID != o.lessonID || h.description != o.description || h.durationMinutes != o.durationMinutes {
		return false
	}
	switch {
	case h.completedAt == nil && o.completedAt == nil:
		return true
	case h.completedAt == nil || o.completedAt == nil:
		return false
	default:
		return h.completedAt.Equal(*o.completedAt)
	}
}

func (c *Certificate) ID() string             { return c.id }
func (c *Certificate) EnrollmentID() string   { return c.enrollmentID }
func (c *Certificate) FilePath() string       { return c.filePath }
func (c *Certificate) FinalGrade() float64    { return c.finalGrade }
func (c *Certificate) InstructorName() string { return c.instructorName }
func (c *Certificate) RequestedAt() time.Time { return c.requestedAt }
func (c *Certificate) IssuedAt() time.Time    { return c.issuedAt }

// Compile-time checks.
var (
	_ shared.AggregateRoot = (*Student)(nil)
	_ shared.ValueObject   = LearningHistory{}
)
