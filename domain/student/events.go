package student

import (
	"time"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
)

type StudentRegisteredEvent struct {
	studentID  string
	externalID string
	email      string
	occurredOn time.Time
}

func NewStudentRegisteredEvent(studentID, externalID, email string) *StudentRegisteredEvent {
	return &StudentRegisteredEvent{
		studentID:  studentID,
		externalID: externalID,
		email:      email,
		occurredOn: time.Now(),
	}
}

func (e *StudentRegisteredEvent) EventName() string      { return "student.registered" }
func (e *StudentRegisteredEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *StudentRegisteredEvent) GetAggregateID() string { return e.studentID }
func (e *StudentRegisteredEvent) StudentID() string      { return e.studentID }
func (e *StudentRegisteredEvent) ExternalID() string     { return e.externalID }
func (e *StudentRegisteredEvent) Email() string          { return e.email }

type StudentActivatedEvent struct {
	studentID  string
	occurredOn time.Time
}

func NewStudentActivatedEvent(studentID string) *StudentActivatedEvent {
	return &StudentActivatedEvent{studentID: studentID, occurredOn: time.Now()}
}

func (e *StudentActivatedEvent) EventName() string      { return "student.activated" }
func (e *StudentActivatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *StudentActivatedEvent) GetAggregateID() string { return e.studentID }
func (e *StudentActivatedEvent) StudentID() string      { return e.studentID }

type EnrollmentCreatedEvent struct {
	studentID    string
	enrollmentID string
	courseID     string
	courseName   string
	coursePrice  float64
	occurredOn   time.Time
}

func NewEnrollmentCreatedEvent(studentID, enrollmentID, courseID, courseName string, coursePrice float64) *EnrollmentCreatedEvent {
	return &EnrollmentCreatedEvent{
		studentID:    studentID,
		enrollmentID: enrollmentID,
		courseID:     courseID,
		courseName:   courseName,
		coursePrice:  coursePrice,
		occurredOn:   time.Now(),
	}
}

func (e *EnrollmentCreatedEvent) EventName() string      { return "enrollment.created" }
func (e *EnrollmentCreatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *EnrollmentCreatedEvent) GetAggregateID() string { return e.studentID }
func (e *EnrollmentCreatedEvent) StudentID() string      { return e.studentID }
func (e *EnrollmentCreatedEvent) EnrollmentID() string   { return e.enrollmentID }
func (e *EnrollmentCreatedEvent) CourseID() string       { return e.courseID }
func (e *EnrollmentCreatedEvent) CourseName() string     { return e.courseName }
func (e *EnrollmentCreatedEvent) CoursePrice() float64   { return e.coursePrice }

type EnrollmentPaymentConfirmedEvent struct {
	studentID    string
	enrollmentID string
	courseID     string
	occurredOn   time.Time
}

func NewEnrollmentPaymentConfirmedEvent(studentID, enrollmentID, courseID string) *EnrollmentPaymentConfirmedEvent {
	return &EnrollmentPaymentConfirmedEvent{
		studentID:    studentID,
		enrollmentID: enrollmentID,
		courseID:     courseID,
		occurredOn:   time.Now(),
	}
}

func (e *EnrollmentPaymentConfirmedEvent) EventName() string      { return "enrollment.payment_confirmed" }
func (e *EnrollmentPaymentConfirmedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *EnrollmentPaymentConfirmedEvent) GetAggregateID() string { return e.studentID }
func (e *EnrollmentPaymentConfirmedEvent) StudentID() string      { return e.studentID }
func (e *EnrollmentPaymentConfirmedEvent) EnrollmentID() string   { return e.enrollmentID }
func (e *EnrollmentPaymentConfirmedEvent) CourseID() string       { return e.courseID }

type EnrollmentSuspendedEvent struct {
	studentID    string
	enrollmentID string
	reason       string
	occurredOn   time.Time
}

func NewEnrollmentSuspendedEvent(studentID, enrollmentID, reason string) *EnrollmentSuspendedEvent {
	return &EnrollmentSuspendedEvent{
		studentID:    studentID,
		enrollmentID: enrollmentID,
		reason:       reason,
		occurredOn:   time.Now(),
	}
}

func (e *EnrollmentSuspendedEvent) EventName() string      { return "enrollment.suspended" }
func (e *EnrollmentSuspendedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *EnrollmentSuspendedEvent) GetAggregateID() string { return e.studentID }
func (e *EnrollmentSuspendedEvent) EnrollmentID() string   { return e.enrollmentID }
func (e *EnrollmentSuspendedEvent) Reason() string         { return e.reason }

type EnrollmentReactivatedEvent struct {
	studentID    string
	enrollmentID string
	occurredOn   time.Time
}

func NewEnrollmentReactivatedEvent(studentID, enrollmentID string) *EnrollmentReactivatedEvent {
	return &EnrollmentReactivatedEvent{
		studentID:    studentID,
		enrollmentID: enrollmentID,
		occurredOn:   time.Now(),
	}
}

func (e *EnrollmentReactivatedEvent) EventName() string      { return "enrollment.reactivated" }
func (e *EnrollmentReactivatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *EnrollmentReactivatedEvent) GetAggregateID() string { return e.studentID }
func (e *EnrollmentReactivatedEvent) EnrollmentID() string   { return e.enrollmentID }

type LessonCompletedEvent struct {
	studentID    string
	enrollmentID string
	lessonID     string
	occurredOn   time.Time
}

func NewLessonCompletedEvent(studentID, enrollmentID, lessonID string) *LessonCompletedEvent {
	return &LessonCompletedEvent{
		studentID:    studentID,
		enrollmentID: enrollmentID,
		lessonID:     lessonID,
		occurredOn:   time.Now(),
	}
}

func (e *LessonCompletedEvent) EventName() string      { return "lesson.completed" }
func (e *LessonCompletedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *LessonCompletedEvent) GetAggregateID() string { return e.studentID }
func (e *LessonCompletedEvent) EnrollmentID() string   { return e.enrollmentID }
func (e *LessonCompletedEvent) LessonID() string       { return e.lessonID }

type EnrollmentCompletedEvent struct {
	studentID    string
	enrollmentID string
	courseID     string
	occurredOn   time.Time
}

func NewEnrollmentCompletedEvent(studentID, enrollmentID, courseID string) *EnrollmentCompletedEvent {
	return &EnrollmentCompletedEvent{
		studentID:    studentID,
		enrollmentID: enrollmentID,
		courseID:     courseID,
		occurredOn:   time.Now(),
	}
}

func (e *EnrollmentCompletedEvent) EventName() string      { return "enrollment.completed" }
func (e *EnrollmentCompletedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *EnrollmentCompletedEvent) GetAggregateID() string { return e.studentID }
func (e *EnrollmentCompletedEvent) EnrollmentID() string   { return e.enrollmentID }
func (e *EnrollmentCompletedEvent) CourseID() string       { return e.courseID }

type CertificateIssuedEvent struct {
	studentID     string
	enrollmentID  string
	certificateID string
	occurredOn    time.Time
}

func NewCertificateIssuedEvent(studentID, enrollmentID, certificateID string) *CertificateIssuedEvent {
	return &CertificateIssuedEvent{
		studentID:     studentID,
		enrollmentID:  enrollmentID,
		certificateID: certificateID,
		occurredOn:    time.Now(),
	}
}

func (e *CertificateIssuedEvent) EventName() string      { return "certificate.issued" }
func (e *CertificateIssuedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *CertificateIssuedEvent) GetAggregateID() string { return e.studentID }
func (e *CertificateIssuedEvent) EnrollmentID() string   { return e.enrollmentID }
func (e *CertificateIssuedEvent) CertificateID() string  { return e.certificateID }

var (
	_ shared.DomainEvent = (*StudentRegisteredEvent)(nil)
	_ shared.DomainEvent = (*StudentActivatedEvent)(nil)
	_ shared.DomainEvent = (*EnrollmentCreatedEvent)(nil)
	_ shared.DomainEvent = (*EnrollmentPaymentConfirmedEvent)(nil)
	_ shared.DomainEvent = (*EnrollmentSuspendedEvent)(nil)
	_ shared.DomainEvent = (*EnrollmentReactivatedEvent)(nil)
	_ shared.DomainEvent = (*LessonCompletedEvent)(nil)
	_ shared.DomainEvent = (*EnrollmentCompletedEvent)(nil)
	_ shared.DomainEvent = (*CertificateIssuedEvent)(nil)
)
