package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBirthDate() time.Time {
	return time.Date(1995, 3, 14, 0, 0, 0, 0, time.UTC)
}

func newTestStudent(t *testing.T) *Student {
	t.Helper()
	s, err := NewStudent("ext-1", "Maria Silva", "maria@example.com", "12345678900", validBirthDate(), "+55 11 99999-0000")
	require.NoError(t, err)
	return s
}

func newActiveStudent(t *testing.T) *Student {
	t.Helper()
	s := newTestStudent(t)
	require.NoError(t, s.Activate())
	s.PullEvents() // start each test from a clean event slate
	return s
}

func enrollActive(t *testing.T, s *Student, courseID string) *Enrollment {
	t.Helper()
	e, err := s.Enroll(courseID, "Go Fundamentals", 199.90, "")
	require.NoError(t, err)
	return e
}

func completedAt(ts time.Time) *time.Time { return &ts }

func TestNewStudentNormalizesAndStartsInactive(t *testing.T) {
	s, err := NewStudent("  ext-1  ", "  Maria Silva  ", "  MARIA@Example.COM ", " 12345678900 ", validBirthDate(), " +55 11 99999-0000 ")
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "ext-1", s.ExternalID())
	assert.Equal(t, "Maria Silva", s.Name())
	assert.Equal(t, "maria@example.com", s.Email())
	assert.Equal(t, "12345678900", s.Document())
	assert.Equal(t, "+55 11 99999-0000", s.Phone())
	assert.False(t, s.IsActive())

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "student.registered", events[0].EventName())
	assert.Equal(t, s.ID(), events[0].GetAggregateID())
}

func TestNewStudentValidation(t *testing.T) {
	tests := []struct {
		name       string
		externalID string
		fullName   string
		email      string
		document   string
		birthDate  time.Time
		wantErr    error
	}{
		{"blank external id", "", "Maria", "m@x.com", "123", validBirthDate(), ErrRequiredField},
		{"blank name", "ext", "  ", "m@x.com", "123", validBirthDate(), ErrRequiredField},
		{"blank email", "ext", "Maria", "", "123", validBirthDate(), ErrRequiredField},
		{"blank document", "ext", "Maria", "m@x.com", "", validBirthDate(), ErrRequiredField},
		{"zero birth date", "ext", "Maria", "m@x.com", "123", time.Time{}, ErrInvalidBirthDate},
		{"future birth date", "ext", "Maria", "m@x.com", "123", time.Now().Add(24 * time.Hour), ErrInvalidBirthDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStudent(tt.externalID, tt.fullName, tt.email, tt.document, tt.birthDate, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsDomainRejection(err))
		})
	}
}

func TestActivateAndDeactivate(t *testing.T) {
	s := newTestStudent(t)

	require.NoError(t, s.Activate())
	assert.True(t, s.IsActive())

	err := s.Activate()
	assert.ErrorIs(t, err, ErrStudentAlreadyActive)

	require.NoError(t, s.Deactivate())
	assert.False(t, s.IsActive())

	err = s.Deactivate()
	assert.ErrorIs(t, err, ErrStudentInactive)
}

func TestUpdateProfile(t *testing.T) {
	s := newActiveStudent(t)

	require.NoError(t, s.UpdateProfile("  Maria S. Santos  ", " +55 11 88888-0000 "))
	assert.Equal(t, "Maria S. Santos", s.Name())
	assert.Equal(t, "+55 11 88888-0000", s.Phone())

	err := s.UpdateProfile("   ", "")
	assert.ErrorIs(t, err, ErrRequiredField)
}

func TestEnrollRequiresActiveStudent(t *testing.T) {
	s := newTestStudent(t)

	_, err := s.Enroll("course-1", "Go Fundamentals", 199.90, "")
	assert.ErrorIs(t, err, ErrStudentInactive)
}

func TestEnrollCapturesCourseSnapshot(t *testing.T) {
	s := newActiveStudent(t)

	e, err := s.Enroll("course-1", "Go Fundamentals", 199.90, "corporate discount")
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID())
	assert.Equal(t, "course-1", e.CourseID())
	assert.Equal(t, "Go Fundamentals", e.CourseName())
	assert.Equal(t, 199.90, e.CoursePrice())
	assert.Equal(t, "corporate discount", e.Observation())
	assert.Equal(t, EnrollmentActive, e.Status())
	assert.Equal(t, PaymentPending, e.PaymentStatus())

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "enrollment.created", events[0].EventName())
}

func TestEnrollTwiceInSameCourseRejected(t *testing.T) {
	s := newActiveStudent(t)
	enrollActive(t, s, "course-1")

	_, err := s.Enroll("course-1", "Go Fundamentals", 199.90, "")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Len(t, s.Enrollments(), 1)
}

func TestConfirmEnrollmentPayment(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	require.NoError(t, s.ConfirmEnrollmentPayment("course-1"))
	assert.Equal(t, PaymentConfirmed, e.PaymentStatus())
	// lifecycle state is independent of the payment signal
	assert.Equal(t, EnrollmentActive, e.Status())

	err := s.ConfirmEnrollmentPayment("course-1")
	assert.ErrorIs(t, err, ErrPaymentAlreadyConfirmed)

	err = s.ConfirmEnrollmentPayment("course-unknown")
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestSuspendAndReactivateEnrollment(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	require.NoError(t, s.SuspendEnrollment(e.ID(), "  payment dispute  "))
	assert.Equal(t, EnrollmentSuspended, e.Status())
	assert.Equal(t, "payment dispute", e.SuspensionReason())

	err := s.SuspendEnrollment(e.ID(), "again")
	assert.ErrorIs(t, err, ErrEnrollmentNotActive)

	require.NoError(t, s.ReactivateEnrollment(e.ID()))
	assert.Equal(t, EnrollmentActive, e.Status())
	assert.Empty(t, e.SuspensionReason())

	err = s.ReactivateEnrollment(e.ID())
	assert.ErrorIs(t, err, ErrEnrollmentNotSuspended)
}

func TestRecordLearningHistoryAppend(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	done := completedAt(time.Now().UTC())
	before, after, err := s.RecordLearningHistory(e.ID(), "lesson-1", "Introduction", 45, done)
	require.NoError(t, err)

	assert.True(t, before.IsZero())
	assert.Equal(t, "lesson-1", after.LessonID())
	assert.Equal(t, "Introduction", after.Description())
	assert.Equal(t, 45, after.DurationMinutes())
	assert.True(t, after.IsCompleted())

	got, ok := e.LearningHistoryByLesson("lesson-1")
	require.True(t, ok)
	assert.True(t, got.Equals(after))
}

func TestRecordLearningHistoryReplacesWholesale(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	_, first, err := s.RecordLearningHistory(e.ID(), "lesson-1", "Introduction", 45, nil)
	require.NoError(t, err)
	assert.False(t, first.IsCompleted())

	done := completedAt(time.Now().UTC())
	before, after, err := s.RecordLearningHistory(e.ID(), "lesson-1", "Introduction v2", 50, done)
	require.NoError(t, err)

	assert.True(t, before.Equals(first), "before must be the prior value")
	assert.Equal(t, "Introduction v2", after.Description())
	assert.Equal(t, 50, after.DurationMinutes())
	assert.True(t, after.IsCompleted())

	// one row per (enrollment, lesson); replacement never duplicates
	assert.Len(t, e.LearningHistories(), 1)
}

func TestRecordLearningHistoryGuards(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	_, _, err := s.RecordLearningHistory("missing", "lesson-1", "x", 10, nil)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	_, _, err = s.RecordLearningHistory(e.ID(), "   ", "x", 10, nil)
	assert.ErrorIs(t, err, ErrRequiredField)

	require.NoError(t, s.SuspendEnrollment(e.ID(), "hold"))
	_, _, err = s.RecordLearningHistory(e.ID(), "lesson-1", "x", 10, nil)
	assert.ErrorIs(t, err, ErrEnrollmentNotActive)
}

func TestLessonCompletedEventOnlyWhenCompleted(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")
	s.PullEvents()

	_, _, err := s.RecordLearningHistory(e.ID(), "lesson-1", "Intro", 45, nil)
	require.NoError(t, err)
	assert.Empty(t, s.PullEvents(), "in-progress entry records no event")

	_, _, err = s.RecordLearningHistory(e.ID(), "lesson-1", "Intro", 45, completedAt(time.Now().UTC()))
	require.NoError(t, err)
	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "lesson.completed", events[0].EventName())
}

func TestCompletionPercentageIsDerived(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	pct, err := s.CompletionPercentage(e.ID(), 4)
	require.NoError(t, err)
	assert.Zero(t, pct)

	done := completedAt(time.Now().UTC())
	_, _, err = s.RecordLearningHistory(e.ID(), "lesson-1", "a", 10, done)
	require.NoError(t, err)
	_, _, err = s.RecordLearningHistory(e.ID(), "lesson-2", "b", 10, nil)
	require.NoError(t, err)
	_, _, err = s.RecordLearningHistory(e.ID(), "lesson-3", "c", 10, done)
	require.NoError(t, err)

	pct, err = s.CompletionPercentage(e.ID(), 4)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, pct, 0.001)

	pct, err = s.CompletionPercentage(e.ID(), 0)
	require.NoError(t, err)
	assert.Zero(t, pct)

	_, err = s.CompletionPercentage("missing", 4)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func completeAllLessons(t *testing.T, s *Student, e *Enrollment, total int) {
	t.Helper()
	done := completedAt(time.Now().UTC())
	for i := 0; i < total; i++ {
		_, _, err := s.RecordLearningHistory(e.ID(), "lesson-"+string(rune('a'+i)), "lesson", 30, done)
		require.NoError(t, err)
	}
}

func TestConcludeCourse(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	err := s.ConcludeCourse(e.ID(), 2)
	assert.ErrorIs(t, err, ErrLessonsIncomplete)

	completeAllLessons(t, s, e, 2)
	s.PullEvents()

	require.NoError(t, s.ConcludeCourse(e.ID(), 2))
	assert.Equal(t, EnrollmentCompleted, e.Status())
	require.NotNil(t, e.CompletedAt())

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "enrollment.completed", events[0].EventName())

	err = s.ConcludeCourse(e.ID(), 2)
	assert.ErrorIs(t, err, ErrEnrollmentAlreadyCompleted)
}

func TestConcludeCourseRequiresActiveEnrollment(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")
	completeAllLessons(t, s, e, 1)

	require.NoError(t, s.SuspendEnrollment(e.ID(), "hold"))
	err := s.ConcludeCourse(e.ID(), 1)
	assert.ErrorIs(t, err, ErrEnrollmentNotActive)
}

func TestRequestCertificate(t *testing.T) {
	s := newActiveStudent(t)
	e := enrollActive(t, s, "course-1")

	_, err := s.RequestCertificate(e.ID(), 9.5, "/certs/1.pdf", "Prof. Souza")
	assert.ErrorIs(t, err, ErrEnrollmentNotCompleted)

	completeAllLessons(t, s, e, 1)
	require.NoError(t, s.ConcludeCourse(e.ID(), 1))
	s.PullEvents()

	cert, err := s.RequestCertificate(e.ID(), 9.5, "/certs/1.pdf", "  Prof. Souza  ")
	require.NoError(t, err)
	assert.NotEmpty(t, cert.ID())
	assert.Equal(t, e.ID(), cert.EnrollmentID())
	assert.Equal(t, 9.5, cert.FinalGrade())
	assert.Equal(t, "Prof. Souza", cert.InstructorName())

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "certificate.issued", events[0].EventName())

	// the first certificate stands
	_, err = s.RequestCertificate(e.ID(), 10, "/certs/2.pdf", "Prof. Souza")
	assert.ErrorIs(t, err, ErrCertificateAlreadyIssued)
	got, ok := e.Certificate()
	require.True(t, ok)
	assert.Equal(t, cert.ID(), got.ID())
}

func TestPullEventsClears(t *testing.T) {
	s := newTestStudent(t)

	first := s.PullEvents()
	assert.NotEmpty(t, first)
	assert.Empty(t, s.PullEvents())
}

func TestLearningHistoryEquals(t *testing.T) {
	ts := time.Now().UTC()
	a := LearningHistory{lessonID: "l1", description: "d", durationMinutes: 10, completedAt: &ts}
	same := LearningHistory{lessonID: "l1", description: "d", durationMinutes: 10, completedAt: &ts}
	other := LearningHistory{lessonID: "l1", description: "d", durationMinutes: 10}

	assert.True(t, a.Equals(same))
	assert.False(t, a.Equals(other))
	assert.False(t, a.Equals("not a history"))
}
