package student

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence/mocks"
)

type fixture struct {
	service *ApplicationService
	bus     *shared.CommandBus
	repo    *mocks.MockStudentRepository
	uow     *mocks.MockUnitOfWorkFactory
	failed  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo: mocks.NewMockStudentRepository(),
		uow:  mocks.NewMockUnitOfWorkFactory(),
		bus:  shared.NewCommandBus(),
	}
	reporter := FailureReporterFunc(func(ctx context.Context, commandName string, err error) {
		f.failed = append(f.failed, commandName)
	})
	f.service = NewApplicationService(f.repo, f.uow, reporter)
	require.NoError(t, f.service.RegisterHandlers(f.bus))
	return f
}

func (f *fixture) dispatch(t *testing.T, cmd shared.Command) (shared.CommandResult, *shared.NotificationContext) {
	t.Helper()
	result, notifications, err := f.bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	return result, notifications
}

func birthDate() time.Time {
	return time.Date(1995, 3, 14, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) registerStudent(t *testing.T) string {
	t.Helper()
	cmd := NewRegisterStudentCommand("ext-1", "Maria Silva", "maria@example.com", "12345678900", birthDate(), "")
	result, _ := f.dispatch(t, cmd)
	require.True(t, result.Success)
	return result.Payload.(*StudentResponse).ID
}

func (f *fixture) registerActiveStudent(t *testing.T) string {
	t.Helper()
	id := f.registerStudent(t)
	result, _ := f.dispatch(t, NewActivateStudentCommand(id))
	require.True(t, result.Success)
	return id
}

func (f *fixture) enroll(t *testing.T, studentID, courseID string) string {
	t.Helper()
	result, _ := f.dispatch(t, NewEnrollCourseCommand(studentID, courseID, "Go Fundamentals", 199.90, ""))
	require.True(t, result.Success)
	payload := result.Payload.(*StudentResponse)
	for _, e := range payload.Enrollments {
		if e.CourseID == courseID {
			return e.ID
		}
	}
	t.Fatalf("enrollment for course %s not in payload", courseID)
	return ""
}

func courseSnapshot(courseID string, lessons ...string) student.CourseSnapshot {
	snap := student.CourseSnapshot{ID: courseID, Name: "Go Fundamentals"}
	for _, id := range lessons {
		snap.Lessons = append(snap.Lessons, student.LessonSnapshot{ID: id, Description: "Lesson " + id, DurationMinutes: 30})
	}
	return snap
}

// ============================================================================
// Registration
// ============================================================================

func TestRegisterStudentSuccess(t *testing.T) {
	f := newFixture(t)

	cmd := NewRegisterStudentCommand("ext-1", "Maria Silva", "MARIA@Example.com", "12345678900", birthDate(), "+55 11 99999-0000")
	result, notifications := f.dispatch(t, cmd)

	require.True(t, result.Success)
	assert.False(t, notifications.HasNotifications())
	assert.NotEmpty(t, cmd.GetAggregateID(), "handler fills the envelope after construction")

	payload := result.Payload.(*StudentResponse)
	assert.Equal(t, cmd.GetAggregateID(), payload.ID)
	assert.Equal(t, "maria@example.com", payload.Email)
	assert.False(t, payload.Active)

	events := f.uow.DrainedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "student.registered", events[0].EventName())
}

func TestRegisterStudentStructuralValidation(t *testing.T) {
	f := newFixture(t)

	cmd := NewRegisterStudentCommand("", "", "maria@example.com", "12345678900", birthDate(), "")
	result, notifications := f.dispatch(t, cmd)

	assert.False(t, result.Success)
	// one notification per field error, in validator order
	msgs := notifications.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "external_id is required", msgs[0])
	assert.Equal(t, "name is required", msgs[1])
	assert.Empty(t, f.uow.DrainedEvents())
}

func TestRegisterStudentDuplicateEmailRejected(t *testing.T) {
	f := newFixture(t)
	f.registerStudent(t)

	cmd := NewRegisterStudentCommand("ext-2", "Other Person", "maria@example.com", "98765432100", birthDate(), "")
	result, notifications := f.dispatch(t, cmd)

	assert.False(t, result.Success)
	require.True(t, notifications.HasNotifications())
	assert.Contains(t, notifications.Messages()[0], "already registered")
	assert.Empty(t, f.failed, "a business rejection never reaches the failure reporter")
}

func TestRegisterStudentDuplicateExternalIDRejected(t *testing.T) {
	f := newFixture(t)
	f.registerStudent(t)

	cmd := NewRegisterStudentCommand("ext-1", "Other Person", "other@example.com", "98765432100", birthDate(), "")
	result, notifications := f.dispatch(t, cmd)

	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "external_id")
}

// ============================================================================
// Profile lifecycle
// ============================================================================

func TestActivateTwiceBecomesNotification(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)

	result, notifications := f.dispatch(t, NewActivateStudentCommand(id))

	assert.False(t, result.Success)
	require.True(t, notifications.HasNotifications())
	n := notifications.Notifications()[0]
	assert.Equal(t, id, n.AggregateID())
	assert.Equal(t, "student", n.Key())
}

func TestMutateUnknownStudentBecomesNotification(t *testing.T) {
	f := newFixture(t)

	result, notifications := f.dispatch(t, NewActivateStudentCommand("missing-id"))

	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "not found")
	assert.Empty(t, f.failed)
}

func TestUpdateStudentProfile(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)

	result, _ := f.dispatch(t, NewUpdateStudentCommand(id, "Maria S. Santos", "+55 11 88888-0000"))

	require.True(t, result.Success)
	payload := result.Payload.(*StudentResponse)
	assert.Equal(t, "Maria S. Santos", payload.Name)
	assert.Equal(t, "+55 11 88888-0000", payload.Phone)
}

// ============================================================================
// Enrollment
// ============================================================================

func TestEnrollCourse(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)

	result, _ := f.dispatch(t, NewEnrollCourseCommand(id, "course-1", "Go Fundamentals", 199.90, ""))

	require.True(t, result.Success)
	payload := result.Payload.(*StudentResponse)
	require.Len(t, payload.Enrollments, 1)
	assert.Equal(t, "ACTIVE", payload.Enrollments[0].Status)
	assert.Equal(t, "PENDING", payload.Enrollments[0].PaymentStatus)

	events := f.uow.DrainedEvents()
	assert.Equal(t, "enrollment.created", events[len(events)-1].EventName())
}

func TestEnrollInactiveStudentRejected(t *testing.T) {
	f := newFixture(t)
	id := f.registerStudent(t)

	result, notifications := f.dispatch(t, NewEnrollCourseCommand(id, "course-1", "Go Fundamentals", 199.90, ""))

	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "not active")
}

func TestConfirmEnrollmentPayment(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	f.enroll(t, id, "course-1")

	result, _ := f.dispatch(t, NewConfirmEnrollmentPaymentCommand(id, "course-1"))

	require.True(t, result.Success)
	payload := result.Payload.(*StudentResponse)
	assert.Equal(t, "CONFIRMED", payload.Enrollments[0].PaymentStatus)

	// a second confirmation is a rejection, not an error
	result, notifications := f.dispatch(t, NewConfirmEnrollmentPaymentCommand(id, "course-1"))
	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "already confirmed")
}

func TestSuspendAndReactivateEnrollment(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	enrollmentID := f.enroll(t, id, "course-1")

	result, _ := f.dispatch(t, NewSuspendEnrollmentCommand(id, enrollmentID, "payment dispute"))
	require.True(t, result.Success)
	assert.Equal(t, "SUSPENDED", result.Payload.(*StudentResponse).Enrollments[0].Status)

	result, _ = f.dispatch(t, NewReactivateEnrollmentCommand(id, enrollmentID))
	require.True(t, result.Success)
	assert.Equal(t, "ACTIVE", result.Payload.(*StudentResponse).Enrollments[0].Status)
}

// ============================================================================
// Learning history
// ============================================================================

func TestRecordLearningHistory(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	enrollmentID := f.enroll(t, id, "course-1")

	done := time.Now().UTC()
	snap := courseSnapshot("course-1", "lesson-1", "lesson-2")
	result, notifications := f.dispatch(t, NewRecordLearningHistoryCommand(id, enrollmentID, "lesson-1", &done, snap))

	require.True(t, result.Success)
	assert.False(t, notifications.HasNotifications())

	history := result.Payload.(*StudentResponse).Enrollments[0].History
	require.Len(t, history, 1)
	assert.Equal(t, "lesson-1", history[0].LessonID)
	assert.Equal(t, "Lesson lesson-1", history[0].Description)
	require.NotNil(t, history[0].CompletedAt)

	events := f.uow.DrainedEvents()
	assert.Equal(t, "lesson.completed", events[len(events)-1].EventName())
}

func TestRecordLearningHistoryReplacesEntry(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	enrollmentID := f.enroll(t, id, "course-1")
	snap := courseSnapshot("course-1", "lesson-1")

	result, _ := f.dispatch(t, NewRecordLearningHistoryCommand(id, enrollmentID, "lesson-1", nil, snap))
	require.True(t, result.Success)

	done := time.Now().UTC()
	result, _ = f.dispatch(t, NewRecordLearningHistoryCommand(id, enrollmentID, "lesson-1", &done, snap))
	require.True(t, result.Success)

	history := result.Payload.(*StudentResponse).Enrollments[0].History
	require.Len(t, history, 1, "replacement never duplicates the row")
	require.NotNil(t, history[0].CompletedAt)
}

func TestRecordLearningHistoryLessonNotInSnapshot(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	enrollmentID := f.enroll(t, id, "course-1")

	snap := courseSnapshot("course-1", "lesson-1")
	result, notifications := f.dispatch(t, NewRecordLearningHistoryCommand(id, enrollmentID, "lesson-99", nil, snap))

	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "not found in course")
	assert.Empty(t, f.failed)
}

// ============================================================================
// Conclusion and certificate
// ============================================================================

func concludeReady(t *testing.T, f *fixture, id, enrollmentID string, snap student.CourseSnapshot) {
	t.Helper()
	done := time.Now().UTC()
	for _, l := range snap.Lessons {
		result, _ := f.dispatch(t, NewRecordLearningHistoryCommand(id, enrollmentID, l.ID, &done, snap))
		require.True(t, result.Success)
	}
}

func TestConcludeCourse(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	enrollmentID := f.enroll(t, id, "course-1")
	snap := courseSnapshot("course-1", "lesson-1", "lesson-2")

	result, notifications := f.dispatch(t, NewConcludeCourseCommand(id, enrollmentID, snap))
	assert.False(t, result.Success, "conclusion requires every lesson completed")
	assert.Contains(t, notifications.Messages()[0], "lessons completed")

	concludeReady(t, f, id, enrollmentID, snap)

	result, _ = f.dispatch(t, NewConcludeCourseCommand(id, enrollmentID, snap))
	require.True(t, result.Success)
	enrollment := result.Payload.(*StudentResponse).Enrollments[0]
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestRequestCertificate(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	enrollmentID := f.enroll(t, id, "course-1")
	snap := courseSnapshot("course-1", "lesson-1")

	result, notifications := f.dispatch(t, NewRequestCertificateCommand(id, enrollmentID, 9.5, "/certs/1.pdf", "Prof. Souza"))
	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "requires completion")

	concludeReady(t, f, id, enrollmentID, snap)
	result, _ = f.dispatch(t, NewConcludeCourseCommand(id, enrollmentID, snap))
	require.True(t, result.Success)

	result, _ = f.dispatch(t, NewRequestCertificateCommand(id, enrollmentID, 9.5, "/certs/1.pdf", "Prof. Souza"))
	require.True(t, result.Success)
	cert := result.Payload.(*StudentResponse).Enrollments[0].Certificate
	require.NotNil(t, cert)
	assert.Equal(t, 9.5, cert.FinalGrade)

	result, notifications = f.dispatch(t, NewRequestCertificateCommand(id, enrollmentID, 10, "/certs/2.pdf", "Prof. Souza"))
	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "already issued")
}

func TestRequestCertificateGradeValidation(t *testing.T) {
	f := newFixture(t)

	cmd := NewRequestCertificateCommand("student-1", "enrollment-1", 11, "", "Prof. Souza")
	result, notifications := f.dispatch(t, cmd)

	assert.False(t, result.Success)
	assert.Contains(t, notifications.Messages()[0], "between 0 and 10")
}

// ============================================================================
// Unexpected failures
// ============================================================================

type brokenRepository struct {
	*mocks.MockStudentRepository
	err error
}

func (r *brokenRepository) FindByID(ctx context.Context, id string) (*student.Student, error) {
	return nil, r.err
}

func TestUnexpectedFailureTravelsAsError(t *testing.T) {
	storageErr := errors.New("connection reset")
	repo := &brokenRepository{MockStudentRepository: mocks.NewMockStudentRepository(), err: storageErr}

	var reported []error
	reporter := FailureReporterFunc(func(ctx context.Context, commandName string, err error) {
		reported = append(reported, err)
	})
	service := NewApplicationService(repo, mocks.NewMockUnitOfWorkFactory(), reporter)
	bus := shared.NewCommandBus()
	require.NoError(t, service.RegisterHandlers(bus))

	_, notifications, err := bus.Dispatch(context.Background(), NewActivateStudentCommand("student-1"))

	require.ErrorIs(t, err, storageErr)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], storageErr)

	// exactly one diagnostic notification, with no internal detail
	msgs := notifications.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "the command could not be completed", msgs[0])
	assert.NotContains(t, msgs[0], "connection reset")
}

// ============================================================================
// Isolation and queries
// ============================================================================

func TestConcurrentDispatchesUseIsolatedUnitsOfWork(t *testing.T) {
	f := newFixture(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			suffix := strconv.Itoa(i)
			cmd := NewRegisterStudentCommand("ext-"+suffix, "Student "+suffix, "student"+suffix+"@example.com", "doc-"+suffix, birthDate(), "")
			result, _, err := f.bus.Dispatch(context.Background(), cmd)
			assert.NoError(t, err)
			assert.True(t, result.Success)
		}(i)
	}
	wg.Wait()

	// every commit drains exactly its own aggregate's events: no drops, no
	// cross-request duplication
	events := f.uow.DrainedEvents()
	require.Len(t, events, n)
	seen := make(map[string]bool, n)
	for _, e := range events {
		assert.Equal(t, "student.registered", e.EventName())
		assert.False(t, seen[e.GetAggregateID()], "aggregate %s drained twice", e.GetAggregateID())
		seen[e.GetAggregateID()] = true
	}
}

func TestNotificationsDoNotLeakAcrossDispatches(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)

	_, first := f.dispatch(t, NewActivateStudentCommand(id)) // already active, rejected
	require.True(t, first.HasNotifications())

	result, second := f.dispatch(t, NewUpdateStudentCommand(id, "New Name", ""))
	require.True(t, result.Success)
	assert.False(t, second.HasNotifications())
}

func TestGetProgress(t *testing.T) {
	f := newFixture(t)
	id := f.registerActiveStudent(t)
	enrollmentID := f.enroll(t, id, "course-1")
	snap := courseSnapshot("course-1", "lesson-1", "lesson-2")

	done := time.Now().UTC()
	result, _ := f.dispatch(t, NewRecordLearningHistoryCommand(id, enrollmentID, "lesson-1", &done, snap))
	require.True(t, result.Success)

	progress, err := f.service.GetProgress(context.Background(), id, enrollmentID, 4)
	require.NoError(t, err)

	assert.Equal(t, enrollmentID, progress.EnrollmentID)
	assert.Equal(t, "course-1", progress.CourseID)
	assert.Equal(t, 4, progress.TotalLessons)
	assert.Equal(t, 1, progress.CompletedLessons)
	assert.InDelta(t, 25.0, progress.CompletionPercentage, 0.001)
}

func TestGetStudentByExternalID(t *testing.T) {
	f := newFixture(t)
	f.registerStudent(t)

	got, err := f.service.GetStudentByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", got.Email)

	_, err = f.service.GetStudentByExternalID(context.Background(), "ext-unknown")
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}
