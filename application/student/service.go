/*
Package student Application Layer - Enrollment and Learning Progress Orchestration

Responsibilities of Application Layer:
1. Validate the command envelope and surface every structural error as a notification
2. Load the aggregate, call its methods, and translate business-rule rejections
   into notifications instead of propagating them as errors
3. Use UoW to manage transactions and event collection (Outbox pattern)
4. Return a CommandResult to the dispatcher

Important: recoverable violations never travel as errors. A handler returns a
non-nil error only for unexpected failures (storage, programming errors); in
that case it publishes a single diagnostic notification first and hands the
error upward for transaction rollback and logging.
*/
package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
)

// FailureReporter receives unexpected command failures for diagnostics. The
// logging implementation lives in infrastructure; tests inject a recorder.
type FailureReporter interface {
	ReportFailure(ctx context.Context, commandName string, err error)
}

// FailureReporterFunc adapts a function to FailureReporter.
type FailureReporterFunc func(ctx context.Context, commandName string, err error)

func (f FailureReporterFunc) ReportFailure(ctx context.Context, commandName string, err error) {
	f(ctx, commandName, err)
}

// NopFailureReporter discards failures.
type NopFailureReporter struct{}

func (NopFailureReporter) ReportFailure(context.Context, string, error) {}

// ApplicationService coordinates the enrollment and learning-progress
// business processes. One handler method per command. Each handler creates
// its own UnitOfWork through the factory: the UoW carries per-transaction
// aggregate registrations, so an instance must never outlive one request.
type ApplicationService struct {
	repo       student.Repository
	uowFactory shared.UnitOfWorkFactory
	failures   FailureReporter
}

// NewApplicationService Create student application service
func NewApplicationService(repo student.Repository, uowFactory shared.UnitOfWorkFactory, failures FailureReporter) *ApplicationService {
	if failures == nil {
		failures = NopFailureReporter{}
	}
	return &ApplicationService{repo: repo, uowFactory: uowFactory, failures: failures}
}

// RegisterHandlers binds every command of this subdomain to the bus.
func (s *ApplicationService) RegisterHandlers(bus *shared.CommandBus) error {
	bindings := []struct {
		name    string
		handler shared.CommandHandler
	}{
		{RegisterStudentCommandName, typedHandler(s.HandleRegisterStudent)},
		{UpdateStudentCommandName, typedHandler(s.HandleUpdateStudent)},
		{ActivateStudentCommandName, typedHandler(s.HandleActivateStudent)},
		{DeactivateStudentCommandName, typedHandler(s.HandleDeactivateStudent)},
		{EnrollCourseCommandName, typedHandler(s.HandleEnrollCourse)},
		{ConfirmEnrollmentPaymentCommandName, typedHandler(s.HandleConfirmEnrollmentPayment)},
		{RecordLearningHistoryCommandName, typedHandler(s.HandleRecordLearningHistory)},
		{ConcludeCourseCommandName, typedHandler(s.HandleConcludeCourse)},
		{SuspendEnrollmentCommandName, typedHandler(s.HandleSuspendEnrollment)},
		{ReactivateEnrollmentCommandName, typedHandler(s.HandleReactivateEnrollment)},
		{RequestCertificateCommandName, typedHandler(s.HandleRequestCertificate)},
	}
	for _, b := range bindings {
		if err := bus.Register(b.name, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// typedHandler narrows the envelope to the concrete command type. A mismatch
// is a wiring bug and surfaces as an error, not a notification.
func typedHandler[T shared.Command](h func(context.Context, T, *shared.NotificationContext) (shared.CommandResult, error)) shared.CommandHandler {
	return shared.CommandHandlerFunc(func(ctx context.Context, cmd shared.Command, n *shared.NotificationContext) (shared.CommandResult, error) {
		typed, ok := cmd.(T)
		if !ok {
			return shared.CommandResult{}, fmt.Errorf("unexpected command type %T for %s", cmd, cmd.CommandName())
		}
		return h(ctx, typed, n)
	})
}

// ============================================================================
// Command Handlers
// ============================================================================

// HandleRegisterStudent Register a new student profile
func (s *ApplicationService) HandleRegisterStudent(ctx context.Context, cmd *RegisterStudentCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	if !cmd.IsValid() {
		return s.rejectInvalid(cmd, notifications), nil
	}

	var st *student.Student
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		emailTaken, err := s.repo.ExistsByEmail(ctx, cmd.Email)
		if err != nil {
			return err
		}
		if emailTaken {
			return student.NewDuplicateStudentError("email", cmd.Email)
		}

		refTaken, err := s.repo.ExistsByExternalID(ctx, cmd.ExternalID)
		if err != nil {
			return err
		}
		if refTaken {
			return student.NewDuplicateStudentError("external_id", cmd.ExternalID)
		}

		st, err = student.NewStudent(cmd.ExternalID, cmd.Name, cmd.Email, cmd.Document, cmd.BirthDate, cmd.Phone)
		if err != nil {
			return err
		}
		cmd.SetAggregateID(st.ID())

		if err := s.repo.Save(ctx, st); err != nil {
			return err
		}
		uow.RegisterNew(st)
		return nil
	})
	if err != nil {
		return s.commandFailed(ctx, cmd, notifications, err)
	}

	return shared.NewCommandResult(cmd.Validation()).SucceededWith(toStudentResponse(st)), nil
}

// HandleUpdateStudent Update mutable profile fields
func (s *ApplicationService) HandleUpdateStudent(ctx context.Context, cmd *UpdateStudentCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		return st.UpdateProfile(cmd.Name, cmd.Phone)
	})
}

// HandleActivateStudent Activate a registered profile
func (s *ApplicationService) HandleActivateStudent(ctx context.Context, cmd *ActivateStudentCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		return st.Activate()
	})
}

// HandleDeactivateStudent Deactivate the whole profile
func (s *ApplicationService) HandleDeactivateStudent(ctx context.Context, cmd *DeactivateStudentCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		return st.Deactivate()
	})
}

// HandleEnrollCourse Enroll the student in a course
func (s *ApplicationService) HandleEnrollCourse(ctx context.Context, cmd *EnrollCourseCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		_, err := st.Enroll(cmd.CourseID, cmd.CourseName, cmd.CoursePrice, cmd.Observation)
		return err
	})
}

// HandleConfirmEnrollmentPayment Settle the enrollment's payment
func (s *ApplicationService) HandleConfirmEnrollmentPayment(ctx context.Context, cmd *ConfirmEnrollmentPaymentCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		return st.ConfirmEnrollmentPayment(cmd.CourseID)
	})
}

// HandleRecordLearningHistory Register progress on one lesson
//
// Description and duration come from the caller-supplied course snapshot. The
// resulting before/after pair goes through ReconcileLearningHistory so the
// replacement lands as a keyed update.
func (s *ApplicationService) HandleRecordLearningHistory(ctx context.Context, cmd *RecordLearningHistoryCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	if !cmd.IsValid() {
		return s.rejectInvalid(cmd, notifications), nil
	}

	lesson, ok := cmd.Course.Lesson(cmd.LessonID)
	if !ok {
		err := student.NewLessonNotInCourseError(cmd.LessonID, cmd.Course.ID)
		return s.commandFailed(ctx, cmd, notifications, err)
	}

	var st *student.Student
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		st, err = s.repo.FindByID(ctx, cmd.GetAggregateID())
		if err != nil {
			return err
		}

		before, after, err := st.RecordLearningHistory(cmd.EnrollmentID, lesson.ID, lesson.Description, lesson.DurationMinutes, cmd.CompletedAt)
		if err != nil {
			return err
		}

		if err := s.repo.Save(ctx, st); err != nil {
			return err
		}
		if err := s.repo.ReconcileLearningHistory(ctx, cmd.EnrollmentID, before, after); err != nil {
			return err
		}
		uow.RegisterDirty(st)
		return nil
	})
	if err != nil {
		return s.commandFailed(ctx, cmd, notifications, err)
	}

	return shared.NewCommandResult(cmd.Validation()).SucceededWith(toStudentResponse(st)), nil
}

// HandleConcludeCourse Finish an enrollment once every lesson is completed
func (s *ApplicationService) HandleConcludeCourse(ctx context.Context, cmd *ConcludeCourseCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		return st.ConcludeCourse(cmd.EnrollmentID, cmd.Course.TotalLessons())
	})
}

// HandleSuspendEnrollment Pause one enrollment
func (s *ApplicationService) HandleSuspendEnrollment(ctx context.Context, cmd *SuspendEnrollmentCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		return st.SuspendEnrollment(cmd.EnrollmentID, cmd.Reason)
	})
}

// HandleReactivateEnrollment Lift a suspension
func (s *ApplicationService) HandleReactivateEnrollment(ctx context.Context, cmd *ReactivateEnrollmentCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		return st.ReactivateEnrollment(cmd.EnrollmentID)
	})
}

// HandleRequestCertificate Issue a certificate for a completed enrollment
func (s *ApplicationService) HandleRequestCertificate(ctx context.Context, cmd *RequestCertificateCommand, notifications *shared.NotificationContext) (shared.CommandResult, error) {
	return s.mutate(ctx, cmd, notifications, func(st *student.Student) error {
		_, err := st.RequestCertificate(cmd.EnrollmentID, cmd.FinalGrade, cmd.FilePath, cmd.InstructorName)
		return err
	})
}

// ============================================================================
// Queries
// ============================================================================

// GetStudent Load one student with enrollments, history and certificates.
func (s *ApplicationService) GetStudent(ctx context.Context, studentID string) (*StudentResponse, error) {
	st, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(st), nil
}

// GetStudentByExternalID Load one student by its identity-provider reference.
func (s *ApplicationService) GetStudentByExternalID(ctx context.Context, externalID string) (*StudentResponse, error) {
	st, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(st), nil
}

// GetProgress Derive completion percentage against the caller-supplied
// lesson count. Progress is never stored; it is computed on demand.
func (s *ApplicationService) GetProgress(ctx context.Context, studentID, enrollmentID string, totalLessons int) (*ProgressResponse, error) {
	st, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	pct, err := st.CompletionPercentage(enrollmentID, totalLessons)
	if err != nil {
		return nil, err
	}

	enrollment, _ := st.EnrollmentByID(enrollmentID)
	completed := 0
	for _, h := range enrollment.LearningHistories() {
		if h.IsCompleted() {
			completed++
		}
	}

	return &ProgressResponse{
		EnrollmentID:         enrollmentID,
		CourseID:             enrollment.CourseID(),
		TotalLessons:         totalLessons,
		CompletedLessons:     completed,
		CompletionPercentage: pct,
	}, nil
}

// ============================================================================
// Shared handler plumbing
// ============================================================================

// mutate is the common load-mutate-save-register path for commands that
// target an existing aggregate by ID.
func (s *ApplicationService) mutate(ctx context.Context, cmd shared.Command, notifications *shared.NotificationContext, op func(*student.Student) error) (shared.CommandResult, error) {
	if !cmd.IsValid() {
		return s.rejectInvalid(cmd, notifications), nil
	}

	var st *student.Student
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		st, err = s.repo.FindByID(ctx, cmd.GetAggregateID())
		if err != nil {
			return err
		}
		if err := op(st); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, st); err != nil {
			return err
		}
		uow.RegisterDirty(st)
		return nil
	})
	if err != nil {
		return s.commandFailed(ctx, cmd, notifications, err)
	}

	return shared.NewCommandResult(cmd.Validation()).SucceededWith(toStudentResponse(st)), nil
}

// rejectInvalid publishes one notification per structural validation error,
// in validator order, and returns the failed result.
func (s *ApplicationService) rejectInvalid(cmd shared.Command, notifications *shared.NotificationContext) shared.CommandResult {
	for _, fe := range cmd.Validation().Errors() {
		notifications.PublishDomainError(cmd.GetAggregateID(), fe.Field, fe.Message)
	}
	return shared.NewCommandResult(cmd.Validation())
}

// commandFailed classifies the error. Business-rule rejections and missing
// aggregates become a notification plus a failed result; anything else gets
// one diagnostic notification, goes to the failure reporter and travels
// upward as an error.
func (s *ApplicationService) commandFailed(ctx context.Context, cmd shared.Command, notifications *shared.NotificationContext, err error) (shared.CommandResult, error) {
	if student.IsDomainRejection(err) || errors.Is(err, shared.ErrNotFound) {
		notifications.PublishDomainError(cmd.GetAggregateID(), "student", err.Error())
		return shared.NewCommandResult(cmd.Validation()).Failed(), nil
	}

	notifications.PublishDomainError(cmd.GetAggregateID(), "internal", "the command could not be completed")
	s.failures.ReportFailure(ctx, cmd.CommandName(), err)
	return shared.CommandResult{}, err
}
