package student

import (
	"time"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
)

// Command names used for handler routing.
const (
	RegisterStudentCommandName          = "student.register"
	UpdateStudentCommandName            = "student.update"
	ActivateStudentCommandName          = "student.activate"
	DeactivateStudentCommandName        = "student.deactivate"
	EnrollCourseCommandName             = "student.enroll_course"
	ConfirmEnrollmentPaymentCommandName = "student.confirm_enrollment_payment"
	RecordLearningHistoryCommandName    = "student.record_learning_history"
	ConcludeCourseCommandName           = "student.conclude_course"
	SuspendEnrollmentCommandName        = "student.suspend_enrollment"
	ReactivateEnrollmentCommandName     = "student.reactivate_enrollment"
	RequestCertificateCommandName       = "student.request_certificate"
)

// ============================================================================
// Commands - one envelope-embedding struct per mutating operation
// ============================================================================

// RegisterStudentCommand creates a new student profile. The aggregate ID is
// only known after construction, so the envelope starts empty and the handler
// fills it via SetAggregateID.
type RegisterStudentCommand struct {
	shared.BaseCommand
	ExternalID string    `json:"external_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Email      string    `json:"email" binding:"required"`
	Document   string    `json:"document" binding:"required"`
	BirthDate  time.Time `json:"birth_date" binding:"required"`
	Phone      string    `json:"phone"`
}

func NewRegisterStudentCommand(externalID, name, email, document string, birthDate time.Time, phone string) *RegisterStudentCommand {
	return &RegisterStudentCommand{
		BaseCommand: shared.NewBaseCommand(""),
		ExternalID:  externalID,
		Name:        name,
		Email:       email,
		Document:    document,
		BirthDate:   birthDate,
		Phone:       phone,
	}
}

func (c *RegisterStudentCommand) CommandName() string { return RegisterStudentCommandName }
func (c *RegisterStudentCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *RegisterStudentCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("external_id", c.ExternalID)
	v.RequireNonEmpty("name", c.Name)
	v.RequireNonEmpty("email", c.Email)
	v.RequireNonEmpty("document", c.Document)
	if c.BirthDate.IsZero() {
		v.AddError("birth_date", "birth_date is required")
	} else if !c.BirthDate.Before(time.Now()) {
		v.AddError("birth_date", "birth_date must be in the past")
	}
	return v
}

// UpdateStudentCommand changes the mutable profile fields.
type UpdateStudentCommand struct {
	shared.BaseCommand
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func NewUpdateStudentCommand(studentID, name, phone string) *UpdateStudentCommand {
	return &UpdateStudentCommand{
		BaseCommand: shared.NewBaseCommand(studentID),
		Name:        name,
		Phone:       phone,
	}
}

func (c *UpdateStudentCommand) CommandName() string { return UpdateStudentCommandName }
func (c *UpdateStudentCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *UpdateStudentCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("name", c.Name)
	return v
}

// ActivateStudentCommand turns a registered profile into an active one.
type ActivateStudentCommand struct {
	shared.BaseCommand
}

func NewActivateStudentCommand(studentID string) *ActivateStudentCommand {
	return &ActivateStudentCommand{BaseCommand: shared.NewBaseCommand(studentID)}
}

func (c *ActivateStudentCommand) CommandName() string { return ActivateStudentCommandName }
func (c *ActivateStudentCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *ActivateStudentCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	return v
}

// DeactivateStudentCommand suspends the whole profile.
type DeactivateStudentCommand struct {
	shared.BaseCommand
}

func NewDeactivateStudentCommand(studentID string) *DeactivateStudentCommand {
	return &DeactivateStudentCommand{BaseCommand: shared.NewBaseCommand(studentID)}
}

func (c *DeactivateStudentCommand) CommandName() string { return DeactivateStudentCommandName }
func (c *DeactivateStudentCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *DeactivateStudentCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	return v
}

// EnrollCourseCommand enrolls the student in a course. Course name and price
// are a snapshot taken by the caller at enrollment time.
type EnrollCourseCommand struct {
	shared.BaseCommand
	CourseID    string  `json:"course_id" binding:"required"`
	CourseName  string  `json:"course_name" binding:"required"`
	CoursePrice float64 `json:"course_price"`
	Observation string  `json:"observation"`
}

func NewEnrollCourseCommand(studentID, courseID, courseName string, coursePrice float64, observation string) *EnrollCourseCommand {
	return &EnrollCourseCommand{
		BaseCommand: shared.NewBaseCommand(studentID),
		CourseID:    courseID,
		CourseName:  courseName,
		CoursePrice: coursePrice,
		Observation: observation,
	}
}

func (c *EnrollCourseCommand) CommandName() string { return EnrollCourseCommandName }
func (c *EnrollCourseCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *EnrollCourseCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("course_id", c.CourseID)
	v.RequireNonEmpty("course_name", c.CourseName)
	if c.CoursePrice < 0 {
		v.AddError("course_price", "course_price cannot be negative")
	}
	return v
}

// ConfirmEnrollmentPaymentCommand marks the enrollment's payment as settled.
type ConfirmEnrollmentPaymentCommand struct {
	shared.BaseCommand
	CourseID string `json:"course_id" binding:"required"`
}

func NewConfirmEnrollmentPaymentCommand(studentID, courseID string) *ConfirmEnrollmentPaymentCommand {
	return &ConfirmEnrollmentPaymentCommand{
		BaseCommand: shared.NewBaseCommand(studentID),
		CourseID:    courseID,
	}
}

func (c *ConfirmEnrollmentPaymentCommand) CommandName() string {
	return ConfirmEnrollmentPaymentCommandName
}
func (c *ConfirmEnrollmentPaymentCommand) IsValid() bool {
	return shared.RunValidation(c, &c.BaseCommand)
}

func (c *ConfirmEnrollmentPaymentCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("course_id", c.CourseID)
	return v
}

// RecordLearningHistoryCommand registers progress on one lesson. The caller
// supplies the course snapshot; description and duration are resolved from it,
// never fetched by the handler.
type RecordLearningHistoryCommand struct {
	shared.BaseCommand
	EnrollmentID string                 `json:"enrollment_id" binding:"required"`
	LessonID     string                 `json:"lesson_id" binding:"required"`
	CompletedAt  *time.Time             `json:"completed_at"`
	Course       student.CourseSnapshot `json:"-"`
}

func NewRecordLearningHistoryCommand(studentID, enrollmentID, lessonID string, completedAt *time.Time, course student.CourseSnapshot) *RecordLearningHistoryCommand {
	return &RecordLearningHistoryCommand{
		BaseCommand:  shared.NewBaseCommand(studentID),
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		CompletedAt:  completedAt,
		Course:       course,
	}
}

func (c *RecordLearningHistoryCommand) CommandName() string { return RecordLearningHistoryCommandName }
func (c *RecordLearningHistoryCommand) IsValid() bool {
	return shared.RunValidation(c, &c.BaseCommand)
}

func (c *RecordLearningHistoryCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("enrollment_id", c.EnrollmentID)
	v.RequireNonEmpty("lesson_id", c.LessonID)
	if c.Course.ID == "" {
		v.AddError("course", "course snapshot is required")
	}
	return v
}

// ConcludeCourseCommand finishes an enrollment once every lesson of the
// supplied snapshot is completed.
type ConcludeCourseCommand struct {
	shared.BaseCommand
	EnrollmentID string                 `json:"enrollment_id" binding:"required"`
	Course       student.CourseSnapshot `json:"-"`
}

func NewConcludeCourseCommand(studentID, enrollmentID string, course student.CourseSnapshot) *ConcludeCourseCommand {
	return &ConcludeCourseCommand{
		BaseCommand:  shared.NewBaseCommand(studentID),
		EnrollmentID: enrollmentID,
		Course:       course,
	}
}

func (c *ConcludeCourseCommand) CommandName() string { return ConcludeCourseCommandName }
func (c *ConcludeCourseCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *ConcludeCourseCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("enrollment_id", c.EnrollmentID)
	if c.Course.ID == "" {
		v.AddError("course", "course snapshot is required")
	}
	if c.Course.TotalLessons() == 0 {
		v.AddError("course", "course snapshot has no lessons")
	}
	return v
}

// SuspendEnrollmentCommand pauses one enrollment with a reason.
type SuspendEnrollmentCommand struct {
	shared.BaseCommand
	EnrollmentID string `json:"enrollment_id" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

func NewSuspendEnrollmentCommand(studentID, enrollmentID, reason string) *SuspendEnrollmentCommand {
	return &SuspendEnrollmentCommand{
		BaseCommand:  shared.NewBaseCommand(studentID),
		EnrollmentID: enrollmentID,
		Reason:       reason,
	}
}

func (c *SuspendEnrollmentCommand) CommandName() string { return SuspendEnrollmentCommandName }
func (c *SuspendEnrollmentCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *SuspendEnrollmentCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("enrollment_id", c.EnrollmentID)
	v.RequireNonEmpty("reason", c.Reason)
	return v
}

// ReactivateEnrollmentCommand lifts a suspension.
type ReactivateEnrollmentCommand struct {
	shared.BaseCommand
	EnrollmentID string `json:"enrollment_id" binding:"required"`
}

func NewReactivateEnrollmentCommand(studentID, enrollmentID string) *ReactivateEnrollmentCommand {
	return &ReactivateEnrollmentCommand{
		BaseCommand:  shared.NewBaseCommand(studentID),
		EnrollmentID: enrollmentID,
	}
}

func (c *ReactivateEnrollmentCommand) CommandName() string { return ReactivateEnrollmentCommandName }
func (c *ReactivateEnrollmentCommand) IsValid() bool {
	return shared.RunValidation(c, &c.BaseCommand)
}

func (c *ReactivateEnrollmentCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("enrollment_id", c.EnrollmentID)
	return v
}

// RequestCertificateCommand issues a certificate for a completed enrollment.
type RequestCertificateCommand struct {
	shared.BaseCommand
	EnrollmentID   string  `json:"enrollment_id" binding:"required"`
	FinalGrade     float64 `json:"final_grade"`
	FilePath       string  `json:"file_path"`
	InstructorName string  `json:"instructor_name" binding:"required"`
}

func NewRequestCertificateCommand(studentID, enrollmentID string, finalGrade float64, filePath, instructorName string) *RequestCertificateCommand {
	return &RequestCertificateCommand{
		BaseCommand:    shared.NewBaseCommand(studentID),
		EnrollmentID:   enrollmentID,
		FinalGrade:     finalGrade,
		FilePath:       filePath,
		InstructorName: instructorName,
	}
}

func (c *RequestCertificateCommand) CommandName() string { return RequestCertificateCommandName }
func (c *RequestCertificateCommand) IsValid() bool       { return shared.RunValidation(c, &c.BaseCommand) }

func (c *RequestCertificateCommand) Validate() *shared.ValidationResult {
	v := shared.NewValidationResult()
	v.RequireNonEmpty("student_id", c.GetAggregateID())
	v.RequireNonEmpty("enrollment_id", c.EnrollmentID)
	v.RequireNonEmpty("instructor_name", c.InstructorName)
	if c.FinalGrade < 0 || c.FinalGrade > 10 {
		v.AddError("final_grade", "final_grade must be between 0 and 10")
	}
	return v
}

var (
	_ shared.Command = (*RegisterStudentCommand)(nil)
	_ shared.Command = (*UpdateStudentCommand)(nil)
	_ shared.Command = (*ActivateStudentCommand)(nil)
	_ shared.Command = (*DeactivateStudentCommand)(nil)
	_ shared.Command = (*EnrollCourseCommand)(nil)
	_ shared.Command = (*ConfirmEnrollmentPaymentCommand)(nil)
	_ shared.Command = (*RecordLearningHistoryCommand)(nil)
	_ shared.Command = (*ConcludeCourseCommand)(nil)
	_ shared.Command = (*SuspendEnrollmentCommand)(nil)
	_ shared.Command = (*ReactivateEnrollmentCommand)(nil)
	_ shared.Command = (*RequestCertificateCommand)(nil)
)
