/*
Package student - student API controller

Responsibilities:
1. Parse and bind HTTP requests
2. Build commands and dispatch them through the command bus
3. Translate CommandResult + notifications into HTTP responses

Outcome mapping:
1. Binding errors: response.HandleError, 400
2. Rejected commands (validation or business rule): response.HandleRejected,
   400 with the collected notifications
3. Unexpected failures: response.HandleAppError, mapped status
*/
package student

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jasonamaral/mba.modulo4-sub001/api/ctxutil"
	"github.com/jasonamaral/mba.modulo4-sub001/api/metrics"
	"github.com/jasonamaral/mba.modulo4-sub001/api/response"
	studentapp "github.com/jasonamaral/mba.modulo4-sub001/application/student"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
	"github.com/jasonamaral/mba.modulo4-sub001/pkg/errors"
)

// Controller student controller
type Controller struct {
	bus     *shared.CommandBus
	service *studentapp.ApplicationService
}

// NewController creates the student controller
func NewController(bus *shared.CommandBus, service *studentapp.ApplicationService) *Controller {
	return &Controller{bus: bus, service: service}
}

// RegisterRoutes registers student routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	students := router.Group("/students")
	{
		students.POST("", c.RegisterStudent)
		students.GET("/:id", c.GetStudent)
		students.GET("/external/:externalId", c.GetStudentByExternalID)
		students.PUT("/:id", c.UpdateStudent)
		students.POST("/:id/activate", c.ActivateStudent)
		students.POST("/:id/deactivate", c.DeactivateStudent)

		students.POST("/:id/enrollments", c.EnrollCourse)
		// the payment signal carries student + course identifiers only, so
		// the route is not enrollment-scoped
		students.POST("/:id/payments/confirm", c.ConfirmEnrollmentPayment)
		students.POST("/:id/enrollments/:enrollmentId/progress", c.RecordLearningHistory)
		students.GET("/:id/enrollments/:enrollmentId/progress", c.GetProgress)
		students.POST("/:id/enrollments/:enrollmentId/conclude", c.ConcludeCourse)
		students.POST("/:id/enrollments/:enrollmentId/suspend", c.SuspendEnrollment)
		students.POST("/:id/enrollments/:enrollmentId/reactivate", c.ReactivateEnrollment)
		students.POST("/:id/enrollments/:enrollmentId/certificate", c.RequestCertificate)
	}
}

// dispatch routes the command through the bus and writes the response.
func (c *Controller) dispatch(ctx *gin.Context, cmd shared.Command, created bool, message string) {
	result, notifications, err := c.bus.Dispatch(ctxutil.WithRequestID(ctx), cmd)
	if err != nil {
		metrics.ObserveCommand(cmd.CommandName(), "failed", notificationCount(notifications))
		response.HandleAppError(ctx, err)
		return
	}
	if !result.Success {
		metrics.ObserveCommand(cmd.CommandName(), "rejected", notificationCount(notifications))
		response.HandleRejected(ctx, notifications)
		return
	}

	metrics.ObserveCommand(cmd.CommandName(), "succeeded", notificationCount(notifications))
	if created {
		response.HandleCreated(ctx, result.Payload, message)
		return
	}
	response.HandleSuccess(ctx, result.Payload, message)
}

func notificationCount(n *shared.NotificationContext) int {
	if n == nil {
		return 0
	}
	return len(n.Notifications())
}

// ============================================================================
// Request DTOs
// ============================================================================

// RegisterStudentRequest register student request
type RegisterStudentRequest struct {
	ExternalID string    `json:"external_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Email      string    `json:"email" binding:"required"`
	Document   string    `json:"document" binding:"required"`
	BirthDate  time.Time `json:"birth_date" binding:"required"`
	Phone      string    `json:"phone"`
}

// UpdateStudentRequest update student request
type UpdateStudentRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// EnrollCourseRequest enroll course request
type EnrollCourseRequest struct {
	CourseID    string  `json:"course_id" binding:"required"`
	CourseName  string  `json:"course_name" binding:"required"`
	CoursePrice float64 `json:"course_price"`
	Observation string  `json:"observation"`
}

// ConfirmPaymentRequest confirm payment request
type ConfirmPaymentRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// CourseSnapshotRequest caller-supplied course read model
type CourseSnapshotRequest struct {
	ID      string                  `json:"id" binding:"required"`
	Name    string                  `json:"name"`
	Lessons []LessonSnapshotRequest `json:"lessons" binding:"required,min=1"`
}

// LessonSnapshotRequest one lesson of the snapshot
type LessonSnapshotRequest struct {
	ID              string `json:"id" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (r CourseSnapshotRequest) toDomain() student.CourseSnapshot {
	lessons := make([]student.LessonSnapshot, len(r.Lessons))
	for i, l := range r.Lessons {
		lessons[i] = student.LessonSnapshot{
			ID:              l.ID,
			Description:     l.Description,
			DurationMinutes: l.DurationMinutes,
		}
	}
	return student.CourseSnapshot{ID: r.ID, Name: r.Name, Lessons: lessons}
}

// RecordProgressRequest record learning progress request
type RecordProgressRequest struct {
	LessonID    string                `json:"lesson_id" binding:"required"`
	CompletedAt *time.Time            `json:"completed_at"`
	Course      CourseSnapshotRequest `json:"course" binding:"required"`
}

// ConcludeCourseRequest conclude course request
type ConcludeCourseRequest struct {
	Course CourseSnapshotRequest `json:"course" binding:"required"`
}

// SuspendEnrollmentRequest suspend enrollment request
type SuspendEnrollmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestCertificateRequest request certificate request
type RequestCertificateRequest struct {
	FinalGrade     float64 `json:"final_grade"`
	FilePath       string  `json:"file_path"`
	InstructorName string  `json:"instructor_name" binding:"required"`
}

// ============================================================================
// Handlers
// ============================================================================

// RegisterStudent registers a new student
// POST /api/v1/students
func (c *Controller) RegisterStudent(ctx *gin.Context) {
	var req RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewRegisterStudentCommand(req.ExternalID, req.Name, req.Email, req.Document, req.BirthDate, req.Phone)
	c.dispatch(ctx, cmd, true, "student registered successfully")
}

// GetStudent returns one student
// GET /api/v1/students/:id
func (c *Controller) GetStudent(ctx *gin.Context) {
	studentID := ctx.Param("id")
	if studentID == "" {
		response.HandleError(ctx, errors.BadRequest("student ID is required"), "student ID is required", http.StatusBadRequest)
		return
	}

	st, err := c.service.GetStudent(ctxutil.WithRequestID(ctx), studentID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, st, "student retrieved successfully")
}

// GetStudentByExternalID returns one student by identity reference
// GET /api/v1/students/external/:externalId
func (c *Controller) GetStudentByExternalID(ctx *gin.Context) {
	externalID := ctx.Param("externalId")
	if externalID == "" {
		response.HandleError(ctx, errors.BadRequest("external ID is required"), "external ID is required", http.StatusBadRequest)
		return
	}

	st, err := c.service.GetStudentByExternalID(ctxutil.WithRequestID(ctx), externalID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, st, "student retrieved successfully")
}

// UpdateStudent updates mutable profile fields
// PUT /api/v1/students/:id
func (c *Controller) UpdateStudent(ctx *gin.Context) {
	var req UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewUpdateStudentCommand(ctx.Param("id"), req.Name, req.Phone)
	c.dispatch(ctx, cmd, false, "student updated successfully")
}

// ActivateStudent activates the profile
// POST /api/v1/students/:id/activate
func (c *Controller) ActivateStudent(ctx *gin.Context) {
	cmd := studentapp.NewActivateStudentCommand(ctx.Param("id"))
	c.dispatch(ctx, cmd, false, "student activated successfully")
}

// DeactivateStudent deactivates the profile
// POST /api/v1/students/:id/deactivate
func (c *Controller) DeactivateStudent(ctx *gin.Context) {
	cmd := studentapp.NewDeactivateStudentCommand(ctx.Param("id"))
	c.dispatch(ctx, cmd, false, "student deactivated successfully")
}

// EnrollCourse enrolls the student in a course
// POST /api/v1/students/:id/enrollments
func (c *Controller) EnrollCourse(ctx *gin.Context) {
	var req EnrollCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewEnrollCourseCommand(ctx.Param("id"), req.CourseID, req.CourseName, req.CoursePrice, req.Observation)
	c.dispatch(ctx, cmd, true, "enrollment created successfully")
}

// ConfirmEnrollmentPayment settles the enrollment payment
// POST /api/v1/students/:id/payments/confirm
func (c *Controller) ConfirmEnrollmentPayment(ctx *gin.Context) {
	var req ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewConfirmEnrollmentPaymentCommand(ctx.Param("id"), req.CourseID)
	c.dispatch(ctx, cmd, false, "payment confirmed successfully")
}

// RecordLearningHistory records progress on one lesson
// POST /api/v1/students/:id/enrollments/:enrollmentId/progress
func (c *Controller) RecordLearningHistory(ctx *gin.Context) {
	var req RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewRecordLearningHistoryCommand(
		ctx.Param("id"),
		ctx.Param("enrollmentId"),
		req.LessonID,
		req.CompletedAt,
		req.Course.toDomain(),
	)
	c.dispatch(ctx, cmd, false, "learning progress recorded successfully")
}

// GetProgress returns derived completion for one enrollment
// GET /api/v1/students/:id/enrollments/:enrollmentId/progress?total_lessons=N
func (c *Controller) GetProgress(ctx *gin.Context) {
	totalLessons, err := strconv.Atoi(ctx.DefaultQuery("total_lessons", "0"))
	if err != nil || totalLessons <= 0 {
		response.HandleError(ctx, errors.BadRequest("total_lessons must be a positive integer"), "total_lessons must be a positive integer", http.StatusBadRequest)
		return
	}

	progress, err := c.service.GetProgress(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("enrollmentId"), totalLessons)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, progress, "progress retrieved successfully")
}

// ConcludeCourse finishes the enrollment
// POST /api/v1/students/:id/enrollments/:enrollmentId/conclude
func (c *Controller) ConcludeCourse(ctx *gin.Context) {
	var req ConcludeCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewConcludeCourseCommand(ctx.Param("id"), ctx.Param("enrollmentId"), req.Course.toDomain())
	c.dispatch(ctx, cmd, false, "course concluded successfully")
}

// SuspendEnrollment pauses the enrollment
// POST /api/v1/students/:id/enrollments/:enrollmentId/suspend
func (c *Controller) SuspendEnrollment(ctx *gin.Context) {
	var req SuspendEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewSuspendEnrollmentCommand(ctx.Param("id"), ctx.Param("enrollmentId"), req.Reason)
	c.dispatch(ctx, cmd, false, "enrollment suspended successfully")
}

// ReactivateEnrollment lifts a suspension
// POST /api/v1/students/:id/enrollments/:enrollmentId/reactivate
func (c *Controller) ReactivateEnrollment(ctx *gin.Context) {
	cmd := studentapp.NewReactivateEnrollmentCommand(ctx.Param("id"), ctx.Param("enrollmentId"))
	c.dispatch(ctx, cmd, false, "enrollment reactivated successfully")
}

// RequestCertificate issues a certificate for a completed enrollment
// POST /api/v1/students/:id/enrollments/:enrollmentId/certificate
func (c *Controller) RequestCertificate(ctx *gin.Context) {
	var req RequestCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := studentapp.NewRequestCertificateCommand(ctx.Param("id"), ctx.Param("enrollmentId"), req.FinalGrade, req.FilePath, req.InstructorName)
	c.dispatch(ctx, cmd, true, "certificate issued successfully")
}
