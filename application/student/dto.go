package student

import (
	"time"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
)

// ============================================================================
// DTO Definitions - Data Transfer Objects
// ============================================================================

// StudentResponse Student response DTO
type StudentResponse struct {
	ID          string               `json:"id"`
	ExternalID  string               `json:"external_id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Document    string               `json:"document"`
	BirthDate   time.Time            `json:"birth_date"`
	Phone       string               `json:"phone,omitempty"`
	Active      bool                 `json:"active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Enrollments []EnrollmentResponse `json:"enrollments"`
}

// EnrollmentResponse Enrollment response DTO
type EnrollmentResponse struct {
	ID               string                    `json:"id"`
	CourseID         string                    `json:"course_id"`
	CourseName       string                    `json:"course_name"`
	CoursePrice      float64                   `json:"course_price"`
	Observation      string                    `json:"observation,omitempty"`
	Status           string                    `json:"status"`
	PaymentStatus    string                    `json:"payment_status"`
	SuspensionReason string                    `json:"suspension_reason,omitempty"`
	EnrolledAt       time.Time                 `json:"enrolled_at"`
	CompletedAt      *time.Time                `json:"completed_at,omitempty"`
	History          []LearningHistoryResponse `json:"history"`
	Certificate      *CertificateResponse      `json:"certificate,omitempty"`
}

// LearningHistoryResponse Learning history row response DTO
type LearningHistoryResponse struct {
	LessonID        string     `json:"lesson_id"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// CertificateResponse Certificate response DTO
type CertificateResponse struct {
	ID             string    `json:"id"`
	EnrollmentID   string    `json:"enrollment_id"`
	FilePath       string    `json:"file_path,omitempty"`
	FinalGrade     float64   `json:"final_grade"`
	InstructorName string    `json:"instructor_name"`
	RequestedAt    time.Time `json:"requested_at"`
	IssuedAt       time.Time `json:"issued_at"`
}

// ProgressResponse Derived course progress DTO
type ProgressResponse struct {
	EnrollmentID         string  `json:"enrollment_id"`
	CourseID             string  `json:"course_id"`
	TotalLessons         int     `json:"total_lessons"`
	CompletedLessons     int     `json:"completed_lessons"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

func toStudentResponse(s *student.Student) *StudentResponse {
	enrollments := s.Enrollments()
	resp := &StudentResponse{
		ID:          s.ID(),
		ExternalID:  s.ExternalID(),
		Name:        s.Name(),
		Email:       s.Email(),
		Document:    s.Document(),
		BirthDate:   s.BirthDate(),
		Phone:       s.Phone(),
		Active:      s.IsActive(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
		Enrollments: make([]EnrollmentResponse, len(enrollments)),
	}
	for i, e := range enrollments {
		resp.Enrollments[i] = toEnrollmentResponse(e)
	}
	return resp
}

func toEnrollmentResponse(e *student.Enrollment) EnrollmentResponse {
	histories := e.LearningHistories()
	resp := EnrollmentResponse{
		ID:               e.ID(),
		CourseID:         e.CourseID(),
		CourseName:       e.CourseName(),
		CoursePrice:      e.CoursePrice(),
		Observation:      e.Observation(),
		Status:           string(e.Status()),
		PaymentStatus:    string(e.PaymentStatus()),
		SuspensionReason: e.SuspensionReason(),
		EnrolledAt:       e.EnrolledAt(),
		CompletedAt:      e.CompletedAt(),
		History:          make([]LearningHistoryResponse, len(histories)),
	}
	for i, h := range histories {
		resp.History[i] = LearningHistoryResponse{
			LessonID:        h.LessonID(),
			Description:     h.Description(),
			DurationMinutes: h.DurationMinutes(),
			CompletedAt:     h.CompletedAt(),
		}
	}
	if cert, ok := e.Certificate(); ok {
		resp.Certificate = toCertificateResponse(cert)
	}
	return resp
}

func toCertificateResponse(c *student.Certificate) *CertificateResponse {
	return &CertificateResponse{
		ID:             c.ID(),
		EnrollmentID:   c.EnrollmentID(),
		FilePath:       c.FilePath(),
		FinalGrade:     c.FinalGrade(),
		InstructorName: c.InstructorName(),
		RequestedAt:    c.RequestedAt(),
		IssuedAt:       c.IssuedAt(),
	}
}
