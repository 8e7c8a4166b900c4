package student

import (
	"time"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
)

// Reconstruction DTOs let the repository rebuild the aggregate from storage
// without exposing setters. They must not be used outside repository
// implementations.

// ReconstructionDTO carries a stored Student.
type ReconstructionDTO struct {
	ID          string
	ExternalID  string
	Name        string
	Email       string
	Document    string
	BirthDate   time.Time
	Phone       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Enrollments []*Enrollment
}

// RebuildFromDTO reconstructs a Student loaded from the database. No events
// are recorded: reconstruction is not a state change.
func RebuildFromDTO(dto ReconstructionDTO) *Student {
	return &Student{
		id:          dto.ID,
		externalID:  dto.ExternalID,
		name:        dto.Name,
		email:       dto.Email,
		document:    dto.Document,
		birthDate:   dto.BirthDate,
		phone:       dto.Phone,
		active:      dto.Active,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
		enrollments: dto.Enrollments,
		events:      nil,
	}
}

// EnrollmentReconstructionDTO carries a stored Enrollment with its children.
type EnrollmentReconstructionDTO struct {
	ID               string
	CourseID         string
	CourseName       string
	CoursePrice      float64
	Observation      string
	EnrolledAt       time.Time
	CompletedAt      *time.Time
	Status           EnrollmentStatus
	PaymentStatus    PaymentStatus
	SuspensionReason string
	History          []LearningHistory
	Certificate      *Certificate
}

// RebuildEnrollmentFromDTO reconstructs an owned Enrollment.
func RebuildEnrollmentFromDTO(dto EnrollmentReconstructionDTO) *Enrollment {
	return &Enrollment{
		id:               dto.ID,
		courseID:         dto.CourseID,
		courseName:       dto.CourseName,
		coursePrice:      dto.CoursePrice,
		observation:      dto.Observation,
		enrolledAt:       dto.EnrolledAt,
		completedAt:      dto.CompletedAt,
		status:           dto.Status,
		paymentStatus:    dto.PaymentStatus,
		suspensionReason: dto.SuspensionReason,
		history:          dto.History,
		certificate:      dto.Certificate,
	}
}

// LearningHistoryReconstructionDTO carries a stored history row.
type LearningHistoryReconstructionDTO struct {
	LessonID        string
	Description     string
	DurationMinutes int
	CompletedAt     *time.Time
}

// RebuildLearningHistoryFromDTO reconstructs a history value.
func RebuildLearningHistoryFromDTO(dto LearningHistoryReconstructionDTO) LearningHistory {
	return LearningHistory{
		lessonID:        dto.LessonID,
		description:     dto.Description,
		durationMinutes: dto.DurationMinutes,
		completedAt:     dto.CompletedAt,
	}
}

// CertificateReconstructionDTO carries a stored certificate.
type CertificateReconstructionDTO struct {
	ID             string
	EnrollmentID   string
	FilePath       string
	FinalGrade     float64
	InstructorName string
	RequestedAt    time.Time
	IssuedAt       time.Time
}

// RebuildCertificateFromDTO reconstructs a certificate.
func RebuildCertificateFromDTO(dto CertificateReconstructionDTO) *Certificate {
	return &Certificate{
		id:             dto.ID,
		enrollmentID:   dto.EnrollmentID,
		filePath:       dto.FilePath,
		finalGrade:     dto.FinalGrade,
		instructorName: dto.InstructorName,
		requestedAt:    dto.RequestedAt,
		issuedAt:       dto.IssuedAt,
	}
}

var _ shared.Entity = (*Enrollment)(nil)
