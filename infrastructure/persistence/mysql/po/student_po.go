package po

import (
	"time"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
)

// Persistence objects for the student aggregate. One table per owned
// collection; learning history rows carry their own composite key so a value
// replacement becomes a keyed UPDATE instead of a collection rewrite.

// StudentPO Student persistence object
type StudentPO struct {
	ID         string    `gorm:"primaryKey;size:64"`
	ExternalID string    `gorm:"size:64;uniqueIndex;not null"`
	Name       string    `gorm:"size:200;not null"`
	Email      string    `gorm:"size:200;uniqueIndex;not null"`
	Document   string    `gorm:"size:32;not null"`
	BirthDate  time.Time `gorm:"not null"`
	Phone      string    `gorm:"size:32"`
	Active     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName Specify table name
func (StudentPO) TableName() string {
	return "students"
}

// EnrollmentPO Enrollment persistence object
type EnrollmentPO struct {
	ID               string     `gorm:"primaryKey;size:64"`
	StudentID        string     `gorm:"size:64;index;not null"`
	CourseID         string     `gorm:"size:64;index;not null"`
	CourseName       string     `gorm:"size:200;not null"`
	CoursePrice      float64    `gorm:"not null"`
	Observation      string     `gorm:"size:500"`
	Status           string     `gorm:"size:20;not null"`
	PaymentStatus    string     `gorm:"size:20;not null"`
	SuspensionReason string     `gorm:"size:500"`
	EnrolledAt       time.Time  `gorm:"not null"`
	CompletedAt      *time.Time `gorm:""`
}

// TableName Specify table name
func (EnrollmentPO) TableName() string {
	return "enrollments"
}

// LearningHistoryPO Learning history persistence object
// Composite primary key (enrollment_id, lesson_id): the row identity of one
// lesson's progress within one enrollment.
type LearningHistoryPO struct {
	EnrollmentID    string     `gorm:"primaryKey;size:64"`
	LessonID        string     `gorm:"primaryKey;size:64"`
	Description     string     `gorm:"size:500;not null"`
	DurationMinutes int        `gorm:"not null"`
	CompletedAt     *time.Time `gorm:""`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (LearningHistoryPO) TableName() string {
	return "learning_histories"
}

// CertificatePO Certificate persistence object
type CertificatePO struct {
	ID             string    `gorm:"primaryKey;size:64"`
	EnrollmentID   string    `gorm:"size:64;uniqueIndex;not null"`
	StudentID      string    `gorm:"size:64;index;not null"`
	FilePath       string    `gorm:"size:500"`
	FinalGrade     float64   `gorm:"not null"`
	InstructorName string    `gorm:"size:200;not null"`
	RequestedAt    time.Time `gorm:"not null"`
	IssuedAt       time.Time `gorm:"not null"`
}

// TableName Specify table name
func (CertificatePO) TableName() string {
	return "certificates"
}

// FromStudentDomain Flatten the aggregate into persistence objects.
// Learning history rows are intentionally excluded: they are written through
// the keyed reconcile path, never as part of the full-aggregate save.
func FromStudentDomain(s *student.Student) (*StudentPO, []EnrollmentPO, []CertificatePO) {
	studentPO := &StudentPO{
		ID:         s.ID(),
		ExternalID: s.ExternalID(),
		Name:       s.Name(),
		Email:      s.Email(),
		Document:   s.Document(),
		BirthDate:  s.BirthDate(),
		Phone:      s.Phone(),
		Active:     s.IsActive(),
		CreatedAt:  s.CreatedAt(),
		UpdatedAt:  s.UpdatedAt(),
	}

	enrollments := s.Enrollments()
	enrollmentPOs := make([]EnrollmentPO, 0, len(enrollments))
	var certificatePOs []CertificatePO
	for _, e := range enrollments {
		enrollmentPOs = append(enrollmentPOs, EnrollmentPO{
			ID:               e.ID(),
			StudentID:        s.ID(),
			CourseID:         e.CourseID(),
			CourseName:       e.CourseName(),
			CoursePrice:      e.CoursePrice(),
			Observation:      e.Observation(),
			Status:           string(e.Status()),
			PaymentStatus:    string(e.PaymentStatus()),
			SuspensionReason: e.SuspensionReason(),
			EnrolledAt:       e.EnrolledAt(),
			CompletedAt:      e.CompletedAt(),
		})
		if cert, ok := e.Certificate(); ok {
			certificatePOs = append(certificatePOs, CertificatePO{
				ID:             cert.ID(),
				EnrollmentID:   cert.EnrollmentID(),
				StudentID:      s.ID(),
				FilePath:       cert.FilePath(),
				FinalGrade:     cert.FinalGrade(),
				InstructorName: cert.InstructorName(),
				RequestedAt:    cert.RequestedAt(),
				IssuedAt:       cert.IssuedAt(),
			})
		}
	}

	return studentPO, enrollmentPOs, certificatePOs
}

// FromLearningHistoryDomain Convert one history value to its keyed row.
func FromLearningHistoryDomain(enrollmentID string, h student.LearningHistory) *LearningHistoryPO {
	return &LearningHistoryPO{
		EnrollmentID:    enrollmentID,
		LessonID:        h.LessonID(),
		Description:     h.Description(),
		DurationMinutes: h.DurationMinutes(),
		CompletedAt:     h.CompletedAt(),
	}
}

// ToDomain Rebuild the aggregate from its stored rows.
func (p *StudentPO) ToDomain(enrollmentPOs []EnrollmentPO, historyPOs map[string][]LearningHistoryPO, certificatePOs map[string]CertificatePO) *student.Student {
	enrollments := make([]*student.Enrollment, len(enrollmentPOs))
	for i, e := range enrollmentPOs {
		histories := historyPOs[e.ID]
		historyValues := make([]student.LearningHistory, len(histories))
		for j, h := range histories {
			historyValues[j] = student.RebuildLearningHistoryFromDTO(student.LearningHistoryReconstructionDTO{
				LessonID:        h.LessonID,
				Description:     h.Description,
				DurationMinutes: h.DurationMinutes,
				CompletedAt:     h.CompletedAt,
			})
		}

		var certificate *student.Certificate
		if c, ok := certificatePOs[e.ID]; ok {
			certificate = student.RebuildCertificateFromDTO(student.CertificateReconstructionDTO{
				ID:             c.ID,
				EnrollmentID:   c.EnrollmentID,
				FilePath:       c.FilePath,
				FinalGrade:     c.FinalGrade,
				InstructorName: c.InstructorName,
				RequestedAt:    c.RequestedAt,
				IssuedAt:       c.IssuedAt,
			})
		}

		enrollments[i] = student.RebuildEnrollmentFromDTO(student.EnrollmentReconstructionDTO{
			ID:               e.ID,
			CourseID:         e.CourseID,
			CourseName:       e.CourseName,
			CoursePrice:      e.CoursePrice,
			Observation:      e.Observation,
			EnrolledAt:       e.EnrolledAt,
			CompletedAt:      e.CompletedAt,
			Status:           student.EnrollmentStatus(e.Status),
			PaymentStatus:    student.PaymentStatus(e.PaymentStatus),
			SuspensionReason: e.SuspensionReason,
			History:          historyValues,
			Certificate:      certificate,
		})
	}

	return student.RebuildFromDTO(student.ReconstructionDTO{
		ID:          p.ID,
		ExternalID:  p.ExternalID,
		Name:        p.Name,
		Email:       p.Email,
		Document:    p.Document,
		BirthDate:   p.BirthDate,
		Phone:       p.Phone,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Enrollments: enrollments,
	})
}
