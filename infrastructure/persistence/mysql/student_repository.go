package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence/mysql/po"
)

// StudentRepository MySQL/GORM implementation of the student repository.
// GORM usage specification: association features are prohibited to keep
// aggregate boundaries explicit; every owned collection is loaded and written
// by hand.
type StudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository Create student repository
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *StudentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// NextIdentity Generate new student ID
func (r *StudentRepository) NextIdentity() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Save Save student (create or update)
// Enrollments and certificates are upserted row by row. Learning history rows
// never pass through here; ReconcileLearningHistory owns them.
func (r *StudentRepository) Save(ctx context.Context, s *student.Student) error {
	studentPO, enrollmentPOs, certificatePOs := po.FromStudentDomain(s)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, studentPO, enrollmentPOs, certificatePOs)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, studentPO, enrollmentPOs, certificatePOs)
	})
}

func (r *StudentRepository) saveWithTx(tx *gorm.DB, studentPO *po.StudentPO, enrollmentPOs []po.EnrollmentPO, certificatePOs []po.CertificatePO) error {
	if err := tx.Save(studentPO).Error; err != nil {
		return err
	}
	for i := range enrollmentPOs {
		if err := tx.Save(&enrollmentPOs[i]).Error; err != nil {
			return err
		}
	}
	for i := range certificatePOs {
		if err := tx.Save(&certificatePOs[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReconcileLearningHistory Apply a before/after history pair as a keyed write.
// A zero before means the row is new; otherwise the existing row identified by
// (enrollment_id, lesson_id) is updated in place.
func (r *StudentRepository) ReconcileLearningHistory(ctx context.Context, enrollmentID string, before, after student.LearningHistory) error {
	db := r.getDB(ctx)
	row := po.FromLearningHistoryDomain(enrollmentID, after)

	if before.IsZero() {
		return db.Create(row).Error
	}

	result := db.Model(&po.LearningHistoryPO{}).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, after.LessonID()).
		Updates(map[string]interface{}{
			"description":      row.Description,
			"duration_minutes": row.DurationMinutes,
			"completed_at":     row.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("learning history row not found for enrollment %s lesson %s", enrollmentID, after.LessonID())
	}
	return nil
}

// FindByID Find student by ID
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*student.Student, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByExternalID Find student by identity-provider reference
func (r *StudentRepository) FindByExternalID(ctx context.Context, externalID string) (*student.Student, error) {
	return r.findOne(ctx, "external_id = ?", externalID)
}

// FindByEmail Find student by normalized email
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*student.Student, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *StudentRepository) findOne(ctx context.Context, query string, arg string) (*student.Student, error) {
	db := r.getDB(ctx)

	var studentPO po.StudentPO
	result := db.First(&studentPO, query, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, student.NewStudentNotFoundError(arg)
		}
		return nil, result.Error
	}

	// Manually query owned collections (no Preload, aggregate boundary stays explicit)
	var enrollmentPOs []po.EnrollmentPO
	if err := db.Where("student_id = ?", studentPO.ID).
		Order("enrolled_at ASC").
		Find(&enrollmentPOs).Error; err != nil {
		return nil, err
	}

	historyByEnrollment := make(map[string][]po.LearningHistoryPO, len(enrollmentPOs))
	certByEnrollment := make(map[string]po.CertificatePO)
	for _, e := range enrollmentPOs {
		var historyPOs []po.LearningHistoryPO
		if err := db.Where("enrollment_id = ?", e.ID).
			Order("lesson_id ASC").
			Find(&historyPOs).Error; err != nil {
			return nil, err
		}
		historyByEnrollment[e.ID] = historyPOs
	}

	var certificatePOs []po.CertificatePO
	if err := db.Where("student_id = ?", studentPO.ID).Find(&certificatePOs).Error; err != nil {
		return nil, err
	}
	for _, c := range certificatePOs {
		certByEnrollment[c.EnrollmentID] = c
	}

	return studentPO.ToDomain(enrollmentPOs, historyByEnrollment, certByEnrollment), nil
}

// ExistsByEmail Check email uniqueness
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByExternalID Check identity-reference uniqueness
func (r *StudentRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	return r.exists(ctx, "external_id = ?", externalID)
}

func (r *StudentRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&po.StudentPO{}).Where(query, arg).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time interface implementation check
var _ student.Repository = (*StudentRepository)(nil)
