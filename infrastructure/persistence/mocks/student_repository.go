package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
)

// MockStudentRepository In-memory implementation of the student repository.
// Repository is only responsible for persistence of aggregate roots; events
// are collected by the UoW, never published here.
type MockStudentRepository struct {
	students map[string]*student.Student
	mu       sync.RWMutex
}

// NewMockStudentRepository Create mock student repository
func NewMockStudentRepository() *MockStudentRepository {
	return &MockStudentRepository{
		students: make(map[string]*student.Student),
	}
}

// NextIdentity Generate new student ID
func (r *MockStudentRepository) NextIdentity() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func (r *MockStudentRepository) Save(ctx context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students[s.ID()] = s
	return nil
}

// ReconcileLearningHistory The aggregate already holds the replaced value, so
// the in-memory store needs no keyed write. Kept for contract parity.
func (r *MockStudentRepository) ReconcileLearningHistory(ctx context.Context, enrollmentID string, before, after student.LearningHistory) error {
	return nil
}

func (r *MockStudentRepository) FindByID(ctx context.Context, id string) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.students[id]
	if !exists {
		return nil, student.NewStudentNotFoundError(id)
	}
	return s, nil
}

func (r *MockStudentRepository) FindByExternalID(ctx context.Context, externalID string) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if s.ExternalID() == externalID {
			return s, nil
		}
	}
	return nil, student.NewStudentNotFoundError(externalID)
}

func (r *MockStudentRepository) FindByEmail(ctx context.Context, email string) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, s := range r.students {
		if s.Email() == normalized {
			return s, nil
		}
	}
	return nil, student.NewStudentNotFoundError(email)
}

func (r *MockStudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, s := range r.students {
		if s.Email() == normalized {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockStudentRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if s.ExternalID() == externalID {
			return true, nil
		}
	}
	return false, nil
}

// Compile-time interface implementation check
var _ student.Repository = (*MockStudentRepository)(nil)
