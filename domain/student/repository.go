package student

import "context"

// Repository persists the Student aggregate as a whole. It never publishes
// events; the Unit of Work collects them into the outbox.
type Repository interface {
	// NextIdentity generates a new student ID.
	NextIdentity() string

	// FindByID loads the full aggregate (enrollments, history, certificates).
	FindByID(ctx context.Context, id string) (*Student, error)

	// FindByExternalID loads the aggregate by its identity-provider
	// reference.
	FindByExternalID(ctx context.Context, externalID string) (*Student, error)

	// FindByEmail loads the aggregate by normalized email.
	FindByEmail(ctx context.Context, email string) (*Student, error)

	// ExistsByEmail supports the platform-wide email uniqueness check.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByExternalID supports the identity-reference uniqueness check.
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)

	// Save creates or updates the student row, its enrollments and
	// certificates. Learning history rows are NOT written here; they go
	// through ReconcileLearningHistory so that a value replacement becomes a
	// keyed update instead of relying on the ORM noticing an in-place change
	// inside a collection.
	Save(ctx context.Context, s *Student) error

	// ReconcileLearningHistory applies the before/after pair returned by
	// Student.RecordLearningHistory: inserts the row when before is zero,
	// otherwise updates the row keyed by (enrollment, lesson).
	ReconcileLearningHistory(ctx context.Context, enrollmentID string, before, after LearningHistory) error
}

// LessonSnapshot is one lesson of the caller-supplied course read model.
type LessonSnapshot struct {
	ID              string
	Description     string
	DurationMinutes int
}

// CourseSnapshot is the pre-fetched course catalog read model handed in by
// the caller of the learning-progress commands. The core never fetches it
// itself and must tolerate it being stale.
type CourseSnapshot struct {
	ID      string
	Name    string
	Lessons []LessonSnapshot
}

// Lesson returns the snapshot lesson by ID, if present.
func (c CourseSnapshot) Lesson(lessonID string) (LessonSnapshot, bool) {
	for _, l := range c.Lessons {
		if l.ID == lessonID {
			return l, true
		}
	}
	return LessonSnapshot{}, false
}

// TotalLessons returns the lesson count of the snapshot.
func (c CourseSnapshot) TotalLessons() int { return len(c.Lessons) }
