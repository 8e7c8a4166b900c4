package student

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	studentapp "github.com/jasonamaral/mba.modulo4-sub001/application/student"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence/mocks"
)

func setupRouter(t *testing.T) (*gin.Engine, *shared.CommandBus) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := studentapp.NewApplicationService(
		mocks.NewMockStudentRepository(),
		mocks.NewMockUnitOfWorkFactory(),
		studentapp.NopFailureReporter{},
	)
	bus := shared.NewCommandBus()
	require.NoError(t, service.RegisterHandlers(bus))

	engine := gin.New()
	NewController(bus, service).RegisterRoutes(engine.Group("/api/v1"))
	return engine, bus
}

func seedEnrolledStudent(t *testing.T, bus *shared.CommandBus) string {
	t.Helper()
	ctx := context.Background()
	birth := time.Date(1995, 3, 14, 0, 0, 0, 0, time.UTC)

	result, _, err := bus.Dispatch(ctx, studentapp.NewRegisterStudentCommand("ext-1", "Maria Silva", "maria@example.com", "12345678900", birth, ""))
	require.NoError(t, err)
	require.True(t, result.Success)
	studentID := result.Payload.(*studentapp.StudentResponse).ID

	result, _, err = bus.Dispatch(ctx, studentapp.NewActivateStudentCommand(studentID))
	require.NoError(t, err)
	require.True(t, result.Success)

	result, _, err = bus.Dispatch(ctx, studentapp.NewEnrollCourseCommand(studentID, "course-1", "Go Fundamentals", 199.90, ""))
	require.NoError(t, err)
	require.True(t, result.Success)

	return studentID
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

// The payment signal is keyed by student + course; the route carries no
// enrollment segment.
func TestConfirmPaymentRouteKeyedByCourse(t *testing.T) {
	engine, bus := setupRouter(t)
	studentID := seedEnrolledStudent(t, bus)

	rec := postJSON(t, engine, "/api/v1/students/"+studentID+"/payments/confirm", gin.H{"course_id": "course-1"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"payment_status":"CONFIRMED"`)
}

func TestConfirmPaymentRejectionsReturnNotifications(t *testing.T) {
	engine, bus := setupRouter(t)
	studentID := seedEnrolledStudent(t, bus)

	first := postJSON(t, engine, "/api/v1/students/"+studentID+"/payments/confirm", gin.H{"course_id": "course-1"})
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, engine, "/api/v1/students/"+studentID+"/payments/confirm", gin.H{"course_id": "course-1"})
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Contains(t, second.Body.String(), "already confirmed")

	unknown := postJSON(t, engine, "/api/v1/students/"+studentID+"/payments/confirm", gin.H{"course_id": "course-9"})
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Contains(t, unknown.Body.String(), "not found")
}

func TestConfirmPaymentRequiresCourseID(t *testing.T) {
	engine, bus := setupRouter(t)
	studentID := seedEnrolledStudent(t, bus)

	rec := postJSON(t, engine, "/api/v1/students/"+studentID+"/payments/confirm", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
