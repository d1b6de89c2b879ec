package statuses

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) GetStatusLabels() ([]models.StatusLabel, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatusLabel), args.Error(1)
}

func (m *MockStatusRepository) GetStatusLabel(id int) (*models.StatusLabel, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusLabel), args.Error(1)
}

func (m *MockStatusRepository) PersistStatusLabel(name string, statusType string) (*models.StatusLabel, error) {
	args := m.Called(name, statusType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusLabel), args.Error(1)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", float64(1))
	c.Set("role", "admin")
	return c, w
}

func postStatusLabel(c *gin.Context, body string) {
	c.Request = httptest.NewRequest(http.MethodPost, "/statuses", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
}

func TestCreateStatusLabel(t *testing.T) {
	mockRepo := new(MockStatusRepository)
	handler := NewStatusHandler(mockRepo)

	created := &models.StatusLabel{ID: 1, Name: "In repair", Type: "undeployable"}
	mockRepo.On("PersistStatusLabel", "In repair", "undeployable").Return(created, nil).Once()

	c, w := setupTestContext()
	postStatusLabel(c, `{"name":"In repair","type":"undeployable"}`)

	handler.CreateStatusLabel(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)
}

// Only the known deployability types are accepted.
func TestCreateStatusLabelRejectsUnknownType(t *testing.T) {
	mockRepo := new(MockStatusRepository)
	handler := NewStatusHandler(mockRepo)

	c, w := setupTestContext()
	postStatusLabel(c, `{"name":"Broken","type":"smashed"}`)

	handler.CreateStatusLabel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "PersistStatusLabel", mock.Anything, mock.Anything)
}

func TestCreateStatusLabelDuplicateName(t *testing.T) {
	mockRepo := new(MockStatusRepository)
	handler := NewStatusHandler(mockRepo)

	mockRepo.On("PersistStatusLabel", "Ready", "deployable").
		Return(nil, custom_error.WrapDBError("Duplicate status label name", "23505")).Once()

	c, w := setupTestContext()
	postStatusLabel(c, `{"name":"Ready","type":"deployable"}`)

	handler.CreateStatusLabel(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetStatusLabels(t *testing.T) {
	mockRepo := new(MockStatusRepository)
	handler := NewStatusHandler(mockRepo)

	labels := []models.StatusLabel{
		{ID: 1, Name: "Ready", Type: "deployable"},
		{ID: 2, Name: "In repair", Type: "undeployable"},
	}
	mockRepo.On("GetStatusLabels").Return(labels, nil).Once()

	c, w := setupTestContext()

	handler.GetStatusLabels(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "In repair")
}
