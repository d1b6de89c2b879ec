package assets

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/metadata"
	"stockroom/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", float64(1))
	c.Set("role", "admin")
	return c, w
}

func TestRespondAssignmentError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "validation error maps to 400",
			err:            custom_error.NewValidationError("checkout requires a target"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found maps to 404",
			err:            &custom_error.NotFoundError{ResourceType: "asset", ResourceID: 1},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "already assigned maps to 409",
			err:            &custom_error.AlreadyAssignedError{ResourceType: "asset", ResourceID: 1},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "already unassigned maps to 409",
			err:            &custom_error.AlreadyUnassignedError{ResourceType: "asset", ResourceID: 1},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unexpected error maps to 500",
			err:            errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := setupTestContext()

			respondAssignmentError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

// An asset-kind assignment stores the custodian's user id at checkout, so the
// assignee must resolve as that user, not as whatever asset shares the id.
func TestAssigneeTarget(t *testing.T) {
	tests := []struct {
		name       string
		assignment models.Assignment
		expected   metadata.AssignmentTarget
	}{
		{
			name:       "user assignment",
			assignment: models.Assignment{Kind: metadata.TargetUser, AssignedTo: intPtr(7)},
			expected:   metadata.UserTarget(7),
		},
		{
			name:       "location assignment",
			assignment: models.Assignment{Kind: metadata.TargetLocation, AssignedTo: intPtr(3)},
			expected:   metadata.LocationTarget(3),
		},
		{
			name:       "asset assignment resolves the frozen user",
			assignment: models.Assignment{Kind: metadata.TargetAsset, AssignedTo: intPtr(9)},
			expected:   metadata.UserTarget(9),
		},
		{
			name:       "unassigned",
			assignment: models.Assignment{},
			expected:   metadata.Unassigned(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, assigneeTarget(tt.assignment))
		})
	}
}

// Both checkin fields are optional, so a request without a body must behave
// like an empty payload.
func TestCheckinAssetAcceptsEmptyBody(t *testing.T) {
	repo := new(MockAssetRepository)
	handler := NewAssetHandler(nil, newAssetService(repo), nil)

	assignedTo := 7
	asset := &models.Asset{ID: 1, Tag: "LAP-0001", Assignment: models.Assignment{
		Kind:       metadata.TargetUser,
		AssignedTo: &assignedTo,
	}}
	repo.On("GetAssetForUpdate", mock.Anything, 1).Return(asset, nil).Once()
	repo.On("ApplyCheckin", mock.Anything, 1, (*int)(nil), (*int)(nil), 1).Return(nil).Once()

	c, w := setupTestContext()
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/assets/1/checkin", nil)

	handler.CheckinAsset(c)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestCheckoutAssetRejectsInvalidInput(t *testing.T) {
	handler := NewAssetHandler(nil, nil, nil)

	tests := []struct {
		name           string
		id             string
		body           string
		expectedStatus int
	}{
		{
			name:           "non-numeric id",
			id:             "abc",
			body:           `{"target_kind":"user","target_id":7}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing target kind",
			id:             "1",
			body:           `{"target_id":7}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown target kind",
			id:             "1",
			body:           `{"target_kind":"department","target_id":7}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := setupTestContext()
			c.Params = gin.Params{{Key: "id", Value: tt.id}}
			c.Request = httptest.NewRequest(http.MethodPost, "/assets/"+tt.id+"/checkout", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.CheckoutAsset(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
