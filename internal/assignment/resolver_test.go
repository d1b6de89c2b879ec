package assignment

import (
	"testing"

	"stockroom/pkg/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLookups struct {
	mock.Mock
}

func (m *MockLookups) UserNameOf(id int) (*string, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockLookups) LocationNameOf(id int) (*string, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockLookups) AssetDescribe(id int) (*string, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestDescribeUserTarget(t *testing.T) {
	lookups := new(MockLookups)
	lookups.On("UserNameOf", 7).Return(strPtr("Ada Lovelace"), nil)

	resolver := NewResolver(lookups)

	label, err := resolver.Describe(metadata.UserTarget(7))

	assert.NoError(t, err)
	assert.NotNil(t, label)
	assert.Equal(t, "Ada Lovelace", *label)
	lookups.AssertExpectations(t)
}

func TestDescribeLocationTarget(t *testing.T) {
	lookups := new(MockLookups)
	lookups.On("LocationNameOf", 3).Return(strPtr("Main depot"), nil)

	resolver := NewResolver(lookups)

	label, err := resolver.Describe(metadata.LocationTarget(3))

	assert.NoError(t, err)
	assert.Equal(t, "Main depot", *label)
}

func TestDescribeAssetTarget(t *testing.T) {
	lookups := new(MockLookups)
	lookups.On("AssetDescribe", 12).Return(strPtr("LAP-0012 (Thinkpad)"), nil)

	resolver := NewResolver(lookups)

	label, err := resolver.Describe(metadata.AssetTarget(12))

	assert.NoError(t, err)
	assert.Equal(t, "LAP-0012 (Thinkpad)", *label)
}

func TestDescribeUnassigned(t *testing.T) {
	lookups := new(MockLookups)
	resolver := NewResolver(lookups)

	label, err := resolver.Describe(metadata.Unassigned())

	assert.NoError(t, err)
	assert.Nil(t, label)
	lookups.AssertNotCalled(t, "UserNameOf", mock.Anything)
}

// A dangling reference yields no label and no error: callers render it blank.
func TestDescribeDanglingReference(t *testing.T) {
	lookups := new(MockLookups)
	lookups.On("UserNameOf", 99).Return(nil, nil)

	resolver := NewResolver(lookups)

	label, err := resolver.Describe(metadata.UserTarget(99))

	assert.NoError(t, err)
	assert.Nil(t, label)
}

// Absent concurrent mutation, describing the same target twice yields the
// same label.
func TestDescribeIsIdempotent(t *testing.T) {
	lookups := new(MockLookups)
	lookups.On("UserNameOf", 7).Return(strPtr("Ada Lovelace"), nil).Twice()

	resolver := NewResolver(lookups)

	first, err := resolver.Describe(metadata.UserTarget(7))
	assert.NoError(t, err)
	second, err := resolver.Describe(metadata.UserTarget(7))
	assert.NoError(t, err)

	assert.Equal(t, *first, *second)
	lookups.AssertExpectations(t)
}
