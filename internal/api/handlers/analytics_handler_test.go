package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/maheshrc27/pulseboard/internal/models"
)

// MockPostAnalyticsRepository is a mock implementation of the PostAnalyticsRepository interface
type MockPostAnalyticsRepository struct {
	mock.Mock
}

func (m *MockPostAnalyticsRepository) Create(ctx context.Context, rec *models.PostAnalyticsRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostAnalyticsRepository) GetLatestByPostID(ctx context.Context, socialAccountID int64, postID string) (*models.PostAnalyticsRecord, error) {
	args := m.Called(ctx, socialAccountID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostAnalyticsRecord), args.Error(1)
}

func (m *MockPostAnalyticsRepository) GetRichestByPostID(ctx context.Context, socialAccountID int64, postID string) (*models.PostAnalyticsRecord, error) {
	args := m.Called(ctx, socialAccountID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostAnalyticsRecord), args.Error(1)
}

func (m *MockPostAnalyticsRepository) ListByAccountSince(ctx context.Context, socialAccountID int64, since time.Time) ([]*models.PostAnalyticsRecord, error) {
	args := m.Called(ctx, socialAccountID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PostAnalyticsRecord), args.Error(1)
}

func newPostAnalyticsApp(pa *MockPostAnalyticsRepository) *fiber.App {
	h := NewAnalyticsHandler(nil, nil, nil, pa, nil)
	app := fiber.New()
	app.Get("/api/posts/analytics", h.GetPostAnalytics)
	return app
}

func TestGetPostAnalytics_ReturnsLatestSnapshot(t *testing.T) {
	pa := new(MockPostAnalyticsRepository)
	rec := &models.PostAnalyticsRecord{
		ID:              4,
		SocialAccountID: 2,
		PostID:          "post-1",
		Likes:           120,
		Comments:        14,
	}
	pa.On("GetLatestByPostID", mock.Anything, int64(2), "post-1").Return(rec, nil)

	app := newPostAnalyticsApp(pa)
	req := httptest.NewRequest("GET", "/api/posts/analytics?account_id=2&post_id=post-1", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.PostAnalyticsRecord
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "post-1", got.PostID)
	assert.Equal(t, int64(120), got.Likes)
	pa.AssertExpectations(t)
	pa.AssertNotCalled(t, "GetRichestByPostID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPostAnalytics_RichFlagUsesRichestSnapshot(t *testing.T) {
	pa := new(MockPostAnalyticsRepository)
	rec := &models.PostAnalyticsRecord{
		ID:              9,
		SocialAccountID: 2,
		PostID:          "post-1",
		RawInsights:     json.RawMessage(`{"data":[]}`),
	}
	pa.On("GetRichestByPostID", mock.Anything, int64(2), "post-1").Return(rec, nil)

	app := newPostAnalyticsApp(pa)
	req := httptest.NewRequest("GET", "/api/posts/analytics?account_id=2&post_id=post-1&rich=true", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	pa.AssertExpectations(t)
	pa.AssertNotCalled(t, "GetLatestByPostID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPostAnalytics_MissingPostID(t *testing.T) {
	pa := new(MockPostAnalyticsRepository)

	app := newPostAnalyticsApp(pa)
	req := httptest.NewRequest("GET", "/api/posts/analytics?account_id=2", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	pa.AssertNotCalled(t, "GetLatestByPostID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPostAnalytics_NoSnapshotRecorded(t *testing.T) {
	pa := new(MockPostAnalyticsRepository)
	pa.On("GetLatestByPostID", mock.Anything, int64(2), "post-9").Return(nil, nil)

	app := newPostAnalyticsApp(pa)
	req := httptest.NewRequest("GET", "/api/posts/analytics?account_id=2&post_id=post-9", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	pa.AssertExpectations(t)
}
