package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/transfer"
)

// MockSocialAccountRepository is a mock implementation of the SocialAccountRepository interface
type MockSocialAccountRepository struct {
	mock.Mock
}

func (m *MockSocialAccountRepository) Create(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	args := m.Called(ctx, tx, sa)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSocialAccountRepository) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepository) List(ctx context.Context) ([]*models.SocialAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepository) ListByTeamID(ctx context.Context, teamID int64) ([]*models.SocialAccount, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepository) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAccountAnalyticsRepository is a mock implementation of the AccountAnalyticsRepository interface
type MockAccountAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAccountAnalyticsRepository) Create(ctx context.Context, rec *models.AccountAnalyticsRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountAnalyticsRepository) SafeCreate(ctx context.Context, rec *models.AccountAnalyticsRecord, opts models.SafeWriteOptions) error {
	args := m.Called(ctx, rec, opts)
	return args.Error(0)
}

func (m *MockAccountAnalyticsRepository) GetLatest(ctx context.Context, socialAccountID int64) (*models.AccountAnalyticsRecord, error) {
	args := m.Called(ctx, socialAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountAnalyticsRecord), args.Error(1)
}

func (m *MockAccountAnalyticsRepository) GetEarliest(ctx context.Context, socialAccountID int64) (*models.AccountAnalyticsRecord, error) {
	args := m.Called(ctx, socialAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountAnalyticsRecord), args.Error(1)
}

func (m *MockAccountAnalyticsRepository) ListByDateRange(ctx context.Context, socialAccountID int64, from, to time.Time) ([]*models.AccountAnalyticsRecord, error) {
	args := m.Called(ctx, socialAccountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AccountAnalyticsRecord), args.Error(1)
}

func (m *MockAccountAnalyticsRepository) CountByAccount(ctx context.Context, socialAccountID int64) (int64, error) {
	args := m.Called(ctx, socialAccountID)
	return args.Get(0).(int64), args.Error(1)
}

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

// MockHotspotRepository is a mock implementation of the HotspotRepository interface
type MockHotspotRepository struct {
	mock.Mock
}

func (m *MockHotspotRepository) ReplaceForAccount(ctx context.Context, socialAccountID int64, cells []*models.EngagementHotspot) error {
	args := m.Called(ctx, socialAccountID, cells)
	return args.Error(0)
}

func (m *MockHotspotRepository) ListByAccount(ctx context.Context, socialAccountID int64) ([]*models.EngagementHotspot, error) {
	args := m.Called(ctx, socialAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EngagementHotspot), args.Error(1)
}

// MockSyncRunLogRepository is a mock implementation of the SyncRunLogRepository interface
type MockSyncRunLogRepository struct {
	mock.Mock
}

func (m *MockSyncRunLogRepository) Create(ctx context.Context, run *models.SyncRunLog) (int64, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSyncRunLogRepository) HasSuccessSince(ctx context.Context, name string, since time.Time) (bool, error) {
	args := m.Called(ctx, name, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockSyncRunLogRepository) ListByName(ctx context.Context, name string, limit int) ([]*models.SyncRunLog, error) {
	args := m.Called(ctx, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SyncRunLog), args.Error(1)
}

// MockInsightsCollector is a mock implementation of the InsightsCollector interface
type MockInsightsCollector struct {
	mock.Mock
}

func (m *MockInsightsCollector) CollectAccountWindow(ctx context.Context, acc *models.SocialAccount, from, to time.Time) (*CollectionStats, error) {
	args := m.Called(ctx, acc, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CollectionStats), args.Error(1)
}

func (m *MockInsightsCollector) CollectPostAnalytics(ctx context.Context, acc *models.SocialAccount, since time.Time) (int, error) {
	args := m.Called(ctx, acc, since)
	return args.Int(0), args.Error(1)
}

// MockHotspotService is a mock implementation of the HotspotService interface
type MockHotspotService struct {
	mock.Mock
}

func (m *MockHotspotService) AnalyzeAndStore(ctx context.Context, socialAccountID int64) error {
	args := m.Called(ctx, socialAccountID)
	return args.Error(0)
}

func (m *MockHotspotService) AnalyzeFreshAccount(ctx context.Context, acc *models.SocialAccount) (*transfer.FreshHotspotReport, error) {
	args := m.Called(ctx, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.FreshHotspotReport), args.Error(1)
}

func (m *MockHotspotService) RunForAllAccounts(ctx context.Context) (*transfer.BatchHotspotResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.BatchHotspotResult), args.Error(1)
}

// MockCoverageService is a mock implementation of the CoverageService interface
type MockCoverageService struct {
	mock.Mock
}

func (m *MockCoverageService) Analyze(ctx context.Context, socialAccountID int64) (*models.CoverageReport, error) {
	args := m.Called(ctx, socialAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CoverageReport), args.Error(1)
}

// MockSmartSyncService is a mock implementation of the SmartSyncService interface
type MockSmartSyncService struct {
	mock.Mock
}

func (m *MockSmartSyncService) PerformSmartSync(ctx context.Context, opts transfer.SmartSyncOptions) *transfer.SyncResult {
	args := m.Called(ctx, opts)
	return args.Get(0).(*transfer.SyncResult)
}

func (m *MockSmartSyncService) GetSyncRecommendations(ctx context.Context, socialAccountID int64) (*transfer.SyncRecommendation, error) {
	args := m.Called(ctx, socialAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.SyncRecommendation), args.Error(1)
}

func (m *MockSmartSyncService) GetSyncStatus(ctx context.Context, socialAccountID int64) (*transfer.SyncStatus, error) {
	args := m.Called(ctx, socialAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.SyncStatus), args.Error(1)
}

// MockDataSource is a mock implementation of the platform.DataSource interface
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) GetAccountBasics(ctx context.Context, profileID, accessToken string) (*transfer.AccountBasics, error) {
	args := m.Called(ctx, profileID, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.AccountBasics), args.Error(1)
}

func (m *MockDataSource) GetRecentPosts(ctx context.Context, profileID, accessToken string, limit int, since time.Time) ([]*transfer.PlatformPost, error) {
	args := m.Called(ctx, profileID, accessToken, limit, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transfer.PlatformPost), args.Error(1)
}

func (m *MockDataSource) GetPostInsights(ctx context.Context, postID, accessToken string) (*transfer.PostInsights, error) {
	args := m.Called(ctx, postID, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.PostInsights), args.Error(1)
}

// MockRunExporter is a mock implementation of the RunExporter interface
type MockRunExporter struct {
	mock.Mock
}

func (m *MockRunExporter) ExportRunSummary(ctx context.Context, result *transfer.AnalyticsRunResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
