package service

import (
	"context"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetByGuildID(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Ensure(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) ListGuildIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGuildConfigRepository) SetChannel(ctx context.Context, guildID, channelID string) error {
	args := m.Called(ctx, guildID, channelID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) AddTrackedUser(ctx context.Context, guildID string, user models.TrackedUser) error {
	args := m.Called(ctx, guildID, user)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) RemoveTrackedUser(ctx context.Context, guildID, username string) error {
	args := m.Called(ctx, guildID, username)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) GetSchedules(ctx context.Context, guildID string) ([]models.Schedule, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *MockGuildConfigRepository) ListAllSchedules(ctx context.Context) (map[string][]models.Schedule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]models.Schedule), args.Error(1)
}

func (m *MockGuildConfigRepository) AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	args := m.Called(ctx, guildID, schedule)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	args := m.Called(ctx, guildID, schedule)
	return args.Error(0)
}

// MockCompletionRecordRepository is a mock implementation of CompletionRecordRepository
type MockCompletionRecordRepository struct {
	mock.Mock
}

func (m *MockCompletionRecordRepository) Create(ctx context.Context, record *models.CompletionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCompletionRecordRepository) FindInWindow(ctx context.Context, guildID, memberID, slug string, from, to time.Time) (*models.CompletionRecord, error) {
	args := m.Called(ctx, guildID, memberID, slug, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletionRecord), args.Error(1)
}

func (m *MockCompletionRecordRepository) GetHighestStreakOnDay(ctx context.Context, guildID, memberID string, day time.Time) (*models.CompletionRecord, error) {
	args := m.Called(ctx, guildID, memberID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletionRecord), args.Error(1)
}

func (m *MockCompletionRecordRepository) GetLatest(ctx context.Context, guildID, memberID string) (*models.CompletionRecord, error) {
	args := m.Called(ctx, guildID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletionRecord), args.Error(1)
}

func (m *MockCompletionRecordRepository) CountSince(ctx context.Context, guildID, memberID string, since time.Time) (int, error) {
	args := m.Called(ctx, guildID, memberID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockCompletionRecordRepository) GetTopStreaks(ctx context.Context, guildID string, since time.Time, limit int) ([]*models.CompletionRecord, error) {
	args := m.Called(ctx, guildID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CompletionRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	guildConfigRepo      GuildConfigRepository
	completionRecordRepo CompletionRecordRepository
	eventBus             EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(guildConfigRepo GuildConfigRepository, completionRecordRepo CompletionRecordRepository, eventBus EventPublisher) {
	m.guildConfigRepo = guildConfigRepo
	m.completionRecordRepo = completionRecordRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) CompletionRecordRepository() CompletionRecordRepository {
	return m.completionRecordRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockSubmissionSource is a mock implementation of SubmissionSource
type MockSubmissionSource struct {
	mock.Mock
}

func (m *MockSubmissionSource) DailyChallengeSlug(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSubmissionSource) Problem(ctx context.Context, slug string) (*models.Problem, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Problem), args.Error(1)
}

func (m *MockSubmissionSource) RecentSubmissions(ctx context.Context, username string) ([]models.Submission, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

// MockNotificationDispatcher is a mock implementation of NotificationDispatcher
type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) NotifyIncomplete(ctx context.Context, config *models.GuildConfig, report *models.CheckReport) error {
	args := m.Called(ctx, config, report)
	return args.Error(0)
}

// MockCompletionRecorder is a mock implementation of CompletionRecorder
type MockCompletionRecorder struct {
	mock.Mock
}

func (m *MockCompletionRecorder) RecordIfAbsent(ctx context.Context, req RecordRequest) (*models.CompletionRecord, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.CompletionRecord), args.Bool(1), args.Error(2)
}
