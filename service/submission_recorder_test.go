package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var twoSum = &models.Problem{
	Slug:       "two-sum",
	Title:      "Two Sum",
	Difficulty: models.DifficultyEasy,
}

func newTestRecorder(records *MockCompletionRecordRepository, publisher *MockEventPublisher) CompletionRecorder {
	clock := NewFixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), time.UTC)
	return NewSubmissionRecorder(records, NewStreakService(records, clock), NewTimestampResolver(clock), publisher)
}

func testRequest() RecordRequest {
	return RecordRequest{
		GuildID:      "guild-1",
		MemberID:     "member-1",
		Username:     "alice",
		Day:          day(2024, 3, 10),
		Problem:      twoSum,
		RawTimestamp: "1710064800",
	}
}

func TestSubmissionRecorder_CreatesRecord(t *testing.T) {
	ctx := context.Background()
	mockRecords := new(MockCompletionRecordRepository)
	mockPublisher := new(MockEventPublisher)
	recorder := newTestRecorder(mockRecords, mockPublisher)

	mockRecords.On("FindInWindow", ctx, "guild-1", "member-1", "two-sum", day(2024, 3, 10), day(2024, 3, 11)).Return(nil, nil)
	mockRecords.On("GetHighestStreakOnDay", ctx, "guild-1", "member-1", day(2024, 3, 9)).
		Return(&models.CompletionRecord{StreakCount: 2}, nil)
	mockRecords.On("Create", ctx, mock.MatchedBy(func(r *models.CompletionRecord) bool {
		return r.GuildID == "guild-1" &&
			r.MemberID == "member-1" &&
			r.TrackedUsername == "alice" &&
			r.Day.Equal(day(2024, 3, 10)) &&
			r.ChallengeSlug == "two-sum" &&
			r.ChallengeTitle == "Two Sum" &&
			r.Difficulty == models.DifficultyEasy &&
			r.SubmittedAt.Equal(time.Unix(1710064800, 0)) &&
			r.Completed &&
			r.StreakCount == 3
	})).Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		recorded, ok := e.(events.CompletionRecordedEvent)
		return ok && recorded.StreakCount == 3 && recorded.MemberID == "member-1"
	})).Return()

	record, created, err := recorder.RecordIfAbsent(ctx, testRequest())

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3, record.StreakCount)
	mockRecords.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestSubmissionRecorder_SecondCallIsNoop(t *testing.T) {
	ctx := context.Background()
	mockRecords := new(MockCompletionRecordRepository)
	mockPublisher := new(MockEventPublisher)
	recorder := newTestRecorder(mockRecords, mockPublisher)

	existing := &models.CompletionRecord{ID: 42, StreakCount: 1}
	mockRecords.On("FindInWindow", ctx, "guild-1", "member-1", "two-sum", day(2024, 3, 10), day(2024, 3, 11)).Return(existing, nil)

	record, created, err := recorder.RecordIfAbsent(ctx, testRequest())

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, record)
	mockRecords.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRecords.AssertNotCalled(t, "GetHighestStreakOnDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestSubmissionRecorder_UniqueConflictIsSuccess(t *testing.T) {
	ctx := context.Background()
	mockRecords := new(MockCompletionRecordRepository)
	mockPublisher := new(MockEventPublisher)
	recorder := newTestRecorder(mockRecords, mockPublisher)

	mockRecords.On("FindInWindow", ctx, "guild-1", "member-1", "two-sum", day(2024, 3, 10), day(2024, 3, 11)).Return(nil, nil)
	mockRecords.On("GetHighestStreakOnDay", ctx, "guild-1", "member-1", day(2024, 3, 9)).Return(nil, nil)
	mockRecords.On("Create", ctx, mock.Anything).Return(models.ErrDuplicateWrite)

	record, created, err := recorder.RecordIfAbsent(ctx, testRequest())

	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, record)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestSubmissionRecorder_StoreError(t *testing.T) {
	ctx := context.Background()
	mockRecords := new(MockCompletionRecordRepository)
	recorder := newTestRecorder(mockRecords, new(MockEventPublisher))

	mockRecords.On("FindInWindow", ctx, "guild-1", "member-1", "two-sum", day(2024, 3, 10), day(2024, 3, 11)).
		Return(nil, errors.New("connection refused"))

	_, created, err := recorder.RecordIfAbsent(ctx, testRequest())

	assert.Error(t, err)
	assert.False(t, created)
}

func TestSubmissionRecorder_UnparseableTimestampUsesNow(t *testing.T) {
	ctx := context.Background()
	mockRecords := new(MockCompletionRecordRepository)
	mockPublisher := new(MockEventPublisher)
	recorder := newTestRecorder(mockRecords, mockPublisher)

	req := testRequest()
	req.RawTimestamp = "yesterday-ish"

	mockRecords.On("FindInWindow", ctx, "guild-1", "member-1", "two-sum", day(2024, 3, 10), day(2024, 3, 11)).Return(nil, nil)
	mockRecords.On("GetHighestStreakOnDay", ctx, "guild-1", "member-1", day(2024, 3, 9)).Return(nil, nil)
	mockRecords.On("Create", ctx, mock.MatchedBy(func(r *models.CompletionRecord) bool {
		return r.SubmittedAt.Equal(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)) && r.StreakCount == 1
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	_, created, err := recorder.RecordIfAbsent(ctx, req)

	require.NoError(t, err)
	assert.True(t, created)
	mockRecords.AssertExpectations(t)
}
