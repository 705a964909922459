package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/voice-bot/internal/config"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/retell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyticsConfig() *config.Config {
	return &config.Config{
		Analytics: config.AnalyticsConfig{
			MaxAttempts:  10,
			PollInterval: time.Millisecond,
		},
	}
}

func readyRecord(callID string) *models.CallRecord {
	return &models.CallRecord{
		CallID:     callID,
		CallStatus: "ended",
		Transcript: "Agent: hello\nUser: hi",
	}
}

func TestRetrieveAndStoreSucceedsOnLastAttempt(t *testing.T) {
	repo := &fakeProfileRepo{}
	vendor := &fakeVendor{
		getCall: func(attempt int) (*models.CallRecord, error) {
			if attempt < 10 {
				return nil, nil
			}
			return readyRecord("call_1"), nil
		},
	}
	analytics := NewCallAnalytics(analyticsConfig(), repo, vendor)

	err := analytics.RetrieveAndStore(context.Background(), "user_1", "call_1", models.ModeCustomer)
	require.NoError(t, err)

	assert.Equal(t, 10, vendor.calls())
	merged := repo.mergedRecords()
	require.Len(t, merged, 1)
	assert.Equal(t, models.ModeCustomer, merged[0].mode)
	assert.Equal(t, "call_1", merged[0].callID)
	assert.Equal(t, "ended", merged[0].record.CallStatus)
}

func TestRetrieveAndStoreExhaustsBudget(t *testing.T) {
	repo := &fakeProfileRepo{}
	vendor := &fakeVendor{
		getCall: func(attempt int) (*models.CallRecord, error) {
			return nil, nil
		},
	}
	analytics := NewCallAnalytics(analyticsConfig(), repo, vendor)

	err := analytics.RetrieveAndStore(context.Background(), "user_1", "call_1", models.ModeCustomer)
	require.ErrorIs(t, err, ErrAnalyticsNotReady)

	// exactly the budget, and nothing written
	assert.Equal(t, 10, vendor.calls())
	assert.Empty(t, repo.mergedRecords())
}

func TestRetrieveAndStoreFatalOnVendorError(t *testing.T) {
	repo := &fakeProfileRepo{}
	statusErr := &retell.StatusError{Code: 404, Body: "call not found"}
	vendor := &fakeVendor{
		getCall: func(attempt int) (*models.CallRecord, error) {
			return nil, statusErr
		},
	}
	analytics := NewCallAnalytics(analyticsConfig(), repo, vendor)

	err := analytics.RetrieveAndStore(context.Background(), "user_1", "call_1", models.ModeCustomer)
	require.Error(t, err)
	assert.ErrorIs(t, err, statusErr)

	// a non-success status never burns further attempts
	assert.Equal(t, 1, vendor.calls())
	assert.Empty(t, repo.mergedRecords())
}

func TestRetrieveAndStoreRejectsUnknownMode(t *testing.T) {
	repo := &fakeProfileRepo{}
	vendor := &fakeVendor{
		getCall: func(attempt int) (*models.CallRecord, error) {
			return readyRecord("call_1"), nil
		},
	}
	analytics := NewCallAnalytics(analyticsConfig(), repo, vendor)

	err := analytics.RetrieveAndStore(context.Background(), "user_1", "call_1", models.Mode("admin"))
	require.ErrorIs(t, err, models.ErrInvalidMode)
	assert.Zero(t, vendor.calls())
	assert.Empty(t, repo.mergedRecords())
}

func TestRetrieveAndStoreStopsOnCancel(t *testing.T) {
	repo := &fakeProfileRepo{}
	vendor := &fakeVendor{
		getCall: func(attempt int) (*models.CallRecord, error) {
			return nil, nil
		},
	}
	conf := analyticsConfig()
	conf.Analytics.PollInterval = time.Hour
	analytics := NewCallAnalytics(conf, repo, vendor)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := analytics.RetrieveAndStore(ctx, "user_1", "call_1", models.ModeCustomer)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, vendor.calls())
}

func TestStoreRetrievedMergesDirectly(t *testing.T) {
	repo := &fakeProfileRepo{}
	analytics := NewCallAnalytics(analyticsConfig(), repo, &fakeVendor{})

	record := *readyRecord("call_2")
	err := analytics.StoreRetrieved(context.Background(), "user_1", "call_2", models.ModeSales, record)
	require.NoError(t, err)

	// storing the same record again is accepted, the merge is idempotent
	err = analytics.StoreRetrieved(context.Background(), "user_1", "call_2", models.ModeSales, record)
	require.NoError(t, err)

	merged := repo.mergedRecords()
	require.Len(t, merged, 2)
	assert.Equal(t, merged[0], merged[1])
}

func TestStoreRetrievedRejectsUnknownMode(t *testing.T) {
	repo := &fakeProfileRepo{}
	analytics := NewCallAnalytics(analyticsConfig(), repo, &fakeVendor{})

	err := analytics.StoreRetrieved(context.Background(), "user_1", "call_2", models.Mode(""), models.CallRecord{})
	require.ErrorIs(t, err, models.ErrInvalidMode)
	assert.Empty(t, repo.mergedRecords())
}

func TestStoreSharedUsesLegacyBucket(t *testing.T) {
	repo := &fakeProfileRepo{}
	analytics := NewCallAnalytics(analyticsConfig(), repo, &fakeVendor{})

	err := analytics.StoreShared(context.Background(), "user_1", "call_3", *readyRecord("call_3"))
	require.NoError(t, err)

	assert.Empty(t, repo.mergedRecords())
	require.Len(t, repo.shared, 1)
	assert.Equal(t, "call_3", repo.shared[0].callID)
}
