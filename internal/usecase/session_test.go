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

func provisionedProfile(userID string) *models.UserProfile {
	return &models.UserProfile{
		ID:             userID,
		RestaurantName: "Blue Door Bistro",
		Modes: map[models.Mode]models.ModeConfig{
			models.ModeCustomer: {
				BotName:   "Maya",
				Tone:      "friendly",
				LLMData:   &models.LLMData{LLMID: "llm_1", LLMWebsocketURL: "wss://retell/llm_1"},
				AgentData: &models.AgentData{AgentID: "agent_1"},
			},
			models.ModeSales: {
				BotName: "Victor",
				Tone:    "professional",
			},
		},
	}
}

func newTestSessions(repo *fakeProfileRepo, vendor *fakeVendor) CallSessions {
	conf := analyticsConfig()
	analytics := NewCallAnalytics(conf, repo, vendor)
	return NewCallSessions(conf, repo, vendor, analytics)
}

func TestStartCallRequiresProvisionedAgent(t *testing.T) {
	repo := &fakeProfileRepo{profile: provisionedProfile("user_1")}
	sessions := newTestSessions(repo, &fakeVendor{})

	// sales mode was never provisioned
	_, err := sessions.Start(context.Background(), "user_1", models.ModeSales)
	require.ErrorIs(t, err, models.ErrAgentNotProvisioned)
}

func TestStartCallRejectsUnknownMode(t *testing.T) {
	repo := &fakeProfileRepo{profile: provisionedProfile("user_1")}
	sessions := newTestSessions(repo, &fakeVendor{})

	_, err := sessions.Start(context.Background(), "user_1", models.Mode("vip"))
	require.ErrorIs(t, err, models.ErrInvalidMode)
}

func TestStartCallUnknownUser(t *testing.T) {
	repo := &fakeProfileRepo{}
	sessions := newTestSessions(repo, &fakeVendor{})

	_, err := sessions.Start(context.Background(), "ghost", models.ModeCustomer)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestEndCallTriggersRetrievalOnce(t *testing.T) {
	repo := &fakeProfileRepo{profile: provisionedProfile("user_1")}
	vendor := &fakeVendor{
		webCall: func(agentID string) (*retell.WebCall, error) {
			return &retell.WebCall{CallID: "call_1", AgentID: agentID, AccessToken: "tok"}, nil
		},
		getCall: func(attempt int) (*models.CallRecord, error) {
			return readyRecord("call_1"), nil
		},
	}
	sessions := newTestSessions(repo, vendor)

	call, err := sessions.Start(context.Background(), "user_1", models.ModeCustomer)
	require.NoError(t, err)
	assert.Equal(t, "agent_1", call.AgentID)
	assert.NotEmpty(t, call.AccessToken)

	require.NoError(t, sessions.End(context.Background(), "call_1"))

	// ending again is a no-op, not an error
	require.NoError(t, sessions.End(context.Background(), "call_1"))

	sessions.Shutdown()

	assert.Equal(t, 1, vendor.calls())
	merged := repo.mergedRecords()
	require.Len(t, merged, 1)
	assert.Equal(t, models.ModeCustomer, merged[0].mode)
	assert.Equal(t, "call_1", merged[0].callID)
}

func TestEndCallUnknownID(t *testing.T) {
	repo := &fakeProfileRepo{profile: provisionedProfile("user_1")}
	sessions := newTestSessions(repo, &fakeVendor{})

	err := sessions.End(context.Background(), "call_404")
	require.ErrorIs(t, err, models.ErrCallNotActive)
}

func TestEndCallRetrievalFailureIsContained(t *testing.T) {
	repo := &fakeProfileRepo{profile: provisionedProfile("user_1")}
	vendor := &fakeVendor{
		webCall: func(agentID string) (*retell.WebCall, error) {
			return &retell.WebCall{CallID: "call_1", AgentID: agentID, AccessToken: "tok"}, nil
		},
		getCall: func(attempt int) (*models.CallRecord, error) {
			return nil, &retell.StatusError{Code: 500, Body: "boom"}
		},
	}
	sessions := newTestSessions(repo, vendor)

	_, err := sessions.Start(context.Background(), "user_1", models.ModeCustomer)
	require.NoError(t, err)

	// End succeeds even though retrieval will fail in the background
	require.NoError(t, sessions.End(context.Background(), "call_1"))
	sessions.Shutdown()

	assert.Equal(t, 1, vendor.calls())
	assert.Empty(t, repo.mergedRecords())
}

func TestShutdownCancelsPolling(t *testing.T) {
	repo := &fakeProfileRepo{profile: provisionedProfile("user_1")}
	vendor := &fakeVendor{
		webCall: func(agentID string) (*retell.WebCall, error) {
			return &retell.WebCall{CallID: "call_1", AgentID: agentID, AccessToken: "tok"}, nil
		},
		getCall: func(attempt int) (*models.CallRecord, error) {
			return nil, nil
		},
	}
	conf := &config.Config{
		Analytics: config.AnalyticsConfig{
			MaxAttempts:  10,
			PollInterval: time.Hour,
		},
	}
	analytics := NewCallAnalytics(conf, repo, vendor)
	sessions := NewCallSessions(conf, repo, vendor, analytics)

	_, err := sessions.Start(context.Background(), "user_1", models.ModeCustomer)
	require.NoError(t, err)
	require.NoError(t, sessions.End(context.Background(), "call_1"))

	done := make(chan struct{})
	go func() {
		sessions.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not cancel the in-flight retrieval")
	}
	assert.Empty(t, repo.mergedRecords())
}
