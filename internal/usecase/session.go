package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/voice-bot/internal/config"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/retell"
)

type callState string

const (
	callStateActive   callState = "active"
	callStateInactive callState = "inactive"
)

// callSession is one live call: constructed at start, discarded after
// the end transition has fired. No state is shared across calls.
type callSession struct {
	mu     sync.Mutex
	state  callState
	userID string
	mode   models.Mode
}

// endOnce transitions active -> inactive exactly once.
func (s *callSession) endOnce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != callStateActive {
		return false
	}
	s.state = callStateInactive
	return true
}

// CallSessions drives live voice calls: start against a provisioned
// agent, observe the end transition, and hand the ended call id to the
// analytics retrieval core exactly once.
type CallSessions interface {
	Start(ctx context.Context, userID string, mode models.Mode) (*retell.WebCall, error)
	End(ctx context.Context, callID string) error
	Shutdown()
}

type callSessions struct {
	conf        *config.Config
	profileRepo mongodb.UserProfileRepository
	vendor      retell.Client
	analytics   CallAnalytics

	mu       sync.Mutex
	active   map[string]*callSession
	baseCtx  context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

func NewCallSessions(
	conf *config.Config,
	profileRepo mongodb.UserProfileRepository,
	vendor retell.Client,
	analytics CallAnalytics,
) CallSessions {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &callSessions{
		conf:        conf,
		profileRepo: profileRepo,
		vendor:      vendor,
		analytics:   analytics,
		active:      map[string]*callSession{},
		baseCtx:     baseCtx,
		cancel:      cancel,
	}
}

// Start refuses to create a call unless the mode has a provisioned
// agent reference; there is nothing for the realtime client to join
// otherwise.
func (c *callSessions) Start(ctx context.Context, userID string, mode models.Mode) (*retell.WebCall, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}

	profile, err := c.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	cfg := profile.ModeConfigOf(mode)
	if cfg.AgentData == nil || cfg.AgentData.AgentID == "" {
		log.Warnw(ctx, "call refused, no provisioned agent", "user_id", userID, "mode", mode)
		return nil, fmt.Errorf("%w: mode %s", models.ErrAgentNotProvisioned, mode)
	}

	call, err := c.vendor.CreateWebCall(ctx, cfg.AgentData.AgentID)
	if err != nil {
		return nil, fmt.Errorf("create web call: %w", err)
	}

	c.mu.Lock()
	c.active[call.CallID] = &callSession{
		state:  callStateActive,
		userID: userID,
		mode:   mode,
	}
	c.mu.Unlock()

	log.Infow(ctx, "call started", "user_id", userID, "mode", mode, "call_id", call.CallID)
	return call, nil
}

// End marks the call inactive and kicks off analytics retrieval in the
// background, exactly once per call id; a second End for the same call
// is a no-op. Retrieval failures are contained here: the call has ended
// either way and there is no user-facing retry.
func (c *callSessions) End(ctx context.Context, callID string) error {
	c.mu.Lock()
	session, ok := c.active[callID]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrCallNotActive, callID)
	}

	if !session.endOnce() {
		return nil
	}

	c.mu.Lock()
	delete(c.active, callID)
	c.mu.Unlock()

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		budget := time.Duration(c.conf.Analytics.MaxAttempts)*c.conf.Analytics.PollInterval + 30*time.Second
		retrieveCtx, cancel := context.WithTimeout(c.baseCtx, budget)
		defer cancel()

		if err := c.analytics.RetrieveAndStore(retrieveCtx, session.userID, callID, session.mode); err != nil {
			log.Warnw(retrieveCtx, "call analytics retrieval failed",
				"user_id", session.userID, "call_id", callID, "mode", session.mode, "error", err)
		}
	}()

	log.Infow(ctx, "call ended", "user_id", session.userID, "call_id", callID, "mode", session.mode)
	return nil
}

// Shutdown cancels in-flight retrievals so process exit does not leave
// dangling timers, and waits for their goroutines to return.
func (c *callSessions) Shutdown() {
	c.cancel()
	c.inflight.Wait()
}
