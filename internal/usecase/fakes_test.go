package usecase

import (
	"context"
	"sync"

	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/retell"
)

type mergedRecord struct {
	mode   models.Mode
	callID string
	record models.CallRecord
}

type refsCall struct {
	mode  models.Mode
	llm   *models.LLMData
	agent *models.AgentData
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profile  *models.UserProfile
	merged   []mergedRecord
	shared   []mergedRecord
	refs     []refsCall
	getErr   error
	mergeErr error
	refsErr  error
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = profile
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.profile == nil || f.profile.ID != id {
		return nil, models.ErrNotFound
	}
	clone := *f.profile
	return &clone, nil
}

func (f *fakeProfileRepo) UpdateInfo(ctx context.Context, id string, info mongodb.ProfileInfo) error {
	return nil
}

func (f *fakeProfileRepo) UpdateModeSettings(ctx context.Context, id string, mode models.Mode, settings mongodb.ModeSettings) error {
	return nil
}

func (f *fakeProfileRepo) SetModeRefs(ctx context.Context, id string, mode models.Mode, llm *models.LLMData, agent *models.AgentData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refsErr != nil {
		return f.refsErr
	}
	f.refs = append(f.refs, refsCall{mode: mode, llm: llm, agent: agent})
	return nil
}

func (f *fakeProfileRepo) MergeCallRecord(ctx context.Context, id string, mode models.Mode, callID string, record models.CallRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merged = append(f.merged, mergedRecord{mode: mode, callID: callID, record: record})
	return nil
}

func (f *fakeProfileRepo) MergeSharedCallRecord(ctx context.Context, id string, callID string, record models.CallRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.shared = append(f.shared, mergedRecord{callID: callID, record: record})
	return nil
}

func (f *fakeProfileRepo) mergedRecords() []mergedRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mergedRecord(nil), f.merged...)
}

type fakeVendor struct {
	mu           sync.Mutex
	getCallCalls int

	// getCall is invoked with the 1-based attempt number.
	getCall     func(attempt int) (*models.CallRecord, error)
	createLLM   func(req retell.CreateLLMRequest) (*models.LLMData, error)
	updateLLM   func(llmID string, req retell.UpdateLLMRequest) (*models.LLMData, error)
	createAgent func(req retell.CreateAgentRequest) (*models.AgentData, error)
	webCall     func(agentID string) (*retell.WebCall, error)
}

func (f *fakeVendor) CreateLLM(ctx context.Context, req retell.CreateLLMRequest) (*models.LLMData, error) {
	return f.createLLM(req)
}

func (f *fakeVendor) UpdateLLM(ctx context.Context, llmID string, req retell.UpdateLLMRequest) (*models.LLMData, error) {
	return f.updateLLM(llmID, req)
}

func (f *fakeVendor) CreateAgent(ctx context.Context, req retell.CreateAgentRequest) (*models.AgentData, error) {
	return f.createAgent(req)
}

func (f *fakeVendor) CreateWebCall(ctx context.Context, agentID string) (*retell.WebCall, error) {
	return f.webCall(agentID)
}

func (f *fakeVendor) GetCall(ctx context.Context, callID string) (*models.CallRecord, error) {
	f.mu.Lock()
	f.getCallCalls++
	attempt := f.getCallCalls
	f.mu.Unlock()
	return f.getCall(attempt)
}

func (f *fakeVendor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCallCalls
}
