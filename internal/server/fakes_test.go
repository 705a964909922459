package server

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/retell"
	mw "github.com/nguyentranbao-ct/voice-bot/internal/server/middleware"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = mw.NewValidator()
	e.HTTPErrorHandler = mw.ErrorHandler(logger.MustNamed("test"))
	return e
}

type fakeProfileRepo struct {
	profile *models.UserProfile

	created      *models.UserProfile
	updatedInfo  *mongodb.ProfileInfo
	settings     *mongodb.ModeSettings
	settingsMode models.Mode
	merged       map[string]models.CallRecord
	shared       map[string]models.CallRecord
	mergedMode   models.Mode
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	f.created = profile
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	if f.profile == nil || f.profile.ID != id {
		return nil, models.ErrNotFound
	}
	clone := *f.profile
	return &clone, nil
}

func (f *fakeProfileRepo) UpdateInfo(ctx context.Context, id string, info mongodb.ProfileInfo) error {
	if f.profile == nil || f.profile.ID != id {
		return models.ErrNotFound
	}
	f.updatedInfo = &info
	return nil
}

func (f *fakeProfileRepo) UpdateModeSettings(ctx context.Context, id string, mode models.Mode, settings mongodb.ModeSettings) error {
	if f.profile == nil || f.profile.ID != id {
		return models.ErrNotFound
	}
	f.settings = &settings
	f.settingsMode = mode
	return nil
}

func (f *fakeProfileRepo) SetModeRefs(ctx context.Context, id string, mode models.Mode, llm *models.LLMData, agent *models.AgentData) error {
	return nil
}

func (f *fakeProfileRepo) MergeCallRecord(ctx context.Context, id string, mode models.Mode, callID string, record models.CallRecord) error {
	if f.profile == nil || f.profile.ID != id {
		return models.ErrNotFound
	}
	if f.merged == nil {
		f.merged = map[string]models.CallRecord{}
	}
	f.merged[callID] = record
	f.mergedMode = mode
	return nil
}

func (f *fakeProfileRepo) MergeSharedCallRecord(ctx context.Context, id string, callID string, record models.CallRecord) error {
	if f.profile == nil || f.profile.ID != id {
		return models.ErrNotFound
	}
	if f.shared == nil {
		f.shared = map[string]models.CallRecord{}
	}
	f.shared[callID] = record
	return nil
}

type fakeProvisioner struct {
	cfg  *models.ModeConfig
	err  error
	mode models.Mode
}

func (f *fakeProvisioner) Provision(ctx context.Context, userID string, mode models.Mode) (*models.ModeConfig, error) {
	f.mode = mode
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *fakeProvisioner) Reprovision(ctx context.Context, userID string, mode models.Mode) error {
	f.mode = mode
	return f.err
}

type fakeSessions struct {
	call    *retell.WebCall
	err     error
	endedID string
}

func (f *fakeSessions) Start(ctx context.Context, userID string, mode models.Mode) (*retell.WebCall, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.call, nil
}

func (f *fakeSessions) End(ctx context.Context, callID string) error {
	if f.err != nil {
		return f.err
	}
	f.endedID = callID
	return nil
}

func (f *fakeSessions) Shutdown() {}
