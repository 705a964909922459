package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/voice-bot/internal/config"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/retell"
)

// AgentProvisioner creates and refreshes the (vendor LLM, voice agent)
// pair backing one mode of one restaurant.
type AgentProvisioner interface {
	Provision(ctx context.Context, userID string, mode models.Mode) (*models.ModeConfig, error)
	Reprovision(ctx context.Context, userID string, mode models.Mode) error
}

type agentProvisioner struct {
	conf        *config.Config
	profileRepo mongodb.UserProfileRepository
	vendor      retell.Client
}

func NewAgentProvisioner(
	conf *config.Config,
	profileRepo mongodb.UserProfileRepository,
	vendor retell.Client,
) AgentProvisioner {
	return &agentProvisioner{
		conf:        conf,
		profileRepo: profileRepo,
		vendor:      vendor,
	}
}

// Provision builds the prompt, creates the vendor LLM, then creates a
// voice agent on the LLM's websocket endpoint, and persists both refs
// into the mode's config slice. The two vendor calls are sequential and
// non-transactional: if agent creation fails the LLM is orphaned on the
// vendor side.
func (p *agentProvisioner) Provision(ctx context.Context, userID string, mode models.Mode) (*models.ModeConfig, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}

	profile, err := p.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	prompt, err := GeneratePrompt(profile, mode)
	if err != nil {
		return nil, err
	}

	cfg := profile.ModeConfigOf(mode)
	llm, err := p.vendor.CreateLLM(ctx, retell.CreateLLMRequest{
		Model:         cfg.Model,
		GeneralPrompt: prompt,
		BeginMessage:  cfg.BeginMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("create vendor llm: %w", err)
	}

	agent, err := p.vendor.CreateAgent(ctx, retell.CreateAgentRequest{
		LLMWebsocketURL: llm.LLMWebsocketURL,
		AgentName:       cfg.BotName,
		VoiceID:         p.conf.Retell.VoiceID,
		Language:        p.conf.Retell.Language,
	})
	if err != nil {
		log.Warnw(ctx, "agent creation failed, vendor llm orphaned",
			"user_id", userID, "mode", mode, "llm_id", llm.LLMID)
		return nil, fmt.Errorf("create vendor agent: %w", err)
	}

	if err := p.profileRepo.SetModeRefs(ctx, userID, mode, llm, agent); err != nil {
		return nil, fmt.Errorf("store vendor refs: %w", err)
	}

	log.Infow(ctx, "provisioned vendor agent",
		"user_id", userID, "mode", mode, "llm_id", llm.LLMID, "agent_id", agent.AgentID)

	cfg.LLMData = llm
	cfg.AgentData = agent
	return &cfg, nil
}

// Reprovision regenerates the prompt from the current profile and
// patches the existing vendor LLM in place. No new agent is created.
func (p *agentProvisioner) Reprovision(ctx context.Context, userID string, mode models.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}

	profile, err := p.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	cfg := profile.ModeConfigOf(mode)
	if cfg.LLMData == nil {
		return fmt.Errorf("%w: mode %s", models.ErrLLMNotProvisioned, mode)
	}

	prompt, err := GeneratePrompt(profile, mode)
	if err != nil {
		return err
	}

	llm, err := p.vendor.UpdateLLM(ctx, cfg.LLMData.LLMID, retell.UpdateLLMRequest{
		Model:         cfg.Model,
		GeneralPrompt: prompt,
		BeginMessage:  cfg.BeginMessage,
	})
	if err != nil {
		return fmt.Errorf("update vendor llm: %w", err)
	}

	if err := p.profileRepo.SetModeRefs(ctx, userID, mode, llm, nil); err != nil {
		return fmt.Errorf("store vendor refs: %w", err)
	}

	log.Infow(ctx, "reprovisioned vendor llm", "user_id", userID, "mode", mode, "llm_id", llm.LLMID)
	return nil
}
