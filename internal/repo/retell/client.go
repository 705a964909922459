package retell

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/voice-bot/internal/config"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/pkg/util"
)

// StatusError is a non-success HTTP status from the vendor. Callers
// treat it as fatal for the operation that raised it.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retell: status %d: %s", e.Code, e.Body)
}

type CreateLLMRequest struct {
	Model         string `json:"model"`
	GeneralPrompt string `json:"general_prompt"`
	BeginMessage  string `json:"begin_message"`
}

type UpdateLLMRequest struct {
	Model         string `json:"model"`
	GeneralPrompt string `json:"general_prompt"`
	BeginMessage  string `json:"begin_message"`
}

type CreateAgentRequest struct {
	LLMWebsocketURL string `json:"llm_websocket_url"`
	AgentName       string `json:"agent_name"`
	VoiceID         string `json:"voice_id"`
	Language        string `json:"language"`
}

// WebCall is the short-lived call handle the browser realtime client
// needs to join a provisioned agent.
type WebCall struct {
	CallID      string `json:"call_id"`
	AgentID     string `json:"agent_id"`
	AccessToken string `json:"access_token"`
}

type Client interface {
	CreateLLM(ctx context.Context, req CreateLLMRequest) (*models.LLMData, error)
	UpdateLLM(ctx context.Context, llmID string, req UpdateLLMRequest) (*models.LLMData, error)
	CreateAgent(ctx context.Context, req CreateAgentRequest) (*models.AgentData, error)
	CreateWebCall(ctx context.Context, agentID string) (*WebCall, error)
	// GetCall returns (nil, nil) while the vendor is still finalizing
	// the call's analytics (success status, empty body).
	GetCall(ctx context.Context, callID string) (*models.CallRecord, error)
}

type client struct {
	http *resty.Client
}

func NewClient(cfg *config.Config) Client {
	c := util.NewRestyClient().
		SetBaseURL(cfg.Retell.BaseURL).
		SetAuthToken(cfg.Retell.APIKey)
	return &client{http: c}
}

func (c *client) CreateLLM(ctx context.Context, req CreateLLMRequest) (*models.LLMData, error) {
	llm := &models.LLMData{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(llm).
		Post("/create-retell-llm")
	if err != nil {
		return nil, fmt.Errorf("create llm: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return llm, nil
}

func (c *client) UpdateLLM(ctx context.Context, llmID string, req UpdateLLMRequest) (*models.LLMData, error) {
	llm := &models.LLMData{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("llm_id", llmID).
		SetBody(req).
		SetResult(llm).
		Patch("/update-retell-llm/{llm_id}")
	if err != nil {
		return nil, fmt.Errorf("update llm %s: %w", llmID, err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return llm, nil
}

func (c *client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*models.AgentData, error) {
	agent := &models.AgentData{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(agent).
		Post("/create-agent")
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return agent, nil
}

func (c *client) CreateWebCall(ctx context.Context, agentID string) (*WebCall, error) {
	call := &WebCall{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"agent_id": agentID}).
		SetResult(call).
		Post("/v2/create-web-call")
	if err != nil {
		return nil, fmt.Errorf("create web call: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return call, nil
}

func (c *client) GetCall(ctx context.Context, callID string) (*models.CallRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("call_id", callID).
		Get("/v2/get-call/{call_id}")
	if err != nil {
		return nil, fmt.Errorf("get call %s: %w", callID, err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("{}")) || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	record := &models.CallRecord{}
	if err := json.Unmarshal(body, record); err != nil {
		return nil, fmt.Errorf("decode call %s: %w", callID, err)
	}
	if record.Empty() {
		return nil, nil
	}
	return record, nil
}
