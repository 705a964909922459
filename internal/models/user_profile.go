package models

import "time"

// UserProfile is the single document kept per authenticated account.
// The _id is the opaque account identifier issued by the upstream
// identity provider; this service never mints or deletes profiles
// out-of-band.
type UserProfile struct {
	ID                 string     `bson:"_id" json:"id"`
	RestaurantName     string     `bson:"restaurant_name" json:"restaurant_name" validate:"required"`
	SeatingCapacity    int        `bson:"seating_capacity" json:"seating_capacity" validate:"gte=0"`
	Address            string     `bson:"address" json:"address"`
	Menu               string     `bson:"menu" json:"menu"`
	CallTransferNumber string     `bson:"call_transfer_number,omitempty" json:"call_transfer_number,omitempty"`

	// Modes holds one independent configuration slice per operating
	// persona. Only keys from the closed Mode set ever appear here.
	Modes map[Mode]ModeConfig `bson:"modes,omitempty" json:"modes,omitempty"`

	// Analytics maps mode -> call id -> finalized call record. Entries
	// are write-once per call id.
	Analytics map[Mode]map[string]CallRecord `bson:"analytics,omitempty" json:"analytics,omitempty"`

	// SharedAnalytics is the legacy un-partitioned bucket written by the
	// shared-dashboard relay endpoint.
	SharedAnalytics map[string]CallRecord `bson:"shared_analytics,omitempty" json:"shared_analytics,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ModeConfig is the per-mode assistant configuration plus the vendor
// resource references created during provisioning.
type ModeConfig struct {
	BotName      string     `bson:"bot_name" json:"bot_name"`
	Tone         string     `bson:"tone" json:"tone" validate:"omitempty,oneof=friendly professional casual formal"`
	BeginMessage string     `bson:"begin_message" json:"begin_message"`
	Model        string     `bson:"model" json:"model" validate:"omitempty,oneof=gpt-4o gpt-4o-mini claude-3.5-sonnet claude-3-haiku"`
	LLMData      *LLMData   `bson:"llm_data,omitempty" json:"llm_data,omitempty"`
	AgentData    *AgentData `bson:"agent_data,omitempty" json:"agent_data,omitempty"`
}

// LLMData references the vendor LLM resource backing one mode.
type LLMData struct {
	LLMID           string `bson:"llm_id" json:"llm_id"`
	LLMWebsocketURL string `bson:"llm_websocket_url" json:"llm_websocket_url"`
}

// AgentData references the vendor voice agent bound to the mode's LLM.
type AgentData struct {
	AgentID string `bson:"agent_id" json:"agent_id"`
}

// ModeConfigOf returns the config slice for a mode, zero value if the
// mode was never configured.
func (p *UserProfile) ModeConfigOf(mode Mode) ModeConfig {
	if p.Modes == nil {
		return ModeConfig{}
	}
	return p.Modes[mode]
}

// AnalyticsOf returns the call records stored under one mode, never nil.
func (p *UserProfile) AnalyticsOf(mode Mode) map[string]CallRecord {
	if p.Analytics == nil {
		return map[string]CallRecord{}
	}
	if records, ok := p.Analytics[mode]; ok {
		return records
	}
	return map[string]CallRecord{}
}
