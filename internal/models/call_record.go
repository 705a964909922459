package models

// CallRecord is the finalized, vendor-computed summary of one voice
// call. The vendor produces it asynchronously after call teardown; we
// persist it verbatim, exactly once per call id, and never mutate it.
type CallRecord struct {
	CallID         string `bson:"call_id" json:"call_id"`
	AgentID        string `bson:"agent_id,omitempty" json:"agent_id,omitempty"`
	CallStatus     string `bson:"call_status,omitempty" json:"call_status,omitempty"`
	StartTimestamp int64  `bson:"start_timestamp,omitempty" json:"start_timestamp,omitempty"`
	EndTimestamp   int64  `bson:"end_timestamp,omitempty" json:"end_timestamp,omitempty"`
	DurationMs     int64  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`

	Transcript       string           `bson:"transcript,omitempty" json:"transcript,omitempty"`
	TranscriptObject []TranscriptTurn `bson:"transcript_object,omitempty" json:"transcript_object,omitempty"`

	DisconnectionReason string        `bson:"disconnection_reason,omitempty" json:"disconnection_reason,omitempty"`
	CallAnalysis        *CallAnalysis `bson:"call_analysis,omitempty" json:"call_analysis,omitempty"`

	CostMetadata *CostMetadata `bson:"cost_metadata,omitempty" json:"cost_metadata,omitempty"`
	CallCost     *CallCost     `bson:"call_cost,omitempty" json:"call_cost,omitempty"`

	RecordingURL *string `bson:"recording_url,omitempty" json:"recording_url,omitempty"`
}

// TranscriptTurn is one speaker turn with word-level timing.
type TranscriptTurn struct {
	Role    string           `bson:"role" json:"role"`
	Content string           `bson:"content" json:"content"`
	Words   []TranscriptWord `bson:"words,omitempty" json:"words,omitempty"`
}

type TranscriptWord struct {
	Word  string  `bson:"word" json:"word"`
	Start float64 `bson:"start" json:"start"`
	End   float64 `bson:"end" json:"end"`
}

// CallAnalysis is the vendor's post-call assessment block.
type CallAnalysis struct {
	CallSuccessful            bool   `bson:"call_successful" json:"call_successful"`
	InVoicemail               bool   `bson:"in_voicemail" json:"in_voicemail"`
	CallSummary               string `bson:"call_summary,omitempty" json:"call_summary,omitempty"`
	UserSentiment             string `bson:"user_sentiment,omitempty" json:"user_sentiment,omitempty"`
	AgentTaskCompletionRating string `bson:"agent_task_completion_rating,omitempty" json:"agent_task_completion_rating,omitempty"`
}

// CostMetadata names where the vendor billed the call.
type CostMetadata struct {
	TelecomBucket string `bson:"telecom_bucket,omitempty" json:"telecom_bucket,omitempty"`
	LLMModel      string `bson:"llm_model,omitempty" json:"llm_model,omitempty"`
	VoiceProvider string `bson:"voice_provider,omitempty" json:"voice_provider,omitempty"`
}

// CallCost is the vendor-computed cost breakdown, consumed verbatim.
type CallCost struct {
	ProductCosts           []ProductCost `bson:"product_costs,omitempty" json:"product_costs,omitempty"`
	CombinedCost           float64       `bson:"combined_cost" json:"combined_cost"`
	TotalDurationSeconds   float64       `bson:"total_duration_seconds" json:"total_duration_seconds"`
	TotalDurationUnitPrice float64       `bson:"total_duration_unit_price" json:"total_duration_unit_price"`
}

type ProductCost struct {
	Product   string  `bson:"product" json:"product"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	Cost      float64 `bson:"cost" json:"cost"`
}

// Empty reports whether the record carries no vendor data at all, the
// shape returned while the vendor is still finalizing analytics.
func (r *CallRecord) Empty() bool {
	if r == nil {
		return true
	}
	return r.CallID == "" && r.Transcript == "" && r.CallAnalysis == nil &&
		r.StartTimestamp == 0 && r.DurationMs == 0
}
