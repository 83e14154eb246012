package models

// Badge is a presentation-neutral status tag. Tones follow the admin UI's
// palette names; handlers return badges verbatim so the frontend never
// re-derives state.
type Badge struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// Badge tones
const (
	ToneSuccess   = "success"
	ToneAttention = "attention"
	ToneCaution   = "caution"
	ToneInfo      = "info"
	ToneCritical  = "critical"
	ToneNeutral   = "neutral"
)
