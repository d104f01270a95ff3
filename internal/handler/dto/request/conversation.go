package request

import "strings"

type OpenConversationRequest struct {
	ParticipantCode string `json:"participant_code" binding:"required"`
}

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type ForceReleaseLockRequest struct {
	OverrideKey string `json:"override_key" binding:"required"`
}

func (r ForceReleaseLockRequest) TrimmedKey() string {
	return strings.TrimSpace(r.OverrideKey)
}
