package model

// PortalSettings is the moderator-configurable portal state.
type PortalSettings struct {
	// TimerPerQuestion is seconds per question. The exam countdown is the
	// total questionCount × TimerPerQuestion — the per-question name is
	// historical and kept for compatibility with the stored blob.
	TimerPerQuestion int `json:"timer_per_question"`
}

// UpdateSettingsRequest is the payload for updating portal settings.
type UpdateSettingsRequest struct {
	TimerPerQuestion int `json:"timer_per_question" binding:"required"`
}
