package request

// CreateGuestRequest is the request body for creating a guest account
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateSettingsRequest is the request body for updating room settings
type UpdateSettingsRequest struct {
	Mode               string `json:"mode"`
	ConnectsRequired   int    `json:"connects_required"`
	MaxPlayers         int    `json:"max_players"`
	TimeLimitSeconds   int    `json:"time_limit_seconds"`
	StrictWords        bool   `json:"strict_words"`
	PrefixMode         bool   `json:"prefix_mode"`
	ShowScoreBreakdown bool   `json:"show_score_breakdown"`
}

// ChangeSetterRequest is the request body for handing over the setter role
type ChangeSetterRequest struct {
	NewSetterID string `json:"new_setter_id"`
}

// SetWordRequest is the request body for fixing the secret word
type SetWordRequest struct {
	Word string `json:"word"`
}

// AddSignullRequest is the request body for posting a signull
type AddSignullRequest struct {
	Word string `json:"word"`
	Clue string `json:"clue"`
}

// ConnectRequest is the request body for a connect or intercept attempt
type ConnectRequest struct {
	Guess string `json:"guess"`
}

// DirectGuessRequest is the request body for a direct guess at the secret word
type DirectGuessRequest struct {
	Guess string `json:"guess"`
}
