package transport

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Msg    string `json:"msg"`
	UserID uint   `json:"user_id"`
}

type TokenResponse struct {
	Msg         string `json:"msg,omitempty"`
	UserID      uint   `json:"user_id,omitempty"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type UserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	IsAdmin    bool   `json:"is_admin"`
	AdminLevel int    `json:"admin_level"`
}

type IncidentUpdateRequest struct {
	Status       *string `json:"status"`
	AdminRemarks *string `json:"admin_remarks"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
