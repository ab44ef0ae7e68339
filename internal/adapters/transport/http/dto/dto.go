package dto

// LoginDTO is the OAuth2 password-grant form.
type LoginDTO struct {
	Username string `form:"username" json:"username" validate:"required,max=50"`
	Password string `form:"password" json:"password" validate:"required,max=128"`
}

type RegisterDTO struct {
	Email       string `json:"email"    validate:"required,email,max=50"`
	Username    string `json:"username" validate:"required,max=50"`
	Password    string `json:"password" validate:"required,min=6,max=128"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
