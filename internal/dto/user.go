package dto

type UserUpdateRequest struct {
	Email    *string `json:"email"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
}

type PasswordChangeRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type AdminUserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}
