// internals/features/members/auth/dto/auth_dto.go
package dto

// RegisterRequest carries a signup attempt. The JSA number is the key
// the claim flow reconciles on.
type RegisterRequest struct {
	Name      string `json:"name"`
	JSANumber string `json:"jsa_number" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	MemberID    int64  `json:"member_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}
