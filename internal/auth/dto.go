package auth

import (
	errors "github.com/raccordement/raccordement-service/internal"
)

// LoginDTO is the transport shape for agent login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return errors.NewValidationFieldError("email", "email is required", errors.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return errors.NewValidationFieldError("password", "password is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return errors.NewValidationFieldError("refreshToken", "refreshToken is required", errors.ErrCodeValidationFailed)
	}
	return nil
}
