package models

// MinPasswordLength is the shortest password the client will submit.
const MinPasswordLength = 8

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	FullName   string `json:"full_name" validate:"required,notblank"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       Role   `json:"role" validate:"required,oneof=student faculty admin"`
	Department string `json:"department,omitempty"`
	RollNumber string `json:"roll_number,omitempty" validate:"required_if=Role student"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
