package dto

import "time"

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=100"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,oneof=PATIENT DOCTOR PHARMACY"`

	// Patient fields
	Gender      string `json:"gender,omitempty" validate:"omitempty,max=20"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=30"`
	DateOfBirth string `json:"date_of_birth,omitempty"`

	// Doctor fields
	LicenseNumber  string `json:"license_number,omitempty" validate:"omitempty,max=100"`
	Specialization string `json:"specialization,omitempty" validate:"omitempty,max=100"`
	Experience     int    `json:"experience,omitempty" validate:"omitempty,gte=0"`

	// Pharmacy fields
	PharmacyName string `json:"pharmacy_name,omitempty" validate:"omitempty,max=255"`
	Address      string `json:"address,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
