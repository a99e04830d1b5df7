package dto

import "time"

// SignupRequest defines the data needed to register a new user.
type SignupRequest struct {
	Email           string `json:"email" binding:"required,email,max=80"`
	FirstName       string `json:"firstName" binding:"required,max=50"`
	LastName        string `json:"lastName" binding:"required,max=50"`
	PhoneNumber     string `json:"phoneNumber" binding:"required,numeric,len=11"`
	CountryCode     string `json:"countryCode" binding:"required,numeric,min=1,max=4"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=8"`
}

// LoginRequest represents the request body for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=80"`
	Password string `json:"password" binding:"required,min=8"`
}

// PhoneNumberRequest identifies a user by phone number, e.g. to regenerate an OTP.
type PhoneNumberRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,numeric,len=11"`
}

// VerifyOTPRequest carries the code sent to a phone number.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,numeric,len=11"`
	OTP         string `json:"otp" binding:"required,numeric,len=6"`
}

// GoogleExchangeCodeRequest carries the authorization code returned by Google.
type GoogleExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
