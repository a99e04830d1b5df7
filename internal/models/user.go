package models

import (
	"database/sql"
	"time"
)

// User represents a user row.
type User struct {
	UserID           string `db:"user_id"`
	Email            string `db:"email"`
	FirstName        string `db:"first_name"`
	LastName         string `db:"last_name"`
	PhoneNumber      string `db:"phone_number"`
	CountryCode      string `db:"country_code"`
	PasswordHash     string `db:"password_hash"`
	IsActive         bool   `db:"is_active"`
	HasVerifiedEmail bool   `db:"has_verified_email"`
	AuditFields
}

// UserOTP is the one-time code state of a user, one row per user.
type UserOTP struct {
	UserID    string         `db:"user_id"`
	OTP       sql.NullString `db:"otp"`
	OTPExpiry sql.NullTime   `db:"otp_expiry"`
	MaxOTPTry int            `db:"max_otp_try"`
	OTPMaxOut sql.NullTime   `db:"otp_max_out"`
	UpdatedAt time.Time      `db:"updated_at"`
}
