package mapping

import (
	"database/sql"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:           d.UserID,
		Email:            d.Email,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		PhoneNumber:      d.PhoneNumber,
		CountryCode:      d.CountryCode,
		PasswordHash:     d.PasswordHash,
		IsActive:         d.IsActive,
		HasVerifiedEmail: d.HasVerifiedEmail,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:           m.UserID,
		Email:            m.Email,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		PhoneNumber:      m.PhoneNumber,
		CountryCode:      m.CountryCode,
		PasswordHash:     m.PasswordHash,
		IsActive:         m.IsActive,
		HasVerifiedEmail: m.HasVerifiedEmail,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUserOTP converts a domain UserOTP to a model UserOTP
func ToModelUserOTP(d domain.UserOTP) models.UserOTP {
	m := models.UserOTP{UserID: d.UserID, MaxOTPTry: d.MaxOTPTry}
	if d.OTP != nil {
		m.OTP = sql.NullString{String: *d.OTP, Valid: true}
	}
	if d.OTPExpiry != nil {
		m.OTPExpiry = sql.NullTime{Time: *d.OTPExpiry, Valid: true}
	}
	if d.OTPMaxOut != nil {
		m.OTPMaxOut = sql.NullTime{Time: *d.OTPMaxOut, Valid: true}
	}
	return m
}

// ToDomainUserOTP converts a model UserOTP to a domain UserOTP
func ToDomainUserOTP(m models.UserOTP) domain.UserOTP {
	d := domain.UserOTP{UserID: m.UserID, MaxOTPTry: m.MaxOTPTry}
	if m.OTP.Valid {
		otp := m.OTP.String
		d.OTP = &otp
	}
	if m.OTPExpiry.Valid {
		exp := m.OTPExpiry.Time
		d.OTPExpiry = &exp
	}
	if m.OTPMaxOut.Valid {
		maxOut := m.OTPMaxOut.Time
		d.OTPMaxOut = &maxOut
	}
	return d
}
