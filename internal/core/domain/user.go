package domain

import "strings"

// User represents a user of the application in the domain.
type User struct {
	UserID           string `json:"userID"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	PhoneNumber      string `json:"phoneNumber"`
	CountryCode      string `json:"countryCode"`
	PasswordHash     string `json:"-"`
	IsActive         bool   `json:"isActive"`
	HasVerifiedEmail bool   `json:"hasVerifiedEmail"`
	AuditFields
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GoogleUserInfo is the subset of a verified Google ID token used for sign-in.
type GoogleUserInfo struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
