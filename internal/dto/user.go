package dto

import (
	"time"

	"github.com/iswift/iswift_backend/internal/core/domain"
)

// UserResponse is the private view of the authenticated user.
type UserResponse struct {
	UserID      string    `json:"uid"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	IsActive    bool      `json:"isActive"`
	DateJoined  time.Time `json:"dateJoined"`
}

// PublicUserResponse is the profile other users can see.
type PublicUserResponse struct {
	UserID      string `json:"uid"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
	Search    string `form:"search" binding:"max=50"`
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Users     []PublicUserResponse `json:"users"`
	NextToken *string              `json:"nextToken,omitempty"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:      user.UserID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		IsActive:    user.IsActive,
		DateJoined:  user.CreatedAt,
	}
}

func ToPublicUserResponse(user domain.User) PublicUserResponse {
	return PublicUserResponse{
		UserID:      user.UserID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
	}
}

// ToListUsersResponse converts a page of users to ListUsersResponse DTO
func ToListUsersResponse(users []domain.User, nextToken *string) ListUsersResponse {
	res := make([]PublicUserResponse, len(users))
	for i, u := range users {
		res[i] = ToPublicUserResponse(u)
	}
	return ListUsersResponse{Users: res, NextToken: nextToken}
}
