package models

import "github.com/dmitrijs2005/sesdash/internal/common"

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// User is the profile returned at login and listed on the admin screen.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"`
	Role     string `json:"role" validate:"required"`
	Active   bool   `json:"active"`
}

// IsAdmin reports whether the profile carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == common.RoleAdmin
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token" validate:"required"`
	User  User   `json:"user"`
}

// UsersList is the body of GET /api/users.
type UsersList struct {
	Users []User `json:"users" validate:"dive"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=user admin"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// MessageResponse is the generic {"message": "..."} acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic {"error": "..."} failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}
