package models

import "time"

// User represents a row in the PostgreSQL users table.
// Password carries the bcrypt hash. It is omitted from the public list
// endpoint but returned verbatim by signup/signin, which is part of the
// API surface clients already depend on.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Username  string    `json:"username"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignupRequest is the JSON body for POST /users/signup.
type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,mobile"`
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"strongpw"`
	ConfirmPassword string `json:"confirmPassword" validate:"strongpw"`
}

// SigninRequest is the JSON body for POST /users/signin.
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the JSON body for PATCH /users/update.
type UpdateUserRequest struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,mobile"`
	Password        string `json:"password" validate:"strongpw"`
	ConfirmPassword string `json:"confirmPassword" validate:"strongpw"`
}

// DeleteUserRequest is the JSON body for DELETE /users/delete.
type DeleteUserRequest struct {
	Username string `json:"username" validate:"required"`
}
