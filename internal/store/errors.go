package store

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrBookNotFound  = errors.New("book not found")
	ErrNoRecord      = errors.New("interaction record not found")
)
