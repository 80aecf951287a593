package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrSignupClosed       = errors.New("signup is disabled after initial setup")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// Expense and approval errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrTaskNotFound    = errors.New("approval task not found")
	ErrInvalidDecision = errors.New("invalid decision")
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
)

// Flow config errors
var (
	ErrInvalidThreshold = errors.New("percent threshold must be between 1 and 100")
)
