package auth

import (
	"errors"
	"strings"
)

const (
	RoleAdmin    = "admin"
	RoleProvider = "provider"
	RoleStudent  = "student"

	MethodPassword = "password"
)

// MinPasswordLength is the weakest password the platform accepts.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailTaken           = errors.New("email already registered")
	ErrWeakPassword         = errors.New("password too weak")
	ErrRegistrationClosed   = errors.New("registration disabled")
	ErrProviderNotAvailable = errors.New("federated provider not configured")
)

type Principal struct {
	UserID        int64
	Email         string
	DisplayName   string
	Role          string // "admin", "provider" or "student"
	EmailVerified bool
	Method        string // "password" now; federated later
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsProvider() bool {
	return p.Role == RoleProvider
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProvider, RoleStudent:
		return true
	default:
		return false
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
