package entity

import (
	"strconv"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleAdmin is the privileged role.
	RoleAdmin Role = "admin"
	// RoleOwner is the standard role given to every self-registered account.
	RoleOwner Role = "owner"
)

func RoleFromString(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOwner:
		return RoleOwner
	default:
		return ""
	}
}

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleOwner }

// Privileged reports whether r is exempt from the client session window.
func (r Role) Privileged() bool { return r == RoleAdmin }

// Identity is an account record.
type Identity struct {
	ID              int64
	Name            string
	Email           string
	Phone           string
	Address         string
	ApartmentNumber string
	PasswordHash    string
	Role            Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Summary is the public view of an identity carried in auth responses.
type Summary struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (i Identity) Summary() Summary {
	return Summary{
		ID:    strconv.FormatInt(i.ID, 10),
		Name:  i.Name,
		Email: i.Email,
		Role:  i.Role,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
