package users

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is a user's privilege tier. New accounts, including
// social-login provisioned ones, start as RoleVisitor.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleVisitor Role = "VISITOR"
)

// Capability is a named permission granted by a role.
type Capability string

const (
	CapViewPortfolio  Capability = "portfolio:view"
	CapManageAccount  Capability = "account:manage"
	CapManageContent  Capability = "content:manage"
	CapManageAccounts Capability = "accounts:manage"
)

// roleCapabilities is the explicit role-to-capability table, resolved
// once at startup. No authority strings are derived at runtime.
var roleCapabilities = map[Role][]Capability{
	RoleVisitor: {CapViewPortfolio, CapManageAccount},
	RoleAdmin:   {CapViewPortfolio, CapManageAccount, CapManageContent, CapManageAccounts},
}

func (r Role) Capabilities() []Capability {
	return roleCapabilities[r]
}

func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// ParseRole converts a role claim back into a Role. Unknown values are
// rejected rather than defaulted so a tampered claim never widens access.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleVisitor:
		return RoleVisitor, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           string     `json:"id,omitempty"`       // Unique identifier for the user
	Email        string     `json:"email"`              // User's email address, unique
	PasswordHash string     `json:"-"`                  // Hashed password - never serialized; empty for social-login accounts
	Nickname     string     `json:"nickname,omitempty"` // Display name
	Role         Role       `json:"role"`               // Privilege tier
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at,omitempty"`
	DeletedAt    *time.Time `json:"-"` // Soft-delete marker; deleted users are invisible to lookups
}

// Deleted reports whether the account has been soft deleted.
func (u *User) Deleted() bool {
	return u.DeletedAt != nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
