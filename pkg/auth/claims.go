package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the bearer token claims accepted by riskd.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants
const (
	RoleAdmin   = "admin"
	RoleScorer  = "risk_scorer"
	RoleAuditor = "risk_auditor"
)
