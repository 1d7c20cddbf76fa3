package model

import "github.com/google/uuid"

// Principal is the authenticated identity and its authorization attributes
// resolved from a successful login. It is always passed explicitly; the core
// never reads it from ambient global state.
type Principal struct {
	ID     uuid.UUID
	Email  string
	Name   string
	Role   Role
	Status Status
}

// PrincipalFromUser projects the fields relevant to authorization decisions.
func PrincipalFromUser(u User) Principal {
	return Principal{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Status: u.Status,
	}
}
