package model

import "github.com/google/uuid"

// TokenManager issues and validates session tokens carried by the SPA
// between requests.
type TokenManager interface {
	GenerateSessionToken(userID uuid.UUID) (string, error)
	ParseSessionToken(token string) (uuid.UUID, error)
}
