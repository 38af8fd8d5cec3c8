package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator creates and validates the session tokens issued to agents.
type TokenGenerator interface {
	GenerateAccessToken(agentID, email, role string) (string, error)
	GenerateRefreshToken(agentID, email, role string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// ServiceAPI is the auth surface consumed by the HTTP layer.
type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims carries the agent identity inside JWT tokens. TokenType
// distinguishes access from refresh so one cannot stand in for the other.
type Claims struct {
	AgentID   string `json:"agent_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
