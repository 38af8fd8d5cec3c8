package auth

import (
	goerrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/datamodel/agent"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AgentRepository is the slice of the agent store the auth service needs.
type AgentRepository interface {
	GetByEmail(email string) (*agent.Agent, error)
	GetByID(id int64) (*agent.Agent, error)
}

type Service struct {
	agentRepo      AgentRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

func NewService(agentRepo AgentRepository, tokenGen TokenGenerator, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		agentRepo:      agentRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    24 * 7 * time.Hour,
	}
}

// Authenticate validates agent credentials and returns a token pair.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	ag, err := s.agentRepo.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, errors.ErrInvalidCredentials
	}
	if !ag.IsActive {
		return AuthTokens{}, errors.ErrAgentInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ag.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	return s.issueTokens(ag)
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. The agent
// is re-read so a deactivation takes effect at the next refresh.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	agentID, err := strconv.ParseInt(claims.AgentID, 10, 64)
	if err != nil {
		return AuthTokens{}, errors.ErrInvalidToken
	}

	ag, err := s.agentRepo.GetByID(agentID)
	if err != nil {
		return AuthTokens{}, errors.ErrInvalidToken
	}
	if !ag.IsActive {
		return AuthTokens{}, errors.ErrAgentInactive
	}

	return s.issueTokens(ag)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// HashPassword creates a bcrypt hash, used by the seeder.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(ag *agent.Agent) (AuthTokens, error) {
	agentID := strconv.FormatInt(ag.ID, 10)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(agentID, ag.Email, ag.Role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(agentID, ag.Email, ag.Role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to generate refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(agentID, email, role string) (string, error) {
	return j.sign(agentID, email, role, tokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(agentID, email, role string) (string, error) {
	return j.sign(agentID, email, role, tokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(agentID, email, role, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		AgentID:   agentID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   agentID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, tokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, tokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString, wantType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}
