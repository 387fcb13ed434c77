package services

import (
	"context"
	"fmt"
	"time"
	"upkeep/config"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenLifetime = 12 * time.Hour

// AuthService issues and validates the HMAC-signed tokens technicians use
// against the API.
type AuthService struct {
	secret []byte
	issuer string
	log    logger.Logger
}

type TokenClaims struct {
	EmployeeID   string `json:"employeeId"`
	IsSupervisor bool   `json:"supervisor"`
	jwt.RegisteredClaims
}

func NewAuthService(config config.Config) (*AuthService, error) {
	log := logger.New("authService")

	if config.JWTSecret == "" {
		return nil, log.ErrMsg("JWT secret is not configured")
	}

	return &AuthService{
		secret: []byte(config.JWTSecret),
		issuer: "upkeep",
		log:    log,
	}, nil
}

func (s *AuthService) IssueToken(user *User) (string, error) {
	log := s.log.Function("IssueToken")

	now := time.Now()
	claims := TokenClaims{
		EmployeeID:   user.EmployeeID,
		IsSupervisor: user.IsSupervisor,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", user.ID)
	}

	return signed, nil
}

// ValidateToken parses a signed token and returns the user id it names.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, *TokenClaims, error) {
	log := s.log.Function("ValidateToken")

	token, err := jwt.ParseWithClaims(
		tokenString,
		&TokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, nil, log.Err("token validation failed", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return uuid.Nil, nil, log.ErrMsg("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, log.Err("token subject is not a user id", err)
	}

	return userID, claims, nil
}
