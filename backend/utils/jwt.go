package utils

import (
	"errors"
	"germanlearn/backend/config"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func GenerateJWTToken(userID uint, tokenType string, cfg *config.Config) (string, error) {
	ttl := cfg.JWTAccessTTL
	if tokenType == TokenTypeRefresh {
		ttl = cfg.JWTRefreshTTL
	}
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func GenerateTokenPair(userID uint, cfg *config.Config) (TokenPair, error) {
	access, err := GenerateJWTToken(userID, TokenTypeAccess, cfg)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateJWTToken(userID, TokenTypeRefresh, cfg)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseToken validates signature, expiry and token type, returning the user id.
func ParseToken(tokenString, tokenType string, cfg *config.Config) (uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != tokenType || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func ExtractUserIDFromToken(c *fiber.Ctx, cfg *config.Config) (uint, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}
	tokenString := header
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		tokenString = strings.TrimSpace(header[7:])
	}

	userID, err := ParseToken(tokenString, TokenTypeAccess, cfg)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	return userID, nil
}
