package sessionauth

import (
	"errors"
	"fmt"

	"expensetracker/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims JWT 载荷，ID(jti) 即服务端会话令牌
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager 签发和解析 Bearer token
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager 创建 token 管理器
func NewTokenManager(secret, issuer string) *TokenManager {
	if secret == "" {
		secret = "expensetracker-dev-secret"
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

// GenerateToken 为会话签发 JWT，过期时间与会话一致
func (m *TokenManager) GenerateToken(session *models.Session) (string, error) {
	claims := Claims{
		UserID:   session.UserID,
		Username: session.User.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.Token,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并校验 JWT
func (m *TokenManager) ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("token has no session id")
	}
	return claims, nil
}
