package util

import (
	"DMChat/config"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 会话令牌载荷。
// UserID 即 currentUserId；SessionID 用于 Redis 中定位该会话的 token 摘要。
type Claims struct {
	UserID    int64  `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token is invalid")

	jwtMu  sync.RWMutex
	jwtCfg = config.DefaultJWTConfig()
)

// InitJWT 设置签名密钥与有效期，进程启动时调用一次。
func InitJWT(cfg config.JWTConfig) {
	jwtMu.Lock()
	defer jwtMu.Unlock()
	jwtCfg = cfg
}

func currentJWTConfig() config.JWTConfig {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	return jwtCfg
}

// GenerateToken 为用户会话签发 HS256 token。
func GenerateToken(userID int64, sessionID string) (string, error) {
	cfg := currentJWTConfig()
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// ParseToken 校验签名与有效期并返回载荷。
func ParseToken(tokenString string) (*Claims, error) {
	cfg := currentJWTConfig()
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(cfg.Issuer))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UserID <= 0 || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
