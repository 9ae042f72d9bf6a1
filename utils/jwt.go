package utils

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"FeeloraGo/config"

	"github.com/golang-jwt/jwt/v4"
)

// 访客令牌有效期
const tokenTTL = 24 * time.Hour * 30

var (
	jwtMu  sync.RWMutex
	jwtKey []byte
)

// ErrJWTSecretNotSet 未配置 JWT_SECRET 时无法签发令牌
var ErrJWTSecretNotSet = errors.New("jwt secret not configured")

// Claims 自定义JWT声明
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// InitJWT 设置签名密钥，启动时调用
func InitJWT(secret string) {
	jwtMu.Lock()
	jwtKey = []byte(secret)
	jwtMu.Unlock()
}

func signingKey() []byte {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	return jwtKey
}

// GenerateToken 生成JWT令牌
func GenerateToken(userID string) (string, error) {
	key := signingKey()
	if len(key) == 0 {
		return "", ErrJWTSecretNotSet
	}

	config.Logger.Debugw("生成令牌", "uid", userID)
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseToken 解析JWT令牌
func ParseToken(tokenString string) (*Claims, error) {
	key := signingKey()
	if len(key) == 0 {
		return nil, ErrJWTSecretNotSet
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("无效的令牌")
}
