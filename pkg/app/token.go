package app

import (
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-board/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "fast-note-board"

// ContextUserKey is the gin context key holding the parsed *UserEntity.
const ContextUserKey = "user_token"

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        // JWT 签名密钥
	Expiry    time.Duration // Token 过期时间，默认 7 天
	Issuer    string        // Token 签发者
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(uid int64, nickname, ip string) (string, *UserEntity, error)
	Parse(token string) (*UserEntity, error)
	Validate(token string) error
	Expiry() time.Duration
}

type tokenManager struct {
	config TokenConfig
}

func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity holds the claims carried by a user token. The registered ID
// is a per-token uuid used to revoke single sessions.
type UserEntity struct {
	UID      int64  `json:"uid"`
	Nickname string `json:"nickname"`
	IP       string `json:"ip"`
	jwt.RegisteredClaims
}

// SessionID returns the token id (jti).
func (u *UserEntity) SessionID() string {
	return u.ID
}

func (t *tokenManager) signingKey() []byte {
	return []byte(t.config.SecretKey + "_" + util.GetMachineID(t.config.Issuer))
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(uid int64, nickname, ip string) (string, *UserEntity, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:      uid,
		Nickname: nickname,
		IP:       ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   "user-token",
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signingKey())
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse 解析 JWT Token 并返回用户信息
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	claims := &UserEntity{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey(), nil
	}, jwt.WithIssuer(t.config.Issuer))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

func (t *tokenManager) Expiry() time.Duration {
	return t.config.Expiry
}

// GetUserEntity returns the token claims set by the auth middleware.
func GetUserEntity(ctx *gin.Context) *UserEntity {
	if user, exist := ctx.Get(ContextUserKey); exist {
		if entity, ok := user.(*UserEntity); ok {
			return entity
		}
	}
	return nil
}

// GetUID extracts the user ID from the request context.
func GetUID(ctx *gin.Context) int64 {
	if user := GetUserEntity(ctx); user != nil {
		return user.UID
	}
	return 0
}

// GetIP extracts the user IP from the request context.
func GetIP(ctx *gin.Context) string {
	if user := GetUserEntity(ctx); user != nil {
		return user.IP
	}
	return ""
}
