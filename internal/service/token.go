package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomerClaims 客户端 JWT 声明
// 令牌由外部身份服务签发，这里只定义核心信任的声明结构。
type CustomerClaims struct {
	CustomerID uint   `json:"customer_id"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

// OwnerClaims 商家端 JWT 声明
type OwnerClaims struct {
	OwnerID uint   `json:"owner_id"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// IssueCustomerToken 签发客户令牌（本地开发与测试用）
func IssueCustomerToken(secret string, customerID uint, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CustomerClaims{
		CustomerID: customerID,
		Name:       name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// IssueOwnerToken 签发商家令牌（本地开发与测试用）
func IssueOwnerToken(secret string, ownerID uint, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := OwnerClaims{
		OwnerID: ownerID,
		Name:    name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
