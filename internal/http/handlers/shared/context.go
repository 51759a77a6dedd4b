package shared

import (
	"github.com/loyalty-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint 从上下文读取 uint 值并统一处理错误响应。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid identity", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid identity", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "identity type invalid", nil)
		return 0, false
	}
}

// GetCustomerID 读取鉴权中间件写入的客户 ID。
func GetCustomerID(c *gin.Context) (uint, bool) {
	return GetContextUint(c, "customer_id")
}

// GetOwnerID 读取鉴权中间件写入的商家所有者 ID。
func GetOwnerID(c *gin.Context) (uint, bool) {
	return GetContextUint(c, "owner_id")
}
