package customer

import "github.com/loyalty-next/internal/provider"

// Handler 客户侧接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建客户侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
