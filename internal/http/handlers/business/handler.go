package business

import "github.com/loyalty-next/internal/provider"

// Handler 商家侧接口处理器入口
// 所有接口都以 owner_id 做归属校验，商家只能操作自己名下的数据。
type Handler struct {
	*provider.Container
}

// New 创建商家侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
