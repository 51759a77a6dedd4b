package customer

import (
	"strconv"

	"github.com/loyalty-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Discovery 发现页，按商家名排序分页返回商家与集换卡
func (h *Handler) Discovery(c *gin.Context) {
	uid, ok := getCustomerID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	forceRefresh := c.DefaultQuery("force_refresh", "false") == "true"

	result, err := h.DiscoveryService.ListPage(uid, page, forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "discovery failed", err)
		return
	}

	response.Success(c, result)
}

// Stats 当前客户的集章统计
func (h *Handler) Stats(c *gin.Context) {
	uid, ok := getCustomerID(c)
	if !ok {
		return
	}

	forceRefresh := c.DefaultQuery("force_refresh", "false") == "true"
	stats, err := h.DiscoveryService.Stats(uid, forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "stats failed", err)
		return
	}

	response.Success(c, stats)
}
