package customer

import (
	"errors"
	"strconv"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// JoinCardRequest 加入集换卡请求
type JoinCardRequest struct {
	LoyaltyCardID uint `json:"loyalty_card_id" binding:"required"`
}

// JoinCard 加入集换卡计划，生成带三位卡号的新会员卡
func (h *Handler) JoinCard(c *gin.Context) {
	uid, ok := getCustomerID(c)
	if !ok {
		return
	}

	var req JoinCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	card, err := h.MembershipService.Join(uid, req.LoyaltyCardID)
	if err != nil {
		respondWithMappedError(c, err, membershipErrorRules, response.CodeInternal, "join failed")
		return
	}

	response.Success(c, card)
}

// ListCards 获取当前客户的会员卡
func (h *Handler) ListCards(c *gin.Context) {
	uid, ok := getCustomerID(c)
	if !ok {
		return
	}

	unclaimedOnly := c.DefaultQuery("unclaimed_only", "true") == "true"
	cards, err := h.MembershipService.ListForCustomer(uid, unclaimedOnly)
	if err != nil {
		respondError(c, response.CodeInternal, "list cards failed", err)
		return
	}

	response.Success(c, cards)
}

// GetCard 获取单张会员卡详情
func (h *Handler) GetCard(c *gin.Context) {
	uid, ok := getCustomerID(c)
	if !ok {
		return
	}

	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || cardID == 0 {
		respondError(c, response.CodeBadRequest, "invalid card id", err)
		return
	}

	card, err := h.MembershipService.Get(uint(cardID))
	if err != nil {
		respondWithMappedError(c, err, membershipErrorRules, response.CodeInternal, "get card failed")
		return
	}
	if card.CustomerID != uid {
		// 不暴露他人卡片的存在性
		respondError(c, response.CodeNotFound, "card not found", nil)
		return
	}

	response.Success(c, card)
}

// DeleteCard 删除自己的会员卡及全部子记录
func (h *Handler) DeleteCard(c *gin.Context) {
	uid, ok := getCustomerID(c)
	if !ok {
		return
	}

	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || cardID == 0 {
		respondError(c, response.CodeBadRequest, "invalid card id", err)
		return
	}

	card, err := h.CustomerCardRepo.GetByID(uint(cardID))
	if err != nil {
		respondError(c, response.CodeInternal, "get card failed", err)
		return
	}
	if card == nil {
		// 幂等：已删除的卡再删一次仍然成功
		response.Success(c, nil)
		return
	}
	if card.CustomerID != uid {
		respondError(c, response.CodeNotFound, "card not found", nil)
		return
	}

	if err := h.CascadeService.DeleteCustomerCard(uint(cardID)); err != nil {
		var incomplete *service.IncompleteDeletionError
		if errors.As(err, &incomplete) {
			response.ErrorWithData(c, response.CodeInternal, "deletion incomplete", gin.H{
				"failed_count": len(incomplete.Failed),
			})
			return
		}
		respondError(c, response.CodeInternal, "delete card failed", err)
		return
	}

	response.Success(c, nil)
}
