package business

import (
	"strconv"

	"github.com/loyalty-next/internal/constants"
	handlershared "github.com/loyalty-next/internal/http/handlers/shared"
	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// StampByCodeRequest 凭卡号盖章/核销请求
type StampByCodeRequest struct {
	BusinessID uint   `json:"business_id" binding:"required"`
	CardCode   string `json:"card_code" binding:"required"`
}

// AddStamp 商家凭卡号为客户盖章
func (h *Handler) AddStamp(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	var req StampByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if _, err := h.BusinessService.OwnedBusiness(req.BusinessID, ownerID); err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "stamp failed")
		return
	}

	result, err := h.StampService.AddStampByCode(req.CardCode, req.BusinessID)
	if err != nil {
		respondWithMappedError(c, err, stampingErrorRules, response.CodeInternal, "stamp failed")
		return
	}

	response.Success(c, result)
}

// ClaimReward 商家凭卡号核销奖励
func (h *Handler) ClaimReward(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	var req StampByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if _, err := h.BusinessService.OwnedBusiness(req.BusinessID, ownerID); err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "claim failed")
		return
	}

	reward, err := h.RewardService.ClaimByCode(req.CardCode, req.BusinessID)
	if err != nil {
		respondWithMappedError(c, err, stampingErrorRules, response.CodeInternal, "claim failed")
		return
	}

	response.Success(c, reward)
}

// ListMemberships 商家面板的会员卡列表
// 带 loyalty_card_id 时按集换卡过滤，否则返回所有者全部商家的会员卡。
func (h *Handler) ListMemberships(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	if raw := c.Query("loyalty_card_id"); raw != "" {
		programID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || programID == 0 {
			respondError(c, response.CodeBadRequest, "invalid loyalty card id", err)
			return
		}
		if _, err := h.BusinessService.OwnedProgram(uint(programID), ownerID); err != nil {
			respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "list memberships failed")
			return
		}
		cards, err := h.MembershipService.ListForLoyaltyCard(uint(programID))
		if err != nil {
			respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "list memberships failed")
			return
		}
		response.Success(c, cards)
		return
	}

	businesses, err := h.BusinessService.ListForOwner(ownerID)
	if err != nil {
		respondError(c, response.CodeInternal, "list memberships failed", err)
		return
	}
	businessIDs := make([]uint, 0, len(businesses))
	for _, item := range businesses {
		businessIDs = append(businessIDs, item.ID)
	}

	cards, err := h.MembershipService.ListForBusinesses(businessIDs)
	if err != nil {
		respondError(c, response.CodeInternal, "list memberships failed", err)
		return
	}

	response.Success(c, cards)
}

// ListActivity 商家活动流，时间倒序分页
func (h *Handler) ListActivity(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	businessID, err := strconv.ParseUint(c.Query("business_id"), 10, 64)
	if err != nil || businessID == 0 {
		respondError(c, response.CodeBadRequest, "invalid business id", err)
		return
	}
	if _, err := h.BusinessService.OwnedBusiness(uint(businessID), ownerID); err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "list activity failed")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(constants.DiscoveryPageSize)))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	activities, total, err := h.StampService.ListActivities(repository.ActivityListFilter{
		Page:       page,
		PageSize:   pageSize,
		BusinessID: uint(businessID),
		Type:       c.Query("type"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "list activity failed", err)
		return
	}

	response.SuccessWithPage(c, activities, response.NewPagination(page, pageSize, total))
}

// ListRewards 商家的奖励核销记录
func (h *Handler) ListRewards(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	businessID, err := strconv.ParseUint(c.Query("business_id"), 10, 64)
	if err != nil || businessID == 0 {
		respondError(c, response.CodeBadRequest, "invalid business id", err)
		return
	}
	if _, err := h.BusinessService.OwnedBusiness(uint(businessID), ownerID); err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "list rewards failed")
		return
	}

	rewards, err := h.RewardService.ListForBusiness(uint(businessID))
	if err != nil {
		respondError(c, response.CodeInternal, "list rewards failed", err)
		return
	}

	response.Success(c, rewards)
}
