package business

import (
	"errors"
	"strconv"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProgramRequest 创建集换卡请求
type CreateProgramRequest struct {
	BusinessID        uint   `json:"business_id" binding:"required"`
	TotalSlots        int    `json:"total_slots" binding:"required"`
	RewardDescription string `json:"reward_description" binding:"required"`
	Color             string `json:"color"`
	StampShape        string `json:"stamp_shape"`
	BackgroundImage   string `json:"background_image"`
}

// UpdateProgramRequest 更新集换卡请求
// total_slots 字段有意缺席：格数创建后不可修改。
type UpdateProgramRequest struct {
	RewardDescription *string `json:"reward_description"`
	Color             *string `json:"color"`
	StampShape        *string `json:"stamp_shape"`
	BackgroundImage   *string `json:"background_image"`
	IsActive          *bool   `json:"is_active"`
}

// CreateProgram 创建集换卡
func (h *Handler) CreateProgram(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	program, err := h.BusinessService.CreateProgram(ownerID, service.CreateProgramInput{
		BusinessID:        req.BusinessID,
		TotalSlots:        req.TotalSlots,
		RewardDescription: req.RewardDescription,
		Color:             req.Color,
		StampShape:        req.StampShape,
		BackgroundImage:   req.BackgroundImage,
	})
	if err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "create program failed")
		return
	}

	response.Success(c, program)
}

// UpdateProgram 更新集换卡
func (h *Handler) UpdateProgram(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	programID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || programID == 0 {
		respondError(c, response.CodeBadRequest, "invalid program id", err)
		return
	}

	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	program, err := h.BusinessService.UpdateProgram(uint(programID), ownerID, service.UpdateProgramInput{
		RewardDescription: req.RewardDescription,
		Color:             req.Color,
		StampShape:        req.StampShape,
		BackgroundImage:   req.BackgroundImage,
		IsActive:          req.IsActive,
	})
	if err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "update program failed")
		return
	}

	response.Success(c, program)
}

// ListPrograms 获取某商家下的集换卡
func (h *Handler) ListPrograms(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	businessID, err := strconv.ParseUint(c.Query("business_id"), 10, 64)
	if err != nil || businessID == 0 {
		respondError(c, response.CodeBadRequest, "invalid business id", err)
		return
	}

	programs, err := h.BusinessService.ListPrograms(uint(businessID), ownerID)
	if err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "list programs failed")
		return
	}

	response.Success(c, programs)
}

// DeleteProgram 删除集换卡并级联删除全部会员卡与子记录
func (h *Handler) DeleteProgram(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	programID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || programID == 0 {
		respondError(c, response.CodeBadRequest, "invalid program id", err)
		return
	}

	if _, err := h.BusinessService.OwnedProgram(uint(programID), ownerID); err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			// 幂等：目标不存在视为已删除
			response.Success(c, nil)
			return
		}
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "delete program failed")
		return
	}

	if err := h.CascadeService.DeleteLoyaltyCard(uint(programID)); err != nil {
		var incomplete *service.IncompleteDeletionError
		if errors.As(err, &incomplete) {
			response.ErrorWithData(c, response.CodeInternal, "deletion incomplete", gin.H{
				"failed_count": len(incomplete.Failed),
			})
			return
		}
		respondError(c, response.CodeInternal, "delete program failed", err)
		return
	}

	response.Success(c, nil)
}
