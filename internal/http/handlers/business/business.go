package business

import (
	"strconv"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateBusinessRequest 创建商家请求
type CreateBusinessRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	LogoURL     string   `json:"logo_url"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	City        string   `json:"city"`
	Website     string   `json:"website"`
	Instagram   string   `json:"instagram"`
	Categories  []string `json:"categories"`
}

// UpdateBusinessRequest 更新商家请求
type UpdateBusinessRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	LogoURL     *string  `json:"logo_url"`
	Address     *string  `json:"address"`
	Phone       *string  `json:"phone"`
	City        *string  `json:"city"`
	Website     *string  `json:"website"`
	Instagram   *string  `json:"instagram"`
	Categories  []string `json:"categories"`
	IsActive    *bool    `json:"is_active"`
}

// CreateBusiness 创建商家
func (h *Handler) CreateBusiness(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	created, err := h.BusinessService.CreateBusiness(service.CreateBusinessInput{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Address:     req.Address,
		Phone:       req.Phone,
		City:        req.City,
		Website:     req.Website,
		Instagram:   req.Instagram,
		Categories:  req.Categories,
	})
	if err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "create business failed")
		return
	}

	response.Success(c, created)
}

// UpdateBusiness 更新商家
func (h *Handler) UpdateBusiness(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || businessID == 0 {
		respondError(c, response.CodeBadRequest, "invalid business id", err)
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	updated, err := h.BusinessService.UpdateBusiness(uint(businessID), ownerID, service.UpdateBusinessInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Address:     req.Address,
		Phone:       req.Phone,
		City:        req.City,
		Website:     req.Website,
		Instagram:   req.Instagram,
		Categories:  req.Categories,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithMappedError(c, err, ownershipErrorRules, response.CodeInternal, "update business failed")
		return
	}

	response.Success(c, updated)
}

// ListBusinesses 获取自己名下的商家
func (h *Handler) ListBusinesses(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		return
	}

	businesses, err := h.BusinessService.ListForOwner(ownerID)
	if err != nil {
		respondError(c, response.CodeInternal, "list businesses failed", err)
		return
	}

	response.Success(c, businesses)
}
