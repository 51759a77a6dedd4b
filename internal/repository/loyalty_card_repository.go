package repository

import (
	"errors"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// LoyaltyCardRepository 集换卡数据访问接口
type LoyaltyCardRepository interface {
	GetByID(id uint) (*models.LoyaltyCard, error)
	ListByIDs(ids []uint) ([]models.LoyaltyCard, error)
	ListByBusiness(businessID uint) ([]models.LoyaltyCard, error)
	ListActiveByBusinessIDs(businessIDs []uint) ([]models.LoyaltyCard, error)
	Create(card *models.LoyaltyCard) error
	Update(card *models.LoyaltyCard) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormLoyaltyCardRepository
}

// GormLoyaltyCardRepository GORM 实现
type GormLoyaltyCardRepository struct {
	db *gorm.DB
}

// NewLoyaltyCardRepository 创建集换卡仓库
func NewLoyaltyCardRepository(db *gorm.DB) *GormLoyaltyCardRepository {
	return &GormLoyaltyCardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLoyaltyCardRepository) WithTx(tx *gorm.DB) *GormLoyaltyCardRepository {
	if tx == nil {
		return r
	}
	return &GormLoyaltyCardRepository{db: tx}
}

// GetByID 根据ID获取集换卡
func (r *GormLoyaltyCardRepository) GetByID(id uint) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := r.db.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// ListByIDs 批量获取集换卡，分批规避存储层 IN 上限。
func (r *GormLoyaltyCardRepository) ListByIDs(ids []uint) ([]models.LoyaltyCard, error) {
	result := make([]models.LoyaltyCard, 0, len(ids))
	for _, chunk := range chunkIDs(ids, constants.StoreInFilterLimit) {
		var cards []models.LoyaltyCard
		if err := r.db.Where("id IN ?", chunk).Find(&cards).Error; err != nil {
			return nil, err
		}
		result = append(result, cards...)
	}
	return result, nil
}

// ListByBusiness 获取某商家的全部集换卡
func (r *GormLoyaltyCardRepository) ListByBusiness(businessID uint) ([]models.LoyaltyCard, error) {
	var cards []models.LoyaltyCard
	if err := r.db.Where("business_id = ?", businessID).Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ListActiveByBusinessIDs 批量获取多个商家启用中的集换卡（发现页单页聚合）
func (r *GormLoyaltyCardRepository) ListActiveByBusinessIDs(businessIDs []uint) ([]models.LoyaltyCard, error) {
	result := make([]models.LoyaltyCard, 0, len(businessIDs))
	for _, chunk := range chunkIDs(businessIDs, constants.StoreInFilterLimit) {
		var cards []models.LoyaltyCard
		if err := r.db.Where("business_id IN ? AND is_active = ?", chunk, true).Find(&cards).Error; err != nil {
			return nil, err
		}
		result = append(result, cards...)
	}
	return result, nil
}

// Create 创建集换卡
func (r *GormLoyaltyCardRepository) Create(card *models.LoyaltyCard) error {
	return r.db.Create(card).Error
}

// Update 更新集换卡
func (r *GormLoyaltyCardRepository) Update(card *models.LoyaltyCard) error {
	return r.db.Save(card).Error
}

// Delete 删除集换卡
func (r *GormLoyaltyCardRepository) Delete(id uint) error {
	return r.db.Delete(&models.LoyaltyCard{}, id).Error
}
