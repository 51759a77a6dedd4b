package repository

import (
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// RewardRepository 奖励审计数据访问接口
type RewardRepository interface {
	Create(reward *models.Reward) error
	ListByBusiness(businessID uint) ([]models.Reward, error)
	CountByCustomerGrouped(customerID uint) (map[uint]int, error)
	DeleteByCard(customerCardID uint) error
	WithTx(tx *gorm.DB) *GormRewardRepository
}

// GormRewardRepository GORM 实现
type GormRewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository 创建奖励仓库
func NewRewardRepository(db *gorm.DB) *GormRewardRepository {
	return &GormRewardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRewardRepository) WithTx(tx *gorm.DB) *GormRewardRepository {
	if tx == nil {
		return r
	}
	return &GormRewardRepository{db: tx}
}

// Create 写入奖励审计记录
func (r *GormRewardRepository) Create(reward *models.Reward) error {
	return r.db.Create(reward).Error
}

// ListByBusiness 获取某商家的奖励记录（领取时间倒序）
func (r *GormRewardRepository) ListByBusiness(businessID uint) ([]models.Reward, error) {
	var rewards []models.Reward
	if err := r.db.Where("business_id = ?", businessID).Order("claimed_at desc").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

// CountByCustomerGrouped 统计客户历史领奖数，按集换卡分组（发现页展示用）
func (r *GormRewardRepository) CountByCustomerGrouped(customerID uint) (map[uint]int, error) {
	type row struct {
		LoyaltyCardID uint
		Total         int
	}
	var rows []row
	err := r.db.Model(&models.Reward{}).
		Select("loyalty_card_id, count(*) as total").
		Where("customer_id = ?", customerID).
		Group("loyalty_card_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, item := range rows {
		counts[item.LoyaltyCardID] = item.Total
	}
	return counts, nil
}

// DeleteByCard 删除某会员卡的奖励记录（级联清理用，天然幂等）
func (r *GormRewardRepository) DeleteByCard(customerCardID uint) error {
	return r.db.Where("customer_card_id = ?", customerCardID).Delete(&models.Reward{}).Error
}
