package repository

import (
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// StampActivityRepository 活动流数据访问接口
type StampActivityRepository interface {
	Create(activity *models.StampActivity) error
	List(filter ActivityListFilter) ([]models.StampActivity, int64, error)
	DeleteByCard(customerCardID uint) error
	WithTx(tx *gorm.DB) *GormStampActivityRepository
}

// GormStampActivityRepository GORM 实现
type GormStampActivityRepository struct {
	db *gorm.DB
}

// NewStampActivityRepository 创建活动流仓库
func NewStampActivityRepository(db *gorm.DB) *GormStampActivityRepository {
	return &GormStampActivityRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStampActivityRepository) WithTx(tx *gorm.DB) *GormStampActivityRepository {
	if tx == nil {
		return r
	}
	return &GormStampActivityRepository{db: tx}
}

// Create 写入活动流事件
func (r *GormStampActivityRepository) Create(activity *models.StampActivity) error {
	return r.db.Create(activity).Error
}

// List 获取活动流列表（时间倒序）
func (r *GormStampActivityRepository) List(filter ActivityListFilter) ([]models.StampActivity, int64, error) {
	var activities []models.StampActivity
	query := r.db.Model(&models.StampActivity{})

	if filter.BusinessID > 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("timestamp desc").Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// DeleteByCard 删除某会员卡的全部活动流事件（级联清理用，天然幂等）
func (r *GormStampActivityRepository) DeleteByCard(customerCardID uint) error {
	return r.db.Where("customer_card_id = ?", customerCardID).Delete(&models.StampActivity{}).Error
}
