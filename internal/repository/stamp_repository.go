package repository

import (
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// StampRepository 集章事件数据访问接口
type StampRepository interface {
	Create(stamp *models.Stamp) error
	ListByCard(customerCardID uint) ([]models.Stamp, error)
	CountByCard(customerCardID uint) (int64, error)
	DeleteByCard(customerCardID uint) error
	WithTx(tx *gorm.DB) *GormStampRepository
}

// GormStampRepository GORM 实现
type GormStampRepository struct {
	db *gorm.DB
}

// NewStampRepository 创建集章事件仓库
func NewStampRepository(db *gorm.DB) *GormStampRepository {
	return &GormStampRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStampRepository) WithTx(tx *gorm.DB) *GormStampRepository {
	if tx == nil {
		return r
	}
	return &GormStampRepository{db: tx}
}

// Create 写入集章事件
func (r *GormStampRepository) Create(stamp *models.Stamp) error {
	return r.db.Create(stamp).Error
}

// ListByCard 获取某会员卡的集章事件
func (r *GormStampRepository) ListByCard(customerCardID uint) ([]models.Stamp, error) {
	var stamps []models.Stamp
	if err := r.db.Where("customer_card_id = ?", customerCardID).Order("timestamp asc").Find(&stamps).Error; err != nil {
		return nil, err
	}
	return stamps, nil
}

// CountByCard 统计某会员卡的集章事件数
func (r *GormStampRepository) CountByCard(customerCardID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Stamp{}).Where("customer_card_id = ?", customerCardID).Count(&count).Error
	return count, err
}

// DeleteByCard 删除某会员卡的全部集章事件（级联清理用，天然幂等）
func (r *GormStampRepository) DeleteByCard(customerCardID uint) error {
	return r.db.Where("customer_card_id = ?", customerCardID).Delete(&models.Stamp{}).Error
}
