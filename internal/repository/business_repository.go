package repository

import (
	"errors"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// BusinessRepository 商家数据访问接口
type BusinessRepository interface {
	GetByID(id uint) (*models.Business, error)
	ListByIDs(ids []uint) ([]models.Business, error)
	ListByOwner(ownerID uint) ([]models.Business, error)
	ListActivePage(page, pageSize int) ([]models.Business, error)
	List(filter BusinessListFilter) ([]models.Business, int64, error)
	Create(business *models.Business) error
	Update(business *models.Business) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormBusinessRepository
}

// GormBusinessRepository GORM 实现
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository 创建商家仓库
func NewBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBusinessRepository) WithTx(tx *gorm.DB) *GormBusinessRepository {
	if tx == nil {
		return r
	}
	return &GormBusinessRepository{db: tx}
}

// GetByID 根据ID获取商家
func (r *GormBusinessRepository) GetByID(id uint) (*models.Business, error) {
	var business models.Business
	if err := r.db.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

// ListByIDs 批量获取商家，ID 数量超出存储层 IN 上限时分批查询。
func (r *GormBusinessRepository) ListByIDs(ids []uint) ([]models.Business, error) {
	result := make([]models.Business, 0, len(ids))
	for _, chunk := range chunkIDs(ids, constants.StoreInFilterLimit) {
		var businesses []models.Business
		if err := r.db.Where("id IN ?", chunk).Find(&businesses).Error; err != nil {
			return nil, err
		}
		result = append(result, businesses...)
	}
	return result, nil
}

// ListByOwner 获取某所有者的全部商家
func (r *GormBusinessRepository) ListByOwner(ownerID uint) ([]models.Business, error) {
	var businesses []models.Business
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// ListActivePage 按名称分页获取启用中的商家（发现页）
func (r *GormBusinessRepository) ListActivePage(page, pageSize int) ([]models.Business, error) {
	var businesses []models.Business
	query := r.db.Where("is_active = ?", true).Order("name asc")
	query = applyPagination(query, page, pageSize)
	if err := query.Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// List 获取商家列表
func (r *GormBusinessRepository) List(filter BusinessListFilter) ([]models.Business, int64, error) {
	var businesses []models.Business
	query := r.db.Model(&models.Business{})

	if filter.OwnerID > 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("name asc").Find(&businesses).Error; err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// Create 创建商家
func (r *GormBusinessRepository) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

// Update 更新商家
func (r *GormBusinessRepository) Update(business *models.Business) error {
	return r.db.Save(business).Error
}

// Delete 删除商家
func (r *GormBusinessRepository) Delete(id uint) error {
	return r.db.Delete(&models.Business{}, id).Error
}
