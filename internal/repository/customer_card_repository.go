package repository

import (
	"errors"
	"time"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

// CustomerCardRepository 会员卡数据访问接口
type CustomerCardRepository interface {
	GetByID(id uint) (*models.CustomerCard, error)
	GetUnclaimed(customerID, loyaltyCardID uint) (*models.CustomerCard, error)
	GetUnclaimedByCode(code string, businessID uint) (*models.CustomerCard, error)
	CodeTaken(code string, businessID uint) (bool, error)
	ListByCustomer(customerID uint, unclaimedOnly bool) ([]models.CustomerCard, error)
	ListByLoyaltyCard(loyaltyCardID uint) ([]models.CustomerCard, error)
	ListByBusinessIDs(businessIDs []uint) ([]models.CustomerCard, error)
	Create(card *models.CustomerCard) error
	IncrementStamps(id uint, totalSlots int, at time.Time) (bool, error)
	MarkClaimed(id uint, totalSlots int) (bool, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormCustomerCardRepository
}

// GormCustomerCardRepository GORM 实现
type GormCustomerCardRepository struct {
	db *gorm.DB
}

// NewCustomerCardRepository 创建会员卡仓库
func NewCustomerCardRepository(db *gorm.DB) *GormCustomerCardRepository {
	return &GormCustomerCardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCustomerCardRepository) WithTx(tx *gorm.DB) *GormCustomerCardRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerCardRepository{db: tx}
}

// GetByID 根据ID获取会员卡
func (r *GormCustomerCardRepository) GetByID(id uint) (*models.CustomerCard, error) {
	var card models.CustomerCard
	if err := r.db.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetUnclaimed 获取客户在某集换卡下未领奖的会员卡
func (r *GormCustomerCardRepository) GetUnclaimed(customerID, loyaltyCardID uint) (*models.CustomerCard, error) {
	var card models.CustomerCard
	err := r.db.Where("customer_id = ? AND loyalty_card_id = ? AND is_reward_claimed = ?",
		customerID, loyaltyCardID, false).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetUnclaimedByCode 按卡号在商家范围内查找未领奖的会员卡
// 商家店员只凭卡号定位顾客，因此卡号唯一性按商家范围校验。
func (r *GormCustomerCardRepository) GetUnclaimedByCode(code string, businessID uint) (*models.CustomerCard, error) {
	var card models.CustomerCard
	err := r.db.Where("card_code = ? AND business_id = ? AND is_reward_claimed = ?",
		code, businessID, false).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// CodeTaken 判断卡号是否已被同商家的未领奖会员卡占用
func (r *GormCustomerCardRepository) CodeTaken(code string, businessID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CustomerCard{}).
		Where("card_code = ? AND business_id = ? AND is_reward_claimed = ?", code, businessID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByCustomer 获取客户的会员卡，unclaimedOnly 区分「全部」与「进行中」两种读取模式
func (r *GormCustomerCardRepository) ListByCustomer(customerID uint, unclaimedOnly bool) ([]models.CustomerCard, error) {
	var cards []models.CustomerCard
	query := r.db.Where("customer_id = ?", customerID)
	if unclaimedOnly {
		query = query.Where("is_reward_claimed = ?", false)
	}
	if err := query.Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ListByLoyaltyCard 获取某集换卡下的全部会员卡
func (r *GormCustomerCardRepository) ListByLoyaltyCard(loyaltyCardID uint) ([]models.CustomerCard, error) {
	var cards []models.CustomerCard
	if err := r.db.Where("loyalty_card_id = ?", loyaltyCardID).Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ListByBusinessIDs 批量获取多个商家下的会员卡，分批规避存储层 IN 上限，避免商家面板 N+1 查询。
func (r *GormCustomerCardRepository) ListByBusinessIDs(businessIDs []uint) ([]models.CustomerCard, error) {
	result := make([]models.CustomerCard, 0)
	for _, chunk := range chunkIDs(businessIDs, constants.StoreInFilterLimit) {
		var cards []models.CustomerCard
		if err := r.db.Where("business_id IN ?", chunk).Order("created_at desc").Find(&cards).Error; err != nil {
			return nil, err
		}
		result = append(result, cards...)
	}
	return result, nil
}

// Create 创建会员卡
func (r *GormCustomerCardRepository) Create(card *models.CustomerCard) error {
	return r.db.Create(card).Error
}

// IncrementStamps 条件自增集章计数并刷新最近盖章时间
// WHERE 条件保证计数永不超过 totalSlots、已领奖的卡不再累积；
// 返回 false 表示卡不存在或不满足条件。
func (r *GormCustomerCardRepository) IncrementStamps(id uint, totalSlots int, at time.Time) (bool, error) {
	result := r.db.Model(&models.CustomerCard{}).
		Where("id = ? AND is_reward_claimed = ? AND current_stamps < ?", id, false, totalSlots).
		UpdateColumns(map[string]interface{}{
			"current_stamps":  gorm.Expr("current_stamps + ?", 1),
			"last_stamp_date": at,
			"updated_at":      at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkClaimed 条件翻转领奖标记
// 仅当未领奖且已集满时生效，保证 false -> true 恰好一次。
func (r *GormCustomerCardRepository) MarkClaimed(id uint, totalSlots int) (bool, error) {
	result := r.db.Model(&models.CustomerCard{}).
		Where("id = ? AND is_reward_claimed = ? AND current_stamps >= ?", id, false, totalSlots).
		Update("is_reward_claimed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除会员卡
func (r *GormCustomerCardRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.CustomerCard{}, id).Error
}
