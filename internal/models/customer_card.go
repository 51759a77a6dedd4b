package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerCard 会员卡表（客户在某个集换卡下的实例）
// 不变量：0 <= CurrentStamps <= LoyaltyCard.TotalSlots；
// IsRewardClaimed 只能 false -> true 翻转一次，领取后不可复用，
// 再次加入同一集换卡会生成一张带新卡号的新卡。
// 两条部分唯一索引兜底并发写入：同一 (customer_id, loyalty_card_id)
// 最多一张未领奖卡，同一商家未领奖卡的 card_code 不重复；
// 已领奖或软删除的行不参与约束。
type CustomerCard struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                                                                               // 主键
	CustomerID      uint           `gorm:"not null;uniqueIndex:uniq_customer_cards_active_member,where:is_reward_claimed = false AND deleted_at IS NULL" json:"customer_id"` // 客户ID
	LoyaltyCardID   uint           `gorm:"index;not null;uniqueIndex:uniq_customer_cards_active_member" json:"loyalty_card_id"`                                // 集换卡ID
	BusinessID      uint           `gorm:"index;not null;uniqueIndex:uniq_customer_cards_active_code,where:is_reward_claimed = false AND deleted_at IS NULL" json:"business_id"` // 商家ID（冗余，便于按商家查询）
	CurrentStamps   int            `gorm:"not null;default:0" json:"current_stamps"`                                                                           // 当前集章数
	IsRewardClaimed bool           `gorm:"not null;default:false;index" json:"is_reward_claimed"`                                                              // 奖励是否已领取
	CardCode        string         `gorm:"size:8;not null;uniqueIndex:uniq_customer_cards_active_code" json:"card_code"`                                       // 卡号（三位数字，商家范围内人工输入）
	CustomerName    string         `gorm:"default:''" json:"customer_name"`                             // 客户展示名快照
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                  // 更新时间
	LastStampDate   *time.Time     `json:"last_stamp_date"`                                             // 最近盖章时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 读取时按需填充的集换卡快照，不落库、不自动加载
	LoyaltyCard *LoyaltyCard `gorm:"-" json:"loyalty_card,omitempty"`
}

// TableName 指定表名
func (CustomerCard) TableName() string {
	return "customer_cards"
}

// IsEligible 判断是否已集满、可领取奖励
func (c *CustomerCard) IsEligible(totalSlots int) bool {
	if c == nil || c.IsRewardClaimed {
		return false
	}
	return totalSlots > 0 && c.CurrentStamps >= totalSlots
}
