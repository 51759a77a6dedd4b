package models

import "time"

// Reward 奖励审计表
// 会员卡翻转为已领取时恰好写入一行。
type Reward struct {
	ID             uint       `gorm:"primarykey" json:"id"`                   // 主键
	CustomerCardID uint       `gorm:"index;not null" json:"customer_card_id"` // 会员卡ID
	CustomerID     uint       `gorm:"index;not null" json:"customer_id"`      // 客户ID
	BusinessID     uint       `gorm:"index;not null" json:"business_id"`      // 商家ID
	LoyaltyCardID  uint       `gorm:"index;not null" json:"loyalty_card_id"`  // 集换卡ID
	ClaimedAt      time.Time  `gorm:"index;not null" json:"claimed_at"`       // 领取时间
	RedeemedAt     *time.Time `json:"redeemed_at"`                            // 核销时间
	IsRedeemed     bool       `gorm:"not null;default:false" json:"is_redeemed"` // 是否已核销
	Note           string     `gorm:"default:''" json:"note"`                 // 备注
}

// TableName 指定表名
func (Reward) TableName() string {
	return "rewards"
}
