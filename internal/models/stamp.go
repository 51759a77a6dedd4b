package models

import "time"

// Stamp 集章事件表
// 不可变事件，一次盖章一行；不做软删除，级联清理时物理删除。
type Stamp struct {
	ID             uint      `gorm:"primarykey" json:"id"`                  // 主键
	CustomerCardID uint      `gorm:"index;not null" json:"customer_card_id"` // 会员卡ID
	CustomerID     uint      `gorm:"index;not null" json:"customer_id"`     // 客户ID
	BusinessID     uint      `gorm:"index;not null" json:"business_id"`     // 商家ID
	LoyaltyCardID  uint      `gorm:"index;not null" json:"loyalty_card_id"` // 集换卡ID
	Timestamp      time.Time `gorm:"index;not null" json:"timestamp"`       // 盖章时间
}

// TableName 指定表名
func (Stamp) TableName() string {
	return "stamps"
}
