package models

import "time"

// StampActivity 活动流表
// 盖章与领奖事件的冗余投影：与 Stamp 同步写入而非读时推导，
// 让商家端活动流读取保持廉价。StampCount 为事件发生后的计数值。
type StampActivity struct {
	ID             uint      `gorm:"primarykey" json:"id"`                   // 主键
	CustomerCardID uint      `gorm:"index;not null" json:"customer_card_id"` // 会员卡ID
	CustomerID     uint      `gorm:"index;not null" json:"customer_id"`      // 客户ID
	BusinessID     uint      `gorm:"index;not null" json:"business_id"`      // 商家ID
	LoyaltyCardID  uint      `gorm:"index;not null" json:"loyalty_card_id"`  // 集换卡ID
	Type           string    `gorm:"not null" json:"type"`                   // 事件类型（stamp/reward_claimed）
	CustomerName   string    `gorm:"default:''" json:"customer_name"`        // 客户展示名冗余
	BusinessName   string    `gorm:"default:''" json:"business_name"`        // 商家名称冗余
	StampCount     int       `gorm:"not null;default:0" json:"stamp_count"`  // 事件后的集章计数
	Note           string    `gorm:"default:''" json:"note"`                 // 备注
	Timestamp      time.Time `gorm:"index;not null" json:"timestamp"`        // 事件时间
}

// TableName 指定表名
func (StampActivity) TableName() string {
	return "stamp_activities"
}
