package models

import (
	"time"

	"gorm.io/gorm"
)

// LoyaltyCard 集换卡（集章计划）表
// TotalSlots 创建后不可修改：已有会员卡的进度不随规格变化重算。
type LoyaltyCard struct {
	ID                uint           `gorm:"primarykey" json:"id"`                   // 主键
	BusinessID        uint           `gorm:"index;not null" json:"business_id"`      // 所属商家ID
	TotalSlots        int            `gorm:"not null" json:"total_slots"`            // 集章格数（3-20）
	RewardDescription string         `gorm:"type:text" json:"reward_description"`    // 奖励说明
	Color             string         `gorm:"default:''" json:"color"`                // 卡面颜色
	StampShape        string         `gorm:"default:''" json:"stamp_shape"`          // 印章形状
	BackgroundImage   string         `gorm:"default:''" json:"background_image"`     // 背景图片 URL
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	// 读取时填充的商家快照，不落库
	BusinessName string `gorm:"-" json:"business_name,omitempty"` // 商家名称快照
	BusinessLogo string `gorm:"-" json:"business_logo,omitempty"` // 商家 Logo 快照
}

// TableName 指定表名
func (LoyaltyCard) TableName() string {
	return "loyalty_cards"
}
