package models

import (
	"time"

	"gorm.io/gorm"
)

// Business 商家表
type Business struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name        string         `gorm:"index;not null" json:"name"`             // 商家名称
	Description string         `gorm:"type:text" json:"description"`           // 商家介绍
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`         // 商家所有者用户ID
	LogoURL     string         `gorm:"default:''" json:"logo_url"`             // Logo 图片地址（仅存 URL，上传由外部对象存储负责）
	Address     string         `gorm:"default:''" json:"address"`              // 地址
	Phone       string         `gorm:"default:''" json:"phone"`                // 联系电话
	City        string         `gorm:"default:''" json:"city"`                 // 城市
	Website     string         `gorm:"default:''" json:"website"`              // 网站链接
	Instagram   string         `gorm:"default:''" json:"instagram"`            // Instagram 链接
	Categories  string         `gorm:"default:''" json:"categories"`           // 分类（逗号分隔，最多 2 个）
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Business) TableName() string {
	return "businesses"
}
