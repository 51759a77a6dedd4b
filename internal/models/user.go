package models

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色常量
const (
	UserRoleCustomer = "customer"
	UserRoleOwner    = "owner"
)

// User 用户表
// 身份与会话由外部身份服务负责，这里仅保存展示名等快照来源字段。
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                 // 密码哈希（不返回给前端）
	DisplayName  string         `gorm:"default:''" json:"display_name"`    // 展示名（写入会员卡快照）
	Role         string         `gorm:"default:'customer'" json:"role"`    // 角色（customer/owner）
	Status       string         `gorm:"default:'active'" json:"status"`    // 账号状态
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
