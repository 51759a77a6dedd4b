package models

import (
	"github.com/loyalty-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultOwner 初始化默认商家所有者账号
// 仅在 users 表为空时创建，便于首次部署后立即可用。
func InitDefaultOwner(email, password string) error {
	var count int64
	DB.Model(&User{}).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "owner@example.com"
	}
	if password == "" {
		password = "owner123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Owner",
		Role:         UserRoleOwner,
	}
	if err := DB.Create(&owner).Error; err != nil {
		return err
	}

	if password == "owner123" {
		logger.Warnw("default_owner_created_with_default_password", "email", email)
	} else {
		logger.Warnw("default_owner_created", "email", email, "password_hidden", true)
	}
	return nil
}
