package main

import (
	"log"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示账号
	owner := seedUser(stdLog, "owner@example.com", "owner123456", "Demo Owner", models.UserRoleOwner)
	customer := seedUser(stdLog, "customer@example.com", "customer123456", "Demo Customer", models.UserRoleCustomer)

	// 演示商家与集换卡
	businesses := []struct {
		Name       string
		City       string
		Categories string
		Programs   []models.LoyaltyCard
	}{
		{
			Name:       "Blue Bottle Cafe",
			City:       "Lisbon",
			Categories: "cafe,bakery",
			Programs: []models.LoyaltyCard{
				{TotalSlots: 10, RewardDescription: "Free espresso", Color: "#2A5CAA", StampShape: "circle", IsActive: true},
				{TotalSlots: 6, RewardDescription: "Free croissant", Color: "#C58940", StampShape: "star", IsActive: true},
			},
		},
		{
			Name:       "Corner Barbershop",
			City:       "Lisbon",
			Categories: "barber",
			Programs: []models.LoyaltyCard{
				{TotalSlots: 8, RewardDescription: "Free haircut", Color: "#1F1F1F", StampShape: "scissors", IsActive: true},
			},
		},
		{
			Name:       "Green Juice Bar",
			City:       "Porto",
			Categories: "juice,health",
			Programs: []models.LoyaltyCard{
				{TotalSlots: 12, RewardDescription: "Free smoothie", Color: "#3F8F4A", StampShape: "leaf", IsActive: true},
			},
		},
	}

	for _, item := range businesses {
		var existing models.Business
		err := models.DB.Where("name = ? AND owner_id = ?", item.Name, owner.ID).First(&existing).Error
		if err == nil {
			stdLog.Printf("Business already exists: %s", item.Name)
			continue
		}
		business := models.Business{
			Name:       item.Name,
			OwnerID:    owner.ID,
			City:       item.City,
			Categories: item.Categories,
			IsActive:   true,
		}
		if err := models.DB.Create(&business).Error; err != nil {
			stdLog.Printf("Failed to create business %s: %v", item.Name, err)
			continue
		}
		stdLog.Printf("Created business: %s", item.Name)
		for _, program := range item.Programs {
			program.BusinessID = business.ID
			if err := models.DB.Create(&program).Error; err != nil {
				stdLog.Printf("Failed to create program for %s: %v", item.Name, err)
				continue
			}
			stdLog.Printf("Created program: %s / %s", item.Name, program.RewardDescription)
		}
	}

	// 打印本地调试令牌
	ownerToken, err := service.IssueOwnerToken(cfg.BusinessJWT.SecretKey, owner.ID, owner.DisplayName, time.Duration(cfg.BusinessJWT.ExpireHours)*time.Hour)
	if err != nil {
		stdLog.Printf("Failed to issue owner token: %v", err)
	} else {
		stdLog.Printf("Demo owner token: %s", ownerToken)
	}
	customerToken, err := service.IssueCustomerToken(cfg.CustomerJWT.SecretKey, customer.ID, customer.DisplayName, time.Duration(cfg.CustomerJWT.ExpireHours)*time.Hour)
	if err != nil {
		stdLog.Printf("Failed to issue customer token: %v", err)
	} else {
		stdLog.Printf("Demo customer token: %s", customerToken)
	}

	stdLog.Printf("Seed finished")
}

func seedUser(stdLog *log.Logger, email, password, displayName, role string) *models.User {
	var existing models.User
	if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		stdLog.Printf("User already exists: %s", email)
		return &existing
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("Failed to hash password for %s: %v", email, err)
		return &existing
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		Status:       "active",
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Printf("Failed to create user %s: %v", email, err)
		return &user
	}
	stdLog.Printf("Created user: %s (%s)", email, role)
	return &user
}
