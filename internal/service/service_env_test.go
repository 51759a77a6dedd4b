package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// testEnv 服务层测试环境：内存库 + 全套仓库与服务
type testEnv struct {
	db *gorm.DB

	userRepo     *repository.GormUserRepository
	businessRepo *repository.GormBusinessRepository
	loyaltyRepo  *repository.GormLoyaltyCardRepository
	cardRepo     *repository.GormCustomerCardRepository
	stampRepo    *repository.GormStampRepository
	activityRepo *repository.GormStampActivityRepository
	rewardRepo   *repository.GormRewardRepository

	allocator  *CodeAllocator
	discovery  *DiscoveryService
	membership *MembershipService
	stamps     *StampService
	rewards    *RewardService
	cascade    *CascadeService
}

func newTestEnv(t *testing.T, name string) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.LoyaltyCard{},
		&models.CustomerCard{},
		&models.Stamp{},
		&models.StampActivity{},
		&models.Reward{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	env := &testEnv{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		businessRepo: repository.NewBusinessRepository(db),
		loyaltyRepo:  repository.NewLoyaltyCardRepository(db),
		cardRepo:     repository.NewCustomerCardRepository(db),
		stampRepo:    repository.NewStampRepository(db),
		activityRepo: repository.NewStampActivityRepository(db),
		rewardRepo:   repository.NewRewardRepository(db),
	}

	env.allocator = NewCodeAllocator(env.cardRepo, config.MembershipConfig{})
	env.discovery = NewDiscoveryService(env.businessRepo, env.loyaltyRepo, env.cardRepo, env.rewardRepo, config.DiscoveryConfig{})
	env.membership = NewMembershipService(env.cardRepo, env.loyaltyRepo, env.businessRepo, env.userRepo, env.allocator, env.discovery)
	env.stamps = NewStampService(env.cardRepo, env.loyaltyRepo, env.businessRepo, env.stampRepo, env.activityRepo, nil, env.discovery)
	env.rewards = NewRewardService(env.cardRepo, env.loyaltyRepo, env.businessRepo, env.rewardRepo, env.activityRepo, nil, env.discovery)
	env.cascade = NewCascadeService(env.cardRepo, env.loyaltyRepo, env.stampRepo, env.activityRepo, env.rewardRepo, env.discovery)
	return env
}

func (env *testEnv) createCustomer(t *testing.T, email, name string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  name,
		Role:         models.UserRoleCustomer,
		Status:       "active",
	}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return user
}

func (env *testEnv) createBusiness(t *testing.T, name string, ownerID uint) models.Business {
	t.Helper()

	business := models.Business{
		Name:     name,
		OwnerID:  ownerID,
		IsActive: true,
	}
	if err := env.db.Create(&business).Error; err != nil {
		t.Fatalf("create business failed: %v", err)
	}
	return business
}

func (env *testEnv) createProgram(t *testing.T, businessID uint, totalSlots int) models.LoyaltyCard {
	t.Helper()

	program := models.LoyaltyCard{
		BusinessID:        businessID,
		TotalSlots:        totalSlots,
		RewardDescription: "free coffee",
		IsActive:          true,
	}
	if err := env.db.Create(&program).Error; err != nil {
		t.Fatalf("create program failed: %v", err)
	}
	return program
}
