package service

import (
	"errors"
	"strconv"
	"testing"

	"github.com/loyalty-next/internal/models"
)

func TestAllocateReturnsCodeInRange(t *testing.T) {
	env := newTestEnv(t, "code_allocator_range")

	code, err := env.allocator.Allocate(1)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	value, err := strconv.Atoi(code)
	if err != nil {
		t.Fatalf("code is not numeric: %q", code)
	}
	if value < 100 || value > 999 {
		t.Fatalf("code out of range: %d", value)
	}
}

func TestAllocateSkipsCodesHeldByUnclaimedCards(t *testing.T) {
	env := newTestEnv(t, "code_allocator_skip")

	if err := env.db.Create(&models.CustomerCard{
		CustomerID:    1,
		LoyaltyCardID: 1,
		BusinessID:    7,
		CardCode:      "100",
	}).Error; err != nil {
		t.Fatalf("seed card failed: %v", err)
	}

	// 固定随机序列：第一次撞上已占用的 100，第二次取 101
	calls := 0
	env.allocator.randInt = func(n int) int {
		calls++
		if calls == 1 {
			return 0
		}
		return 1
	}

	code, err := env.allocator.Allocate(7)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if code != "101" {
		t.Fatalf("expected 101 after collision, got %q", code)
	}
}

func TestAllocateReusesCodeOfClaimedCard(t *testing.T) {
	env := newTestEnv(t, "code_allocator_reuse")

	if err := env.db.Create(&models.CustomerCard{
		CustomerID:      1,
		LoyaltyCardID:   1,
		BusinessID:      7,
		CardCode:        "100",
		IsRewardClaimed: true,
	}).Error; err != nil {
		t.Fatalf("seed card failed: %v", err)
	}

	env.allocator.randInt = func(n int) int { return 0 }

	code, err := env.allocator.Allocate(7)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if code != "100" {
		t.Fatalf("claimed card should not block its code, got %q", code)
	}
}

func TestAllocateScopedPerBusiness(t *testing.T) {
	env := newTestEnv(t, "code_allocator_scope")

	if err := env.db.Create(&models.CustomerCard{
		CustomerID:    1,
		LoyaltyCardID: 1,
		BusinessID:    7,
		CardCode:      "100",
	}).Error; err != nil {
		t.Fatalf("seed card failed: %v", err)
	}

	env.allocator.randInt = func(n int) int { return 0 }

	// 同一卡号在另一个商家下不算占用
	code, err := env.allocator.Allocate(8)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if code != "100" {
		t.Fatalf("expected 100 for another business, got %q", code)
	}
}

func TestAllocateExhaustedReturnsError(t *testing.T) {
	env := newTestEnv(t, "code_allocator_exhausted")

	if err := env.db.Create(&models.CustomerCard{
		CustomerID:    1,
		LoyaltyCardID: 1,
		BusinessID:    7,
		CardCode:      "100",
	}).Error; err != nil {
		t.Fatalf("seed card failed: %v", err)
	}

	// 随机函数永远命中同一个被占用的卡号，预算耗尽后必须报错
	env.allocator.randInt = func(n int) int { return 0 }

	_, err := env.allocator.Allocate(7)
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
}
