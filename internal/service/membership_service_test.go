package service

import (
	"errors"
	"strconv"
	"testing"

	"github.com/loyalty-next/internal/models"

	"gorm.io/gorm"
)

func TestJoinCreatesCardWithCodeAndSnapshot(t *testing.T) {
	env := newTestEnv(t, "membership_join")

	customer := env.createCustomer(t, "joiner@example.com", "Alice")
	business := env.createBusiness(t, "Blue Bottle", 99)
	program := env.createProgram(t, business.ID, 10)

	card, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if card.BusinessID != business.ID {
		t.Fatalf("expected business %d, got %d", business.ID, card.BusinessID)
	}
	if card.CurrentStamps != 0 || card.IsRewardClaimed {
		t.Fatalf("new card must start empty, got %+v", card)
	}
	if card.CustomerName != "Alice" {
		t.Fatalf("expected customer name snapshot, got %q", card.CustomerName)
	}
	value, err := strconv.Atoi(card.CardCode)
	if err != nil || value < 100 || value > 999 {
		t.Fatalf("card code out of range: %q", card.CardCode)
	}
	if card.LoyaltyCard == nil || card.LoyaltyCard.BusinessName != "Blue Bottle" {
		t.Fatalf("expected hydrated program snapshot, got %+v", card.LoyaltyCard)
	}
}

func TestJoinTwiceReturnsAlreadyMember(t *testing.T) {
	env := newTestEnv(t, "membership_join_twice")

	customer := env.createCustomer(t, "twice@example.com", "Bob")
	business := env.createBusiness(t, "Corner Shop", 99)
	program := env.createProgram(t, business.ID, 6)

	if _, err := env.membership.Join(customer.ID, program.ID); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	_, err := env.membership.Join(customer.ID, program.ID)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestJoinAgainAfterClaimCreatesFreshCard(t *testing.T) {
	env := newTestEnv(t, "membership_rejoin")

	customer := env.createCustomer(t, "rejoin@example.com", "Cara")
	business := env.createBusiness(t, "Juice Bar", 99)
	program := env.createProgram(t, business.ID, 3)

	first, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := env.stamps.AddStamp(first.ID); err != nil {
			t.Fatalf("stamp %d failed: %v", i+1, err)
		}
	}
	if _, err := env.rewards.Claim(first.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	second, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("rejoin after claim failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("rejoin must create a new card")
	}
	if second.CurrentStamps != 0 || second.IsRewardClaimed {
		t.Fatalf("fresh card must start empty, got %+v", second)
	}
}

func TestConcurrentJoinLoserHitsUniqueIndex(t *testing.T) {
	env := newTestEnv(t, "membership_race_pair")

	customer := env.createCustomer(t, "racer@example.com", "Rai")
	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 5)

	if _, err := env.membership.Join(customer.ID, program.ID); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// 并发输家的写入：查重已过、对方先落库，INSERT 撞部分唯一索引
	loser := models.CustomerCard{
		CustomerID:    customer.ID,
		LoyaltyCardID: program.ID,
		BusinessID:    business.ID,
		CardCode:      "998",
	}
	if err := env.db.Create(&loser).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key for second unclaimed card, got %v", err)
	}

	// 冲突归因：未领奖卡已存在时判定为重复加入
	if err := env.membership.classifyJoinConflict(customer.ID, program.ID); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember from conflict, got %v", err)
	}

	var count int64
	if err := env.db.Model(&models.CustomerCard{}).
		Where("customer_id = ? AND loyalty_card_id = ? AND is_reward_claimed = ?", customer.ID, program.ID, false).
		Count(&count).Error; err != nil {
		t.Fatalf("count cards failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("exactly one unclaimed card must exist, got %d", count)
	}
}

func TestUniqueIndexReleasedAfterClaim(t *testing.T) {
	env := newTestEnv(t, "membership_index_claimed")

	customer := env.createCustomer(t, "released@example.com", "Remy")
	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 3)

	card, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := env.stamps.AddStamp(card.ID); err != nil {
			t.Fatalf("stamp failed: %v", err)
		}
	}
	if _, err := env.rewards.Claim(card.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// 已领奖的行退出约束范围，同一客户可再建未领奖卡，卡号也可复用
	fresh := models.CustomerCard{
		CustomerID:    customer.ID,
		LoyaltyCardID: program.ID,
		BusinessID:    business.ID,
		CardCode:      card.CardCode,
	}
	if err := env.db.Create(&fresh).Error; err != nil {
		t.Fatalf("insert after claim must pass the partial index: %v", err)
	}

	// 换号重试的判定：没有未领奖卡时冲突归因为撞号
	if err := env.membership.classifyJoinConflict(customer.ID+1, program.ID); err != nil {
		t.Fatalf("code collision must be retryable, got %v", err)
	}
}

func TestConcurrentCodeAllocationLoserHitsUniqueIndex(t *testing.T) {
	env := newTestEnv(t, "membership_race_code")

	alice := env.createCustomer(t, "alice-code@example.com", "Alice")
	bob := env.createCustomer(t, "bob-code@example.com", "Bob")
	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 5)

	first, err := env.membership.Join(alice.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// 并发取号输家：两边都抽中同一个空闲卡号，后写的撞索引
	loser := models.CustomerCard{
		CustomerID:    bob.ID,
		LoyaltyCardID: program.ID,
		BusinessID:    business.ID,
		CardCode:      first.CardCode,
	}
	if err := env.db.Create(&loser).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key for colliding code, got %v", err)
	}

	// 同号不同商家不受约束
	other := env.createBusiness(t, "Other", 99)
	otherProgram := env.createProgram(t, other.ID, 5)
	elsewhere := models.CustomerCard{
		CustomerID:    bob.ID,
		LoyaltyCardID: otherProgram.ID,
		BusinessID:    other.ID,
		CardCode:      first.CardCode,
	}
	if err := env.db.Create(&elsewhere).Error; err != nil {
		t.Fatalf("same code in another business must pass: %v", err)
	}
}

func TestJoinMissingOrInactiveProgram(t *testing.T) {
	env := newTestEnv(t, "membership_join_invalid")

	customer := env.createCustomer(t, "invalid@example.com", "Dan")

	if _, err := env.membership.Join(customer.ID, 12345); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}

	business := env.createBusiness(t, "Closed Cafe", 99)
	program := env.createProgram(t, business.ID, 10)
	if err := env.db.Model(&program).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate program failed: %v", err)
	}
	if _, err := env.membership.Join(customer.ID, program.ID); !errors.Is(err, ErrProgramInactive) {
		t.Fatalf("expected ErrProgramInactive, got %v", err)
	}
}

func TestListForCustomerHydratesAndFilters(t *testing.T) {
	env := newTestEnv(t, "membership_list")

	customer := env.createCustomer(t, "lister@example.com", "Eve")
	business := env.createBusiness(t, "Bakery", 99)
	programA := env.createProgram(t, business.ID, 3)
	programB := env.createProgram(t, business.ID, 5)

	cardA, err := env.membership.Join(customer.ID, programA.ID)
	if err != nil {
		t.Fatalf("join A failed: %v", err)
	}
	if _, err := env.membership.Join(customer.ID, programB.ID); err != nil {
		t.Fatalf("join B failed: %v", err)
	}

	// 集满并领取 A，之后 unclaimedOnly 只剩 B
	for i := 0; i < 3; i++ {
		if _, err := env.stamps.AddStamp(cardA.ID); err != nil {
			t.Fatalf("stamp failed: %v", err)
		}
	}
	if _, err := env.rewards.Claim(cardA.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	all, err := env.membership.ListForCustomer(customer.ID, false)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(all))
	}
	for _, card := range all {
		if card.LoyaltyCard == nil || card.LoyaltyCard.BusinessName != "Bakery" {
			t.Fatalf("expected hydrated snapshot on card %d", card.ID)
		}
	}

	unclaimed, err := env.membership.ListForCustomer(customer.ID, true)
	if err != nil {
		t.Fatalf("list unclaimed failed: %v", err)
	}
	if len(unclaimed) != 1 || unclaimed[0].LoyaltyCardID != programB.ID {
		t.Fatalf("expected only program B card, got %+v", unclaimed)
	}
}
