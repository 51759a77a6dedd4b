package service

import (
	"errors"
	"testing"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
)

func TestClaimEligibleCardProducesSingleReward(t *testing.T) {
	env := newTestEnv(t, "reward_claim")

	customer := env.createCustomer(t, "claimer@example.com", "Joy")
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

	reward, err := env.rewards.Claim(card.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if reward.CustomerCardID != card.ID || !reward.IsRedeemed || reward.RedeemedAt == nil {
		t.Fatalf("unexpected reward: %+v", reward)
	}

	updated, err := env.cardRepo.GetByID(card.ID)
	if err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if !updated.IsRewardClaimed {
		t.Fatalf("card must be marked claimed")
	}

	var rewardCount int64
	if err := env.db.Model(&models.Reward{}).Where("customer_card_id = ?", card.ID).Count(&rewardCount).Error; err != nil {
		t.Fatalf("count rewards failed: %v", err)
	}
	if rewardCount != 1 {
		t.Fatalf("expected exactly one reward row, got %d", rewardCount)
	}
}

func TestClaimTwiceReturnsIneligible(t *testing.T) {
	env := newTestEnv(t, "reward_claim_twice")

	customer := env.createCustomer(t, "twice@example.com", "Kim")
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
		t.Fatalf("first claim failed: %v", err)
	}

	if _, err := env.rewards.Claim(card.ID); !errors.Is(err, ErrIneligibleClaim) {
		t.Fatalf("expected ErrIneligibleClaim, got %v", err)
	}

	var rewardCount int64
	if err := env.db.Model(&models.Reward{}).Where("customer_card_id = ?", card.ID).Count(&rewardCount).Error; err != nil {
		t.Fatalf("count rewards failed: %v", err)
	}
	if rewardCount != 1 {
		t.Fatalf("second claim must not add a reward row, got %d", rewardCount)
	}
}

func TestClaimIncompleteCardRejected(t *testing.T) {
	env := newTestEnv(t, "reward_claim_incomplete")

	customer := env.createCustomer(t, "early@example.com", "Lia")
	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 10)
	card, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	for i := 0; i < 9; i++ {
		if _, err := env.stamps.AddStamp(card.ID); err != nil {
			t.Fatalf("stamp failed: %v", err)
		}
	}

	// 9/10 不够格，资格按服务端计数校验
	if _, err := env.rewards.Claim(card.ID); !errors.Is(err, ErrIneligibleClaim) {
		t.Fatalf("expected ErrIneligibleClaim at 9/10, got %v", err)
	}
}

func TestClaimByCodeWritesRedeemActivity(t *testing.T) {
	env := newTestEnv(t, "reward_claim_by_code")

	customer := env.createCustomer(t, "redeem@example.com", "Mia")
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

	reward, err := env.rewards.ClaimByCode(card.CardCode, business.ID)
	if err != nil {
		t.Fatalf("claim by code failed: %v", err)
	}
	if reward.CustomerCardID != card.ID {
		t.Fatalf("unexpected reward card: %d", reward.CustomerCardID)
	}

	var activity models.StampActivity
	err = env.db.Where("customer_card_id = ? AND type = ?", card.ID, constants.ActivityTypeRewardClaimed).
		First(&activity).Error
	if err != nil {
		t.Fatalf("load redeem activity failed: %v", err)
	}
	if activity.Note != constants.ActivityNoteRewardRedeemed {
		t.Fatalf("unexpected note: %q", activity.Note)
	}
}
