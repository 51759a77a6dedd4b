package service

import (
	"errors"
	"testing"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
)

func TestAddStampIncrementsAndRecordsEvent(t *testing.T) {
	env := newTestEnv(t, "stamp_add")

	customer := env.createCustomer(t, "stamper@example.com", "Fay")
	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 10)
	card, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	result, err := env.stamps.AddStamp(card.ID)
	if err != nil {
		t.Fatalf("add stamp failed: %v", err)
	}
	if result.NewCount != 1 || result.Completed {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Card.LastStampDate == nil {
		t.Fatalf("last stamp date must be set")
	}

	var stampCount int64
	if err := env.db.Model(&models.Stamp{}).Where("customer_card_id = ?", card.ID).Count(&stampCount).Error; err != nil {
		t.Fatalf("count stamps failed: %v", err)
	}
	if stampCount != 1 {
		t.Fatalf("expected 1 stamp event, got %d", stampCount)
	}

	var activity models.StampActivity
	if err := env.db.Where("customer_card_id = ?", card.ID).First(&activity).Error; err != nil {
		t.Fatalf("load activity failed: %v", err)
	}
	if activity.Type != constants.ActivityTypeStamp || activity.StampCount != 1 {
		t.Fatalf("unexpected activity: %+v", activity)
	}
	if activity.BusinessName != "Cafe" || activity.CustomerName != "Fay" {
		t.Fatalf("expected denormalized names, got %+v", activity)
	}
}

func TestAddStampStopsAtTotalSlots(t *testing.T) {
	env := newTestEnv(t, "stamp_full")

	customer := env.createCustomer(t, "full@example.com", "Gil")
	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 3)
	card, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		result, err := env.stamps.AddStamp(card.ID)
		if err != nil {
			t.Fatalf("stamp %d failed: %v", i, err)
		}
		if result.NewCount != i {
			t.Fatalf("expected count %d, got %d", i, result.NewCount)
		}
		if result.Completed != (i == 3) {
			t.Fatalf("completed flag wrong at %d", i)
		}
	}

	// 已集满的卡不能继续累积
	if _, err := env.stamps.AddStamp(card.ID); !errors.Is(err, ErrCardNotStampable) {
		t.Fatalf("expected ErrCardNotStampable, got %v", err)
	}

	current, err := env.cardRepo.GetByID(card.ID)
	if err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if current.CurrentStamps != 3 {
		t.Fatalf("count must stay at total slots, got %d", current.CurrentStamps)
	}
}

func TestAddStampUnknownCard(t *testing.T) {
	env := newTestEnv(t, "stamp_unknown")

	if _, err := env.stamps.AddStamp(4242); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestAddStampByCodeResolvesWithinBusiness(t *testing.T) {
	env := newTestEnv(t, "stamp_by_code")

	customer := env.createCustomer(t, "bycode@example.com", "Hal")
	business := env.createBusiness(t, "Cafe", 99)
	other := env.createBusiness(t, "Other", 99)
	program := env.createProgram(t, business.ID, 5)
	card, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	result, err := env.stamps.AddStampByCode(card.CardCode, business.ID)
	if err != nil {
		t.Fatalf("stamp by code failed: %v", err)
	}
	if result.Card.ID != card.ID || result.NewCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// 卡号只在发卡商家范围内有效
	if _, err := env.stamps.AddStampByCode(card.CardCode, other.ID); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound for other business, got %v", err)
	}
}

func TestAddStampRejectedAfterClaim(t *testing.T) {
	env := newTestEnv(t, "stamp_after_claim")

	customer := env.createCustomer(t, "claimed@example.com", "Ida")
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

	if _, err := env.stamps.AddStamp(card.ID); !errors.Is(err, ErrCardNotStampable) {
		t.Fatalf("expected ErrCardNotStampable after claim, got %v", err)
	}
}
