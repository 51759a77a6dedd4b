package service

import (
	"testing"

	"github.com/loyalty-next/internal/models"
)

func countRows(t *testing.T, env *testEnv, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	if err := env.db.Model(model).Where(where, args...).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func TestDeleteCustomerCardRemovesChildren(t *testing.T) {
	env := newTestEnv(t, "cascade_card")

	customer := env.createCustomer(t, "cascade@example.com", "Nel")
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

	if err := env.cascade.DeleteCustomerCard(card.ID); err != nil {
		t.Fatalf("cascade delete failed: %v", err)
	}

	if n := countRows(t, env, &models.Stamp{}, "customer_card_id = ?", card.ID); n != 0 {
		t.Fatalf("stamps not removed: %d", n)
	}
	if n := countRows(t, env, &models.StampActivity{}, "customer_card_id = ?", card.ID); n != 0 {
		t.Fatalf("activities not removed: %d", n)
	}
	if n := countRows(t, env, &models.Reward{}, "customer_card_id = ?", card.ID); n != 0 {
		t.Fatalf("rewards not removed: %d", n)
	}
	remaining, err := env.cardRepo.GetByID(card.ID)
	if err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if remaining != nil {
		t.Fatalf("card not removed")
	}
}

func TestDeleteCustomerCardIdempotent(t *testing.T) {
	env := newTestEnv(t, "cascade_idempotent")

	customer := env.createCustomer(t, "idem@example.com", "Oak")
	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 5)
	card, err := env.membership.Join(customer.ID, program.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if err := env.cascade.DeleteCustomerCard(card.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	// 重复删除同一张卡不报错
	if err := env.cascade.DeleteCustomerCard(card.ID); err != nil {
		t.Fatalf("second delete must be idempotent: %v", err)
	}
}

func TestDeleteLoyaltyCardRemovesAllMemberCards(t *testing.T) {
	env := newTestEnv(t, "cascade_program")

	business := env.createBusiness(t, "Cafe", 99)
	program := env.createProgram(t, business.ID, 3)

	cardIDs := make([]uint, 0, 3)
	for i := 0; i < 3; i++ {
		customer := env.createCustomer(t, "member"+string(rune('a'+i))+"@example.com", "Member")
		card, err := env.membership.Join(customer.ID, program.ID)
		if err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
		if _, err := env.stamps.AddStamp(card.ID); err != nil {
			t.Fatalf("stamp failed: %v", err)
		}
		cardIDs = append(cardIDs, card.ID)
	}

	if err := env.cascade.DeleteLoyaltyCard(program.ID); err != nil {
		t.Fatalf("cascade delete program failed: %v", err)
	}

	for _, id := range cardIDs {
		card, err := env.cardRepo.GetByID(id)
		if err != nil {
			t.Fatalf("reload card failed: %v", err)
		}
		if card != nil {
			t.Fatalf("card %d not removed", id)
		}
		if n := countRows(t, env, &models.Stamp{}, "customer_card_id = ?", id); n != 0 {
			t.Fatalf("stamps of card %d not removed", id)
		}
	}
	remaining, err := env.loyaltyRepo.GetByID(program.ID)
	if err != nil {
		t.Fatalf("reload program failed: %v", err)
	}
	if remaining != nil {
		t.Fatalf("program not removed")
	}

	// 幂等：目标已不存在时直接成功
	if err := env.cascade.DeleteLoyaltyCard(program.ID); err != nil {
		t.Fatalf("second program delete must be idempotent: %v", err)
	}
}
