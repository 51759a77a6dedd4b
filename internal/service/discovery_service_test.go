package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/models"
)

// mustJoinDirect 绕过服务层直接落库一张会员卡，缓存感知类测试用
func (env *testEnv) mustJoinDirect(t *testing.T, customerID, programID, businessID uint, code string) *models.CustomerCard {
	t.Helper()

	card := &models.CustomerCard{
		CustomerID:    customerID,
		LoyaltyCardID: programID,
		BusinessID:    businessID,
		CardCode:      code,
	}
	if err := env.db.Create(card).Error; err != nil {
		t.Fatalf("create card failed: %v", err)
	}
	return card
}

// programView 在页面结果中定位指定集换卡的视图，找不到返回零值
func programView(page *DiscoveryPage, programID uint) DiscoveryProgram {
	for _, item := range page.Items {
		for _, view := range item.Programs {
			if view.LoyaltyCard.ID == programID {
				return view
			}
		}
	}
	return DiscoveryProgram{}
}

func TestDiscoveryPageGroupsProgramsByBusiness(t *testing.T) {
	env := newTestEnv(t, "discovery_page")

	customer := env.createCustomer(t, "browse@example.com", "Pia")
	cafe := env.createBusiness(t, "Aroma Cafe", 99)
	bakery := env.createBusiness(t, "Bread & Co", 99)
	empty := env.createBusiness(t, "Closed Soon", 99)
	_ = empty // 没有启用集换卡的商家不出现在发现页

	cafeProgram := env.createProgram(t, cafe.ID, 5)
	env.createProgram(t, bakery.ID, 8)

	card, err := env.membership.Join(customer.ID, cafeProgram.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	page, err := env.discovery.ListPage(customer.ID, 1, false)
	if err != nil {
		t.Fatalf("list page failed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 businesses, got %d", len(page.Items))
	}
	// 按商家名排序：Aroma Cafe 在前
	if page.Items[0].Business.Name != "Aroma Cafe" || page.Items[1].Business.Name != "Bread & Co" {
		t.Fatalf("unexpected ordering: %q, %q", page.Items[0].Business.Name, page.Items[1].Business.Name)
	}
	if page.HasMoreData {
		t.Fatalf("expected no more data for 2 businesses")
	}

	cafeItem := page.Items[0]
	if len(cafeItem.Programs) != 1 {
		t.Fatalf("expected 1 program, got %d", len(cafeItem.Programs))
	}
	view := cafeItem.Programs[0]
	if view.CustomerCard == nil || view.CustomerCard.ID != card.ID {
		t.Fatalf("expected customer card folded in, got %+v", view.CustomerCard)
	}
	if view.LoyaltyCard.BusinessName != "Aroma Cafe" {
		t.Fatalf("expected business snapshot on program, got %q", view.LoyaltyCard.BusinessName)
	}
}

func TestDiscoveryPaginationHasMoreData(t *testing.T) {
	env := newTestEnv(t, "discovery_pagination")

	customer := env.createCustomer(t, "pager@example.com", "Quinn")
	for i := 0; i < 12; i++ {
		business := env.createBusiness(t, fmt.Sprintf("Shop %02d", i), 99)
		env.createProgram(t, business.ID, 5)
	}

	first, err := env.discovery.ListPage(customer.ID, 1, false)
	if err != nil {
		t.Fatalf("first page failed: %v", err)
	}
	if len(first.Items) != 10 || !first.HasMoreData {
		t.Fatalf("expected full first page with more data, got %d items more=%v", len(first.Items), first.HasMoreData)
	}

	second, err := env.discovery.ListPage(customer.ID, 2, false)
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(second.Items) != 2 || second.HasMoreData {
		t.Fatalf("expected short last page, got %d items more=%v", len(second.Items), second.HasMoreData)
	}
}

func TestDiscoverySnapshotHonorsTTLAndStaleFlag(t *testing.T) {
	env := newTestEnv(t, "discovery_ttl")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.discovery.WithClock(func() time.Time { return now })

	customer := env.createCustomer(t, "ttl@example.com", "Rae")
	business := env.createBusiness(t, "Cafe", 99)
	programA := env.createProgram(t, business.ID, 5)
	programB := env.createProgram(t, business.ID, 8)

	// 固定取号起点，避开下方手工落库的卡号
	env.allocator.randInt = func(int) int { return 0 }

	if _, err := env.membership.Join(customer.ID, programA.ID); err != nil {
		t.Fatalf("join A failed: %v", err)
	}
	// Join 已将快照标记过期，先读一次建立缓存
	page, err := env.discovery.ListPage(customer.ID, 1, false)
	if err != nil {
		t.Fatalf("warm up failed: %v", err)
	}
	if programView(page, programA.ID).CustomerCard == nil {
		t.Fatalf("expected card in warm snapshot")
	}

	// 绕开服务直接落库，TTL 内快照不感知新卡
	card := env.mustJoinDirect(t, customer.ID, programB.ID, business.ID, "555")

	now = now.Add(time.Minute)
	page, err = env.discovery.ListPage(customer.ID, 1, false)
	if err != nil {
		t.Fatalf("cached page failed: %v", err)
	}
	if programView(page, programB.ID).CustomerCard != nil {
		t.Fatalf("snapshot must not see direct insert within TTL")
	}

	// force_refresh 立即重建
	page, err = env.discovery.ListPage(customer.ID, 1, true)
	if err != nil {
		t.Fatalf("forced page failed: %v", err)
	}
	if view := programView(page, programB.ID); view.CustomerCard == nil || view.CustomerCard.ID != card.ID {
		t.Fatalf("forced refresh must rebuild snapshot")
	}

	// TTL 过期后自动重建
	env.db.Delete(card)
	now = now.Add(6 * time.Minute)
	page, err = env.discovery.ListPage(customer.ID, 1, false)
	if err != nil {
		t.Fatalf("expired page failed: %v", err)
	}
	if programView(page, programB.ID).CustomerCard != nil {
		t.Fatalf("expired snapshot must rebuild")
	}

	// MarkStale 等价于立即过期
	card2 := env.mustJoinDirect(t, customer.ID, programB.ID, business.ID, "556")
	env.discovery.MarkStale(customer.ID)
	page, err = env.discovery.ListPage(customer.ID, 1, false)
	if err != nil {
		t.Fatalf("stale page failed: %v", err)
	}
	if view := programView(page, programB.ID); view.CustomerCard == nil || view.CustomerCard.ID != card2.ID {
		t.Fatalf("stale flag must trigger rebuild")
	}
}

func TestDiscoveryStats(t *testing.T) {
	env := newTestEnv(t, "discovery_stats")

	customer := env.createCustomer(t, "stats@example.com", "Sol")
	business := env.createBusiness(t, "Cafe", 99)
	programA := env.createProgram(t, business.ID, 3)
	programB := env.createProgram(t, business.ID, 5)

	cardA, err := env.membership.Join(customer.ID, programA.ID)
	if err != nil {
		t.Fatalf("join A failed: %v", err)
	}
	cardB, err := env.membership.Join(customer.ID, programB.ID)
	if err != nil {
		t.Fatalf("join B failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := env.stamps.AddStamp(cardA.ID); err != nil {
			t.Fatalf("stamp A failed: %v", err)
		}
	}
	if _, err := env.stamps.AddStamp(cardB.ID); err != nil {
		t.Fatalf("stamp B failed: %v", err)
	}
	if _, err := env.rewards.Claim(cardA.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	stats, err := env.discovery.Stats(customer.ID, false)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalCards != 2 || stats.ActiveCards != 1 {
		t.Fatalf("unexpected card counts: %+v", stats)
	}
	if stats.TotalStamps != 4 {
		t.Fatalf("expected 4 stamps total, got %d", stats.TotalStamps)
	}
	if stats.ClaimedRewards != 1 {
		t.Fatalf("expected 1 claimed reward, got %d", stats.ClaimedRewards)
	}
}

func TestDiscoveryPageSizeFromConfig(t *testing.T) {
	env := newTestEnv(t, "discovery_config")

	svc := NewDiscoveryService(env.businessRepo, env.loyaltyRepo, env.cardRepo, env.rewardRepo, config.DiscoveryConfig{
		PageSize:        3,
		CacheTTLSeconds: 60,
	})

	customer := env.createCustomer(t, "cfg@example.com", "Tam")
	for i := 0; i < 4; i++ {
		business := env.createBusiness(t, fmt.Sprintf("Cfg %02d", i), 99)
		env.createProgram(t, business.ID, 5)
	}

	page, err := svc.ListPage(customer.ID, 1, false)
	if err != nil {
		t.Fatalf("list page failed: %v", err)
	}
	if page.PageSize != 3 || len(page.Items) != 3 || !page.HasMoreData {
		t.Fatalf("expected configured page size 3, got %+v", page)
	}
}
