package service

import (
	"sync"
	"time"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"
)

// cardSnapshot 单个客户的卡片快照
// 整体重建而非增量修改，失效粒度粗一点换取无部分更新竞态。
type cardSnapshot struct {
	allCards           []models.CustomerCard
	unclaimedByProgram map[uint]models.CustomerCard
	claimedCounts      map[uint]int
	fetchedAt          time.Time
}

// DiscoveryProgram 发现页中的单个集换卡视图
type DiscoveryProgram struct {
	LoyaltyCard    models.LoyaltyCard   `json:"loyalty_card"`
	CustomerCard   *models.CustomerCard `json:"customer_card,omitempty"` // 客户进行中的会员卡（如有）
	ClaimedRewards int                  `json:"claimed_rewards"`         // 客户历史领奖次数
}

// DiscoveryItem 发现页中的单个商家视图
type DiscoveryItem struct {
	Business models.Business    `json:"business"`
	Programs []DiscoveryProgram `json:"programs"`
}

// DiscoveryPage 发现页单页结果
type DiscoveryPage struct {
	Items       []DiscoveryItem `json:"items"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	HasMoreData bool            `json:"has_more_data"`
}

// DiscoveryService 发现页聚合服务
// 按商家名分页拼装 Business × LoyaltyCard × CustomerCard 视图；
// 客户自身的卡片快照带 TTL 缓存，时钟可注入以便测试。
type DiscoveryService struct {
	businessRepo repository.BusinessRepository
	loyaltyRepo  repository.LoyaltyCardRepository
	cardRepo     repository.CustomerCardRepository
	rewardRepo   repository.RewardRepository

	pageSize int
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	snapshots map[uint]*cardSnapshot
	stale     map[uint]bool
}

// NewDiscoveryService 创建发现页聚合服务
func NewDiscoveryService(
	businessRepo repository.BusinessRepository,
	loyaltyRepo repository.LoyaltyCardRepository,
	cardRepo repository.CustomerCardRepository,
	rewardRepo repository.RewardRepository,
	cfg config.DiscoveryConfig,
) *DiscoveryService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = constants.DiscoveryPageSize
	}
	ttlSeconds := cfg.CacheTTLSeconds
	if ttlSeconds <= 0 {
		ttlSeconds = constants.DiscoveryCacheTTLSeconds
	}
	return &DiscoveryService{
		businessRepo: businessRepo,
		loyaltyRepo:  loyaltyRepo,
		cardRepo:     cardRepo,
		rewardRepo:   rewardRepo,
		pageSize:     pageSize,
		ttl:          time.Duration(ttlSeconds) * time.Second,
		now:          time.Now,
		snapshots:    make(map[uint]*cardSnapshot),
		stale:        make(map[uint]bool),
	}
}

// WithClock 注入时钟（测试用）
func (s *DiscoveryService) WithClock(now func() time.Time) *DiscoveryService {
	if now != nil {
		s.now = now
	}
	return s
}

// MarkStale 标记客户快照过期
// 加入/盖章/领奖后的跨界面刷新信号统一走这里。
func (s *DiscoveryService) MarkStale(customerID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale[customerID] = true
}

// Invalidate 立即清除客户快照
func (s *DiscoveryService) Invalidate(customerID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, customerID)
	delete(s.stale, customerID)
}

// ListPage 获取发现页单页
// 返回启用中、且至少有一个启用集换卡的商家，并拼入客户自身的
// 进行中会员卡与历史领奖次数。
func (s *DiscoveryService) ListPage(customerID uint, page int, forceRefresh bool) (*DiscoveryPage, error) {
	if page < 1 {
		page = 1
	}

	snapshot, err := s.customerSnapshot(customerID, forceRefresh)
	if err != nil {
		return nil, err
	}

	businesses, err := s.businessRepo.ListActivePage(page, s.pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]DiscoveryItem, 0, len(businesses))
	if len(businesses) > 0 {
		businessIDs := make([]uint, 0, len(businesses))
		for _, business := range businesses {
			businessIDs = append(businessIDs, business.ID)
		}

		programs, err := s.loyaltyRepo.ListActiveByBusinessIDs(businessIDs)
		if err != nil {
			return nil, err
		}
		programsByBusiness := make(map[uint][]models.LoyaltyCard)
		for _, program := range programs {
			programsByBusiness[program.BusinessID] = append(programsByBusiness[program.BusinessID], program)
		}

		for _, business := range businesses {
			businessPrograms := programsByBusiness[business.ID]
			if len(businessPrograms) == 0 {
				continue
			}
			item := DiscoveryItem{
				Business: business,
				Programs: make([]DiscoveryProgram, 0, len(businessPrograms)),
			}
			for _, program := range businessPrograms {
				snapshotProgram := program
				snapshotProgram.BusinessName = business.Name
				snapshotProgram.BusinessLogo = business.LogoURL
				view := DiscoveryProgram{
					LoyaltyCard:    snapshotProgram,
					ClaimedRewards: snapshot.claimedCounts[program.ID],
				}
				if card, ok := snapshot.unclaimedByProgram[program.ID]; ok {
					cardCopy := card
					view.CustomerCard = &cardCopy
				}
				item.Programs = append(item.Programs, view)
			}
			items = append(items, item)
		}
	}

	return &DiscoveryPage{
		Items:       items,
		Page:        page,
		PageSize:    s.pageSize,
		HasMoreData: len(businesses) == s.pageSize,
	}, nil
}

// CustomerStats 客户统计视图
type CustomerStats struct {
	TotalCards     int `json:"total_cards"`     // 历史会员卡总数
	ActiveCards    int `json:"active_cards"`    // 进行中会员卡数
	TotalStamps    int `json:"total_stamps"`    // 累计集章数
	ClaimedRewards int `json:"claimed_rewards"` // 历史领奖次数
}

// Stats 基于快照计算客户统计
func (s *DiscoveryService) Stats(customerID uint, forceRefresh bool) (*CustomerStats, error) {
	snapshot, err := s.customerSnapshot(customerID, forceRefresh)
	if err != nil {
		return nil, err
	}
	stats := &CustomerStats{
		TotalCards:  len(snapshot.allCards),
		ActiveCards: len(snapshot.unclaimedByProgram),
	}
	for _, card := range snapshot.allCards {
		stats.TotalStamps += card.CurrentStamps
	}
	for _, count := range snapshot.claimedCounts {
		stats.ClaimedRewards += count
	}
	return stats, nil
}

// customerSnapshot 获取客户卡片快照
// TTL 内且未被标记过期时直接命中；否则整体重建。
func (s *DiscoveryService) customerSnapshot(customerID uint, forceRefresh bool) (*cardSnapshot, error) {
	now := s.now()

	s.mu.Lock()
	cached, ok := s.snapshots[customerID]
	isStale := s.stale[customerID]
	s.mu.Unlock()

	if ok && !forceRefresh && !isStale && now.Sub(cached.fetchedAt) < s.ttl {
		return cached, nil
	}

	allCards, err := s.cardRepo.ListByCustomer(customerID, false)
	if err != nil {
		return nil, err
	}
	claimedCounts, err := s.rewardRepo.CountByCustomerGrouped(customerID)
	if err != nil {
		return nil, err
	}

	unclaimedByProgram := make(map[uint]models.CustomerCard)
	for _, card := range allCards {
		if !card.IsRewardClaimed {
			unclaimedByProgram[card.LoyaltyCardID] = card
		}
	}

	snapshot := &cardSnapshot{
		allCards:           allCards,
		unclaimedByProgram: unclaimedByProgram,
		claimedCounts:      claimedCounts,
		fetchedAt:          now,
	}

	s.mu.Lock()
	s.snapshots[customerID] = snapshot
	delete(s.stale, customerID)
	s.mu.Unlock()

	return snapshot, nil
}
