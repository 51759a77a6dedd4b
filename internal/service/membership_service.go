package service

import (
	"errors"
	"time"

	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"gorm.io/gorm"
)

// CardCacheInvalidator 客户卡片快照失效通知
// 加入/盖章/领奖等动作完成后标记该客户的发现页快照过期，
// 跨界面的刷新信号统一走这里而不是层层传递。
type CardCacheInvalidator interface {
	MarkStale(customerID uint)
}

// MembershipService 会员注册服务
type MembershipService struct {
	cardRepo     repository.CustomerCardRepository
	loyaltyRepo  repository.LoyaltyCardRepository
	businessRepo repository.BusinessRepository
	userRepo     repository.UserRepository
	allocator    *CodeAllocator
	invalidator  CardCacheInvalidator
}

// NewMembershipService 创建会员注册服务
func NewMembershipService(
	cardRepo repository.CustomerCardRepository,
	loyaltyRepo repository.LoyaltyCardRepository,
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
	allocator *CodeAllocator,
	invalidator CardCacheInvalidator,
) *MembershipService {
	return &MembershipService{
		cardRepo:     cardRepo,
		loyaltyRepo:  loyaltyRepo,
		businessRepo: businessRepo,
		userRepo:     userRepo,
		allocator:    allocator,
		invalidator:  invalidator,
	}
}

// joinConflictRetries 唯一索引冲突（卡号撞号）后的重试次数
const joinConflictRetries = 3

// Join 客户加入某个集换卡计划
// 同一客户对同一集换卡同时最多持有一张未领奖的卡。查重和取号只是
// 快路径，最终一致性由 customer_cards 上的两条部分唯一索引保证：
// 并发加入同一集换卡时只有一个 INSERT 能落库，输家拿到
// ErrAlreadyMember；并发撞号则换号重试。
func (s *MembershipService) Join(customerID, loyaltyCardID uint) (*models.CustomerCard, error) {
	program, err := s.loyaltyRepo.GetByID(loyaltyCardID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	if !program.IsActive {
		return nil, ErrProgramInactive
	}

	customerName := ""
	if s.userRepo != nil {
		customer, err := s.userRepo.GetByID(customerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			customerName = customer.DisplayName
		}
	}

	var card *models.CustomerCard
	for attempt := 0; ; attempt++ {
		card, err = s.tryJoin(customerID, loyaltyCardID, program.BusinessID, customerName)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if err := s.classifyJoinConflict(customerID, loyaltyCardID); err != nil {
			return nil, err
		}
		// 撞的是卡号索引，换号再试
		if attempt+1 >= joinConflictRetries {
			return nil, ErrCodeExhausted
		}
	}

	if s.invalidator != nil {
		s.invalidator.MarkStale(customerID)
	}
	if err := s.Hydrate(card); err != nil {
		return nil, err
	}
	return card, nil
}

// tryJoin 单次加入尝试：查重、取号、落库在同一事务内
func (s *MembershipService) tryJoin(customerID, loyaltyCardID, businessID uint, customerName string) (*models.CustomerCard, error) {
	var card *models.CustomerCard
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		txCardRepo := s.cardRepo.WithTx(tx)

		existing, err := txCardRepo.GetUnclaimed(customerID, loyaltyCardID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyMember
		}

		code, err := s.allocator.WithRepo(txCardRepo).Allocate(businessID)
		if err != nil {
			return err
		}

		now := time.Now()
		card = &models.CustomerCard{
			CustomerID:      customerID,
			LoyaltyCardID:   loyaltyCardID,
			BusinessID:      businessID,
			CurrentStamps:   0,
			IsRewardClaimed: false,
			CardCode:        code,
			CustomerName:    customerName,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return txCardRepo.Create(card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// classifyJoinConflict 区分唯一索引冲突的来源
// 已有未领奖卡说明是并发重复加入，返回 ErrAlreadyMember；
// 否则是卡号撞号，返回 nil 让调用方换号重试。
func (s *MembershipService) classifyJoinConflict(customerID, loyaltyCardID uint) error {
	existing, err := s.cardRepo.GetUnclaimed(customerID, loyaltyCardID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyMember
	}
	return nil
}

// Get 获取会员卡并填充集换卡与商家快照
func (s *MembershipService) Get(cardID uint) (*models.CustomerCard, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if err := s.Hydrate(card); err != nil {
		return nil, err
	}
	return card, nil
}

// ListForCustomer 获取客户的会员卡
// unclaimedOnly=false 用于统计页（含历史），true 用于进行中卡片视图。
func (s *MembershipService) ListForCustomer(customerID uint, unclaimedOnly bool) ([]models.CustomerCard, error) {
	cards, err := s.cardRepo.ListByCustomer(customerID, unclaimedOnly)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateAll(cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListForLoyaltyCard 获取某集换卡下的会员卡（商家侧）
func (s *MembershipService) ListForLoyaltyCard(loyaltyCardID uint) ([]models.CustomerCard, error) {
	program, err := s.loyaltyRepo.GetByID(loyaltyCardID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	return s.cardRepo.ListByLoyaltyCard(loyaltyCardID)
}

// ListForBusinesses 批量获取多个商家下的会员卡（商家面板）
func (s *MembershipService) ListForBusinesses(businessIDs []uint) ([]models.CustomerCard, error) {
	if len(businessIDs) == 0 {
		return []models.CustomerCard{}, nil
	}
	cards, err := s.cardRepo.ListByBusinessIDs(businessIDs)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateAll(cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Hydrate 填充单张会员卡的集换卡与商家快照
// 快照与持久化分离：卡片本身只存外键，展示所需的冗余在读取时补齐。
func (s *MembershipService) Hydrate(card *models.CustomerCard) error {
	if card == nil {
		return nil
	}
	program, err := s.loyaltyRepo.GetByID(card.LoyaltyCardID)
	if err != nil {
		return err
	}
	if program == nil {
		return nil
	}
	business, err := s.businessRepo.GetByID(program.BusinessID)
	if err != nil {
		return err
	}
	if business != nil {
		program.BusinessName = business.Name
		program.BusinessLogo = business.LogoURL
	}
	card.LoyaltyCard = program
	return nil
}

func (s *MembershipService) hydrateAll(cards []models.CustomerCard) error {
	if len(cards) == 0 {
		return nil
	}

	programIDs := make([]uint, 0, len(cards))
	seen := make(map[uint]bool, len(cards))
	for _, card := range cards {
		if !seen[card.LoyaltyCardID] {
			seen[card.LoyaltyCardID] = true
			programIDs = append(programIDs, card.LoyaltyCardID)
		}
	}

	programs, err := s.loyaltyRepo.ListByIDs(programIDs)
	if err != nil {
		return err
	}
	programsByID := make(map[uint]models.LoyaltyCard, len(programs))
	businessIDs := make([]uint, 0, len(programs))
	seenBusiness := make(map[uint]bool, len(programs))
	for _, program := range programs {
		programsByID[program.ID] = program
		if !seenBusiness[program.BusinessID] {
			seenBusiness[program.BusinessID] = true
			businessIDs = append(businessIDs, program.BusinessID)
		}
	}

	businesses, err := s.businessRepo.ListByIDs(businessIDs)
	if err != nil {
		return err
	}
	businessesByID := make(map[uint]models.Business, len(businesses))
	for _, business := range businesses {
		businessesByID[business.ID] = business
	}

	for i := range cards {
		program, ok := programsByID[cards[i].LoyaltyCardID]
		if !ok {
			continue
		}
		snapshot := program
		if business, ok := businessesByID[snapshot.BusinessID]; ok {
			snapshot.BusinessName = business.Name
			snapshot.BusinessLogo = business.LogoURL
		}
		cards[i].LoyaltyCard = &snapshot
	}
	return nil
}
