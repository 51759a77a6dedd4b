package service

import (
	"time"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"gorm.io/gorm"
)

// RewardService 奖励领取服务
// 状态机：Active（未集满）-> Eligible（已集满未领）-> Claimed（终态）。
// 领奖标记通过条件更新翻转，保证每张卡恰好产生一条 Reward 审计记录。
type RewardService struct {
	cardRepo     repository.CustomerCardRepository
	loyaltyRepo  repository.LoyaltyCardRepository
	businessRepo repository.BusinessRepository
	rewardRepo   repository.RewardRepository
	activityRepo repository.StampActivityRepository
	notifier     *NotificationService
	invalidator  CardCacheInvalidator
}

// NewRewardService 创建奖励领取服务
func NewRewardService(
	cardRepo repository.CustomerCardRepository,
	loyaltyRepo repository.LoyaltyCardRepository,
	businessRepo repository.BusinessRepository,
	rewardRepo repository.RewardRepository,
	activityRepo repository.StampActivityRepository,
	notifier *NotificationService,
	invalidator CardCacheInvalidator,
) *RewardService {
	return &RewardService{
		cardRepo:     cardRepo,
		loyaltyRepo:  loyaltyRepo,
		businessRepo: businessRepo,
		rewardRepo:   rewardRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		invalidator:  invalidator,
	}
}

// Claim 领取奖励
// 资格在服务端按当前计数重新校验，不信任客户端上报；
// 已领取的卡是终态，重新参与需要重新 Join 生成新卡新卡号。
func (s *RewardService) Claim(customerCardID uint) (*models.Reward, error) {
	return s.claim(customerCardID, false)
}

// ClaimByCode 商家凭卡号核销奖励
// 额外在活动流写入一条「reward redeemed」事件供商家端展示。
func (s *RewardService) ClaimByCode(code string, businessID uint) (*models.Reward, error) {
	card, err := s.cardRepo.GetUnclaimedByCode(code, businessID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	return s.claim(card.ID, true)
}

func (s *RewardService) claim(customerCardID uint, withActivity bool) (*models.Reward, error) {
	card, err := s.cardRepo.GetByID(customerCardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	program, err := s.loyaltyRepo.GetByID(card.LoyaltyCardID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	businessName := ""
	business, err := s.businessRepo.GetByID(card.BusinessID)
	if err != nil {
		return nil, err
	}
	if business != nil {
		businessName = business.Name
	}

	now := time.Now()
	var reward *models.Reward
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.cardRepo.WithTx(tx).MarkClaimed(card.ID, program.TotalSlots)
		if err != nil {
			return err
		}
		if !ok {
			return ErrIneligibleClaim
		}

		reward = &models.Reward{
			CustomerCardID: card.ID,
			CustomerID:     card.CustomerID,
			BusinessID:     card.BusinessID,
			LoyaltyCardID:  card.LoyaltyCardID,
			ClaimedAt:      now,
			RedeemedAt:     &now,
			IsRedeemed:     true,
		}
		if err := s.rewardRepo.WithTx(tx).Create(reward); err != nil {
			return err
		}

		if !withActivity {
			return nil
		}
		activity := &models.StampActivity{
			CustomerCardID: card.ID,
			CustomerID:     card.CustomerID,
			BusinessID:     card.BusinessID,
			LoyaltyCardID:  card.LoyaltyCardID,
			Type:           constants.ActivityTypeRewardClaimed,
			CustomerName:   card.CustomerName,
			BusinessName:   businessName,
			StampCount:     card.CurrentStamps,
			Note:           constants.ActivityNoteRewardRedeemed,
			Timestamp:      now,
		}
		return s.activityRepo.WithTx(tx).Create(activity)
	})
	if err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.MarkStale(card.CustomerID)
	}
	if s.notifier != nil {
		s.notifier.RewardClaimed(card, reward)
	}
	return reward, nil
}

// ListForBusiness 获取某商家的奖励记录
func (s *RewardService) ListForBusiness(businessID uint) ([]models.Reward, error) {
	return s.rewardRepo.ListByBusiness(businessID)
}
