package service

import (
	"time"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"gorm.io/gorm"
)

// StampService 集章服务
// 一次盖章 = 一条不可变 Stamp 事件 + 卡面计数更新 + 一条活动流投影，
// 三者在同一事务内提交，计数更新为条件自增，避免并发盖章丢更新。
type StampService struct {
	cardRepo     repository.CustomerCardRepository
	loyaltyRepo  repository.LoyaltyCardRepository
	businessRepo repository.BusinessRepository
	stampRepo    repository.StampRepository
	activityRepo repository.StampActivityRepository
	notifier     *NotificationService
	invalidator  CardCacheInvalidator
}

// StampResult 盖章结果
type StampResult struct {
	Card       *models.CustomerCard // 更新后的会员卡
	NewCount   int                  // 盖章后的计数
	TotalSlots int                  // 集章格数
	Completed  bool                 // 本次盖章是否集满
}

// NewStampService 创建集章服务
func NewStampService(
	cardRepo repository.CustomerCardRepository,
	loyaltyRepo repository.LoyaltyCardRepository,
	businessRepo repository.BusinessRepository,
	stampRepo repository.StampRepository,
	activityRepo repository.StampActivityRepository,
	notifier *NotificationService,
	invalidator CardCacheInvalidator,
) *StampService {
	return &StampService{
		cardRepo:     cardRepo,
		loyaltyRepo:  loyaltyRepo,
		businessRepo: businessRepo,
		stampRepo:    stampRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		invalidator:  invalidator,
	}
}

// AddStamp 为会员卡追加一枚印章
func (s *StampService) AddStamp(customerCardID uint) (*StampResult, error) {
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
	var updated *models.CustomerCard
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		txCardRepo := s.cardRepo.WithTx(tx)

		ok, err := txCardRepo.IncrementStamps(card.ID, program.TotalSlots, now)
		if err != nil {
			return err
		}
		if !ok {
			// 条件更新未命中：卡已领奖、已集满或已被删除
			current, err := txCardRepo.GetByID(card.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return ErrCardNotFound
			}
			return ErrCardNotStampable
		}

		updated, err = txCardRepo.GetByID(card.ID)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrCardNotFound
		}

		stamp := &models.Stamp{
			CustomerCardID: card.ID,
			CustomerID:     card.CustomerID,
			BusinessID:     card.BusinessID,
			LoyaltyCardID:  card.LoyaltyCardID,
			Timestamp:      now,
		}
		if err := s.stampRepo.WithTx(tx).Create(stamp); err != nil {
			return err
		}

		activity := &models.StampActivity{
			CustomerCardID: card.ID,
			CustomerID:     card.CustomerID,
			BusinessID:     card.BusinessID,
			LoyaltyCardID:  card.LoyaltyCardID,
			Type:           constants.ActivityTypeStamp,
			CustomerName:   card.CustomerName,
			BusinessName:   businessName,
			StampCount:     updated.CurrentStamps,
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

	completed := updated.CurrentStamps >= program.TotalSlots
	if s.notifier != nil {
		s.notifier.StampAdded(updated, updated.CurrentStamps, program.TotalSlots)
		if completed {
			s.notifier.CardCompleted(updated)
		}
	}

	return &StampResult{
		Card:       updated,
		NewCount:   updated.CurrentStamps,
		TotalSlots: program.TotalSlots,
		Completed:  completed,
	}, nil
}

// ListActivities 分页查询活动流
func (s *StampService) ListActivities(filter repository.ActivityListFilter) ([]models.StampActivity, int64, error) {
	return s.activityRepo.List(filter)
}

// AddStampByCode 商家凭卡号盖章
// 卡号在商家范围内的未领奖卡中唯一，定位后委托 AddStamp。
func (s *StampService) AddStampByCode(code string, businessID uint) (*StampResult, error) {
	card, err := s.cardRepo.GetUnclaimedByCode(code, businessID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	return s.AddStamp(card.ID)
}
