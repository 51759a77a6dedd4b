package service

import (
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/repository"
)

// CascadeService 级联删除编排
// 删除集换卡或会员卡时连带清理 Stamps/StampActivities/Rewards。
// 子项先行、父记录收尾；逐项记录失败并以 IncompleteDeletionError
// 返回未删净的记录，调用方重试同一调用即可补删（删除幂等）。
type CascadeService struct {
	cardRepo     repository.CustomerCardRepository
	loyaltyRepo  repository.LoyaltyCardRepository
	stampRepo    repository.StampRepository
	activityRepo repository.StampActivityRepository
	rewardRepo   repository.RewardRepository
	invalidator  CardCacheInvalidator
}

// NewCascadeService 创建级联删除编排
func NewCascadeService(
	cardRepo repository.CustomerCardRepository,
	loyaltyRepo repository.LoyaltyCardRepository,
	stampRepo repository.StampRepository,
	activityRepo repository.StampActivityRepository,
	rewardRepo repository.RewardRepository,
	invalidator CardCacheInvalidator,
) *CascadeService {
	return &CascadeService{
		cardRepo:     cardRepo,
		loyaltyRepo:  loyaltyRepo,
		stampRepo:    stampRepo,
		activityRepo: activityRepo,
		rewardRepo:   rewardRepo,
		invalidator:  invalidator,
	}
}

// DeleteCustomerCard 删除单张会员卡及其全部子记录
// 对已不存在的卡直接返回成功，保证重复调用幂等。
func (s *CascadeService) DeleteCustomerCard(customerCardID uint) error {
	card, err := s.cardRepo.GetByID(customerCardID)
	if err != nil {
		return err
	}
	if card == nil {
		return nil
	}

	failed := s.deleteCardChildren(customerCardID)
	if len(failed) == 0 {
		if err := s.cardRepo.Delete(customerCardID); err != nil {
			failed = append(failed, FailedDeletion{Collection: "customer_cards", ID: customerCardID, Err: err})
		}
	} else {
		// 子记录未删净时保留父记录，便于重试时重新枚举
		logger.Warnw("cascade_card_children_incomplete", "customer_card_id", customerCardID, "failed", len(failed))
	}

	if s.invalidator != nil {
		s.invalidator.MarkStale(card.CustomerID)
	}
	if len(failed) > 0 {
		return &IncompleteDeletionError{Failed: failed}
	}
	return nil
}

// DeleteLoyaltyCard 删除集换卡及其下全部会员卡与子记录
func (s *CascadeService) DeleteLoyaltyCard(loyaltyCardID uint) error {
	program, err := s.loyaltyRepo.GetByID(loyaltyCardID)
	if err != nil {
		return err
	}
	if program == nil {
		return nil
	}

	cards, err := s.cardRepo.ListByLoyaltyCard(loyaltyCardID)
	if err != nil {
		return err
	}

	var failed []FailedDeletion
	for _, card := range cards {
		cardFailed := s.deleteCardChildren(card.ID)
		if len(cardFailed) > 0 {
			failed = append(failed, cardFailed...)
			continue
		}
		if err := s.cardRepo.Delete(card.ID); err != nil {
			failed = append(failed, FailedDeletion{Collection: "customer_cards", ID: card.ID, Err: err})
			continue
		}
		if s.invalidator != nil {
			s.invalidator.MarkStale(card.CustomerID)
		}
	}

	if len(failed) > 0 {
		logger.Warnw("cascade_program_incomplete", "loyalty_card_id", loyaltyCardID, "failed", len(failed))
		return &IncompleteDeletionError{Failed: failed}
	}

	if err := s.loyaltyRepo.Delete(loyaltyCardID); err != nil {
		return &IncompleteDeletionError{Failed: []FailedDeletion{
			{Collection: "loyalty_cards", ID: loyaltyCardID, Err: err},
		}}
	}
	return nil
}

// deleteCardChildren 删除某会员卡的子记录，返回失败项
func (s *CascadeService) deleteCardChildren(customerCardID uint) []FailedDeletion {
	var failed []FailedDeletion
	if err := s.stampRepo.DeleteByCard(customerCardID); err != nil {
		failed = append(failed, FailedDeletion{Collection: "stamps", ID: customerCardID, Err: err})
	}
	if err := s.activityRepo.DeleteByCard(customerCardID); err != nil {
		failed = append(failed, FailedDeletion{Collection: "stamp_activities", ID: customerCardID, Err: err})
	}
	if err := s.rewardRepo.DeleteByCard(customerCardID); err != nil {
		failed = append(failed, FailedDeletion{Collection: "rewards", ID: customerCardID, Err: err})
	}
	return failed
}
