package service

import (
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/queue"

	"github.com/hibiken/asynq"
)

// NotificationService 通知事件入队服务
// 只负责把业务事实推入队列，推送渠道由消费端决定；
// 入队失败记日志不回传，通知不阻塞主流程。
type NotificationService struct {
	queueClient *queue.Client
}

// NewNotificationService 创建通知事件入队服务
func NewNotificationService(queueClient *queue.Client) *NotificationService {
	return &NotificationService{queueClient: queueClient}
}

// StampAdded 盖章事件
func (s *NotificationService) StampAdded(card *models.CustomerCard, newCount, totalSlots int) {
	if s == nil || !s.queueClient.Enabled() || card == nil {
		return
	}
	payload := queue.StampAddedPayload{
		CustomerCardID: card.ID,
		CustomerID:     card.CustomerID,
		BusinessID:     card.BusinessID,
		NewCount:       newCount,
		TotalSlots:     totalSlots,
	}
	if err := s.queueClient.EnqueueStampAdded(payload, asynq.MaxRetry(5)); err != nil {
		logger.Errorw("notify_stamp_added_enqueue_failed",
			"customer_card_id", card.ID,
			"error", err,
		)
	}
}

// CardCompleted 集满事件
func (s *NotificationService) CardCompleted(card *models.CustomerCard) {
	if s == nil || !s.queueClient.Enabled() || card == nil {
		return
	}
	payload := queue.CardCompletedPayload{
		CustomerCardID: card.ID,
		CustomerID:     card.CustomerID,
		BusinessID:     card.BusinessID,
	}
	if err := s.queueClient.EnqueueCardCompleted(payload, asynq.MaxRetry(5)); err != nil {
		logger.Errorw("notify_card_completed_enqueue_failed",
			"customer_card_id", card.ID,
			"error", err,
		)
	}
}

// RewardClaimed 领奖事件
func (s *NotificationService) RewardClaimed(card *models.CustomerCard, reward *models.Reward) {
	if s == nil || !s.queueClient.Enabled() || card == nil {
		return
	}
	payload := queue.RewardClaimedPayload{
		CustomerCardID: card.ID,
		CustomerID:     card.CustomerID,
		BusinessID:     card.BusinessID,
	}
	if reward != nil {
		payload.RewardID = reward.ID
	}
	if err := s.queueClient.EnqueueRewardClaimed(payload, asynq.MaxRetry(5)); err != nil {
		logger.Errorw("notify_reward_claimed_enqueue_failed",
			"customer_card_id", card.ID,
			"error", err,
		)
	}
}
