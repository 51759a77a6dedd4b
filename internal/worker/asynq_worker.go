package worker

import (
	"context"
	"encoding/json"

	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/provider"
	"github.com/loyalty-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
// 通知任务只落事实日志，推送渠道（APNs/邮件等）由外部系统订阅日志流接入。
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskStampAdded, c.handleStampAdded)
	mux.HandleFunc(queue.TaskCardCompleted, c.handleCardCompleted)
	mux.HandleFunc(queue.TaskRewardClaimed, c.handleRewardClaimed)
}

func (c *Consumer) handleStampAdded(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_stamp_added_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.StampAddedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_stamp_added_unmarshal_failed", "error", err)
		return err
	}
	if payload.CustomerCardID == 0 {
		logger.Debugw("worker_stamp_added_skip_invalid_payload", "customer_card_id", payload.CustomerCardID)
		return nil
	}
	card, err := c.CustomerCardRepo.GetByID(payload.CustomerCardID)
	if err != nil {
		logger.Warnw("worker_stamp_added_fetch_card_failed", "customer_card_id", payload.CustomerCardID, "error", err)
		return err
	}
	if card == nil {
		// 卡在任务消费前被删除，通知失去对象
		logger.Debugw("worker_stamp_added_skip_card_not_found", "customer_card_id", payload.CustomerCardID)
		return nil
	}
	businessName := ""
	business, err := c.BusinessRepo.GetByID(payload.BusinessID)
	if err != nil {
		logger.Warnw("worker_stamp_added_fetch_business_failed", "business_id", payload.BusinessID, "error", err)
		return err
	}
	if business != nil {
		businessName = business.Name
	}
	logger.Infow("notify_stamp_added",
		"customer_card_id", card.ID,
		"customer_id", card.CustomerID,
		"business_id", payload.BusinessID,
		"business_name", businessName,
		"card_code", card.CardCode,
		"new_count", payload.NewCount,
		"total_slots", payload.TotalSlots,
	)
	return nil
}

func (c *Consumer) handleCardCompleted(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_card_completed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CardCompletedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_card_completed_unmarshal_failed", "error", err)
		return err
	}
	if payload.CustomerCardID == 0 {
		logger.Debugw("worker_card_completed_skip_invalid_payload", "customer_card_id", payload.CustomerCardID)
		return nil
	}
	card, err := c.CustomerCardRepo.GetByID(payload.CustomerCardID)
	if err != nil {
		logger.Warnw("worker_card_completed_fetch_card_failed", "customer_card_id", payload.CustomerCardID, "error", err)
		return err
	}
	if card == nil {
		logger.Debugw("worker_card_completed_skip_card_not_found", "customer_card_id", payload.CustomerCardID)
		return nil
	}
	logger.Infow("notify_card_completed",
		"customer_card_id", card.ID,
		"customer_id", card.CustomerID,
		"business_id", payload.BusinessID,
		"card_code", card.CardCode,
	)
	return nil
}

func (c *Consumer) handleRewardClaimed(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reward_claimed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.RewardClaimedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reward_claimed_unmarshal_failed", "error", err)
		return err
	}
	if payload.CustomerCardID == 0 {
		logger.Debugw("worker_reward_claimed_skip_invalid_payload", "customer_card_id", payload.CustomerCardID)
		return nil
	}
	businessName := ""
	business, err := c.BusinessRepo.GetByID(payload.BusinessID)
	if err != nil {
		logger.Warnw("worker_reward_claimed_fetch_business_failed", "business_id", payload.BusinessID, "error", err)
		return err
	}
	if business != nil {
		businessName = business.Name
	}
	logger.Infow("notify_reward_claimed",
		"customer_card_id", payload.CustomerCardID,
		"customer_id", payload.CustomerID,
		"business_id", payload.BusinessID,
		"business_name", businessName,
		"reward_id", payload.RewardID,
	)
	return nil
}
