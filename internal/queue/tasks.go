package queue

import (
	"encoding/json"

	"github.com/loyalty-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskStampAdded 盖章通知任务
	TaskStampAdded = constants.TaskStampAdded
	// TaskCardCompleted 集满通知任务
	TaskCardCompleted = constants.TaskCardCompleted
	// TaskRewardClaimed 领奖通知任务
	TaskRewardClaimed = constants.TaskRewardClaimed
)

// StampAddedPayload 盖章通知任务载荷
type StampAddedPayload struct {
	CustomerCardID uint `json:"customer_card_id"`
	CustomerID     uint `json:"customer_id"`
	BusinessID     uint `json:"business_id"`
	NewCount       int  `json:"new_count"`
	TotalSlots     int  `json:"total_slots"`
}

// CardCompletedPayload 集满通知任务载荷
type CardCompletedPayload struct {
	CustomerCardID uint `json:"customer_card_id"`
	CustomerID     uint `json:"customer_id"`
	BusinessID     uint `json:"business_id"`
}

// RewardClaimedPayload 领奖通知任务载荷
type RewardClaimedPayload struct {
	CustomerCardID uint `json:"customer_card_id"`
	CustomerID     uint `json:"customer_id"`
	BusinessID     uint `json:"business_id"`
	RewardID       uint `json:"reward_id"`
}

// NewStampAddedTask 创建盖章通知任务
func NewStampAddedTask(payload StampAddedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStampAdded, body), nil
}

// NewCardCompletedTask 创建集满通知任务
func NewCardCompletedTask(payload CardCompletedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCardCompleted, body), nil
}

// NewRewardClaimedTask 创建领奖通知任务
func NewRewardClaimedTask(payload RewardClaimedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRewardClaimed, body), nil
}
