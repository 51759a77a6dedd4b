package service

import (
	"errors"
	"fmt"
	"strings"
)

// 业务错误定义
// 面向用户的文案由表现层负责，核心只抛类型化错误。
var (
	ErrBusinessNotFound    = errors.New("business not found")
	ErrProgramNotFound     = errors.New("loyalty card not found")
	ErrCardNotFound        = errors.New("customer card not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrAlreadyMember       = errors.New("customer already has an unclaimed card for this loyalty card")
	ErrCodeExhausted       = errors.New("card code allocation attempts exhausted")
	ErrIneligibleClaim     = errors.New("card is not eligible for reward claim")
	ErrCardNotStampable    = errors.New("card is already full or claimed")
	ErrPermissionDenied    = errors.New("caller does not own this resource")
	ErrBusinessInvalid     = errors.New("business payload invalid")
	ErrProgramInvalid      = errors.New("loyalty card payload invalid")
	ErrProgramInactive     = errors.New("loyalty card is not active")
)

// FailedDeletion 级联清理中未能删除的记录
type FailedDeletion struct {
	Collection string // 集合名（stamps/stamp_activities/rewards/customer_cards/loyalty_cards）
	ID         uint   // 记录ID；按外键批删时为所属会员卡ID
	Err        error  // 底层错误
}

// IncompleteDeletionError 级联删除部分失败
// 删除天然幂等，调用方可携带同样参数重试补删。
type IncompleteDeletionError struct {
	Failed []FailedDeletion
}

func (e *IncompleteDeletionError) Error() string {
	if e == nil || len(e.Failed) == 0 {
		return "incomplete deletion"
	}
	parts := make([]string, 0, len(e.Failed))
	for _, item := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s/%d: %v", item.Collection, item.ID, item.Err))
	}
	return "incomplete deletion: " + strings.Join(parts, "; ")
}

// AsIncompleteDeletion 判断并提取级联删除错误
func AsIncompleteDeletion(err error) (*IncompleteDeletionError, bool) {
	var target *IncompleteDeletionError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
