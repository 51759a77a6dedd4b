package service

import (
	"fmt"
	"math/rand"

	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/repository"
)

// CodeAllocator 卡号分配器
// 在商家范围内为新会员卡分配三位数字卡号：店员人工输入卡号定位顾客，
// 所以卡号必须短、且在同商家未领奖卡中无冲突；不要求全局历史唯一。
type CodeAllocator struct {
	cardRepo repository.CustomerCardRepository
	min      int
	max      int
	attempts int
	randInt  func(n int) int
}

// NewCodeAllocator 创建卡号分配器
func NewCodeAllocator(cardRepo repository.CustomerCardRepository, cfg config.MembershipConfig) *CodeAllocator {
	min := cfg.CodeMin
	max := cfg.CodeMax
	attempts := cfg.CodeMaxAttempts
	if min <= 0 || max <= min {
		min = constants.CardCodeMin
		max = constants.CardCodeMax
	}
	if attempts <= 0 {
		attempts = constants.CardCodeMaxAttempts
	}
	return &CodeAllocator{
		cardRepo: cardRepo,
		min:      min,
		max:      max,
		attempts: attempts,
		randInt:  rand.Intn,
	}
}

// WithRepo 绑定事务内的仓库实例
func (a *CodeAllocator) WithRepo(cardRepo repository.CustomerCardRepository) *CodeAllocator {
	if cardRepo == nil {
		return a
	}
	clone := *a
	clone.cardRepo = cardRepo
	return &clone
}

// Allocate 为某商家分配一个未被占用的卡号
// 有界重试：每次随机取号并做一次范围内占用查询，超出预算返回 ErrCodeExhausted。
func (a *CodeAllocator) Allocate(businessID uint) (string, error) {
	if a == nil || a.cardRepo == nil {
		return "", ErrCodeExhausted
	}
	span := a.max - a.min + 1
	for i := 0; i < a.attempts; i++ {
		code := fmt.Sprintf("%d", a.min+a.randInt(span))
		taken, err := a.cardRepo.CodeTaken(code, businessID)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}
