package provider

import (
	"github.com/loyalty-next/internal/cache"
	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/queue"
	"github.com/loyalty-next/internal/repository"
	"github.com/loyalty-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	BusinessRepo      repository.BusinessRepository
	LoyaltyCardRepo   repository.LoyaltyCardRepository
	CustomerCardRepo  repository.CustomerCardRepository
	StampRepo         repository.StampRepository
	StampActivityRepo repository.StampActivityRepository
	RewardRepo        repository.RewardRepository

	// Services
	CodeAllocator       *service.CodeAllocator
	NotificationService *service.NotificationService
	DiscoveryService    *service.DiscoveryService
	BusinessService     *service.BusinessService
	MembershipService   *service.MembershipService
	StampService        *service.StampService
	RewardService       *service.RewardService
	CascadeService      *service.CascadeService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.BusinessRepo = repository.NewBusinessRepository(db)
	c.LoyaltyCardRepo = repository.NewLoyaltyCardRepository(db)
	c.CustomerCardRepo = repository.NewCustomerCardRepository(db)
	c.StampRepo = repository.NewStampRepository(db)
	c.StampActivityRepo = repository.NewStampActivityRepository(db)
	c.RewardRepo = repository.NewRewardRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.CodeAllocator = service.NewCodeAllocator(c.CustomerCardRepo, cfg.Membership)
	c.NotificationService = service.NewNotificationService(c.QueueClient)

	// 发现页服务兼任客户卡片快照的失效通知方
	c.DiscoveryService = service.NewDiscoveryService(
		c.BusinessRepo,
		c.LoyaltyCardRepo,
		c.CustomerCardRepo,
		c.RewardRepo,
		cfg.Discovery,
	)

	c.BusinessService = service.NewBusinessService(c.BusinessRepo, c.LoyaltyCardRepo)
	c.MembershipService = service.NewMembershipService(
		c.CustomerCardRepo,
		c.LoyaltyCardRepo,
		c.BusinessRepo,
		c.UserRepo,
		c.CodeAllocator,
		c.DiscoveryService,
	)
	c.StampService = service.NewStampService(
		c.CustomerCardRepo,
		c.LoyaltyCardRepo,
		c.BusinessRepo,
		c.StampRepo,
		c.StampActivityRepo,
		c.NotificationService,
		c.DiscoveryService,
	)
	c.RewardService = service.NewRewardService(
		c.CustomerCardRepo,
		c.LoyaltyCardRepo,
		c.BusinessRepo,
		c.RewardRepo,
		c.StampActivityRepo,
		c.NotificationService,
		c.DiscoveryService,
	)
	c.CascadeService = service.NewCascadeService(
		c.CustomerCardRepo,
		c.LoyaltyCardRepo,
		c.StampRepo,
		c.StampActivityRepo,
		c.RewardRepo,
		c.DiscoveryService,
	)
}
